package model

import "github.com/google/uuid"

// Product is an inventory item. Stock is only ever changed through a
// validated stock-in/stock-out transaction, never by a plain update.
type Product struct {
	BaseModel
	SKU  string `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	// Stock in whole units, never negative.
	Stock int    `gorm:"default:0" json:"stock" validate:"gte=0"`
	Unit  string `gorm:"type:varchar(20)" json:"unit"`
	// Price per single unit in minor currency units.
	Price int64 `gorm:"default:0" json:"price" validate:"gte=0"`
	// LowStockThreshold of 0 means "use the policy default".
	LowStockThreshold int `gorm:"default:0" json:"low_stock_threshold" validate:"gte=0"`

	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category   *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty" validate:"-"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *string `gorm:"type:varchar(255)" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
	UpdatedByUser   *User   `gorm:"foreignKey:UpdatedByUserID;references:ID" json:"updated_by_user,omitempty"`

	Transactions []Transaction `json:"transactions,omitempty"`
}

// CategoryName returns the category display name, or "" when uncategorized.
func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}
