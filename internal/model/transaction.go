package model

import "github.com/google/uuid"

type TransactionType string

const (
	TxIn  TransactionType = "IN"
	TxOut TransactionType = "OUT"
)

// Transaction is the persisted audit record of one accepted stock mutation.
// Supplier and PurchasePrice are set on stock-in, Reason on stock-out.
type Transaction struct {
	BaseModel
	ProductID uuid.UUID       `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	Product   Product         `json:"product" validate:"-"`
	Type      TransactionType `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=IN OUT"`
	Quantity  int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`

	Supplier      string `gorm:"type:varchar(255)" json:"supplier,omitempty"`
	PurchasePrice int64  `gorm:"default:0" json:"purchase_price,omitempty"` // per unit, minor units
	Reason        string `gorm:"type:varchar(30)" json:"reason,omitempty"`

	// TotalAmount snapshots price * quantity at the time of the transaction:
	// purchase cost for IN, outbound value for OUT.
	TotalAmount int64 `gorm:"not null" json:"total_amount"`
	// StockAfter snapshots the product stock that resulted from this mutation.
	StockAfter int    `gorm:"not null" json:"stock_after"`
	Note       string `json:"note"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
}
