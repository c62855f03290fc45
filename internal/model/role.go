package model

// Role is a named bundle of privileges assignable to users.
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // ADMIN, STAFF
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Full access to inventory, users, and alerts",
	},
	{
		Code:        RoleStaff,
		Name:        "Staff",
		Description: "Day-to-day access: browse inventory, record stock-out, view alerts",
	},
}
