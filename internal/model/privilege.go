package model

// Privilege is a single permission checked by the route middleware.
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g. "stock:out"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View Users"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Product management
	{Code: "product:view", Name: "View Products"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:delete", Name: "Delete Product"},
	// Category management
	{Code: "category:view", Name: "View Categories"},
	{Code: "category:create", Name: "Create Category"},
	{Code: "category:update", Name: "Update Category"},
	{Code: "category:delete", Name: "Delete Category"},
	// Stock mutations and history
	{Code: "stock:in", Name: "Record Stock-In"},
	{Code: "stock:out", Name: "Record Stock-Out"},
	{Code: "transaction:view", Name: "View Transactions"},
	// Alerts and dashboard
	{Code: "alert:view", Name: "View Stock Alerts"},
	{Code: "dashboard:view", Name: "View Dashboard"},
}

// StaffPrivilegeCodes is the subset granted to the STAFF role.
var StaffPrivilegeCodes = []string{
	"product:view",
	"stock:out",
	"transaction:view",
	"alert:view",
	"dashboard:view",
}
