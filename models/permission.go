package models

import "time"

// Permission names used by the authorization gate.
const (
	PermissionAdmin  = "admin"
	PermissionUser   = "user"
	PermissionClient = "client"
)

// Permission is static reference data seeded at startup. Authorization
// decisions use PermissionName; CodePermission is the wire identifier
// clients submit when assigning a permission.
type Permission struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	CodePermission int       `json:"code_permission,omitempty" gorm:"uniqueIndex"`
	PermissionName string    `json:"permission_name" gorm:"size:50"`
	IsDeleted      bool      `json:"-" gorm:"default:false;index"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

// TableName sets the table name
func (Permission) TableName() string {
	return "permissions"
}
