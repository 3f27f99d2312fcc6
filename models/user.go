package models

import "time"

// Employee types. The letter prefixed to a raw personal number is derived
// from the employee type when a user is created.
const (
	EmployeeTypeKeva       = 1
	EmployeeTypeMiluim     = 2
	EmployeeTypeSadir      = 3
	EmployeeTypeOvedTzahal = 4
)

// PersonalNumberPrefix returns the prefix letter for an employee type.
// Keva and Sadir share the 's' prefix, Miluim gets 'm', Oved Tzahal gets 'c'.
func PersonalNumberPrefix(employeeType int) (byte, bool) {
	switch employeeType {
	case EmployeeTypeKeva, EmployeeTypeSadir:
		return 's', true
	case EmployeeTypeMiluim:
		return 'm', true
	case EmployeeTypeOvedTzahal:
		return 'c', true
	}
	return 0, false
}

// User is a tracked person. Rows are never hard-deleted: delete flips
// is_deleted, and creating a user with the personal number of a deleted
// row revives that row in place.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"size:255"`
	PersonalNumber string    `json:"personal_number,omitempty" gorm:"uniqueIndex;size:20"`
	PhoneNumber    string    `json:"phone_number,omitempty" gorm:"size:20"`
	Email          string    `json:"email,omitempty" gorm:"size:100"`
	EmployeeType   int       `json:"employee_type"`
	PermissionID   *uint     `json:"-" gorm:"index"`
	RememberToken  string    `json:"-" gorm:"size:100"`
	IsDeleted      bool      `json:"-" gorm:"default:false;index"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`

	Permission *Permission `json:"permission,omitempty" gorm:"foreignKey:PermissionID"`
}

// TableName sets the table name
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user's resolved permission is the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Permission != nil && u.Permission.PermissionName == PermissionAdmin
}
