package models

import "time"

// AccessToken is the persisted record of an issued bearer token, keyed by
// the token's jti claim. Login revokes every live token of the user before
// issuing a new one; logout revokes the presented token only.
type AccessToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	TokenID   string    `json:"-" gorm:"uniqueIndex;size:64;not null"`
	Revoked   bool      `json:"revoked" gorm:"default:false;index"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name
func (AccessToken) TableName() string {
	return "access_tokens"
}
