package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account that owns shop data. It links the Auth0
// identity to the Etsy seller account whose orders get synced.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Auth0ID        string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	EtsyUserID     string         `gorm:"uniqueIndex" json:"etsy_user_id"`
	ShopID         string         `json:"shop_id"`
	AccessToken    string         `json:"-"` // Etsy API token, stored opaquely
	RefreshToken   string         `json:"-"`
	TokenExpiresAt *time.Time     `json:"token_expires_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
