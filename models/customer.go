package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer aggregates buyer identity and running statistics across the
// orders of one account. Stats are updated exactly once per newly-created
// order so that re-syncing a known order never double-counts.
type Customer struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	Email        string         `gorm:"index" json:"email"`
	Name         string         `json:"name"`
	OrderCount   int            `gorm:"default:0" json:"order_count"`
	TotalSpend   float64        `gorm:"default:0" json:"total_spend"`
	FirstOrderAt *time.Time     `json:"first_order_at,omitempty"`
	LastOrderAt  *time.Time     `json:"last_order_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
