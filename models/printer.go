package models

import (
	"time"

	"gorm.io/gorm"
)

// Printer is a physical machine that scheduled prints are bound to.
type Printer struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	Name         string         `gorm:"not null" json:"name"`
	Model        string         `json:"model"`
	SerialNumber string         `json:"serial_number"`
	StatusURL    *string        `json:"status_url,omitempty"` // local control API endpoint, polled by the status proxy
	Active       bool           `gorm:"default:true" json:"active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Printer model
func (Printer) TableName() string {
	return "printers"
}
