package models

import (
	"time"

	"gorm.io/gorm"
)

// Scheduled print status values. Higher-priority jobs print sooner.
const (
	PrintQueued    = "queued"
	PrintScheduled = "scheduled"
	PrintStarted   = "started"
	PrintCompleted = "completed"
	PrintFailed    = "failed"
	PrintCancelled = "cancelled"
)

// IsValidPrintStatus reports whether s is a known scheduled-print status.
func IsValidPrintStatus(s string) bool {
	switch s {
	case PrintQueued, PrintScheduled, PrintStarted, PrintCompleted, PrintFailed, PrintCancelled:
		return true
	}
	return false
}

// ScheduledPrint is one production job derived from an order line item,
// bound to a printer and a time slot.
type ScheduledPrint struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"not null;index" json:"user_id"`
	OrderID          uint       `gorm:"not null;index" json:"order_id"`
	OrderItemID      uint       `gorm:"index" json:"order_item_id"`
	PrinterID        uint       `gorm:"not null;index" json:"printer_id"`
	Printer          *Printer   `gorm:"foreignKey:PrinterID" json:"printer,omitempty"`
	Title            string     `json:"title"` // line-item title, for the operator queue
	Status           string     `gorm:"not null;default:'queued'" json:"status"`
	ScheduledAt      *time.Time `json:"scheduled_at,omitempty"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	Priority         int        `gorm:"default:1" json:"priority"`
	FailureReason    *string    `json:"failure_reason,omitempty"`

	// Machine parameters, from the matching product profile or defaults.
	Material   string `json:"material"`
	NozzleTemp int    `json:"nozzle_temp"`
	BedTemp    int    `json:"bed_temp"`
	PrintSpeed int    `json:"print_speed"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the ScheduledPrint model
func (ScheduledPrint) TableName() string {
	return "scheduled_prints"
}
