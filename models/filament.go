package models

import (
	"time"

	"gorm.io/gorm"
)

// Filament is one tracked lot of printing material. CurrentAmount never
// goes negative: allocation checks happen before any decrement and the
// manual-usage path floors at zero.
type Filament struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	Color         string         `gorm:"not null" json:"color"`
	Material      string         `gorm:"not null" json:"material"` // PLA, ABS, PETG, etc.
	InitialAmount float64        `gorm:"not null" json:"initial_amount"` // grams
	CurrentAmount float64        `gorm:"not null" json:"current_amount"` // grams
	Unit          string         `gorm:"default:'g'" json:"unit"`
	CostPerGram   *float64       `json:"cost_per_gram,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Filament model
func (Filament) TableName() string {
	return "filaments"
}

// UsedAmount returns how much of the lot has been consumed so far.
func (f *Filament) UsedAmount() float64 {
	return f.InitialAmount - f.CurrentAmount
}

// FilamentUsage is an append-only audit record of one consumption event,
// optionally tied to the order it was consumed for.
type FilamentUsage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FilamentID  uint      `gorm:"not null;index" json:"filament_id"`
	OrderID     *uint     `gorm:"index" json:"order_id,omitempty"`
	AmountUsed  float64   `gorm:"not null" json:"amount_used"` // grams
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for the FilamentUsage model
func (FilamentUsage) TableName() string {
	return "filament_usage"
}
