package models

import (
	"time"

	"gorm.io/gorm"
)

// Order status values mapped from the Etsy receipt vocabulary.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusPaid      = "PAID"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCanceled  = "CANCELED"
	OrderStatusRefunded  = "REFUNDED"
	OrderStatusShipped   = "SHIPPED"
)

// Production status values. This is the physical fulfillment state of an
// order, separate from its payment/shipping status.
const (
	ProductionQueued   = "QUEUED"
	ProductionPrinting = "PRINTING"
	ProductionPrinted  = "PRINTED"
	ProductionShipped  = "SHIPPED"
	ProductionFailed   = "FAILED"
)

// IsValidProductionStatus reports whether s is one of the five closed
// production status values.
func IsValidProductionStatus(s string) bool {
	switch s {
	case ProductionQueued, ProductionPrinting, ProductionPrinted, ProductionShipped, ProductionFailed:
		return true
	}
	return false
}

// Order represents an Etsy order synced into local state. EtsyOrderID is
// the idempotency key: one row per distinct receipt, updated on re-sync.
type Order struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	EtsyOrderID string    `gorm:"uniqueIndex;not null" json:"etsy_order_id"`
	EtsyShopID  string    `gorm:"not null" json:"etsy_shop_id"`
	BuyerEmail  string    `json:"buyer_email"`
	BuyerName   string    `json:"buyer_name"`
	TotalAmount float64   `json:"total_amount"`
	Currency    string    `json:"currency"`
	Status      string    `gorm:"not null;default:'PENDING'" json:"status"`
	CustomerID  *uint     `gorm:"index" json:"customer_id,omitempty"`
	Customer    *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	PrinterID   *uint     `gorm:"index" json:"printer_id,omitempty"`
	Printer     *Printer  `gorm:"foreignKey:PrinterID" json:"printer,omitempty"`

	// Filament tracking
	FilamentAssigned  bool    `gorm:"default:false" json:"filament_assigned"`
	TotalFilamentUsed float64 `gorm:"default:0" json:"total_filament_used"` // grams

	// Production tracking
	ProductionStatus   string     `gorm:"not null;default:'QUEUED'" json:"production_status"`
	PrintStartedAt     *time.Time `json:"print_started_at,omitempty"`
	PrintCompletedAt   *time.Time `json:"print_completed_at,omitempty"`
	ActualPrintMinutes *int       `json:"actual_print_minutes,omitempty"`
	PrintFailures      int        `gorm:"default:0" json:"print_failures"`
	ProductionNote     *string    `json:"production_note,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`

	OrderedAt     time.Time      `json:"ordered_at"`      // receipt creation time at the source
	SourceUpdated time.Time      `json:"source_updated"`  // receipt update time at the source
	ShippedAt     *time.Time     `json:"shipped_at,omitempty"`
	SyncedAt      time.Time      `json:"synced_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem represents one line item within a synced order. Items are
// created once at order creation time and are immutable thereafter.
type OrderItem struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	OrderID       uint    `gorm:"not null;index" json:"order_id"`
	EtsyListingID string  `json:"etsy_listing_id"`
	Title         string  `gorm:"not null" json:"title"`
	Quantity      int     `gorm:"default:1" json:"quantity"`
	Price         float64 `json:"price"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
