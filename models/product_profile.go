package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductProfile is a production template keyed by product title. It
// drives filament auto-assignment (grams per unit, preferred lot) and
// print scheduling (duration and machine parameters).
type ProductProfile struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	UserID            uint           `gorm:"not null;index" json:"user_id"`
	Title             string         `gorm:"not null" json:"title"`
	GramsPerUnit      float64        `gorm:"not null" json:"grams_per_unit"`
	PreferredMaterial string         `json:"preferred_material"`
	PreferredColor    string         `json:"preferred_color"`
	EstimatedMinutes  int            `json:"estimated_minutes"`
	NozzleTemp        int            `json:"nozzle_temp"` // °C
	BedTemp           int            `json:"bed_temp"`    // °C
	PrintSpeed        int            `json:"print_speed"` // mm/s
	ModelS3Key        *string        `json:"model_s3_key,omitempty"`
	ModelURL          *string        `gorm:"-" json:"model_url,omitempty"` // computed, presigned URL for the model file
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the ProductProfile model
func (ProductProfile) TableName() string {
	return "product_profiles"
}
