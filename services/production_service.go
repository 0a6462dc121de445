package services

import (
	"errors"
	"time"

	"github.com/printworks/printworks-api/models"
	"gorm.io/gorm"
)

// ProductionService drives the order production-status state machine:
// QUEUED → PRINTING → PRINTED → SHIPPED, with FAILED reachable from any
// in-progress state.
type ProductionService struct {
	db *gorm.DB
}

// NewProductionService creates a ProductionService.
func NewProductionService(db *gorm.DB) *ProductionService {
	return &ProductionService{db: db}
}

// UpdateStatus transitions an order's production status. Timestamps are
// recorded once and never overwritten by duplicate transitions; the
// actual print duration is computed in whole minutes only when a start
// timestamp exists. A FAILED transition increments the failure counter
// and leaves all timestamps alone. Notes replace any prior note verbatim.
func (s *ProductionService) UpdateStatus(user *models.User, orderID uint, status string, note *string) (*models.Order, error) {
	if !models.IsValidProductionStatus(status) {
		return nil, ErrInvalidStatus
	}

	var order models.Order
	if err := s.db.Where("id = ? AND user_id = ?", orderID, user.ID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()

	switch status {
	case models.ProductionPrinting:
		if order.PrintStartedAt == nil {
			order.PrintStartedAt = &now
		}
	case models.ProductionPrinted:
		if order.PrintCompletedAt == nil {
			order.PrintCompletedAt = &now
			if order.PrintStartedAt != nil {
				minutes := int(now.Sub(*order.PrintStartedAt).Minutes())
				order.ActualPrintMinutes = &minutes
			}
		}
	case models.ProductionFailed:
		order.PrintFailures++
	}

	order.ProductionStatus = status
	if note != nil {
		order.ProductionNote = note
	}

	if err := s.db.Save(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}
