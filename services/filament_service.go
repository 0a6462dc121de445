package services

import (
	"errors"
	"fmt"

	"github.com/printworks/printworks-api/models"
	"gorm.io/gorm"
)

// Assignment describes one successful filament allocation.
type Assignment struct {
	OrderItemID uint    `json:"order_item_id"`
	ItemTitle   string  `json:"item_title"`
	ProfileID   uint    `json:"profile_id"`
	FilamentID  uint    `json:"filament_id"`
	AmountUsed  float64 `json:"amount_used"` // grams
}

// AssignResult reports the outcome of one auto-assignment call.
type AssignResult struct {
	Success       bool         `json:"success"`
	TotalAssigned float64      `json:"total_assigned"`
	Assignments   []Assignment `json:"assignments"`
	Message       string       `json:"message"`
}

// FilamentService allocates filament stock against order demand.
type FilamentService struct {
	db      *gorm.DB
	matcher ProfileMatcher
}

// NewFilamentService creates a FilamentService with the default
// exact-then-substring profile matcher.
func NewFilamentService(db *gorm.DB) *FilamentService {
	return &FilamentService{db: db, matcher: FallbackMatcher{}}
}

// AutoAssign matches each line item of an order to a product profile and
// a filament lot, consuming stock and recording a usage audit row per
// item. Items with no matching profile or insufficient stock are skipped
// silently; the call as a whole fails (non-fatally) only when nothing
// could be assigned.
//
// On any success the order's total_filament_used is set to the sum
// allocated in THIS call, replacing any prior value. The manual
// RecordUsage path accumulates instead.
func (s *FilamentService) AutoAssign(user *models.User, orderID uint) (*AssignResult, error) {
	var order models.Order
	if err := s.db.Preload("Items").
		Where("id = ? AND user_id = ?", orderID, user.ID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	// Ordered by title so the substring fallback is deterministic.
	var profiles []models.ProductProfile
	if err := s.db.Where("user_id = ?", user.ID).
		Order("title ASC").
		Find(&profiles).Error; err != nil {
		return nil, err
	}

	result := &AssignResult{Assignments: []Assignment{}}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			profile := s.matcher.Match(item.Title, profiles)
			if profile == nil {
				logger.Debug().Str("title", item.Title).Msg("no product profile matched, skipping item")
				continue
			}

			required := profile.GramsPerUnit * float64(item.Quantity)

			lot, err := s.resolveLot(tx, user.ID, profile, required)
			if err != nil {
				return err
			}
			if lot == nil || lot.CurrentAmount < required {
				logger.Debug().Str("title", item.Title).Float64("required", required).Msg("insufficient filament, skipping item")
				continue
			}

			// Conditional decrement: the row-level guard keeps the lot
			// from going negative when allocations race.
			res := tx.Model(&models.Filament{}).
				Where("id = ? AND current_amount >= ?", lot.ID, required).
				Update("current_amount", gorm.Expr("current_amount - ?", required))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				continue
			}

			description := fmt.Sprintf("Auto-assigned for %q (x%d)", item.Title, item.Quantity)
			usage := models.FilamentUsage{
				FilamentID:  lot.ID,
				OrderID:     &order.ID,
				AmountUsed:  required,
				Description: &description,
			}
			if err := tx.Create(&usage).Error; err != nil {
				return err
			}

			result.Assignments = append(result.Assignments, Assignment{
				OrderItemID: item.ID,
				ItemTitle:   item.Title,
				ProfileID:   profile.ID,
				FilamentID:  lot.ID,
				AmountUsed:  required,
			})
			result.TotalAssigned += required
		}

		if len(result.Assignments) == 0 {
			return nil
		}

		// Overwrite, not accumulate: the aggregate reflects this call.
		return tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"total_filament_used": result.TotalAssigned,
				"filament_assigned":   true,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	if len(result.Assignments) == 0 {
		result.Success = false
		result.Message = "No filament could be assigned to this order"
		return result, nil
	}

	result.Success = true
	result.Message = fmt.Sprintf("Assigned %.1fg of filament across %d items", result.TotalAssigned, len(result.Assignments))
	return result, nil
}

// resolveLot picks the filament lot for a profile: first any lot of the
// preferred material and color, else any lot of the material with enough
// stock. Returns nil when no candidate exists.
func (s *FilamentService) resolveLot(tx *gorm.DB, userID uint, profile *models.ProductProfile, required float64) (*models.Filament, error) {
	var lot models.Filament

	err := tx.Where("user_id = ? AND material = ? AND color = ?",
		userID, profile.PreferredMaterial, profile.PreferredColor).
		Order("id ASC").
		First(&lot).Error
	if err == nil {
		return &lot, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = tx.Where("user_id = ? AND material = ? AND current_amount >= ?",
		userID, profile.PreferredMaterial, required).
		Order("id ASC").
		First(&lot).Error
	if err == nil {
		return &lot, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return nil, nil
}

// RecordUsage is the single-item entry path used when the lot and order
// are already known. It decrements with a floor at zero, appends the
// audit record, and ADDS to the order's filament total (unlike
// AutoAssign, which overwrites it).
func (s *FilamentService) RecordUsage(user *models.User, filamentID uint, orderID *uint, amount float64, description *string) (*models.FilamentUsage, *models.Filament, error) {
	var filament models.Filament
	if err := s.db.Where("id = ? AND user_id = ?", filamentID, user.ID).
		First(&filament).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrFilamentNotFound
		}
		return nil, nil, err
	}

	if orderID != nil {
		var order models.Order
		if err := s.db.Where("id = ? AND user_id = ?", *orderID, user.ID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, ErrOrderNotFound
			}
			return nil, nil, err
		}
	}

	usage := models.FilamentUsage{
		FilamentID:  filament.ID,
		OrderID:     orderID,
		AmountUsed:  amount,
		Description: description,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&usage).Error; err != nil {
			return err
		}

		filament.CurrentAmount -= amount
		if filament.CurrentAmount < 0 {
			filament.CurrentAmount = 0
		}
		if err := tx.Save(&filament).Error; err != nil {
			return err
		}

		if orderID != nil {
			return tx.Model(&models.Order{}).
				Where("id = ?", *orderID).
				Updates(map[string]interface{}{
					"total_filament_used": gorm.Expr("total_filament_used + ?", amount),
					"filament_assigned":   true,
				}).Error
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &usage, &filament, nil
}
