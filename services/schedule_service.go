package services

import (
	"errors"
	"time"

	"github.com/printworks/printworks-api/models"
	"gorm.io/gorm"
)

// Scheduling constants. Jobs are chained back to back with a fixed
// changeover buffer; priorities count down from the top of the scale.
const (
	chainBufferMinutes      = 15
	topPriority             = 10
	defaultEstimatedMinutes = 120
	defaultMaterial         = "PLA"
	defaultNozzleTemp       = 210
	defaultBedTemp          = 60
	defaultPrintSpeed       = 100
)

// ScheduleService expands orders into scheduled prints and serves the
// operator production queue.
type ScheduleService struct {
	db      *gorm.DB
	matcher ProfileMatcher
}

// NewScheduleService creates a ScheduleService with the default profile
// matcher.
func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{db: db, matcher: FallbackMatcher{}}
}

// SchedulePrints creates one queued job per order line item on the given
// printer. The first job starts now+delay; each subsequent job starts
// when the previous one is estimated to finish plus the changeover
// buffer. Priority starts at the top of the scale for the first item and
// decreases by one per item, floored at 1. Parameters come from the
// matching product profile, or defaults when no profile matches.
func (s *ScheduleService) SchedulePrints(user *models.User, orderID, printerID uint, materialOverride string, delayMinutes int) ([]models.ScheduledPrint, error) {
	var order models.Order
	if err := s.db.Preload("Items").
		Where("id = ? AND user_id = ?", orderID, user.ID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if len(order.Items) == 0 {
		return nil, ErrNoItems
	}

	var printer models.Printer
	if err := s.db.Where("id = ? AND user_id = ?", printerID, user.ID).
		First(&printer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrinterNotFound
		}
		return nil, err
	}

	var profiles []models.ProductProfile
	if err := s.db.Where("user_id = ?", user.ID).
		Order("title ASC").
		Find(&profiles).Error; err != nil {
		return nil, err
	}

	start := time.Now().UTC().Add(time.Duration(delayMinutes) * time.Minute)
	prints := make([]models.ScheduledPrint, 0, len(order.Items))

	for i, item := range order.Items {
		estimated := defaultEstimatedMinutes
		material := defaultMaterial
		nozzle := defaultNozzleTemp
		bed := defaultBedTemp
		speed := defaultPrintSpeed

		if profile := s.matcher.Match(item.Title, profiles); profile != nil {
			if profile.EstimatedMinutes > 0 {
				estimated = profile.EstimatedMinutes
			}
			if profile.PreferredMaterial != "" {
				material = profile.PreferredMaterial
			}
			if profile.NozzleTemp > 0 {
				nozzle = profile.NozzleTemp
			}
			if profile.BedTemp > 0 {
				bed = profile.BedTemp
			}
			if profile.PrintSpeed > 0 {
				speed = profile.PrintSpeed
			}
		}
		if materialOverride != "" {
			material = materialOverride
		}

		priority := topPriority - i
		if priority < 1 {
			priority = 1
		}

		scheduledAt := start
		prints = append(prints, models.ScheduledPrint{
			UserID:           user.ID,
			OrderID:          order.ID,
			OrderItemID:      item.ID,
			PrinterID:        printer.ID,
			Title:            item.Title,
			Status:           models.PrintQueued,
			ScheduledAt:      &scheduledAt,
			EstimatedMinutes: estimated,
			Priority:         priority,
			Material:         material,
			NozzleTemp:       nozzle,
			BedTemp:          bed,
			PrintSpeed:       speed,
		})

		start = start.Add(time.Duration(estimated+chainBufferMinutes) * time.Minute)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&prints).Error; err != nil {
			return err
		}
		return tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("printer_id", printer.ID).Error
	})
	if err != nil {
		return nil, err
	}

	return prints, nil
}

// ProductionQueue returns the account's pending jobs for operator
// consumption, highest priority first and oldest first within a priority.
func (s *ScheduleService) ProductionQueue(user *models.User) ([]models.ScheduledPrint, error) {
	var prints []models.ScheduledPrint
	err := s.db.Where("user_id = ? AND status IN ?", user.ID,
		[]string{models.PrintQueued, models.PrintScheduled, models.PrintStarted}).
		Preload("Printer").
		Order("priority DESC, created_at ASC").
		Find(&prints).Error
	if err != nil {
		return nil, err
	}
	return prints, nil
}

// UpdatePrintStatus moves one job through its lifecycle, stamping actual
// start/completion times and recording a failure reason when given.
func (s *ScheduleService) UpdatePrintStatus(user *models.User, printID uint, status string, failureReason *string) (*models.ScheduledPrint, error) {
	if !models.IsValidPrintStatus(status) {
		return nil, ErrInvalidStatus
	}

	var print models.ScheduledPrint
	if err := s.db.Where("id = ? AND user_id = ?", printID, user.ID).
		First(&print).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrintNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	print.Status = status

	switch status {
	case models.PrintStarted:
		if print.StartedAt == nil {
			print.StartedAt = &now
		}
	case models.PrintCompleted:
		if print.CompletedAt == nil {
			print.CompletedAt = &now
		}
	case models.PrintFailed:
		print.FailureReason = failureReason
	}

	if err := s.db.Save(&print).Error; err != nil {
		return nil, err
	}
	return &print, nil
}
