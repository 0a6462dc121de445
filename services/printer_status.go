package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/printworks/printworks-api/config"
	"github.com/printworks/printworks-api/models"
	"gorm.io/gorm"
)

// printerStatusTTL bounds how stale a cached printer status can get.
const printerStatusTTL = 30 * time.Second

// PrinterStatusService is a thin read-through proxy over a printer's
// local control API. Responses are cached in Redis when it is configured.
type PrinterStatusService struct {
	db         *gorm.DB
	httpClient *http.Client
}

// NewPrinterStatusService creates a PrinterStatusService.
func NewPrinterStatusService(db *gorm.DB) *PrinterStatusService {
	return &PrinterStatusService{
		db: db,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Status polls one printer's status endpoint, serving from cache when a
// fresh entry exists. Printers without a configured endpoint report as
// unconfigured rather than erroring.
func (s *PrinterStatusService) Status(user *models.User, printerID uint) (map[string]interface{}, error) {
	var printer models.Printer
	if err := s.db.Where("id = ? AND user_id = ?", printerID, user.ID).
		First(&printer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrinterNotFound
		}
		return nil, err
	}

	if printer.StatusURL == nil || *printer.StatusURL == "" {
		return map[string]interface{}{"status": "unconfigured"}, nil
	}

	cacheKey := fmt.Sprintf("printer_status:%d", printer.ID)
	ctx := context.Background()

	if rdb := config.GetRedis(); rdb != nil {
		if data, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var status map[string]interface{}
			if json.Unmarshal([]byte(data), &status) == nil {
				return status, nil
			}
		}
	}

	resp, err := s.httpClient.Get(*printer.StatusURL)
	if err != nil {
		return nil, fmt.Errorf("printer status poll failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			_ = closeErr
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("printer status endpoint returned status %d", resp.StatusCode)
	}

	var status map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode printer status: %w", err)
	}

	if rdb := config.GetRedis(); rdb != nil {
		if data, err := json.Marshal(status); err == nil {
			rdb.Set(ctx, cacheKey, data, printerStatusTTL)
		}
	}

	return status, nil
}
