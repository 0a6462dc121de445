package services

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/printworks/printworks-api/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// syncWindowMonths is the default trailing window for a sync pass.
const syncWindowMonths = 6

// statusTable maps the Etsy receipt status vocabulary onto the local one.
// Unknown source statuses map to PENDING.
var statusTable = map[string]string{
	"open":      models.OrderStatusPending,
	"paid":      models.OrderStatusPaid,
	"completed": models.OrderStatusCompleted,
	"canceled":  models.OrderStatusCanceled,
	"cancelled": models.OrderStatusCanceled,
}

// MapReceiptStatus maps a receipt onto the local status vocabulary.
// Overrides apply after the table lookup, refund first: a refunded
// receipt is REFUNDED even when it was also shipped.
func MapReceiptStatus(r EtsyReceipt) string {
	status, ok := statusTable[strings.ToLower(r.Status)]
	if !ok {
		status = models.OrderStatusPending
	}

	if r.WasRefunded {
		return models.OrderStatusRefunded
	}
	if r.WasShipped && status == models.OrderStatusPaid {
		return models.OrderStatusShipped
	}
	return status
}

// SyncResult reports the outcome of one sync pass.
type SyncResult struct {
	Success        bool   `json:"success"`
	TotalReceipts  int    `json:"total_receipts"`
	NewOrdersSaved int    `json:"new_orders_saved"`
	UpdatedOrders  int    `json:"updated_orders"`
	Message        string `json:"message"`
}

// receiptSource is the upstream surface SyncService needs. *EtsyClient
// satisfies it; tests substitute an httptest-backed client.
type receiptSource interface {
	FetchPaidReceipts(shopID string, minCreated, maxCreated int64) ([]EtsyReceipt, error)
	ListTransactions(shopID, receiptID string) ([]EtsyTransaction, error)
}

// SyncService reconciles Etsy receipts into local orders.
type SyncService struct {
	db   *gorm.DB
	etsy receiptSource
}

// NewSyncService creates a SyncService for one account's receipt source.
func NewSyncService(db *gorm.DB, etsy receiptSource) *SyncService {
	return &SyncService{db: db, etsy: etsy}
}

// SyncOrders fetches all paid receipts in the trailing window and
// reconciles each into exactly one order, committing the whole batch in
// one transaction. Upstream fetch failures and persistence failures are
// reported as a structured failure result, never a panic or partial
// commit.
func (s *SyncService) SyncOrders(user *models.User, months int) *SyncResult {
	if months <= 0 {
		months = syncWindowMonths
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -months*30)

	receipts, err := s.etsy.FetchPaidReceipts(user.ShopID, start.Unix(), end.Unix())
	if err != nil {
		logger.Error().Err(err).Str("shop_id", user.ShopID).Msg("receipt fetch failed")
		return &SyncResult{
			Success: false,
			Message: "Failed to fetch receipts from Etsy",
		}
	}

	saved := 0
	updated := 0

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, receipt := range receipts {
			created, err := s.reconcileReceipt(tx, user, receipt)
			if err != nil {
				return err
			}
			if created {
				saved++
			} else {
				updated++
			}
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("order reconciliation rolled back")
		return &SyncResult{
			Success:       false,
			TotalReceipts: len(receipts),
			Message:       "Failed to save synced orders",
		}
	}

	return &SyncResult{
		Success:        true,
		TotalReceipts:  len(receipts),
		NewOrdersSaved: saved,
		UpdatedOrders:  updated,
		Message:        fmt.Sprintf("Successfully synced %d new orders and updated %d existing orders", saved, updated),
	}
}

// reconcileReceipt upserts one order keyed by the external receipt
// identifier. Existing orders get mutable fields only; new orders also
// get their line items and a resolved customer.
func (s *SyncService) reconcileReceipt(tx *gorm.DB, user *models.User, receipt EtsyReceipt) (bool, error) {
	now := time.Now().UTC()
	status := MapReceiptStatus(receipt)

	var order models.Order
	err := tx.Where("etsy_order_id = ?", receipt.ExternalID()).First(&order).Error
	if err == nil {
		order.Status = status
		order.SourceUpdated = time.Unix(receipt.UpdateTimestamp, 0).UTC()
		if receipt.ShippedTimestamp > 0 {
			shippedAt := time.Unix(receipt.ShippedTimestamp, 0).UTC()
			order.ShippedAt = &shippedAt
		}
		if order.CustomerID == nil {
			customer, err := ResolveCustomer(tx, user.ID, receipt, false)
			if err != nil {
				return false, err
			}
			order.CustomerID = &customer.ID
		}
		order.SyncedAt = now

		if err := tx.Save(&order).Error; err != nil {
			return false, err
		}
		return false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return false, err
	}

	customer, err := ResolveCustomer(tx, user.ID, receipt, true)
	if err != nil {
		return false, err
	}

	order = models.Order{
		UserID:        user.ID,
		EtsyOrderID:   receipt.ExternalID(),
		EtsyShopID:    user.ShopID,
		BuyerEmail:    receipt.BuyerEmail,
		BuyerName:     receipt.Name,
		TotalAmount:   receipt.Grandtotal.Dollars(),
		Currency:      receipt.Grandtotal.CurrencyCode,
		Status:        status,
		CustomerID:    &customer.ID,
		OrderedAt:     time.Unix(receipt.CreateTimestamp, 0).UTC(),
		SourceUpdated: time.Unix(receipt.UpdateTimestamp, 0).UTC(),
		SyncedAt:      now,
	}
	if receipt.ShippedTimestamp > 0 {
		shippedAt := time.Unix(receipt.ShippedTimestamp, 0).UTC()
		order.ShippedAt = &shippedAt
	}

	// A failed line-item fetch degrades to an order with zero items
	// instead of aborting the batch.
	transactions, err := s.etsy.ListTransactions(user.ShopID, receipt.ExternalID())
	if err != nil {
		logger.Warn().Err(err).Str("receipt_id", receipt.ExternalID()).Msg("line-item fetch failed, saving order without items")
	} else {
		for _, txn := range transactions {
			order.Items = append(order.Items, models.OrderItem{
				EtsyListingID: fmt.Sprintf("%d", txn.ListingID),
				Title:         txn.Title,
				Quantity:      txn.Quantity,
				Price:         txn.Price.Dollars(),
			})
		}
	}

	if err := tx.Create(&order).Error; err != nil {
		return false, err
	}
	return true, nil
}
