package services

import (
	"time"

	"github.com/printworks/printworks-api/models"
	"gorm.io/gorm"
)

// ResolveCustomer finds or creates the customer a receipt belongs to,
// scoped to one account. Resolution order: case-insensitive email match,
// then exact name match, then create.
//
// Aggregates (order count, spend, first/last order window) are updated
// only when newOrder is true, so they fire at most once per distinct
// order. The newOrder=false path exists for linking a customer onto an
// already-known order that never got one.
func ResolveCustomer(tx *gorm.DB, userID uint, receipt EtsyReceipt, newOrder bool) (*models.Customer, error) {
	orderedAt := time.Unix(receipt.CreateTimestamp, 0).UTC()

	var customer models.Customer
	found := false

	if receipt.BuyerEmail != "" {
		err := tx.Where("user_id = ? AND LOWER(email) = LOWER(?)", userID, receipt.BuyerEmail).
			First(&customer).Error
		if err == nil {
			found = true
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	if !found && receipt.Name != "" {
		err := tx.Where("user_id = ? AND name = ?", userID, receipt.Name).
			First(&customer).Error
		if err == nil {
			found = true
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	if !found {
		customer = models.Customer{
			UserID: userID,
			Email:  receipt.BuyerEmail,
			Name:   receipt.Name,
		}
		if newOrder {
			customer.OrderCount = 1
			customer.TotalSpend = receipt.Grandtotal.Dollars()
			customer.FirstOrderAt = &orderedAt
			customer.LastOrderAt = &orderedAt
		}
		if err := tx.Create(&customer).Error; err != nil {
			return nil, err
		}
		return &customer, nil
	}

	if newOrder {
		customer.OrderCount++
		customer.TotalSpend += receipt.Grandtotal.Dollars()
		// Extend the order window, never overwrite it
		if customer.FirstOrderAt == nil || orderedAt.Before(*customer.FirstOrderAt) {
			customer.FirstOrderAt = &orderedAt
		}
		if customer.LastOrderAt == nil || orderedAt.After(*customer.LastOrderAt) {
			customer.LastOrderAt = &orderedAt
		}
		if err := tx.Save(&customer).Error; err != nil {
			return nil, err
		}
	}

	return &customer, nil
}
