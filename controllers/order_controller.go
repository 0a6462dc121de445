package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printworks/printworks-api/config"
	"github.com/printworks/printworks-api/models"
	"github.com/printworks/printworks-api/services"
)

// SyncOrdersRequest represents the optional request body for a sync pass
type SyncOrdersRequest struct {
	Months int `json:"months" binding:"omitempty,gt=0"`
}

// SyncOrders handles POST /api/v1/orders/sync - pulls paid receipts from
// Etsy and reconciles them into local orders
func SyncOrders(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	if user.ShopID == "" {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SHOP_NOT_FOUND",
				"message": "No shop associated with this account",
			},
		})
		return
	}

	var req SyncOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	etsy := services.NewEtsyClient(config.GetConfig(), user.AccessToken)
	syncService := services.NewSyncService(db, etsy)

	result := syncService.SyncOrders(user, req.Months)
	if !result.Success {
		c.JSON(http.StatusInternalServerError, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListOrders handles GET /api/v1/orders - lists the account's orders,
// optionally filtered by status, newest first
func ListOrders(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	db := config.GetDB()
	query := db.Where("user_id = ?", user.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Preload("Customer").
		Order("ordered_at DESC").
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"total":   len(orders),
	})
}

// GetOrder handles GET /api/v1/orders/:id - returns one order with its
// items and customer
func GetOrder(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	var order models.Order
	db := config.GetDB()
	if err := db.Preload("Items").
		Preload("Customer").
		Preload("Printer").
		Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
		First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
