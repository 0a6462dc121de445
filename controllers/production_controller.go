package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/printworks/printworks-api/config"
	"github.com/printworks/printworks-api/services"
)

// UpdateProductionStatusRequest represents the request body for moving an
// order through the production pipeline
type UpdateProductionStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Note   *string `json:"note" binding:"omitempty"`
}

// UpdateProductionStatus handles PUT /api/v1/orders/:id/production-status -
// advances an order through QUEUED/PRINTING/PRINTED/SHIPPED/FAILED
func UpdateProductionStatus(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Order ID must be numeric",
			},
		})
		return
	}

	var req UpdateProductionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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

	productionService := services.NewProductionService(config.GetDB())
	order, err := productionService.UpdateStatus(user, uint(orderID), req.Status, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STATUS",
					"message": "Invalid production status",
				},
			})
		case errors.Is(err, services.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "Order not found",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update production status",
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
