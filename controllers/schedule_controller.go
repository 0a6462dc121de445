package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/printworks/printworks-api/config"
	"github.com/printworks/printworks-api/services"
)

// SchedulePrintsRequest represents the request body for queueing an
// order's line items onto a printer
type SchedulePrintsRequest struct {
	PrinterID    uint   `json:"printer_id" binding:"required"`
	Material     string `json:"material" binding:"omitempty"`
	DelayMinutes int    `json:"delay_minutes" binding:"omitempty,gte=0"`
}

// UpdatePrintStatusRequest represents the request body for moving a
// scheduled print through its lifecycle
type UpdatePrintStatusRequest struct {
	Status        string  `json:"status" binding:"required"`
	FailureReason *string `json:"failure_reason" binding:"omitempty"`
}

// SchedulePrints handles POST /api/v1/orders/:id/schedule - creates a
// chained print job for every line item on the order
func SchedulePrints(c *gin.Context) {
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

	var req SchedulePrintsRequest
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

	scheduleService := services.NewScheduleService(config.GetDB())
	prints, err := scheduleService.SchedulePrints(user, uint(orderID), req.PrinterID, req.Material, req.DelayMinutes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "Order not found",
				},
			})
		case errors.Is(err, services.ErrPrinterNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PRINTER_NOT_FOUND",
					"message": "Printer not found",
				},
			})
		case errors.Is(err, services.ErrNoItems):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NO_ITEMS",
					"message": "Order has no line items to schedule",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to schedule prints",
				},
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    prints,
		"total":   len(prints),
		"message": "Prints scheduled",
	})
}

// GetProductionQueue handles GET /api/v1/prints/queue - lists unfinished
// prints ordered by priority
func GetProductionQueue(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	scheduleService := services.NewScheduleService(config.GetDB())
	prints, err := scheduleService.ProductionQueue(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch production queue",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    prints,
		"total":   len(prints),
	})
}

// UpdatePrintStatus handles PUT /api/v1/prints/:id/status - moves a print
// through queued/scheduled/started/completed/failed/cancelled
func UpdatePrintStatus(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	printID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Print ID must be numeric",
			},
		})
		return
	}

	var req UpdatePrintStatusRequest
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

	scheduleService := services.NewScheduleService(config.GetDB())
	print, err := scheduleService.UpdatePrintStatus(user, uint(printID), req.Status, req.FailureReason)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STATUS",
					"message": "Invalid print status",
				},
			})
		case errors.Is(err, services.ErrPrintNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PRINT_NOT_FOUND",
					"message": "Scheduled print not found",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update print status",
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    print,
	})
}
