package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/printworks/printworks-api/config"
	"github.com/printworks/printworks-api/models"
	"github.com/printworks/printworks-api/services"
)

// CreateFilamentRequest represents the request body for creating a filament lot
type CreateFilamentRequest struct {
	Color         string   `json:"color" binding:"required"`
	Material      string   `json:"material" binding:"required"`
	InitialAmount float64  `json:"initial_amount" binding:"required,gt=0"`
	CurrentAmount *float64 `json:"current_amount" binding:"omitempty,gte=0"`
	Unit          string   `json:"unit" binding:"omitempty"`
	CostPerGram   *float64 `json:"cost_per_gram" binding:"omitempty,gte=0"`
}

// UpdateFilamentRequest represents the request body for updating a filament lot
type UpdateFilamentRequest struct {
	Color         *string  `json:"color" binding:"omitempty"`
	Material      *string  `json:"material" binding:"omitempty"`
	InitialAmount *float64 `json:"initial_amount" binding:"omitempty,gte=0"`
	CurrentAmount *float64 `json:"current_amount" binding:"omitempty,gte=0"`
	CostPerGram   *float64 `json:"cost_per_gram" binding:"omitempty,gte=0"`
}

// RecordUsageRequest represents the request body for recording manual
// filament consumption
type RecordUsageRequest struct {
	FilamentID  uint    `json:"filament_id" binding:"required"`
	OrderID     *uint   `json:"order_id" binding:"omitempty"`
	AmountUsed  float64 `json:"amount_used" binding:"required,gt=0"`
	Description *string `json:"description" binding:"omitempty"`
}

// ListFilaments handles GET /api/v1/filaments - lists the account's filament lots
func ListFilaments(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	var filaments []models.Filament
	db := config.GetDB()
	if err := db.Where("user_id = ?", user.ID).Find(&filaments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch filaments",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    filaments,
		"total":   len(filaments),
	})
}

// CreateFilament handles POST /api/v1/filaments - creates a filament lot
func CreateFilament(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	var req CreateFilamentRequest
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

	current := req.InitialAmount
	if req.CurrentAmount != nil {
		current = *req.CurrentAmount
	}
	unit := req.Unit
	if unit == "" {
		unit = "g"
	}

	filament := models.Filament{
		UserID:        user.ID,
		Color:         req.Color,
		Material:      req.Material,
		InitialAmount: req.InitialAmount,
		CurrentAmount: current,
		Unit:          unit,
		CostPerGram:   req.CostPerGram,
	}

	db := config.GetDB()
	if err := db.Create(&filament).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create filament",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    filament,
	})
}

// UpdateFilament handles PUT /api/v1/filaments/:id - updates a filament lot
func UpdateFilament(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	var filament models.Filament
	db := config.GetDB()
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
		First(&filament).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILAMENT_NOT_FOUND",
				"message": "Filament not found",
			},
		})
		return
	}

	var req UpdateFilamentRequest
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

	if req.Color != nil {
		filament.Color = *req.Color
	}
	if req.Material != nil {
		filament.Material = *req.Material
	}
	if req.InitialAmount != nil {
		filament.InitialAmount = *req.InitialAmount
	}
	if req.CurrentAmount != nil {
		filament.CurrentAmount = *req.CurrentAmount
	}
	if req.CostPerGram != nil {
		filament.CostPerGram = req.CostPerGram
	}

	if err := db.Save(&filament).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update filament",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    filament,
	})
}

// DeleteFilament handles DELETE /api/v1/filaments/:id - deletes a filament lot
func DeleteFilament(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	var filament models.Filament
	db := config.GetDB()
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
		First(&filament).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILAMENT_NOT_FOUND",
				"message": "Filament not found",
			},
		})
		return
	}

	if err := db.Delete(&filament).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete filament",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Filament deleted successfully",
	})
}

// RecordFilamentUsage handles POST /api/v1/filament-usage - records manual
// consumption against a lot, accumulating onto the order's filament total
func RecordFilamentUsage(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	var req RecordUsageRequest
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

	filamentService := services.NewFilamentService(config.GetDB())
	usage, filament, err := filamentService.RecordUsage(user, req.FilamentID, req.OrderID, req.AmountUsed, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFilamentNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FILAMENT_NOT_FOUND",
					"message": "Filament not found",
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
					"message": "Failed to record filament usage",
				},
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"usage":    usage,
		"filament": filament,
		"message":  "Filament usage recorded",
	})
}

// GetOrderFilamentUsage handles GET /api/v1/filament-usage/order/:id -
// lists all usage records for one order
func GetOrderFilamentUsage(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	var order models.Order
	db := config.GetDB()
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
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

	var usages []models.FilamentUsage
	if err := db.Where("order_id = ?", order.ID).Find(&usages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch filament usage",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"usages":              usages,
		"total_filament_used": order.TotalFilamentUsed,
	})
}

// AutoAssignFilament handles POST /api/v1/orders/:id/filament/auto-assign -
// matches and consumes filament stock for each line item of an order
func AutoAssignFilament(c *gin.Context) {
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

	filamentService := services.NewFilamentService(config.GetDB())
	result, err := filamentService.AutoAssign(user, uint(orderID))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "Order not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to assign filament",
			},
		})
		return
	}

	// Nothing matched or nothing had stock: a business-level negative,
	// not an exception
	if !result.Success {
		c.JSON(http.StatusBadRequest, result)
		return
	}

	c.JSON(http.StatusOK, result)
}
