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

// CreatePrinterRequest represents the request body for registering a printer
type CreatePrinterRequest struct {
	Name         string  `json:"name" binding:"required"`
	Model        string  `json:"model" binding:"omitempty"`
	SerialNumber string  `json:"serial_number" binding:"omitempty"`
	StatusURL    *string `json:"status_url" binding:"omitempty,url"`
	Active       *bool   `json:"active" binding:"omitempty"`
}

// UpdatePrinterRequest represents the request body for updating a printer
type UpdatePrinterRequest struct {
	Name         *string `json:"name" binding:"omitempty"`
	Model        *string `json:"model" binding:"omitempty"`
	SerialNumber *string `json:"serial_number" binding:"omitempty"`
	StatusURL    *string `json:"status_url" binding:"omitempty,url"`
	Active       *bool   `json:"active" binding:"omitempty"`
}

// ListPrinters handles GET /api/v1/printers - lists the account's printers
func ListPrinters(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	var printers []models.Printer
	db := config.GetDB()
	if err := db.Where("user_id = ?", user.ID).Find(&printers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch printers",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    printers,
		"total":   len(printers),
	})
}

// CreatePrinter handles POST /api/v1/printers - registers a printer
func CreatePrinter(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	var req CreatePrinterRequest
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

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	printer := models.Printer{
		UserID:       user.ID,
		Name:         req.Name,
		Model:        req.Model,
		SerialNumber: req.SerialNumber,
		StatusURL:    req.StatusURL,
		Active:       active,
	}

	db := config.GetDB()
	if err := db.Create(&printer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create printer",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    printer,
	})
}

// UpdatePrinter handles PUT /api/v1/printers/:id - updates a printer
func UpdatePrinter(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	var printer models.Printer
	db := config.GetDB()
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
		First(&printer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRINTER_NOT_FOUND",
				"message": "Printer not found",
			},
		})
		return
	}

	var req UpdatePrinterRequest
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

	if req.Name != nil {
		printer.Name = *req.Name
	}
	if req.Model != nil {
		printer.Model = *req.Model
	}
	if req.SerialNumber != nil {
		printer.SerialNumber = *req.SerialNumber
	}
	if req.StatusURL != nil {
		printer.StatusURL = req.StatusURL
	}
	if req.Active != nil {
		printer.Active = *req.Active
	}

	if err := db.Save(&printer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update printer",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    printer,
	})
}

// DeletePrinter handles DELETE /api/v1/printers/:id - removes a printer
func DeletePrinter(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	var printer models.Printer
	db := config.GetDB()
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
		First(&printer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRINTER_NOT_FOUND",
				"message": "Printer not found",
			},
		})
		return
	}

	if err := db.Delete(&printer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete printer",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Printer deleted successfully",
	})
}

// GetPrinterStatus handles GET /api/v1/printers/:id/status - proxies the
// printer's live status endpoint, with a short Redis cache in front
func GetPrinterStatus(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	printerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Printer ID must be numeric",
			},
		})
		return
	}

	statusService := services.NewPrinterStatusService(config.GetDB())
	status, err := statusService.Status(user, uint(printerID))
	if err != nil {
		if errors.Is(err, services.ErrPrinterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PRINTER_NOT_FOUND",
					"message": "Printer not found",
				},
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRINTER_UNREACHABLE",
				"message": "Failed to fetch printer status",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    status,
	})
}
