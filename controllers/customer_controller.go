package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printworks/printworks-api/config"
	"github.com/printworks/printworks-api/models"
)

// ListCustomers handles GET /api/v1/customers - lists the account's
// aggregated customers, biggest spenders first
func ListCustomers(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	var customers []models.Customer
	db := config.GetDB()
	if err := db.Where("user_id = ?", user.ID).
		Order("total_spend DESC").
		Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch customers",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customers,
		"total":   len(customers),
	})
}

// GetCustomer handles GET /api/v1/customers/:id - returns one customer
// with their order history
func GetCustomer(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	var customer models.Customer
	db := config.GetDB()
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
		First(&customer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CUSTOMER_NOT_FOUND",
				"message": "Customer not found",
			},
		})
		return
	}

	var orders []models.Order
	if err := db.Where("customer_id = ?", customer.ID).
		Order("ordered_at DESC").
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch customer orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"customer": customer,
			"orders":   orders,
		},
	})
}
