package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/printworks/printworks-api/config"
	"github.com/printworks/printworks-api/middleware"
	"github.com/printworks/printworks-api/models"
)

// LinkAccountRequest represents the request body for linking an Etsy
// seller account. Token exchange happens elsewhere; the tokens arrive
// here opaquely.
type LinkAccountRequest struct {
	EtsyUserID   string `json:"etsy_user_id" binding:"required"`
	ShopID       string `json:"shop_id" binding:"required"`
	AccessToken  string `json:"access_token" binding:"required"`
	RefreshToken string `json:"refresh_token" binding:"omitempty"`
	ExpiresIn    int    `json:"expires_in" binding:"omitempty,gt=0"` // seconds
}

// LinkAccount handles POST /api/v1/account - links an Etsy shop to the
// authenticated identity, updating tokens if the account already exists
func LinkAccount(c *gin.Context) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user ID from token",
			},
		})
		return
	}

	var req LinkAccountRequest
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

	db := config.GetDB()

	var expiresAt *time.Time
	if req.ExpiresIn > 0 {
		t := time.Now().UTC().Add(time.Duration(req.ExpiresIn) * time.Second)
		expiresAt = &t
	}

	// Update the existing account row when re-linking
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err == nil {
		user.EtsyUserID = req.EtsyUserID
		user.ShopID = req.ShopID
		user.AccessToken = req.AccessToken
		if req.RefreshToken != "" {
			user.RefreshToken = req.RefreshToken
		}
		user.TokenExpiresAt = expiresAt

		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update account",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    user,
		})
		return
	}

	user = models.User{
		Auth0ID:        auth0ID,
		EtsyUserID:     req.EtsyUserID,
		ShopID:         req.ShopID,
		AccessToken:    req.AccessToken,
		RefreshToken:   req.RefreshToken,
		TokenExpiresAt: expiresAt,
	}

	if err := db.Create(&user).Error; err != nil {
		// Works with both PostgreSQL and SQLite
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") ||
			strings.Contains(errMsg, "unique constraint") ||
			strings.Contains(errMsg, "unique") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ACCOUNT_EXISTS",
					"message": "This Etsy account is already linked",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create account",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// GetMyAccount handles GET /api/v1/account/me - returns the linked account
func GetMyAccount(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}
