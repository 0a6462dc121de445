package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printworks/printworks-api/middleware"
	"github.com/printworks/printworks-api/models"
)

// requireUser resolves the authenticated account or writes the
// appropriate error response and returns nil.
func requireUser(c *gin.Context) *models.User {
	user, err := middleware.CurrentUser(c)
	if err == nil {
		return user
	}

	var authErr *middleware.AuthError
	if errors.As(err, &authErr) && authErr.Code == "ACCOUNT_NOT_FOUND" {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ACCOUNT_NOT_FOUND",
				"message": "No account linked. Please link your shop first.",
			},
		})
		return nil
	}

	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": "Could not extract user information",
		},
	})
	return nil
}
