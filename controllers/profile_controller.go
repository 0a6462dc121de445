package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printworks/printworks-api/config"
	"github.com/printworks/printworks-api/models"
	"github.com/printworks/printworks-api/services"
	"github.com/printworks/printworks-api/utils"
)

// CreateProfileRequest represents the request body for creating a product profile
type CreateProfileRequest struct {
	Title             string  `json:"title" binding:"required"`
	GramsPerUnit      float64 `json:"grams_per_unit" binding:"required,gt=0"`
	PreferredMaterial string  `json:"preferred_material" binding:"omitempty"`
	PreferredColor    string  `json:"preferred_color" binding:"omitempty"`
	EstimatedMinutes  int     `json:"estimated_minutes" binding:"omitempty,gt=0"`
	NozzleTemp        int     `json:"nozzle_temp" binding:"omitempty,gt=0"`
	BedTemp           int     `json:"bed_temp" binding:"omitempty,gte=0"`
	PrintSpeed        int     `json:"print_speed" binding:"omitempty,gt=0"`
}

// UpdateProfileRequest represents the request body for updating a product profile
type UpdateProfileRequest struct {
	Title             *string  `json:"title" binding:"omitempty"`
	GramsPerUnit      *float64 `json:"grams_per_unit" binding:"omitempty,gt=0"`
	PreferredMaterial *string  `json:"preferred_material" binding:"omitempty"`
	PreferredColor    *string  `json:"preferred_color" binding:"omitempty"`
	EstimatedMinutes  *int     `json:"estimated_minutes" binding:"omitempty,gt=0"`
	NozzleTemp        *int     `json:"nozzle_temp" binding:"omitempty,gt=0"`
	BedTemp           *int     `json:"bed_temp" binding:"omitempty,gte=0"`
	PrintSpeed        *int     `json:"print_speed" binding:"omitempty,gt=0"`
}

// attachModelURL fills in a presigned download URL for the profile's
// stored model file, when one exists.
func attachModelURL(profile *models.ProductProfile) {
	storage := services.GetModelStorage()
	if storage == nil || profile.ModelS3Key == nil || *profile.ModelS3Key == "" {
		return
	}
	url, err := storage.GetPresignedURL(*profile.ModelS3Key)
	if err != nil || url == "" {
		return
	}
	profile.ModelURL = &url
}

// ListProfiles handles GET /api/v1/profiles - lists the account's product profiles
func ListProfiles(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	var profiles []models.ProductProfile
	db := config.GetDB()
	if err := db.Where("user_id = ?", user.ID).
		Order("title ASC").
		Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch profiles",
			},
		})
		return
	}

	for i := range profiles {
		attachModelURL(&profiles[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profiles,
		"total":   len(profiles),
	})
}

// CreateProfile handles POST /api/v1/profiles - creates a product profile
func CreateProfile(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	var req CreateProfileRequest
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

	profile := models.ProductProfile{
		UserID:            user.ID,
		Title:             req.Title,
		GramsPerUnit:      req.GramsPerUnit,
		PreferredMaterial: req.PreferredMaterial,
		PreferredColor:    req.PreferredColor,
		EstimatedMinutes:  req.EstimatedMinutes,
		NozzleTemp:        req.NozzleTemp,
		BedTemp:           req.BedTemp,
		PrintSpeed:        req.PrintSpeed,
	}

	db := config.GetDB()
	if err := db.Create(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create profile",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    profile,
	})
}

// UpdateProfile handles PUT /api/v1/profiles/:id - updates a product profile
func UpdateProfile(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	var profile models.ProductProfile
	db := config.GetDB()
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
		First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PROFILE_NOT_FOUND",
				"message": "Product profile not found",
			},
		})
		return
	}

	var req UpdateProfileRequest
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

	if req.Title != nil {
		profile.Title = *req.Title
	}
	if req.GramsPerUnit != nil {
		profile.GramsPerUnit = *req.GramsPerUnit
	}
	if req.PreferredMaterial != nil {
		profile.PreferredMaterial = *req.PreferredMaterial
	}
	if req.PreferredColor != nil {
		profile.PreferredColor = *req.PreferredColor
	}
	if req.EstimatedMinutes != nil {
		profile.EstimatedMinutes = *req.EstimatedMinutes
	}
	if req.NozzleTemp != nil {
		profile.NozzleTemp = *req.NozzleTemp
	}
	if req.BedTemp != nil {
		profile.BedTemp = *req.BedTemp
	}
	if req.PrintSpeed != nil {
		profile.PrintSpeed = *req.PrintSpeed
	}

	if err := db.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update profile",
			},
		})
		return
	}

	attachModelURL(&profile)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profile,
	})
}

// DeleteProfile handles DELETE /api/v1/profiles/:id - deletes a product
// profile and its stored model file
func DeleteProfile(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	var profile models.ProductProfile
	db := config.GetDB()
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
		First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PROFILE_NOT_FOUND",
				"message": "Product profile not found",
			},
		})
		return
	}

	if profile.ModelS3Key != nil && *profile.ModelS3Key != "" {
		if storage := services.GetModelStorage(); storage != nil {
			// The row is the source of truth, a stranded S3 object
			// is tolerable
			_ = storage.DeleteModel(*profile.ModelS3Key)
		}
	}

	if err := db.Delete(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete profile",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile deleted successfully",
	})
}

// UploadProfileModel handles POST /api/v1/profiles/:id/model - attaches a
// sliced model file (.stl, .3mf, .gcode) to a product profile
func UploadProfileModel(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	var profile models.ProductProfile
	db := config.GetDB()
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
		First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PROFILE_NOT_FOUND",
				"message": "Product profile not found",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("model")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "A model file is required in the 'model' form field",
			},
		})
		return
	}

	if err := utils.ValidateModelFile(fileHeader); err != nil {
		uploadErr, ok := err.(*utils.FileUploadError)
		if !ok {
			uploadErr = &utils.FileUploadError{Code: "INVALID_FILE", Message: err.Error()}
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    uploadErr.Code,
				"message": uploadErr.Message,
			},
		})
		return
	}

	storage := services.GetModelStorage()
	if storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "Model storage is not configured",
			},
		})
		return
	}

	s3Key, err := storage.UploadModel(fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to upload model file",
			},
		})
		return
	}

	// Replace any previous model file
	if profile.ModelS3Key != nil && *profile.ModelS3Key != "" {
		_ = storage.DeleteModel(*profile.ModelS3Key)
	}

	profile.ModelS3Key = &s3Key
	if err := db.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save profile",
			},
		})
		return
	}

	attachModelURL(&profile)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profile,
		"message": "Model uploaded successfully",
	})
}
