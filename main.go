package main

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/printworks/printworks-api/config"
	"github.com/printworks/printworks-api/controllers"
	"github.com/printworks/printworks-api/middleware"
	"github.com/printworks/printworks-api/models"
	"github.com/printworks/printworks-api/services"
)

func main() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().Msg("Starting PrintWorks API server...")

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.Filament{},
		&models.FilamentUsage{},
		&models.ProductProfile{},
		&models.Printer{},
		&models.ScheduledPrint{},
	); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	log.Info().Msg("Database migration completed successfully")

	// Redis is optional; printer status calls fall through to the live
	// endpoint when it is absent
	if err := config.ConnectRedis(cfg); err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, printer status caching disabled")
	}

	if cfg.AWSS3Bucket != "" {
		if _, err := services.InitModelStorage(); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize model storage")
		}
	} else {
		log.Warn().Msg("AWS_S3_BUCKET not set, model uploads disabled")
	}

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Info().Str("port", cfg.Port).Msg("Server is running")
	if err := router.Run(port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

// setupRouter builds the Gin engine with all API routes registered
func setupRouter(cfg *config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	{
		// Public endpoints
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		// Everything else requires a valid Auth0 token
		authorized := v1.Group("")
		authorized.Use(middleware.EnsureValidToken(cfg))
		{
			// Account linking
			authorized.POST("/account", controllers.LinkAccount)
			authorized.GET("/account/me", controllers.GetMyAccount)

			// Orders
			authorized.POST("/orders/sync", controllers.SyncOrders)
			authorized.GET("/orders", controllers.ListOrders)
			authorized.GET("/orders/:id", controllers.GetOrder)
			authorized.PUT("/orders/:id/production-status", controllers.UpdateProductionStatus)
			authorized.POST("/orders/:id/filament/auto-assign", controllers.AutoAssignFilament)
			authorized.POST("/orders/:id/schedule", controllers.SchedulePrints)

			// Scheduled prints
			authorized.GET("/prints/queue", controllers.GetProductionQueue)
			authorized.PUT("/prints/:id/status", controllers.UpdatePrintStatus)

			// Filament inventory
			authorized.GET("/filaments", controllers.ListFilaments)
			authorized.POST("/filaments", controllers.CreateFilament)
			authorized.PUT("/filaments/:id", controllers.UpdateFilament)
			authorized.DELETE("/filaments/:id", controllers.DeleteFilament)
			authorized.POST("/filament-usage", controllers.RecordFilamentUsage)
			authorized.GET("/filament-usage/order/:id", controllers.GetOrderFilamentUsage)

			// Product profiles
			authorized.GET("/profiles", controllers.ListProfiles)
			authorized.POST("/profiles", controllers.CreateProfile)
			authorized.PUT("/profiles/:id", controllers.UpdateProfile)
			authorized.DELETE("/profiles/:id", controllers.DeleteProfile)
			authorized.POST("/profiles/:id/model", controllers.UploadProfileModel)

			// Printers
			authorized.GET("/printers", controllers.ListPrinters)
			authorized.POST("/printers", controllers.CreatePrinter)
			authorized.PUT("/printers/:id", controllers.UpdatePrinter)
			authorized.DELETE("/printers/:id", controllers.DeletePrinter)
			authorized.GET("/printers/:id/status", controllers.GetPrinterStatus)

			// Customers
			authorized.GET("/customers", controllers.ListCustomers)
			authorized.GET("/customers/:id", controllers.GetCustomer)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "PrintWorks API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
