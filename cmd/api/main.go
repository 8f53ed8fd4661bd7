package main

import (
	"fmt"
	"net/http"
	"os"

	"myfunds/internal/config"
	"myfunds/internal/database"
	"myfunds/internal/handlers"
	"myfunds/internal/logger"
	"myfunds/internal/market"
	"myfunds/internal/middleware"
	"myfunds/internal/services"
	"myfunds/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           MyFunds API
// @version         1.0
// @description     MyFunds is a personal finance application for tracking a stock portfolio grouped by sectors and a 4x4 market watchlist, with USD/PLN display currencies.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	validator.Register()

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Market data layer: Yahoo quotes and Frankfurter FX rates behind a
	// shared TTL cache.
	marketService := market.NewService(
		market.NewYahooClient(appConfig),
		market.NewFrankfurterClient(appConfig),
		market.WithTTL(appConfig.CacheTTL),
	)

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	sectorService := services.NewSectorService(db)
	portfolioService := services.NewPortfolioService(db, marketService)
	watchlistService := services.NewWatchlistService(db, marketService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	sectorHandler := handlers.NewSectorHandler(sectorService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	watchlistHandler := handlers.NewWatchlistHandler(watchlistService)
	marketHandler := handlers.NewMarketHandler(marketService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.PATCH("/profile", authHandler.UpdateProfile)

	// Sector routes
	sectors := protected.Group("/sectors")
	sectors.GET("", sectorHandler.ListSectors)
	sectors.POST("", sectorHandler.CreateSector)
	sectors.PATCH("/:id", sectorHandler.UpdateSector)
	sectors.DELETE("/:id", sectorHandler.DeleteSector)

	// Portfolio routes
	portfolio := protected.Group("/portfolio")
	portfolio.GET("", portfolioHandler.GetAssets)
	portfolio.GET("/summary", portfolioHandler.GetSummary)
	portfolio.POST("", portfolioHandler.CreateAsset)
	portfolio.PATCH("/:id", portfolioHandler.UpdateAsset)
	portfolio.DELETE("/:id", portfolioHandler.DeleteAsset)

	// Watchlist routes
	watchlist := protected.Group("/watchlist")
	watchlist.GET("", watchlistHandler.GetWatchlist)
	watchlist.POST("", watchlistHandler.CreateItem)
	watchlist.PATCH("", watchlistHandler.BatchUpdate)
	watchlist.DELETE("/:id", watchlistHandler.DeleteItem)

	// Market data routes
	marketRoutes := protected.Group("/market")
	marketRoutes.GET("/status", marketHandler.Status)
	marketRoutes.GET("/candles/:ticker", marketHandler.GetCandles)

	log.Infof("Starting MyFunds backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
