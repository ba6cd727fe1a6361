package main

import (
	"log"

	"sparklewash/internal/config"
	"sparklewash/internal/database"
	"sparklewash/internal/handlers"
	"sparklewash/internal/logger"
	"sparklewash/internal/redis"
	"sparklewash/internal/repository"
	"sparklewash/internal/services"
	"sparklewash/pkg/maps"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zapLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	// Initialize route client
	mapsClient := maps.NewClient(cfg.MapsAPIURL, cfg.MapsAPIKey)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	journeyRepo := repository.NewJourneyRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo)
	settingsService := services.NewSettingsService(settingRepo, redisClient)
	pricingService := services.NewPricingService(orderRepo)
	availabilityService := services.NewAvailabilityService(orderRepo, settingsService)
	creationService := services.NewOrderCreationService(
		db, orderRepo, customerRepo, catalogRepo,
		pricingService, availabilityService, settingsService, zapLogger)
	assignmentService := services.NewAssignmentService(
		db, orderRepo, userRepo, availabilityService, zapLogger)
	statusService := services.NewStatusUpdateService(
		db, orderRepo, subscriptionRepo, zapLogger)
	subscriptionService := services.NewSubscriptionService(
		db, subscriptionRepo, customerRepo, catalogRepo, zapLogger)
	generatorService := services.NewOrderGeneratorService(
		db, subscriptionRepo, orderRepo, creationService, zapLogger)
	journeyService := services.NewJourneyService(
		journeyRepo, orderRepo, mapsClient,
		decimal.NewFromFloat(cfg.TravelRatePerKm), zapLogger)

	// Initialize handlers
	orderHandler := handlers.NewOrderHandler(
		creationService, assignmentService, statusService, pricingService, journeyService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, generatorService)

	// Setup routes
	router := gin.Default()

	api := router.Group("/api")
	api.Use(handlers.RequireUser(userService))
	{
		api.POST("/orders", orderHandler.CreateOrder)
		api.POST("/orders/:id/assign", orderHandler.AssignAgent)
		api.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
		api.POST("/orders/:id/recalculate", orderHandler.RecalculateTotals)
		api.POST("/orders/:id/feedback", orderHandler.SubmitFeedback)
		api.POST("/orders/:id/track-travel", orderHandler.TrackTravel)
		api.GET("/orders/:id/journeys", orderHandler.ListJourneys)

		api.POST("/subscriptions", subscriptionHandler.CreateSubscription)
		api.POST("/subscriptions/:id/events", subscriptionHandler.ApplyEvent)
		api.POST("/subscriptions/:id/payments", subscriptionHandler.RecordPayment)
		api.POST("/subscriptions/generate", subscriptionHandler.GenerateOrders)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
