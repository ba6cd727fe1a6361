package main

import (
	"log"

	"sparklewash/internal/config"
	"sparklewash/internal/database"
	"sparklewash/internal/logger"
	"sparklewash/internal/rabbitmq"
	"sparklewash/internal/redis"
	"sparklewash/internal/repository"
	"sparklewash/internal/services"

	"go.uber.org/zap"
)

// generateMessage triggers one generation run. A zero days_ahead uses the
// configured default.
type generateMessage struct {
	DaysAhead int `json:"days_ahead"`
}

func main() {
	cfg := config.Load()

	zapLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	redisClient, err := redis.Initialize(cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	orderRepo := repository.NewOrderRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	settingsService := services.NewSettingsService(settingRepo, redisClient)
	pricingService := services.NewPricingService(orderRepo)
	availabilityService := services.NewAvailabilityService(orderRepo, settingsService)
	creationService := services.NewOrderCreationService(
		db, orderRepo, customerRepo, catalogRepo,
		pricingService, availabilityService, settingsService, zapLogger)
	generatorService := services.NewOrderGeneratorService(
		db, subscriptionRepo, orderRepo, creationService, zapLogger)

	consumer, err := rabbitmq.NewConsumer(cfg.RabbitMQURL, zapLogger)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ:", err)
	}
	defer consumer.Close()

	err = consumer.ConsumeQueue(cfg.GeneratorQueue, func(body []byte) error {
		var msg generateMessage
		if err := rabbitmq.ParseJSON(body, &msg); err != nil {
			zapLogger.Error("invalid generation message", zap.Error(err))
			// Malformed messages are not retryable.
			return nil
		}

		days := msg.DaysAhead
		if days <= 0 {
			days = cfg.GeneratorLookAheadDays
		}

		result, err := generatorService.GenerateUpcomingOrders(days)
		if err != nil {
			return err
		}
		zapLogger.Info("generation run complete",
			zap.Int("generated", result.GeneratedCount),
			zap.Int("slot_errors", len(result.Errors)))
		return nil
	})
	if err != nil {
		log.Fatal("Consumer stopped:", err)
	}
}
