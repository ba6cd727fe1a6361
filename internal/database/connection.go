package database

import (
	"fmt"
	"log"

	"sparklewash/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	// TranslateError maps postgres unique violations to gorm.ErrDuplicatedKey,
	// which the order number retry loop depends on.
	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(databaseURL), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Println("Database connected and migrated successfully")
	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Package{},
		&models.Addon{},
		&models.Order{},
		&models.OrderPackage{},
		&models.OrderAddon{},
		&models.OrderStatusLog{},
		&models.AssignmentHistory{},
		&models.Subscription{},
		&models.SubscriptionPackage{},
		&models.SubscriptionAddon{},
		&models.SubscriptionOrder{},
		&models.Journey{},
		&models.Setting{},
	)
}
