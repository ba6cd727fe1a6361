package main

import (
	"fmt"
	"log"

	"sparklewash/internal/config"
	"sparklewash/internal/database"
	"sparklewash/internal/migrations"
)

func main() {
	fmt.Println("Initializing database...")

	// Load configuration
	cfg := config.Load()

	// Initialize database (runs AutoMigrate)
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Seed default settings and bootstrap admin
	if err := migrations.Seed(db); err != nil {
		log.Fatal("Failed to seed database:", err)
	}

	fmt.Println("Database initialized successfully")
}
