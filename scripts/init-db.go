package main

import (
	"context"
	"fmt"
	"log"

	"eventmaster/internal/config"
	"eventmaster/internal/database"
	"eventmaster/internal/logger"
	"eventmaster/internal/migrations"
	"eventmaster/internal/services"
)

// Recreates the postgres orders table and loads the demo orders through
// the lifecycle engine.
func main() {
	fmt.Println("Initializing database...")

	// Load configuration
	cfg := config.Load()
	appLogger := logger.New(cfg.LogLevel, "text")

	db, err := database.Initialize(cfg.DatabaseURL, appLogger)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	fmt.Println("Recreating orders table...")
	if err := migrations.ResetSchema(db, appLogger); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	store := database.NewOrderStore(db, cfg.DatabaseURL, appLogger)
	defer store.Close()

	ctx := context.Background()
	book, err := services.Attach(ctx, store, appLogger)
	if err != nil {
		log.Fatal("Failed to read orders:", err)
	}
	defer book.Close()

	fmt.Println("Seeding demo orders...")
	n, err := services.SeedDemo(ctx, services.NewOrderService(store, book, nil, appLogger), book)
	if err != nil {
		log.Fatal("Failed to seed demo orders:", err)
	}

	fmt.Printf("Database initialized with %d demo orders\n", n)
}
