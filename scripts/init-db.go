package main

import (
	"log"

	"movers_crm/internal/config"
	"movers_crm/internal/database"
	"movers_crm/internal/migrations"
)

// Standalone database bootstrap: creates the schema and seeds default
// data without starting the HTTP server.
func main() {
	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := migrations.RunMigrations(db, cfg.DefaultDurationHours); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	log.Println("Database initialized")
}
