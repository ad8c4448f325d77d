package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/rmcastle/fieldops/internal/infrastructure/database"
	"github.com/rmcastle/fieldops/pkg/logger"
)

func main() {
	log := logger.NewLogger()

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment")
	}

	path := os.Getenv("MIGRATIONS_PATH")
	if path == "" {
		path = "migrations"
	}

	cfg := database.NewConfigFromEnv()
	if err := database.RunMigrations(cfg, path, log); err != nil {
		log.Error("migration failed: %v", err)
		os.Exit(1)
	}
}
