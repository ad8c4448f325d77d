package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/rmcastle/fieldops/pkg/logger"
)

// @title FieldOps API
// @version 1.0
// @description Conversational command API for a field-service inventory and jobs application.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log := logger.NewLogger()

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment")
	}

	app, err := NewApp(log)
	if err != nil {
		log.Error("error starting: %v", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		log.Error("server stopped: %v", err)
		os.Exit(1)
	}
}
