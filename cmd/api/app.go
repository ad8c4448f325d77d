package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/rmcastle/fieldops/internal/adapter/api/controller"
	"github.com/rmcastle/fieldops/internal/adapter/api/route"
	"github.com/rmcastle/fieldops/internal/adapter/repository"
	"github.com/rmcastle/fieldops/internal/command"
	"github.com/rmcastle/fieldops/internal/infrastructure/database"
	"github.com/rmcastle/fieldops/pkg/assistant"
	"github.com/rmcastle/fieldops/pkg/auth"
	"github.com/rmcastle/fieldops/pkg/llm"
	"github.com/rmcastle/fieldops/pkg/logger"

	_ "github.com/rmcastle/fieldops/docs"
)

// App wires every layer together
type App struct {
	router *gin.Engine
	logger logger.Logger
	port   string
}

// NewApp builds the application from environment configuration
func NewApp(log logger.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbConfig := database.NewConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig, log)
	if err != nil {
		return nil, err
	}

	llmClient, err := llm.NewClientFromEnv(log)
	if err != nil {
		return nil, err
	}

	jwtService, err := auth.NewJWTService()
	if err != nil {
		return nil, err
	}

	users := repository.NewUserRepository(pool)
	products := repository.NewProductRepository(pool)
	stock := repository.NewStockRepository(pool)
	customers := repository.NewCustomerRepository(pool)
	jobs := repository.NewJobRepository(pool)
	suppliers := repository.NewSupplierRepository(pool)
	conversations := repository.NewConversationRepository(pool)

	executor := command.NewExecutor(products, stock, customers, jobs, suppliers, log)
	manager := assistant.NewManager(llmClient, executor, executor, conversations, log)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	route.SetupRoutes(router, route.Controllers{
		NLU:       controller.NewNLUController(manager, log),
		Assistant: controller.NewAssistantController(manager, conversations, log),
		Auth:      controller.NewAuthController(users, jwtService, log),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &App{router: router, logger: log, port: port}, nil
}

// Run starts the HTTP server
func (a *App) Run() error {
	a.logger.Info("listening on :%s", a.port)
	return a.router.Run(fmt.Sprintf(":%s", a.port))
}
