package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"voxpense/internal/api"
	"voxpense/internal/api/handlers"
	"voxpense/internal/events"
	"voxpense/internal/repository"
	"voxpense/internal/service"
	"voxpense/pkg/auth"
	"voxpense/pkg/config"
	"voxpense/pkg/logger"
	"voxpense/pkg/postgres"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// @title Voxpense API
// @version 1.0
// @description Voice-driven expense logging backend
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@voxpense.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting voxpense service")

	// Apply schema migrations, then open the pool
	if err := postgres.RunMigrations(&cfg.Database); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	expenseRepo := repository.NewExpenseRepository(db, appLogger)
	receiptRepo := repository.NewReceiptRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Change feed: local hub, optionally bridged across instances via AMQP
	hub := events.NewHub()
	var bus events.Bus = events.HubBus{Hub: hub}
	var amqpClient *events.AMQPClient
	if cfg.AMQP.URL != "" {
		amqpClient, err = events.NewAMQPClient(cfg.AMQP.URL, cfg.AMQP.Exchange, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to AMQP", zap.Error(err))
		}
		defer amqpClient.Close()
		bus = amqpClient
		appLogger.Info("AMQP change-event fan-out enabled", zap.String("exchange", cfg.AMQP.Exchange))
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)
	googleService := service.NewGoogleAuthService(userRepo, jwtManager, authService, &cfg.Google, appLogger)

	llmService, err := service.NewLLMService(&cfg.GigaChat, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
	}
	defer llmService.Close()

	extractService := service.NewExtractService(llmService, appLogger)

	voiceService, err := service.NewVoiceService(ctx, &cfg.Google, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize voice service", zap.Error(err))
	}

	expenseService := service.NewExpenseService(expenseRepo, bus, appLogger)
	exportService := service.NewExportService(expenseRepo, appLogger)
	receiptService := service.NewReceiptService(receiptRepo, cfg.Storage.UploadDir, cfg.Storage.PublicURL, appLogger)

	// Initialize handlers
	h := api.Handlers{
		Auth:    handlers.NewAuthHandler(authService, googleService, appLogger),
		Expense: handlers.NewExpenseHandler(expenseService, appLogger),
		Voice:   handlers.NewVoiceHandler(voiceService, extractService, expenseService, appLogger),
		Receipt: handlers.NewReceiptHandler(receiptService, appLogger),
		Export:  handlers.NewExportHandler(exportService, appLogger),
		Events:  handlers.NewEventsHandler(hub, appLogger),
	}

	// Setup router
	app := api.SetupRouter(h, jwtManager, cfg.Storage.UploadDir, appLogger)

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		return app.Listen(addr)
	})

	if amqpClient != nil {
		g.Go(func() error {
			return amqpClient.Consume(gctx, hub.Publish)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server")
		return app.Shutdown()
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		appLogger.Error("Service stopped", zap.Error(err))
	}
}
