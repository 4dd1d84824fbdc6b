package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"voicefaq/internal/api"
	"voicefaq/internal/api/handlers"
	"voicefaq/internal/bootstrap"
	"voicefaq/internal/repository"
	"voicefaq/pkg/auth"
	"voicefaq/pkg/config"
	"voicefaq/pkg/logger"
	"voicefaq/pkg/postgres"

	"go.uber.org/zap"
)

// @title Voice FAQ API
// @version 1.0
// @description Voice query assistant: speech recognition, intent detection and FAQ retrieval
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /

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
	appLogger.Info("Starting Voice FAQ service")

	components, err := bootstrap.Build(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize pipeline", zap.Error(err))
	}
	defer func() {
		if err := components.Close(); err != nil {
			appLogger.Warn("Failed to release models", zap.Error(err))
		}
	}()

	// Query log and admin routes need the database
	var adminHandler *handlers.AdminHandler
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)
	if cfg.Database.Enabled {
		ctx := context.Background()
		db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		queryLogRepo := repository.NewQueryLogRepository(db, appLogger)
		components.Pipeline.SetRecorder(queryLogRepo)
		if err := cfg.JWT.Validate(); err != nil {
			appLogger.Warn("Admin routes disabled", zap.Error(err))
		} else {
			adminHandler = handlers.NewAdminHandler(queryLogRepo, components.Indexes, appLogger)
		}
	}

	queryHandler := handlers.NewQueryHandler(
		components.Pipeline,
		components.ResolveSTTModel,
		cfg.Data.FAQTablePath,
		cfg.Data.DefaultTopK,
		appLogger,
	)

	// Setup router
	app := api.SetupRouter(queryHandler, adminHandler, jwtManager, &cfg.Server, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
