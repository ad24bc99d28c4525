// main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"finance-tracker/cmd"
	"finance-tracker/internal/data/repository"
	"finance-tracker/internal/wire"
	"finance-tracker/pkg/cache"
	"finance-tracker/pkg/database"
	"finance-tracker/pkg/mailer"
	"finance-tracker/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	migrateCtx, cancel := context.WithTimeout(ctx, time.Minute)
	err = database.RunMigrations(migrateCtx, config.Database.URL)
	cancel()
	if err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// OTP challenge store
	store, err := cache.New(ctx, config.Redis.URL)
	if err != nil {
		logger.Fatal("Failed to connect to cache", zap.Error(err))
	}
	defer store.Close()

	if config.Redis.URL == "" {
		logger.Warn("REDIS_URL not set, OTP challenges are kept in memory")
	}

	sender, err := mailer.NewSender(config.Mail, logger)
	if err != nil {
		logger.Fatal("Failed to configure mailer", zap.Error(err))
	}
	notifier := mailer.NewOTPMailer(sender, config.App.Name)

	// Initialize all repositories
	repos := repository.NewRepository(db, store, logger)

	// Wire all dependencies
	app, err := wire.Wiring(ctx, repos, notifier, config, logger)
	if err != nil {
		logger.Fatal("Failed to wire application", zap.Error(err))
	}

	if err := app.Service.Record.SeedCategories(ctx); err != nil {
		logger.Fatal("Failed to seed categories", zap.Error(err))
	}

	go cmd.PurgeSessions(ctx, app.Service.Auth, time.Hour, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}
