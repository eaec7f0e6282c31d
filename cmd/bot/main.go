package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/atelier-obra/editorial-engine/config"
	"github.com/atelier-obra/editorial-engine/internal/database"
	"github.com/atelier-obra/editorial-engine/internal/ingest"
	slackpkg "github.com/atelier-obra/editorial-engine/internal/slack"
	"github.com/atelier-obra/editorial-engine/internal/worker"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.Info("🚀 Editorial Engine Starting...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Configuration error: %v", err)
	}

	ctx := context.Background()

	// Connect to database
	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.CreateTables(ctx); err != nil {
		logrus.Fatalf("Failed to create tables: %v", err)
	}

	// Create repositories
	itemRepo := database.NewItemRepository(db)
	assetRepo := database.NewAssetRepository(db)

	// Planning worker
	slots, err := cfg.Slots()
	if err != nil {
		logrus.Fatalf("Invalid publication slot configuration: %v", err)
	}
	planner := worker.NewPlanner(itemRepo, assetRepo, cfg.Constraints(), cfg.DNA(), slots)

	// Slack surface
	slackClient, err := slackpkg.NewClient(cfg.SlackToken)
	if err != nil {
		logrus.Fatalf("Failed to authenticate with Slack: %v", err)
	}
	approvalHandler := slackpkg.NewApprovalHandler(slackClient, itemRepo)
	commandHandler := slackpkg.NewCommandHandler(slackClient, itemRepo, assetRepo, planner, approvalHandler, cfg.DefaultLanguage)
	importHandler := ingest.NewHandler(itemRepo)
	slackServer := slackpkg.NewServer(slackClient, commandHandler, approvalHandler, importHandler, cfg.SlackSigningSecret)

	go func() {
		if err := slackServer.Start(cfg.Port); err != nil {
			logrus.Fatalf("Failed to start Slack server: %v", err)
		}
	}()

	// Recurring plan, audit, buffer and publish jobs
	runner := worker.NewRunner(planner, slackClient, cfg.SlackChannel)
	if err := runner.Start(); err != nil {
		logrus.Fatalf("Failed to start cron runner: %v", err)
	}

	logrus.Info("✅ System initialized successfully")
	logrus.Info("📊 Database: connected and ready")
	logrus.Info("📅 Planner: scoring, scheduling and audits active")
	logrus.Info("✅ Approval system: ready for reactions")
	logrus.Info("💬 Slack: connected and listening")
	logrus.Info("Bot is running. Press Ctrl+C to stop...")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down gracefully...")
	runner.Stop()
}
