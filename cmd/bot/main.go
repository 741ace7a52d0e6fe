package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ledgerbot/internal/app"
	"ledgerbot/internal/config"
	"ledgerbot/internal/database"
	"ledgerbot/internal/logger"
	"ledgerbot/internal/notifier"
	"ledgerbot/internal/telegram"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	a := app.New(dbManager.DB(), cfg)

	api, err := telegram.NewAPI(cfg.TelegramBotToken)
	if err != nil {
		return fmt.Errorf("failed to connect to telegram: %w", err)
	}
	bot := telegram.New(api, a.Router)

	if cfg.AlertsEnabled {
		n := notifier.New(a.Chats, a.Budgets, a.Formatter, bot, cfg.Location)
		if err := n.Start(cfg.AlertSchedule); err != nil {
			return fmt.Errorf("failed to start budget notifier: %w", err)
		}
		defer n.Stop()
		log.Infof("Budget alerts scheduled at %q (%s)", cfg.AlertSchedule, cfg.Location)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("Starting telegram bot @%s", api.Self.UserName)
	if err := bot.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	log.Info("Telegram bot stopped")
	return nil
}
