package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"strike/internal/amqp"
	"strike/internal/backend"
	"strike/internal/config"
	applog "strike/internal/log"
	"strike/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.Config{Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting reminder-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the reminder worker")
		os.Exit(1)
	}

	st, cleanup, err := backend.Open(cfg, logger.Logger)
	if err != nil {
		logger.Error("Failed to open data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	snapshots := services.NewSnapshotService(st, st).WithConcurrency(cfg.FetchConcurrency)
	processor := services.NewReminderProcessor(snapshots, amqpClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("Reminder processor configured",
		"interval", cfg.ReminderInterval,
		"backend", cfg.DataBackend)

	ticker := time.NewTicker(cfg.ReminderInterval)
	defer ticker.Stop()

	// Run an initial scan on startup
	if count, err := processor.ProcessDueReminders(ctx, time.Now()); err != nil {
		logger.Error("Initial reminder scan failed", "error", err)
	} else {
		logger.Info("Initial reminder scan complete", "reminders_published", count)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				count, err := processor.ProcessDueReminders(ctx, now)
				if err != nil {
					logger.Error("Periodic reminder scan failed", "error", err)
				} else {
					logger.Info("Periodic reminder scan complete",
						"reminders_published", count,
						"next_check", now.Add(cfg.ReminderInterval).Format("15:04:05"))
				}
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	cancel()
	logger.Info("Reminder worker stopped gracefully")
}
