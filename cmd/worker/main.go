// The worker consumes queued like events and delivers email notifications.
// It runs as a separate process so mail delivery never blocks the API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bonds/internal/cache"
	"bonds/internal/config"
	"bonds/internal/middleware"
	"bonds/internal/notifications"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		middleware.Logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	cache.InitRedis(cfg.RedisURL)
	rdb := cache.GetClient()
	if rdb == nil {
		middleware.Logger.Error("redis is required for the notification worker", "url", cfg.RedisURL)
		os.Exit(1)
	}

	queue := notifications.NewQueue(rdb)
	sender := notifications.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	worker := notifications.NewWorker(queue, sender, middleware.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	middleware.Logger.Info("notification worker started",
		"smtp_host", cfg.SMTPHost, "smtp_port", cfg.SMTPPort)

	worker.Run(ctx)

	if err := rdb.Close(); err != nil {
		middleware.Logger.Error("redis close failed", "error", err)
	}
	middleware.Logger.Info("notification worker exited")
}
