// Command notifier consumes reservation events from RabbitMQ and logs them.
package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"tablehub/internal/config"
	"tablehub/internal/pkg/logger"
	"tablehub/internal/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.AppEnv); err != nil {
		panic(err)
	}
	defer logger.Sync()

	// The notifier always consumes, even when the API runs with EVENTS_ENABLED=false.
	url := config.BrokerURL()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = queue.NewConsumer(url, queue.LogEvent).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.Fatal("notifier stopped", zap.Error(err))
	}
	logger.Log.Info("notifier stopped")
}
