package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/poornima12/ACME-AIR/config"
	"github.com/poornima12/ACME-AIR/internal/email"
	"github.com/poornima12/ACME-AIR/internal/kafka"
)

// The worker consumes booking notifications and sends confirmation
// emails. Seat lock expiry is handled lazily on the booking path, so
// there is no sweeper here.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, logger)
	defer consumer.Close()

	sender := email.NewSender(logger)

	logger.Info("notifications worker started",
		zap.String("topic", cfg.Kafka.NotificationsTopic),
		zap.String("group_id", cfg.Kafka.GroupID))

	if err := consumer.ConsumeBookingEvents(ctx, sender.Send); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer stopped", zap.Error(err))
	}
	logger.Info("notifications worker shut down")
}
