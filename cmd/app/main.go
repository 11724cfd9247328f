package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/poornima12/ACME-AIR/api"
	"github.com/poornima12/ACME-AIR/config"
	"github.com/poornima12/ACME-AIR/internal/bootstrap"
	"github.com/poornima12/ACME-AIR/internal/cache"
	"github.com/poornima12/ACME-AIR/internal/kafka"
	"github.com/poornima12/ACME-AIR/internal/repository"
	"github.com/poornima12/ACME-AIR/internal/service/booking"
	"github.com/poornima12/ACME-AIR/internal/service/flights"
)

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

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.SchedulesCacheTTL())
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	store := repository.NewStore(pool)
	repos := store.Repos()

	flightService := flights.NewFlightService(repos.Schedules, repos.Seats, redisCache, logger)
	bookingService := booking.NewBookingService(
		store,
		producer,
		cfg.Kafka.BookingEventsTopic,
		logger,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithLockTTL(cfg.Booking.SeatLockTTL()),
	)

	flightHandler := api.NewFlightHandler(flightService)
	bookingHandler := api.NewBookingHandler(bookingService)

	if err := bootstrap.Run(ctx, cfg, logger, flightHandler, bookingHandler); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
