package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/aircargo/config"
	"github.com/Domenick1991/aircargo/internal/bootstrap"
	"github.com/Domenick1991/aircargo/internal/cache"
	"github.com/Domenick1991/aircargo/internal/kafka"
	"github.com/Domenick1991/aircargo/internal/lock"
	"github.com/Domenick1991/aircargo/internal/repository"
	"github.com/Domenick1991/aircargo/internal/service/booking"
	"github.com/Domenick1991/aircargo/internal/service/flights"
	"github.com/Domenick1991/aircargo/internal/service/routes"
	"github.com/Domenick1991/aircargo/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := migrate(ctx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	redisCache := cache.NewRedisCache(cfg.Redis,
		time.Duration(cfg.Booking.CacheTTLSeconds)*time.Second,
		time.Duration(cfg.Routes.CacheTTLSeconds)*time.Second)
	locks := lock.NewManager(redisCache.Client())

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)

	bookingService := booking.NewBookingService(
		bookingRepo,
		redisCache,
		locks,
		producer,
		cfg.Kafka.BookingEventsTopic,
		time.Duration(cfg.Booking.LockTTLSeconds)*time.Second,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithBulkBatchSize(cfg.Booking.BulkBatchSize),
	)
	flightService := flights.NewFlightService(flightRepo)
	routeService := routes.NewRouteService(flightRepo, redisCache, cfg.Routes.ResultLimit)

	if err := bootstrap.Run(ctx, cfg, bookingService, flightService, routeService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
