package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/aircargo/config"
	"github.com/Domenick1991/aircargo/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	bookingTTL time.Duration
	routesTTL  time.Duration
}

func NewRedisCache(cfg config.RedisConfig, bookingTTL, routesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		bookingTTL: bookingTTL,
		routesTTL:  routesTTL,
	}
}

// Client exposes the underlying connection so the lock manager can share it.
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

func (c *RedisCache) GetBooking(ctx context.Context, refID string) (*domain.BookingAggregate, error) {
	data, err := c.client.Get(ctx, bookingKey(refID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var agg domain.BookingAggregate
	if err := json.Unmarshal(data, &agg); err != nil {
		return nil, err
	}
	return &agg, nil
}

func (c *RedisCache) SetBooking(ctx context.Context, agg *domain.BookingAggregate) error {
	payload, err := json.Marshal(agg)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, bookingKey(agg.RefID), payload, c.bookingTTL).Err()
}

// InvalidateBooking deletes the cached entry. Write paths never update the
// cached value in place; the next read repopulates it from the store.
func (c *RedisCache) InvalidateBooking(ctx context.Context, refID string) error {
	return c.client.Del(ctx, bookingKey(refID)).Err()
}

func (c *RedisCache) GetRoutes(ctx context.Context, origin, destination, date string) (*domain.RouteResult, error) {
	data, err := c.client.Get(ctx, routesKey(origin, destination, date)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var result domain.RouteResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *RedisCache) SetRoutes(ctx context.Context, origin, destination, date string, result *domain.RouteResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, routesKey(origin, destination, date), payload, c.routesTTL).Err()
}

func bookingKey(refID string) string {
	return "booking:" + refID
}

func routesKey(origin, destination, date string) string {
	return fmt.Sprintf("routes:%s:%s:%s", origin, destination, date)
}
