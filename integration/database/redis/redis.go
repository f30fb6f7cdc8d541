// Package redis provides Redis connection management with readiness
// waiting and health checking on top of go-redis.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection settings with environment variable mapping,
// loadable via core/config.
type Config struct {
	ConnectionURL string        `env:"REDIS_URL,required"`
	ReadyTimeout  time.Duration `env:"REDIS_READY_TIMEOUT" envDefault:"5s"`
	RetryInterval time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"200ms"`
}

// Connect creates a Redis client from the connection URL and waits until
// the server answers pings or the ready timeout elapses.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToParseConnString, err)
	}

	client := redis.NewClient(opts)

	readyCtx, cancel := context.WithTimeout(ctx, cfg.ReadyTimeout)
	defer cancel()

	for {
		pingErr := client.Ping(readyCtx).Err()
		if pingErr == nil {
			return client, nil
		}

		select {
		case <-readyCtx.Done():
			_ = client.Close()
			return nil, fmt.Errorf("%w: %w", ErrNotReady, pingErr)
		case <-time.After(cfg.RetryInterval):
		}
	}
}

// Healthcheck returns a probe function for readiness endpoints.
func Healthcheck(client *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrHealthcheckFailed, err)
		}
		return nil
	}
}
