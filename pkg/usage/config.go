package usage

import (
	"context"
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// Config describes the Redis connection for the usage store.
type Config struct {
	ConnectionURL  string        `env:"USAGE_REDIS_URL" envDefault:"redis://localhost:6379/0"` // Format "redis://:password@localhost:6379/0"
	KeyPrefix      string        `env:"USAGE_KEY_PREFIX" envDefault:"usage"`                   // Namespace prepended to every counter key
	RetryAttempts  int           `env:"USAGE_REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"USAGE_REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"USAGE_REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}

// LoadConfig populates a Config from environment variables, loading a
// local .env file first when one exists.
func LoadConfig() (Config, error) {
	// Missing .env files are fine; environment variables still apply.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Connect establishes a Redis connection for the usage store, retrying
// per the configuration before giving up.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	for range cfg.RetryAttempts {
		client := redis.NewClient(opt)

		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}

		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, ErrRedisNotReady
}
