package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campus-union/engage-auth/internal/config"
)

// Redis holds the shared go-redis client. Only the login throttle writes to
// it; session state never touches Redis, so the service runs without it.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration. Reachability
// is probed once at startup so a down Redis shows up in the logs; it is not
// fatal because the throttle fails open without it.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	r := &Redis{Client: redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})}

	if err := r.Ping(context.Background()); err != nil {
		logger.Warn("redis unreachable, login throttle will fail open",
			zap.String("addr", cfg.Addr),
			zap.Error(err),
		)
	} else {
		logger.Info("connected to redis", zap.String("addr", cfg.Addr))
	}
	return r
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity. Nil-safe so the readiness probe can run
// against a service wired without Redis.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
