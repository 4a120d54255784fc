package auth

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campus-union/engage-auth/internal/config"
	"github.com/campus-union/engage-auth/internal/persistence"
)

// throttleStore is the slice of the redis client the throttle uses.
type throttleStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// LoginThrottle counts failed logins per email and client address in Redis
// and blocks further attempts once the window limit is reached. It fails
// open: when Redis is unreachable, logins proceed unthrottled.
//
// A nil *LoginThrottle is valid and disables throttling.
type LoginThrottle struct {
	store       throttleStore
	logger      *zap.Logger
	maxFailures int
	window      time.Duration
}

// NewLoginThrottle builds the throttle, or returns nil when disabled.
func NewLoginThrottle(store *persistence.Redis, cfg config.ThrottleConfig, logger *zap.Logger) *LoginThrottle {
	if !cfg.Enabled || store == nil || store.Client == nil {
		return nil
	}
	maxFailures := cfg.MaxFailures
	if maxFailures <= 0 {
		maxFailures = 5
	}
	return &LoginThrottle{
		store:       store.Client,
		logger:      logger,
		maxFailures: maxFailures,
		window:      cfg.Window(),
	}
}

// Allow reports whether a login attempt for this email/address pair may
// proceed.
func (t *LoginThrottle) Allow(ctx context.Context, email, addr string) bool {
	if t == nil {
		return true
	}
	count, err := t.store.Get(ctx, t.key(email, addr)).Int()
	if err == redis.Nil {
		return true
	}
	if err != nil {
		t.logger.Warn("login throttle unavailable, failing open", zap.Error(err))
		return true
	}
	return count < t.maxFailures
}

// RecordFailure bumps the failure counter, starting the window on the first
// failure.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email, addr string) {
	if t == nil {
		return
	}
	key := t.key(email, addr)
	count, err := t.store.Incr(ctx, key).Result()
	if err != nil {
		t.logger.Warn("login throttle record failed", zap.Error(err))
		return
	}
	if count == 1 {
		if err := t.store.Expire(ctx, key, t.window).Err(); err != nil {
			t.logger.Warn("login throttle expire failed", zap.Error(err))
		}
	}
}

// Clear drops the counter after a successful login.
func (t *LoginThrottle) Clear(ctx context.Context, email, addr string) {
	if t == nil {
		return
	}
	if err := t.store.Del(ctx, t.key(email, addr)).Err(); err != nil {
		t.logger.Warn("login throttle clear failed", zap.Error(err))
	}
}

func (t *LoginThrottle) key(email, addr string) string {
	return "login:fail:" + strings.ToLower(email) + ":" + addr
}
