package security

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"go-jobboard-backend/pkg/redis"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts before a block
	AttemptWindow time.Duration // window the attempts are counted in
	BlockDuration time.Duration // how long a block lasts
}

// TrackerStore is the part of the Redis client the tracker needs.
type TrackerStore interface {
	goredis.Scripter
	Exists(ctx context.Context, keys ...string) *goredis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// LoginTracker counts failed logins per email in Redis and blocks the email
// once MaxAttempts is reached. With a nil store it never blocks.
type LoginTracker struct {
	store  TrackerStore
	config LoginTrackerConfig
	logger *SecurityLogger
}

func NewLoginTracker(store TrackerStore, config LoginTrackerConfig, logger *SecurityLogger) *LoginTracker {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 5
	}
	if config.AttemptWindow <= 0 {
		config.AttemptWindow = 15 * time.Minute
	}
	if config.BlockDuration <= 0 {
		config.BlockDuration = 15 * time.Minute
	}
	if logger == nil {
		logger = DefaultLogger()
	}
	return &LoginTracker{store: store, config: config, logger: logger}
}

// Redis key patterns
const (
	failLoginPrefix    = "fail:login:user:"
	blockedLoginPrefix = "blocked:login:user:"
)

// IsBlocked reports whether email is currently blocked.
func (lt *LoginTracker) IsBlocked(ctx context.Context, email string) (bool, error) {
	if lt.store == nil {
		return false, nil
	}
	n, err := lt.store.Exists(ctx, blockedLoginPrefix+email).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check block: %w", err)
	}
	return n > 0, nil
}

// RecordFailure counts a failed attempt and blocks the email when the limit
// is reached. It returns whether the email is now blocked.
func (lt *LoginTracker) RecordFailure(ctx context.Context, email, requestID string) (bool, error) {
	if lt.store == nil {
		return false, nil
	}

	count, _, err := redis.IncrWindow(ctx, lt.store, failLoginPrefix+email, lt.config.AttemptWindow)
	if err != nil {
		return false, fmt.Errorf("failed to increment counter: %w", err)
	}
	if count < int64(lt.config.MaxAttempts) {
		return false, nil
	}

	if err := lt.store.Set(ctx, blockedLoginPrefix+email, "1", lt.config.BlockDuration).Err(); err != nil {
		return true, fmt.Errorf("failed to set block: %w", err)
	}
	_ = lt.store.Del(ctx, failLoginPrefix+email).Err()
	lt.logger.LogBlockCreated(ctx, email, requestID, int(lt.config.BlockDuration.Minutes()))
	return true, nil
}

// Clear resets the failure counter after a successful login.
func (lt *LoginTracker) Clear(ctx context.Context, email string) error {
	if lt.store == nil {
		return nil
	}
	return lt.store.Del(ctx, failLoginPrefix+email).Err()
}
