package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/redis"
	"go-jobboard-backend/pkg/security"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Key prefix for Redis
	KeyPrefix string
	// Custom key extractor (default: client IP)
	KeyFunc func(*gin.Context) string
	// Reject requests when Redis errors instead of letting them through
	FailClosed bool
}

// GlobalRateLimitConfig applies to every route.
func GlobalRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:ip:"}
}

// AuthRateLimitConfig is the stricter budget for /register and /auth.
func AuthRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:auth:", FailClosed: true}
}

// RateLimit counts requests per key in fixed windows held in Redis. A nil
// client disables limiting.
func RateLimit(client goredis.Scripter, config RateLimitConfig, audit *security.SecurityLogger) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	if audit == nil {
		audit = security.DefaultLogger()
	}

	return func(c *gin.Context) {
		if client == nil || config.Limit <= 0 {
			c.Next()
			return
		}

		count, ttl, err := redis.IncrWindow(c.Request.Context(), client, config.KeyPrefix+config.KeyFunc(c), config.Window)
		if err != nil {
			logger.L().Warn("rate limit check failed", "error", err, "prefix", config.KeyPrefix)
			if config.FailClosed {
				response.Abort(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", apperror.KindInternal)
				return
			}
			c.Next()
			return
		}

		if ttl < 1 {
			ttl = 1
		}
		remaining := int64(config.Limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(config.Limit) {
			c.Header("Retry-After", strconv.FormatInt(ttl, 10))
			audit.LogRateLimitTriggered(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"),
				c.GetString(response.RequestIDKey), c.FullPath())
			response.Abort(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", apperror.KindRateLimited)
			return
		}

		c.Next()
	}
}
