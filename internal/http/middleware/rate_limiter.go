package middleware

import (
	"context"
	"net/http"
	"time"

	"flips_backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

var rateLimiter *redis.Client

// InitRedisRateLimiter connects the limiter to redis. With an empty address
// the limiter stays disabled and RateLimit becomes a pass-through, so local
// development does not need redis running.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		logger.Warn("rate limiter disabled: no redis address configured")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("rate limiter disabled: redis unreachable", "error", err)
		return
	}

	rateLimiter = client
	logger.Info("rate limiter enabled", "addr", addr)
}

// RateLimit caps requests per client IP per minute. Redis being down fails
// open: a missing limiter must never take the game server with it.
func RateLimit(perMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rateLimiter == nil {
			c.Next()
			return
		}

		key := "rl:" + c.ClientIP()
		ctx := c.Request.Context()

		count, err := rateLimiter.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			rateLimiter.Expire(ctx, key, time.Minute)
		}

		if count > int64(perMinute) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
