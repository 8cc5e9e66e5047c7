package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"task_frontend/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter initializes a shared Redis client used by the limiters.
// If addr is empty or the ping fails, redisClient stays nil and the limiters
// count in process memory instead.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		return
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, rate limits fall back to memory", "addr", addr, "error", err)
		_ = client.Close()
		return
	}
	redisClient = client
	logger.Info("redis rate limiter ready", "addr", addr)
}

// CloseRedisRateLimiter releases the shared client, if any.
func CloseRedisRateLimiter() {
	if redisClient != nil {
		_ = redisClient.Close()
		redisClient = nil
	}
}

// RateLimit is a fixed-window limit per client IP.
// key format: rl:<window_seconds>:<ip>
func RateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	mem := newMemoryCounter()
	return func(c *gin.Context) {
		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		if !allow(c, mem, key, "X-RateLimit", c.FullPath(), maxRequests, window) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// SessionRateLimit limits page actions per view session rather than per IP.
// Session must run before it.
// key format: session_rl:<window_seconds>:<sid>
func SessionRateLimit(maxActions int, window time.Duration) gin.HandlerFunc {
	mem := newMemoryCounter()
	return func(c *gin.Context) {
		sid := SessionID(c)
		if sid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no session"})
			return
		}

		key := "session_rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + sid
		if !allow(c, mem, key, "X-ActionRateLimit", "session:"+c.FullPath(), maxActions, window) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "action rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}
		c.Next()
	}
}

// allow counts one hit and reports whether it is within the limit. Redis
// errors fail open.
func allow(c *gin.Context, mem *memoryCounter, key, header, endpoint string, limit int, window time.Duration) bool {
	var val int64
	if redisClient != nil {
		ctx := context.Background()
		n, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			c.Header(header+"-Error", "redis-error")
			return true
		}
		if n == 1 {
			redisClient.Expire(ctx, key, window)
		}
		val = n
	} else {
		val = mem.incr(key, window, time.Now())
	}

	c.Header(header+"-Limit", strconv.Itoa(limit))
	c.Header(header+"-Remaining", strconv.FormatInt(max(0, int64(limit)-val), 10))

	if val > int64(limit) {
		RLBlocked.WithLabelValues(endpoint).Inc()
		return false
	}
	RLRequests.WithLabelValues(endpoint).Inc()
	return true
}
