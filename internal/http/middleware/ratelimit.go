package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRateLimiter connects the shared Redis client used by RateLimit.
// With an empty addr, or when Redis is unreachable, the limiter falls back
// to a per-process in-memory window so the server stays available.
func InitRateLimiter(addr, password string, db int) {
	if addr == "" {
		return
	}
	redisClient = redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		redisClient = nil
	}
}

// RateLimit is a fixed-window per-IP limiter backed by Redis INCR/EXPIRE,
// keyed rl:<window_seconds>:<ip>. Without Redis it degrades to the local
// window, which is per-instance rather than shared.
func RateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	local := newLocalWindow()

	return func(c *gin.Context) {
		ip := c.ClientIP()

		if redisClient == nil {
			if !local.allow(ip, maxRequests, window) {
				block(c)
				return
			}
			c.Next()
			return
		}

		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + ip
		ctx := c.Request.Context()

		val, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			// Redis briefly down: count locally instead of failing open
			if !local.allow(ip, maxRequests, window) {
				block(c)
				return
			}
			c.Next()
			return
		}
		if val == 1 {
			redisClient.Expire(ctx, key, window)
		}
		if val > int64(maxRequests) {
			block(c)
			return
		}

		c.Next()
	}
}

func block(c *gin.Context) {
	rlBlocked.WithLabelValues(c.FullPath()).Inc()
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
}

type windowEntry struct {
	start time.Time
	count int
}

type localWindow struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
}

func newLocalWindow() *localWindow {
	return &localWindow{entries: make(map[string]*windowEntry)}
}

func (w *localWindow) allow(key string, maxRequests int, window time.Duration) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	e, ok := w.entries[key]
	if !ok || now.Sub(e.start) > window {
		w.entries[key] = &windowEntry{start: now, count: 1}
		return true
	}

	e.count++
	return e.count <= maxRequests
}
