package middleware

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/BMDarkLight/Simple-Doctor-API/util"
)

const (
	// Rate limiting defaults
	defaultRateLimit  = 5                // 5 attempts
	defaultRateWindow = 15 * time.Minute // per 15 minutes
)

var errRateLimited = errors.New("rate limit exceeded")

// RateLimitConfig holds configuration for rate limiting.
// Redis and Security are optional.
type RateLimitConfig struct {
	Limit    int
	Window   time.Duration
	Redis    *redis.Client
	Security *util.SecurityLogger
}

// RateLimiter creates a fixed-window rate limiting middleware keyed by path
// and client IP. Counters live in Redis when a client is configured; without
// Redis, or when a Redis call fails, an in-process limiter takes over.
func RateLimiter(config RateLimitConfig) gin.HandlerFunc {
	if config.Limit <= 0 {
		config.Limit = defaultRateLimit
	}
	if config.Window <= 0 {
		config.Window = defaultRateWindow
	}
	local := newLocalLimiter(config.Limit, config.Window)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		endpoint := c.Request.URL.Path
		key := rateLimitKey(clientIP, endpoint)

		var allowed bool
		if config.Redis != nil {
			var err error
			allowed, err = checkRateLimit(c.Request.Context(), config.Redis, key, config.Limit, config.Window)
			if err != nil {
				config.Security.LogSecurityEvent(util.SecurityEvent{
					EventType: util.EventSuspiciousActivity,
					IP:        clientIP,
					RequestID: GetRequestID(c),
					Message:   fmt.Sprintf("Rate limit check failed: %v", err),
				})
				allowed = local.allow(key)
			}
		} else {
			allowed = local.allow(key)
		}

		if !allowed {
			config.Security.LogRateLimitExceeded(clientIP, GetRequestID(c), endpoint)
			util.CallTooManyRequests(c, util.APIErrorParams{
				Msg: "Too many requests. Please try again later.",
				Err: errRateLimited,
			})
			return
		}

		c.Next()
	}
}

func rateLimitKey(clientIP, endpoint string) string {
	return fmt.Sprintf("ratelimit:%s:%s", endpoint, clientIP)
}

// checkRateLimit checks if a request is within rate limits
// Returns true if allowed, false if rate limit exceeded
func checkRateLimit(ctx context.Context, rdb *redis.Client, key string, limit int, window time.Duration) (bool, error) {
	pipe := rdb.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	ttlCmd := pipe.TTL(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	// the window starts with the first hit; a key left without a TTL gets one too
	if ttlCmd.Val() < 0 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return incrCmd.Val() <= int64(limit), nil
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// localLimiter is a token bucket per key that refills limit tokens per window.
type localLimiter struct {
	mu        sync.Mutex
	entries   map[string]*localEntry
	limit     int
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newLocalLimiter(limit int, window time.Duration) *localLimiter {
	return &localLimiter{
		entries:   make(map[string]*localEntry),
		limit:     limit,
		window:    window,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *localLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.window {
		for k, e := range l.entries {
			if now.Sub(e.lastSeen) > l.window {
				delete(l.entries, k)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.entries[key]
	if !ok {
		every := rate.Every(l.window / time.Duration(l.limit))
		e = &localEntry{limiter: rate.NewLimiter(every, l.limit)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func (l *localLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
