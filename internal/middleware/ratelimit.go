package middleware

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"taskboard/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimiter decides whether a request identified by key may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit enforces a per-client limit keyed by client IP. A limiter
// outage fails open: the API stays up and the request passes through.
func RateLimit(limiter RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Printf("rate limiter unavailable, failing open: %v", err)
			c.Next()
			return
		}
		if !allowed {
			abortWithError(c, apperr.RateLimited("rate limit exceeded"))
			return
		}
		c.Next()
	}
}

// RedisLimiter implements sliding-window rate limiting on Redis sorted
// sets, shared across instances.
type RedisLimiter struct {
	client    *redis.Client
	keyPrefix string
	limit     int
	window    time.Duration
}

func NewRedisLimiter(client *redis.Client, keyPrefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:    client,
		keyPrefix: keyPrefix,
		limit:     limit,
		window:    window,
	}
}

// The script removes expired entries, counts the window, and records the
// request atomically. A counter key keeps member values unique.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current = redis.call('ZCARD', key)
	if current >= limit then
		return 0
	end

	local counter = redis.call('INCR', key .. ':counter')
	redis.call('ZADD', key, now, now .. ':' .. counter)
	local expire_seconds = math.ceil(window_ms / 1000)
	redis.call('EXPIRE', key, expire_seconds)
	redis.call('EXPIRE', key .. ':counter', expire_seconds)
	return 1
`)

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()
	redisKey := l.keyPrefix + key

	result, err := slidingWindowScript.Run(ctx, l.client, []string{redisKey},
		now.UnixMilli(),
		now.Add(-l.window).UnixMilli(),
		l.limit,
		l.window.Milliseconds(),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("redis script error: %w", err)
	}

	return result == 1, nil
}

// LocalLimiter keeps an in-process token bucket per client. Used when no
// Redis address is configured; limits are then per instance.
type LocalLimiter struct {
	mu      sync.Mutex
	clients map[string]*localClient
	rps     rate.Limit
	burst   int
	done    chan struct{}
}

type localClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewLocalLimiter(requestsPerMin, burst int, cleanupInterval time.Duration) *LocalLimiter {
	l := &LocalLimiter{
		clients: make(map[string]*localClient),
		rps:     rate.Limit(float64(requestsPerMin) / 60.0),
		burst:   burst,
		done:    make(chan struct{}),
	}
	go l.cleanupLoop(cleanupInterval)
	return l
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	client, ok := l.clients[key]
	if !ok {
		client = &localClient{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[key] = client
	}
	client.lastSeen = time.Now()

	return client.limiter.Allow(), nil
}

func (l *LocalLimiter) Stop() {
	close(l.done)
}

func (l *LocalLimiter) cleanupLoop(interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.mu.Lock()
			for key, client := range l.clients {
				if time.Since(client.lastSeen) > interval {
					delete(l.clients, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
