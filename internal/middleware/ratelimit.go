package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/settleline/api/internal/model"
)

// LimitStore tracks request counts per key. Two implementations exist: an
// in-memory token bucket for single-instance deployments and a Redis fixed
// window for shared state across instances.
type LimitStore interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int, resetTime time.Time, err error)
	Limit() int
	Stop()
}

// RateLimitConfig holds rate limiter configuration
type RateLimitConfig struct {
	Rate    int           // Requests per window (default 100)
	Window  time.Duration // Time window (default 1 minute)
	Burst   int           // Max burst (default 20)
	Cleanup time.Duration // Cleanup interval for expired buckets (default 5 minutes)
}

func (cfg *RateLimitConfig) applyDefaults() {
	if cfg.Rate == 0 {
		cfg.Rate = 100
	}
	if cfg.Window == 0 {
		cfg.Window = time.Minute
	}
	if cfg.Burst == 0 {
		cfg.Burst = 20
	}
	if cfg.Cleanup == 0 {
		cfg.Cleanup = 5 * time.Minute
	}
}

// MemoryStore implements token bucket rate limiting in process memory
type MemoryStore struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     int
	window   time.Duration
	burst    int
	cleanup  time.Duration
	stopChan chan struct{}
}

type bucket struct {
	tokens    int
	lastReset time.Time
}

// NewMemoryStore creates an in-memory rate limit store
func NewMemoryStore(cfg RateLimitConfig) *MemoryStore {
	cfg.applyDefaults()

	s := &MemoryStore{
		buckets:  make(map[string]*bucket),
		rate:     cfg.Rate,
		window:   cfg.Window,
		burst:    cfg.Burst,
		cleanup:  cfg.Cleanup,
		stopChan: make(chan struct{}),
	}

	go s.cleanupLoop()

	return s
}

// Limit returns the configured per-window request limit
func (s *MemoryStore) Limit() int {
	return s.rate
}

// Stop stops the cleanup goroutine
func (s *MemoryStore) Stop() {
	close(s.stopChan)
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(s.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanupExpired()
		case <-s.stopChan:
			return
		}
	}
}

func (s *MemoryStore) cleanupExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.window * 2)
	for key, b := range s.buckets {
		if b.lastReset.Before(cutoff) {
			delete(s.buckets, key)
		}
	}
}

// Allow checks if a request is allowed for the given key
func (s *MemoryStore) Allow(_ context.Context, key string) (bool, int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	b, exists := s.buckets[key]

	if !exists {
		// New bucket with burst tokens
		b = &bucket{
			tokens:    s.rate + s.burst - 1, // -1 for this request
			lastReset: now,
		}
		s.buckets[key] = b
		return true, b.tokens, now.Add(s.window), nil
	}

	// Refill tokens based on elapsed time
	elapsed := now.Sub(b.lastReset)
	if elapsed >= s.window {
		// Full refill
		b.tokens = s.rate + s.burst
		b.lastReset = now
	} else {
		// Partial refill based on time elapsed
		tokensToAdd := int(float64(s.rate) * (float64(elapsed) / float64(s.window)))
		b.tokens += tokensToAdd
		if b.tokens > s.rate+s.burst {
			b.tokens = s.rate + s.burst
		}
		if tokensToAdd > 0 {
			b.lastReset = now
		}
	}

	if b.tokens > 0 {
		b.tokens--
		return true, b.tokens, b.lastReset.Add(s.window), nil
	}

	return false, 0, b.lastReset.Add(s.window), nil
}

// RedisStore implements fixed-window rate limiting on a shared Redis
// instance, for deployments running more than one API process
type RedisStore struct {
	client *redis.Client
	rate   int
	window time.Duration
	prefix string
}

// NewRedisStore creates a Redis-backed rate limit store
func NewRedisStore(client *redis.Client, cfg RateLimitConfig) *RedisStore {
	cfg.applyDefaults()
	return &RedisStore{
		client: client,
		rate:   cfg.Rate,
		window: cfg.Window,
		prefix: "ratelimit:",
	}
}

// Limit returns the configured per-window request limit
func (s *RedisStore) Limit() int {
	return s.rate
}

// Stop is a no-op; the Redis client is owned by the caller
func (s *RedisStore) Stop() {}

// Allow counts the request against the key's current fixed window
func (s *RedisStore) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	now := time.Now()
	windowStart := now.Truncate(s.window)
	resetTime := windowStart.Add(s.window)

	bucketKey := fmt.Sprintf("%s%s:%d", s.prefix, key, windowStart.Unix())

	count, err := s.client.Incr(ctx, bucketKey).Result()
	if err != nil {
		return false, 0, resetTime, err
	}
	if count == 1 {
		// First hit in this window sets the expiry.
		if err := s.client.Expire(ctx, bucketKey, s.window+time.Second).Err(); err != nil {
			return false, 0, resetTime, err
		}
	}

	remaining := s.rate - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return int(count) <= s.rate, remaining, resetTime, nil
}

// RateLimit returns a middleware that applies rate limiting
func RateLimit(store LimitStore) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Key on client address: the limiter sits in the global chain,
			// ahead of the per-route auth that establishes user identity.
			key := r.RemoteAddr

			allowed, remaining, resetTime, err := store.Allow(r.Context(), key)
			if err != nil {
				// A broken limiter store must not take the API down.
				slog.Error("rate limit store failure", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			// Set rate limit headers
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(store.Limit()))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

			if !allowed {
				retryAfter := int(time.Until(resetTime).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				model.NewRateLimitError(retryAfter).WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
