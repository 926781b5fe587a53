package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yourorg/homerental/internal/infrastructure/redis"
	"github.com/yourorg/homerental/internal/reliability/circuitbreaker"
)

// RedisLimiter enforces a fixed-window limit shared across instances.
// A circuit breaker guards the Redis dependency: when Redis misbehaves
// the limiter fails open so an outage never blocks traffic.
type RedisLimiter struct {
	client  *redis.Client
	breaker *circuitbreaker.CircuitBreaker
	maxReqs int64
	window  time.Duration
	logger  *slog.Logger
}

// NewRedisLimiter creates a limiter allowing maxRequests per window.
func NewRedisLimiter(client *redis.Client, maxRequests int, window time.Duration, logger *slog.Logger) *RedisLimiter {
	return &RedisLimiter{
		client:  client,
		breaker: circuitbreaker.NewCircuitBreaker(5, 2, 30*time.Second),
		maxReqs: int64(maxRequests),
		window:  window,
		logger:  logger,
	}
}

// Allow reports whether the key may make another request now.
func (l *RedisLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}
	if !l.breaker.AllowRequest() {
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	windowKey := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(l.window.Seconds()))
	count, err := l.client.IncrWindow(ctx, windowKey, l.window)
	if err != nil {
		l.breaker.RecordFailure()
		l.logger.Warn("rate limit check failed, allowing request", slog.String("error", err.Error()))
		return true
	}
	l.breaker.RecordSuccess()
	return count <= l.maxReqs
}

// Stop is a no-op; the Redis connection is owned by the caller.
func (l *RedisLimiter) Stop() {}
