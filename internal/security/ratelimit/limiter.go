// Package ratelimit provides per-caller request limiting. The memory
// limiter uses a sliding window and suits a single instance; the Redis
// limiter shares a fixed window across instances.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter decides whether a caller may proceed. Keys are usernames for
// authenticated traffic and remote addresses otherwise.
type Limiter interface {
	Allow(key string) bool
	Stop()
}

// MemoryLimiter is a sliding-window limiter held in process memory.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	maxReqs int
	window  time.Duration
	cleanup *time.Ticker
}

type bucket struct {
	requests []time.Time
	lastSeen time.Time
}

// NewMemoryLimiter creates a limiter allowing maxRequests per window
// for each key.
func NewMemoryLimiter(maxRequests int, window time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		buckets: make(map[string]*bucket),
		maxReqs: maxRequests,
		window:  window,
		cleanup: time.NewTicker(5 * time.Minute),
	}
	go l.cleanupOldBuckets()
	return l
}

// Allow reports whether the key may make another request now.
func (l *MemoryLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, exists := l.buckets[key]
	if !exists {
		b = &bucket{}
		l.buckets[key] = b
	}

	cutoff := now.Add(-l.window)
	kept := b.requests[:0]
	for _, t := range b.requests {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	b.requests = kept
	b.lastSeen = now

	if len(b.requests) >= l.maxReqs {
		return false
	}
	b.requests = append(b.requests, now)
	return true
}

func (l *MemoryLimiter) cleanupOldBuckets() {
	for range l.cleanup.C {
		l.mu.Lock()
		stale := time.Now().Add(-15 * time.Minute)
		for key, b := range l.buckets {
			if b.lastSeen.Before(stale) {
				delete(l.buckets, key)
			}
		}
		l.mu.Unlock()
	}
}

// Stop halts the background cleanup.
func (l *MemoryLimiter) Stop() {
	l.cleanup.Stop()
}
