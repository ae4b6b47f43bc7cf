package guard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pavannitheesh/Coupon-backend/internal/config"
)

var errUnexpectedScriptResult = errors.New("unexpected rate limit script result")

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// memoryWindow is the single-node fallback used when Redis is not
// reachable at startup.  Same token bucket semantics as the Redis window,
// protected by a mutex.  State for keys idle longer than the configured
// TTL is dropped on the way through Allow.
type memoryWindow struct {
	cfg     config.RateLimitConfig
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func newMemoryWindow(cfg config.RateLimitConfig) *memoryWindow {
	return &memoryWindow{
		cfg:     cfg,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (w *memoryWindow) Allow(_ context.Context, key string) (Decision, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.sweep(now)

	b, ok := w.buckets[key]
	if !ok {
		b = &bucket{tokens: w.cfg.Capacity, lastRefill: now}
		w.buckets[key] = b
	}

	interval := w.cfg.RefillInterval
	if elapsed := now.Sub(b.lastRefill); elapsed >= interval {
		intervals := int(elapsed / interval)
		b.tokens += intervals * w.cfg.RefillTokens
		if b.tokens > w.cfg.Capacity {
			b.tokens = w.cfg.Capacity
		}
		b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * interval)
	}

	if b.tokens > 0 {
		b.tokens--
		return Decision{Allowed: true, Remaining: int64(b.tokens)}, nil
	}

	retry := interval - now.Sub(b.lastRefill)
	if retry < 0 {
		retry = 0
	}
	return Decision{Allowed: false, Remaining: 0, RetryAfter: retry}, nil
}

// sweep drops state for keys that have been idle long enough to be fully
// refilled anyway.
func (w *memoryWindow) sweep(now time.Time) {
	for k, b := range w.buckets {
		if now.Sub(b.lastRefill) > w.cfg.TTL {
			delete(w.buckets, k)
		}
	}
}
