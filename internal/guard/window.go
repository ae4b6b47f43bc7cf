// Package guard decides whether a requester identity is currently
// eligible to attempt a claim.  The rate window implemented here is an
// anti-abuse throttle, not a correctness mechanism — the allocator's
// transaction alone guarantees exclusivity under races.
package guard

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pavannitheesh/Coupon-backend/internal/config"
)

// Decision is the outcome of a rate-window check for one attempt.
type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Window tracks claim attempts per identity key and admits at most
// Capacity attempts per refill interval.  Every call to Allow consumes an
// attempt when one is available, whether or not the claim later succeeds.
type Window interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// NewWindow returns a Redis-backed window when a client is available so
// the limit holds across instances, and falls back to an in-process
// window otherwise so a single node still throttles.
func NewWindow(cfg config.RateLimitConfig, rdb *redis.Client) Window {
	if rdb != nil {
		return newRedisWindow(cfg, rdb)
	}
	return newMemoryWindow(cfg)
}

type redisWindow struct {
	cfg    config.RateLimitConfig
	rdb    *redis.Client
	script *redis.Script
}

func newRedisWindow(cfg config.RateLimitConfig, rdb *redis.Client) *redisWindow {
	// Token bucket state lives in a Redis hash per key; the script refills
	// elapsed intervals, consumes one token when available and reports how
	// long until the next refill otherwise.  Running it as a single script
	// keeps the check-and-consume atomic across instances.
	script := redis.NewScript(`
        local key = KEYS[1]
        local now_ms = tonumber(ARGV[1])
        local capacity = tonumber(ARGV[2])
        local refill_tokens = tonumber(ARGV[3])
        local interval_ms = tonumber(ARGV[4])
        local ttl_seconds = tonumber(ARGV[5])

        local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
        local tokens = tonumber(state[1])
        local last_refill = tonumber(state[2])

        if tokens == nil or last_refill == nil then
            tokens = capacity
            last_refill = now_ms
        end

        if interval_ms > 0 and refill_tokens > 0 then
            local elapsed = math.max(0, now_ms - last_refill)
            local intervals = math.floor(elapsed / interval_ms)
            if intervals > 0 then
                tokens = math.min(capacity, tokens + (intervals * refill_tokens))
                last_refill = last_refill + (intervals * interval_ms)
            end
        end

        local allowed = 0
        local retry_after_ms = 0
        if tokens > 0 then
            allowed = 1
            tokens = tokens - 1
        else
            local until_next = interval_ms - (now_ms - last_refill)
            if until_next < 0 then until_next = 0 end
            retry_after_ms = until_next
        end

        redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
        redis.call('EXPIRE', key, ttl_seconds)

        return { allowed, tokens, retry_after_ms }
    `)
	return &redisWindow{cfg: cfg, rdb: rdb, script: script}
}

func (w *redisWindow) Allow(ctx context.Context, key string) (Decision, error) {
	args := []interface{}{
		time.Now().UnixMilli(),
		w.cfg.Capacity,
		w.cfg.RefillTokens,
		w.cfg.RefillInterval.Milliseconds(),
		int64(w.cfg.TTL / time.Second),
	}
	vals, err := w.script.Run(ctx, w.rdb, []string{w.cfg.Prefix + ":" + key}, args...).Result()
	if err != nil {
		return Decision{}, err
	}
	arr, ok := vals.([]interface{})
	if !ok || len(arr) != 3 {
		return Decision{}, errUnexpectedScriptResult
	}
	return Decision{
		Allowed:    asInt64(arr[0]) == 1,
		Remaining:  asInt64(arr[1]),
		RetryAfter: time.Duration(asInt64(arr[2])) * time.Millisecond,
	}, nil
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	}
	return 0
}
