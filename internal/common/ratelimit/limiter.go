// Package ratelimit implements a fixed-window request limiter backed by Redis.
package ratelimit

import (
	"context"
	"time"

	"lead-funnel/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

type Config struct {
	Requests int
	Window   time.Duration
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

type Limiter struct {
	rdb    redis.Cmdable
	cfg    Config
	logger logger.Logger
}

func NewLimiter(rdb redis.Cmdable, cfg Config, log logger.Logger) *Limiter {
	if cfg.Requests <= 0 {
		cfg.Requests = 5
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return &Limiter{
		rdb:    rdb,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "ratelimit"}),
	}
}

// Allow counts one request against key. Redis failures let the request
// through.
func (l *Limiter) Allow(ctx context.Context, key string) Decision {
	redisKey := keyPrefix + key

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, l.cfg.Window)
	ttl := pipe.PTTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warn("Rate limiter unavailable, allowing request", map[string]interface{}{
			"key":   key,
			"error": err,
		})
		return Decision{Allowed: true, Remaining: l.cfg.Requests}
	}

	count := int(incr.Val())
	remaining := l.cfg.Requests - count
	if remaining < 0 {
		remaining = 0
	}

	reset := ttl.Val()
	if reset < 0 {
		reset = l.cfg.Window
	}

	return Decision{
		Allowed:   count <= l.cfg.Requests,
		Remaining: remaining,
		ResetIn:   reset,
	}
}
