// Package ratelimit throttles anonymous traffic with a Redis token bucket.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/hiddenpiece/roadmap-service/pkg/util/errorutil"
)

const (
	keyPrefix = "ratelimit:roadmap:ip:"
	keyTTL    = 10 * time.Second
)

// Result describes the outcome of one bucket check.
type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Checker decides whether a request identified by key may proceed.
type Checker interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// tokenBucket refills at ARGV[1] tokens per second up to ARGV[2] and consumes one.
var tokenBucket = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local burst = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	tokens = math.min(burst, tokens + ((now - last_update) * rate))

	local allowed = 0
	local retry_after = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// Limiter is a Redis-backed Checker.
type Limiter struct {
	client *redis.Client
	rps    int
	burst  int
	logger *zap.Logger
}

// NewLimiter builds a limiter allowing rps requests per second with the given burst.
func NewLimiter(client *redis.Client, rps, burst int, logger *zap.Logger) *Limiter {
	if rps <= 0 {
		rps = 1
	}
	if burst < rps {
		burst = rps
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Limiter{client: client, rps: rps, burst: burst, logger: logger}
}

// Allow consumes one token for key. Redis failures let the request through.
func (l *Limiter) Allow(ctx context.Context, key string) (*Result, error) {
	res, err := tokenBucket.Run(ctx, l.client,
		[]string{keyPrefix + hashKey(key)},
		l.rps, l.burst, time.Now().Unix(), int(keyTTL.Seconds()),
	).Int64Slice()
	if err != nil {
		l.logger.Warn("rate limit check failed; allowing request", zap.Error(err))
		return &Result{Allowed: true, Remaining: int64(l.burst)}, nil
	}

	return &Result{
		Allowed:    res[0] == 1,
		RetryAfter: time.Duration(res[1]) * time.Second,
		Remaining:  res[2],
	}, nil
}

// Middleware rejects requests over the limit with 429. A nil checker disables limiting.
func Middleware(checker Checker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if checker == nil {
			return c.Next()
		}
		res, err := checker.Allow(c.UserContext(), c.IP())
		if err != nil || res == nil {
			return c.Next()
		}
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
		if !res.Allowed {
			retry := int(math.Max(1, res.RetryAfter.Seconds()))
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retry))
			return apperrors.NewTooManyRequests("too many requests")
		}
		return c.Next()
	}
}

// hashKey keeps raw client addresses out of Redis.
func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}
