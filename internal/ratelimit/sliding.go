package ratelimit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingScript prunes expired entries, counts the remainder and
// conditionally admits the request as one atomic unit. Running it as a
// single script is what keeps concurrent checks across processes from
// over-admitting.
//
// KEYS[1] = zset key, ARGV = now_micros, window_micros, limit, member
// Returns {allowed, count_after}.
var slidingScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
local count = redis.call('ZCARD', key)
if count < limit then
	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, math.ceil(window / 1000))
	return {1, count + 1}
end
return {0, count}
`)

// SlidingWindow is a Redis-backed sliding-window limiter shared across
// processes. Each identifier maps to an ordered set of request
// timestamps pruned on every check.
type SlidingWindow struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewSlidingWindow creates a distributed limiter.
func NewSlidingWindow(client *redis.Client) *SlidingWindow {
	return &SlidingWindow{
		client: client,
		prefix: "ratelimit:",
		now:    time.Now,
	}
}

// Check runs the atomic prune-count-insert script for the identifier.
func (l *SlidingWindow) Check(ctx context.Context, identifier string, limit int, window time.Duration) (Result, error) {
	now := l.now()
	member := uuid.NewString()

	vals, err := slidingScript.Run(ctx, l.client, []string{l.prefix + identifier},
		now.UnixMicro(), window.Microseconds(), limit, member).Int64Slice()
	if err != nil {
		return Result{}, err
	}

	allowed := len(vals) > 0 && vals[0] == 1
	count := 0
	if len(vals) > 1 {
		count = int(vals[1])
	}

	res := Result{
		Allowed: allowed,
		Limit:   limit,
		Reset:   now.Add(window),
	}
	if remaining := limit - count; remaining > 0 {
		res.Remaining = remaining
	}
	if !allowed {
		res.RetryAfter = window
	}
	return res, nil
}
