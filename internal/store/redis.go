package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis holds the shared client used by the rate limiter, the dashboard
// cache and the reminder queue.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects with short timeouts. Redis is optional here: callers
// degrade (cache off, limiter in-memory) when it is unreachable, so slow
// dials must not stall startup.
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Redis{Client: client}
}

// Healthy reports whether redis answers a ping. Safe on a nil receiver
// so health checks need no nil guards.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}
