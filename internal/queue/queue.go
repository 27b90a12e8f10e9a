package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Reminder is one session-reminder job for the worker.
type Reminder struct {
	SessionID    string    `json:"session_id"`
	InstructorID string    `json:"instructor_id"`
	ClassName    string    `json:"class_name"`
	Date         time.Time `json:"date"`
	StartTime    string    `json:"start_time"`
}

// Queue is the abstraction over different backends.
type Queue interface {
	Publish(ctx context.Context, r Reminder) error
	Consume(ctx context.Context) (<-chan Reminder, error)
}

// InMemory is a minimal channel-backed queue for dev/testing.
type InMemory struct {
	ch chan Reminder
}

// NewInMemory creates a bounded in-memory queue.
func NewInMemory(size int) *InMemory {
	return &InMemory{ch: make(chan Reminder, size)}
}

// Publish enqueues a reminder.
func (q *InMemory) Publish(ctx context.Context, r Reminder) error {
	select {
	case q.ch <- r:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume returns a channel for workers.
func (q *InMemory) Consume(ctx context.Context) (<-chan Reminder, error) {
	out := make(chan Reminder)
	go func() {
		defer close(out)
		for {
			select {
			case r := <-q.ch:
				select {
				case out <- r:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// RedisQueue implements a Redis list-backed queue.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue builds a queue using LPUSH/BRPOP semantics.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = "classtrack:reminders"
	}
	return &RedisQueue{client: client, key: key}
}

// Publish enqueues a reminder.
func (q *RedisQueue) Publish(ctx context.Context, r Reminder) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, raw).Err()
}

// Consume streams reminders using BRPOP.
func (q *RedisQueue) Consume(ctx context.Context) (<-chan Reminder, error) {
	out := make(chan Reminder)
	go func() {
		defer close(out)
		for {
			res, err := q.client.BRPop(ctx, 5*time.Second, q.key).Result()
			if err != nil {
				if err == redis.Nil {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				continue
			}
			if len(res) == 2 {
				var r Reminder
				if err := json.Unmarshal([]byte(res[1]), &r); err == nil {
					select {
					case out <- r:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()
	return out, nil
}
