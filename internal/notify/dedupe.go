// internal/notify/dedupe.go
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SendGuard enforces at most one notification per (type, row) via a redis
// SETNX key. Every stage advance sends exactly one notification; when two
// racing requests both reach the send step, only the key owner proceeds.
type SendGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSendGuard(client *redis.Client, ttl time.Duration) *SendGuard {
	return &SendGuard{client: client, ttl: ttl}
}

// Acquire returns true when the caller owns the send for this notification.
// A redis error fails open and is reported alongside.
func (g *SendGuard) Acquire(ctx context.Context, notificationType string, position int64) (bool, error) {
	key := fmt.Sprintf("notify:%s:%d", notificationType, position)
	ok, err := g.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		return true, err
	}
	return ok, nil
}

// Release drops the guard key so a failed send can be retried by a later
// request.
func (g *SendGuard) Release(ctx context.Context, notificationType string, position int64) error {
	key := fmt.Sprintf("notify:%s:%d", notificationType, position)
	return g.client.Del(ctx, key).Err()
}
