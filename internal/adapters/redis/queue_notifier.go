// Package redis provides Redis-based adapters for the scan pipeline.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultQueueKey is the list scan workers block on with BRPOP.
const DefaultQueueKey = "scan_queue:notify"

// QueueNotifier wakes scan workers by pushing the scan id onto a Redis list.
// The durable queue entry lives in Postgres; this push is only a nudge, so a
// lost notification is recovered by worker polling and the reconciler sweep.
type QueueNotifier struct {
	client redis.UniversalClient
	key    string
}

// NewQueueNotifier creates a notifier using the default queue key.
func NewQueueNotifier(client redis.UniversalClient) *QueueNotifier {
	return &QueueNotifier{client: client, key: DefaultQueueKey}
}

// NewQueueNotifierWithKey creates a notifier pushing to a custom list key.
func NewQueueNotifierWithKey(client redis.UniversalClient, key string) *QueueNotifier {
	if key == "" {
		key = DefaultQueueKey
	}
	return &QueueNotifier{client: client, key: key}
}

// NotifyScanQueued pushes the scan id onto the worker wake-up list.
func (n *QueueNotifier) NotifyScanQueued(ctx context.Context, scanID string) error {
	if scanID == "" {
		return errors.New("scan id cannot be empty")
	}
	if err := n.client.LPush(ctx, n.key, scanID).Err(); err != nil {
		return fmt.Errorf("redis lpush %s: %w", n.key, err)
	}
	return nil
}
