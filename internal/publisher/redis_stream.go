package publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/herolabs/hokhub/internal/contrib"
)

// Stream names for contribution lifecycle events.
const (
	StreamSubmitted = "contributions.submitted"
	StreamResolved  = "contributions.resolved"
	StreamReconcile = "dataset.reconciled"
)

// RedisStreamPublisher publishes events to Redis streams
type RedisStreamPublisher struct {
	client *redis.Client
}

// NewRedisStreamPublisher creates a new Redis stream publisher from existing client
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
	}
}

// ContributionSubmitted publishes a new pending contribution. Part of
// the pipeline's notifier fan-out, so errors are logged, not returned.
func (rsp *RedisStreamPublisher) ContributionSubmitted(ctx context.Context, c *contrib.Contribution) {
	if err := rsp.publish(ctx, StreamSubmitted, c); err != nil {
		log.Printf("⚠️  publish %s to %s failed: %v", c.ID, StreamSubmitted, err)
	}
}

// ContributionResolved publishes a moderation decision.
func (rsp *RedisStreamPublisher) ContributionResolved(ctx context.Context, c *contrib.Contribution) {
	if err := rsp.publish(ctx, StreamResolved, c); err != nil {
		log.Printf("⚠️  publish %s to %s failed: %v", c.ID, StreamResolved, err)
	}
}

// PublishReconcileRun announces a completed batch reconcile so
// downstream consumers can refresh.
func (rsp *RedisStreamPublisher) PublishReconcileRun(ctx context.Context, summary interface{}) error {
	return rsp.publish(ctx, StreamReconcile, summary)
}

func (rsp *RedisStreamPublisher) publish(ctx context.Context, stream string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return rsp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
