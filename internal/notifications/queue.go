package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bonds/internal/observability"

	"github.com/redis/go-redis/v9"
)

// likeQueueKey is the Redis list holding pending like notification jobs.
const likeQueueKey = "notifications:likes"

// Queue is a Redis-list backed job queue for like notifications.
type Queue struct {
	rdb *redis.Client
}

// NewQueue creates a new Queue using the provided Redis client.
func NewQueue(rdb *redis.Client) *Queue {
	return &Queue{rdb: rdb}
}

// Enqueue pushes a like event onto the queue. Without Redis the event is
// dropped with an error; callers treat delivery as best effort and never
// propagate this to the like transaction.
func (q *Queue) Enqueue(ctx context.Context, ev LikeEvent) error {
	if q.rdb == nil {
		return errors.New("notification queue unavailable")
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal like event: %w", err)
	}
	if err := q.rdb.LPush(ctx, likeQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("enqueue like event: %w", err)
	}
	observability.NotificationsEnqueued.Inc()
	return nil
}

// Dequeue blocks up to timeout for the next job. It returns (nil, nil) when
// the queue stays empty; a popped job is gone whether or not the caller
// manages to deliver it, which is what keeps delivery at-most-once.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*LikeEvent, error) {
	if q.rdb == nil {
		return nil, errors.New("notification queue unavailable")
	}
	res, err := q.rdb.BRPop(ctx, timeout, likeQueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("dequeue like event: %w", err)
	}
	// BRPOP returns [key, value].
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of length %d", len(res))
	}

	var ev LikeEvent
	if err := json.Unmarshal([]byte(res[1]), &ev); err != nil {
		return nil, fmt.Errorf("decode like event: %w", err)
	}
	return &ev, nil
}
