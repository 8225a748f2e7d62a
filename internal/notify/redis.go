package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisStream appends messages to a Redis stream consumed by the SMS gateway.
type RedisStream struct {
	client streamAdder
	stream string
	maxLen int64
}

// NewRedisStream creates a Sender writing to stream. maxLen caps the stream
// length approximately; zero leaves it unbounded.
func NewRedisStream(client redis.UniversalClient, stream string, maxLen int64) *RedisStream {
	return &RedisStream{client: client, stream: stream, maxLen: maxLen}
}

var _ Sender = (*RedisStream)(nil)

func (r *RedisStream) Send(ctx context.Context, msg Message) error {
	_, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		MaxLen: r.maxLen,
		Approx: r.maxLen > 0,
		Values: map[string]any{
			"kind":        string(msg.Kind),
			"document_id": msg.DocumentID,
			"number":      msg.Number,
			"phone":       msg.Phone,
			"body":        msg.Body,
			"created_at":  msg.CreatedAt.Format(time.RFC3339Nano),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("append to stream %s: %w", r.stream, err)
	}
	return nil
}
