package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"clinic-scheduling/internal/domain/entity"

	"github.com/redis/go-redis/v9"
)

// Stream entry fields
const (
	streamFieldKey       = "key"
	streamFieldEventType = "event_type"
	streamFieldPayload   = "payload"
)

// StreamName returns the Redis stream backing one partition.
func StreamName(prefix string, partition int) string {
	return fmt.Sprintf("%s:%d", prefix, partition)
}

// StreamNames lists the streams of every partition.
func StreamNames(prefix string, partitions int) []string {
	names := make([]string, partitions)
	for i := range names {
		names[i] = StreamName(prefix, i)
	}
	return names
}

// RedisStreamTransport appends events to per-partition Redis streams.
type RedisStreamTransport struct {
	client *redis.Client
	prefix string
	maxLen int64
}

func NewRedisStreamTransport(client *redis.Client, prefix string, maxLen int64) *RedisStreamTransport {
	return &RedisStreamTransport{client: client, prefix: prefix, maxLen: maxLen}
}

// Send XADDs the JSON payload. Streams are trimmed approximately to maxLen when it is positive.
func (t *RedisStreamTransport) Send(ctx context.Context, partition int, event *entity.AppointmentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.EventID, err)
	}

	args := &redis.XAddArgs{
		Stream: StreamName(t.prefix, partition),
		Values: map[string]interface{}{
			streamFieldKey:       event.RoutingKey(),
			streamFieldEventType: string(event.EventType),
			streamFieldPayload:   string(payload),
		},
	}
	if t.maxLen > 0 {
		args.MaxLen = t.maxLen
		args.Approx = true
	}

	if err := t.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", args.Stream, err)
	}
	return nil
}

// ErrPartitionMismatch means the configured partition count differs from the one the streams were written with.
var ErrPartitionMismatch = errors.New("event partition count mismatch")

// PartitionsKey holds the partition count the streams under prefix are routed by.
func PartitionsKey(prefix string) string {
	return prefix + ":partitions"
}

// ClaimPartitions records partitions on first use and rejects a different count afterwards.
// Changing the count reroutes appointment ids to other streams and breaks per-id ordering,
// so an operator must drain the streams and delete PartitionsKey before resizing.
func (t *RedisStreamTransport) ClaimPartitions(ctx context.Context, partitions int) error {
	key := PartitionsKey(t.prefix)
	if err := t.client.SetNX(ctx, key, partitions, 0).Err(); err != nil {
		return fmt.Errorf("claim %s: %w", key, err)
	}

	stored, err := t.client.Get(ctx, key).Int()
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if stored != partitions {
		return fmt.Errorf("%w: streams %s use %d, configured %d", ErrPartitionMismatch, t.prefix, stored, partitions)
	}
	return nil
}
