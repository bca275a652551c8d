package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/keys"
)

// RedisLog implements Log on a Redis sorted set per partition, scored by
// wall-clock timestamp. Redis guarantees per-key atomicity for each command;
// the append-then-trim sequence is two commands and tolerates interleaving
// because trim always removes from the low end.
type RedisLog struct {
	rdb    redis.Cmdable
	keys   keys.Scheme
	max    int
	logger *slog.Logger
}

// NewRedisLog creates a durable event log capped at max events per partition.
func NewRedisLog(rdb redis.Cmdable, scheme keys.Scheme, max int) *RedisLog {
	if max <= 0 {
		max = DefaultMaxEvents
	}
	return &RedisLog{
		rdb:    rdb,
		keys:   scheme,
		max:    max,
		logger: slog.Default(),
	}
}

// Append stores the event, then trims the lowest-score entries once the
// partition holds more than the capacity.
func (l *RedisLog) Append(ctx context.Context, partition string, e Event, score float64) error {
	e.Partition = partition
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	key := l.keys.CommandLog(partition)
	if err := l.rdb.ZAdd(ctx, key, redis.Z{Score: score, Member: string(payload)}).Err(); err != nil {
		return fmt.Errorf("appending event: %w", err)
	}

	total, err := l.rdb.ZCard(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("sizing event log: %w", err)
	}
	if total > int64(l.max) {
		if err := l.rdb.ZRemRangeByRank(ctx, key, 0, total-int64(l.max)-1).Err(); err != nil {
			return fmt.Errorf("trimming event log: %w", err)
		}
	}
	return nil
}

// Recent returns up to limit events, highest score first. Corrupted members
// are skipped with a warning; a bad entry never aborts the read.
func (l *RedisLog) Recent(ctx context.Context, partition string, limit int) ([]Event, error) {
	if limit <= 0 {
		return nil, nil
	}
	key := l.keys.CommandLog(partition)
	raw, err := l.rdb.ZRevRange(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading event log: %w", err)
	}

	events := make([]Event, 0, len(raw))
	for _, member := range raw {
		var e Event
		if err := json.Unmarshal([]byte(member), &e); err != nil {
			l.logger.Warn("skipping corrupted event", "partition", partition, "error", err)
			continue
		}
		events = append(events, e)
	}
	return events, nil
}

// Clear deletes the named partitions, or every known partition when none are
// given.
func (l *RedisLog) Clear(ctx context.Context, partitions ...string) error {
	if len(partitions) == 0 {
		partitions = KnownPartitions
	}
	logKeys := make([]string, len(partitions))
	for i, p := range partitions {
		logKeys[i] = l.keys.CommandLog(p)
	}
	if err := l.rdb.Del(ctx, logKeys...).Err(); err != nil {
		return fmt.Errorf("clearing event log: %w", err)
	}
	return nil
}

var _ Log = (*RedisLog)(nil)
