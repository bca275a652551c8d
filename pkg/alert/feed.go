// Package alert maintains the active-alert feed: a sorted set of JSON alert
// records scored by timestamp, trimmed to a fixed number of newest entries.
package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/keys"
	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/monitor"
)

// MaxActive caps how many alerts the feed retains.
const MaxActive = 50

// DefaultLimit is how many alerts Active returns when no limit is given.
const DefaultLimit = 10

// Alert is one alert record.
type Alert struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Message   string  `json:"message"`
	Details   string  `json:"details,omitempty"`
	Location  string  `json:"location"`
	SensorID  string  `json:"sensor_id"`
	Severity  string  `json:"severity"`
	Timestamp float64 `json:"timestamp"`
}

// Feed reads and raises alerts.
type Feed struct {
	rdb      redis.Cmdable
	keys     keys.Scheme
	recorder *monitor.Recorder // optional, may be nil
	logger   *slog.Logger
}

// NewFeed creates an alert feed. recorder may be nil.
func NewFeed(rdb redis.Cmdable, scheme keys.Scheme, recorder *monitor.Recorder) *Feed {
	return &Feed{rdb: rdb, keys: scheme, recorder: recorder, logger: slog.Default()}
}

// Active returns up to limit alerts, newest first. Corrupted members are
// skipped with a warning and never abort the read.
func (f *Feed) Active(ctx context.Context, limit int64) ([]Alert, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	if f.recorder != nil {
		f.recorder.Record(ctx, "ZREVRANGE", f.keys.ActiveAlerts(), "", "")
	}
	members, err := f.rdb.ZRevRangeWithScores(ctx, f.keys.ActiveAlerts(), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading alerts: %w", err)
	}

	alerts := make([]Alert, 0, len(members))
	for _, member := range members {
		raw, ok := member.Member.(string)
		if !ok {
			continue
		}
		var a Alert
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			f.logger.Warn("skipping corrupted alert", "error", err)
			continue
		}
		if a.Timestamp == 0 {
			a.Timestamp = member.Score
		}
		alerts = append(alerts, a)
	}
	return alerts, nil
}

// Raise adds an alert scored by its timestamp, bumps the lifetime counter,
// and trims the feed to the newest MaxActive entries.
func (f *Feed) Raise(ctx context.Context, a Alert) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding alert: %w", err)
	}

	member := redis.Z{Score: a.Timestamp, Member: string(payload)}
	if err := f.rdb.ZAdd(ctx, f.keys.ActiveAlerts(), member).Err(); err != nil {
		return fmt.Errorf("raising alert: %w", err)
	}
	if err := f.rdb.Incr(ctx, f.keys.AlertCount()).Err(); err != nil {
		return fmt.Errorf("counting alert: %w", err)
	}
	if err := f.rdb.ZRemRangeByRank(ctx, f.keys.ActiveAlerts(), 0, -(MaxActive + 1)).Err(); err != nil {
		return fmt.Errorf("trimming alerts: %w", err)
	}
	return nil
}
