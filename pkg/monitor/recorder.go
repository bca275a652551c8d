package monitor

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/keys"
)

// Recorder defaults.
const (
	// DefaultMaxEvents caps each partition's event log.
	DefaultMaxEvents = 500

	// DefaultResultPreview bounds the stored result payload in bytes.
	DefaultResultPreview = 100

	// DefaultStatsSample is the recent-window size Stats rescans. Smaller
	// than the partition capacity: stats are exact only over this window.
	DefaultStatsSample = 100

	// defaultRecentLimit applies when Recent is called with a non-positive
	// limit.
	defaultRecentLimit = 50

	// No-context durable reads are capped to bound the cost of the common
	// "show me activity" call. Explicit-partition reads honor the caller's
	// limit so a full partition can be paged out.
	durableDefaultCap = 50
)

// Config configures a Recorder.
type Config struct {
	// MaxEvents caps the fallback buffer and is the expected durable
	// partition capacity. Zero means DefaultMaxEvents.
	MaxEvents int

	// ResultPreview bounds stored result payloads. Zero means
	// DefaultResultPreview.
	ResultPreview int

	// StatsSample is the window Stats rescans. Zero means
	// DefaultStatsSample.
	StatsSample int
}

// Stats holds best-effort command counts over a bounded recent sample.
// Reads + Writes + Other always equals Total for the sampled window.
type Stats struct {
	Reads  int `json:"read_count"`
	Writes int `json:"write_count"`
	Other  int `json:"other_count"`
	Total  int `json:"total_count"`
}

// Recorder classifies commands and routes them into partitioned event logs.
// It is a two-state component: Durable while writes land in the backing Log,
// Degraded when a write fails and lands in the process-wide fallback ring.
// Degradation is per-call, not sticky: every Record re-attempts the durable
// path, so a transient failure does not disable durable writes for
// subsequent calls.
type Recorder struct {
	durable  Log // nil for memory-only deployments
	fallback *Ring
	keys     keys.Scheme
	preview  int
	sample   int
	now      func() time.Time
	logger   *slog.Logger
}

// NewRecorder creates a Recorder writing through to durable, which may be nil
// to run memory-only.
func NewRecorder(durable Log, scheme keys.Scheme, cfg Config) *Recorder {
	if cfg.MaxEvents <= 0 {
		cfg.MaxEvents = DefaultMaxEvents
	}
	if cfg.ResultPreview <= 0 {
		cfg.ResultPreview = DefaultResultPreview
	}
	if cfg.StatsSample <= 0 {
		cfg.StatsSample = DefaultStatsSample
	}
	return &Recorder{
		durable:  durable,
		fallback: NewRing(cfg.MaxEvents),
		keys:     scheme,
		preview:  cfg.ResultPreview,
		sample:   cfg.StatsSample,
		now:      time.Now,
		logger:   slog.Default(),
	}
}

// Record logs one command. It never fails: a durable write error degrades
// this call to the fallback ring and the next call re-attempts the durable
// path. When partition is empty it is inferred from the key's prefix,
// defaulting to the dashboard partition.
func (r *Recorder) Record(ctx context.Context, operation, key, result, partition string) {
	if partition == "" {
		partition = r.inferPartition(key)
	}
	e := Event{
		Timestamp: r.now(),
		Operation: operation,
		Key:       key,
		Result:    truncate(result, r.preview),
		Kind:      Classify(operation),
		Partition: partition,
	}
	score := float64(e.Timestamp.UnixNano()) / float64(time.Second)

	if r.durable != nil {
		if err := r.durable.Append(ctx, partition, e, score); err == nil {
			return
		}
	}
	_ = r.fallback.Append(ctx, partition, e, score)
}

// Recent returns up to limit events, most recent first. An empty partition
// reads only the dashboard partition rather than merging all partitions,
// an approximation that bounds the cost of the common
// "show me activity" call. On a durable read failure the fallback ring is
// consulted instead.
func (r *Recorder) Recent(ctx context.Context, limit int, partition string) []Event {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	if r.durable != nil {
		target, capped := partition, limit
		if target == "" {
			target, capped = PartitionDashboard, min(limit, durableDefaultCap)
		}
		events, err := r.durable.Recent(ctx, target, capped)
		if err == nil {
			return events
		}
		r.logger.Warn("durable event read failed, using fallback buffer", "error", err)
	}

	events, _ := r.fallback.Recent(ctx, partition, limit)
	return events
}

// Stats recomputes command counts by rescanning a bounded recent sample.
// The counts are exact only over that window, not lifetime counters.
func (r *Recorder) Stats(ctx context.Context, partition string) Stats {
	var s Stats
	for _, e := range r.Recent(ctx, r.sample, partition) {
		switch e.Kind {
		case KindRead:
			s.Reads++
		case KindWrite:
			s.Writes++
		default:
			s.Other++
		}
		s.Total++
	}
	return s
}

// Clear removes one partition, or every known partition when partition is
// empty. The fallback ring is cleared entirely in both cases.
func (r *Recorder) Clear(ctx context.Context, partition string) {
	if r.durable != nil {
		var parts []string
		if partition != "" {
			parts = []string{partition}
		}
		if err := r.durable.Clear(ctx, parts...); err != nil {
			r.logger.Warn("durable event clear failed", "error", err)
		}
	}
	_ = r.fallback.Clear(ctx)
}

// inferPartition resolves a partition from a key's prefix. Session prefixes
// are checked before dashboard prefixes; no key or no match defaults to the
// dashboard partition.
func (r *Recorder) inferPartition(key string) string {
	if key == "" {
		return PartitionDashboard
	}
	k := strings.ToLower(key)
	for _, prefix := range r.keys.SessionPrefixes() {
		if strings.Contains(k, prefix) {
			return PartitionSession
		}
	}
	for _, prefix := range r.keys.DashboardPrefixes() {
		if strings.Contains(k, prefix) {
			return PartitionDashboard
		}
	}
	return PartitionDashboard
}
