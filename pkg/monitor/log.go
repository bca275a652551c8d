// Package monitor provides command monitoring: classification of Redis
// commands, routing into bounded per-partition event logs, and best-effort
// statistics over a recent window. Durable storage degrades to an in-memory
// ring buffer when the backing store is unreachable.
package monitor

import "context"

// Partition labels bucketing monitored commands.
const (
	PartitionDashboard = "dashboard"
	PartitionSession   = "session"
	PartitionSearch    = "search"
)

// KnownPartitions lists every partition a Clear without an explicit
// partition removes.
var KnownPartitions = []string{PartitionDashboard, PartitionSession, PartitionSearch}

// Log is a capacity-capped, score-ordered event store. Both implementations
// (RedisLog, Ring) share the same contract: Append inserts and then trims
// the lowest-score entries once the partition exceeds capacity, Recent
// returns highest-score-first. Tie order differs between them: Ring breaks
// equal scores by insertion order, while the sorted set underneath RedisLog
// orders equal-score members lexicographically. Scores carry sub-second
// precision, so ties are rare and callers must not rely on either ordering.
type Log interface {
	// Append stores an event under the given partition with the given score.
	Append(ctx context.Context, partition string, e Event, score float64) error

	// Recent returns up to limit events for the partition, most recent first.
	Recent(ctx context.Context, partition string, limit int) ([]Event, error)

	// Clear removes the named partitions, or every partition when none are
	// given.
	Clear(ctx context.Context, partitions ...string) error
}
