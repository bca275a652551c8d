package monitor

import (
	"strings"
	"time"
)

// Kind categorizes a monitored command.
type Kind string

const (
	// KindRead is a read command.
	KindRead Kind = "read"

	// KindWrite is a write command.
	KindWrite Kind = "write"

	// KindOther is any command not in the read or write tables.
	KindOther Kind = "other"
)

// Event is one monitored command. Events are immutable after creation:
// they are appended, trimmed collectively when a partition exceeds capacity,
// and never edited or deleted individually.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Operation string    `json:"operation"`
	Key       string    `json:"key,omitempty"`
	Result    string    `json:"result,omitempty"`
	Kind      Kind      `json:"kind"`
	Partition string    `json:"partition"`
}

var readOps = map[string]bool{
	"GET": true, "HGET": true, "HGETALL": true, "XREAD": true,
	"XRANGE": true, "XREVRANGE": true, "ZRANGE": true, "ZREVRANGE": true,
	"GEORADIUS": true, "GEOPOS": true, "KEYS": true, "EXISTS": true,
	"TTL": true,
}

var writeOps = map[string]bool{
	"SET": true, "HSET": true, "XADD": true, "ZADD": true,
	"GEOADD": true, "INCR": true, "EXPIRE": true, "DEL": true,
	"ZREM": true, "DECR": true,
}

// Classify maps an operation name onto a Kind using the fixed command tables.
// Unmatched names classify as KindOther.
func Classify(operation string) Kind {
	op := strings.ToUpper(operation)
	switch {
	case readOps[op]:
		return KindRead
	case writeOps[op]:
		return KindWrite
	default:
		return KindOther
	}
}

// truncate bounds a result payload to limit bytes before storage.
func truncate(s string, limit int) string {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
