package monitor

import (
	"context"
	"sync"
)

// Ring implements Log with a mutex-guarded in-memory buffer. One Ring also
// serves as the process-wide fallback for the Recorder; in that role it is
// deliberately not partitioned by context: entries from every partition
// share the single capacity cap, and reads filter on the partition tag each
// event carries.
type Ring struct {
	mu      sync.RWMutex
	max     int
	seq     uint64
	entries []ringEntry // ascending (score, seq)
}

type ringEntry struct {
	event Event
	score float64
	seq   uint64
}

// NewRing creates a Ring holding at most max events.
func NewRing(max int) *Ring {
	if max <= 0 {
		max = DefaultMaxEvents
	}
	return &Ring{max: max}
}

// Append stores the event and evicts the lowest-score entry when over
// capacity. Insertion order breaks score ties.
func (r *Ring) Append(_ context.Context, partition string, e Event, score float64) error {
	e.Partition = partition

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	entry := ringEntry{event: e, score: score, seq: r.seq}

	// Scores are wall-clock timestamps, so the common case is an append at
	// the end; walk back only as far as needed to keep the slice ordered.
	i := len(r.entries)
	for i > 0 && r.entries[i-1].score > score {
		i--
	}
	r.entries = append(r.entries, ringEntry{})
	copy(r.entries[i+1:], r.entries[i:])
	r.entries[i] = entry

	if len(r.entries) > r.max {
		r.entries = r.entries[len(r.entries)-r.max:]
	}
	return nil
}

// Recent returns up to limit events most recent first. An empty partition
// matches every entry (the fallback read path).
func (r *Ring) Recent(_ context.Context, partition string, limit int) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Event
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := r.entries[i].event
		if partition != "" && e.Partition != partition {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Clear removes the named partitions, or everything when none are given.
func (r *Ring) Clear(_ context.Context, partitions ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(partitions) == 0 {
		r.entries = nil
		return nil
	}

	drop := make(map[string]bool, len(partitions))
	for _, p := range partitions {
		drop[p] = true
	}
	kept := r.entries[:0]
	for _, entry := range r.entries {
		if !drop[entry.event.Partition] {
			kept = append(kept, entry)
		}
	}
	r.entries = kept
	return nil
}

// Len reports the number of buffered events.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

var _ Log = (*Ring)(nil)
