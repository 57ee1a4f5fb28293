// Package history keeps a bounded, in-memory log of applied edits.
package history

import (
	"sync"
	"time"

	"github.com/conneroisu/smartedit/internal/types"
	"github.com/google/uuid"
)

// DefaultCapacity is the number of records kept when none is configured.
const DefaultCapacity = 10

// History is a fixed-capacity ring of edit records. Once full, each new
// record evicts the oldest one. Records are never persisted.
type History struct {
	mu       sync.Mutex
	ring     []types.EditRecord
	head     int // next write position
	count    int
	capacity int
	now      func() time.Time
}

// New creates a history holding at most capacity records. Capacities
// below one fall back to DefaultCapacity.
func New(capacity int) *History {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &History{
		ring:     make([]types.EditRecord, capacity),
		capacity: capacity,
		now:      time.Now,
	}
}

// Record appends an edit and returns the stored record.
func (h *History) Record(description, componentID string) types.EditRecord {
	rec := types.EditRecord{
		ID:          uuid.NewString(),
		Timestamp:   h.now(),
		Description: description,
		ComponentID: componentID,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.ring[h.head] = rec
	h.head = (h.head + 1) % h.capacity
	if h.count < h.capacity {
		h.count++
	}

	return rec
}

// Recent returns the stored records, most recent first.
func (h *History) Recent() []types.EditRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]types.EditRecord, 0, h.count)
	for i := 1; i <= h.count; i++ {
		idx := (h.head - i + h.capacity) % h.capacity
		out = append(out, h.ring[idx])
	}
	return out
}

// Len returns the number of stored records.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

// Capacity returns the maximum number of records kept.
func (h *History) Capacity() int {
	return h.capacity
}

// Clear drops all records.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.ring = make([]types.EditRecord, h.capacity)
	h.head = 0
	h.count = 0
}
