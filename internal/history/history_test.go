package history

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndRecent(t *testing.T) {
	h := New(DefaultCapacity)
	assert.Empty(t, h.Recent())

	first := h.Record("make the header red", "main-header")
	second := h.Record("make the button bigger", "cta-btn")

	recent := h.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, second, recent[0])
	assert.Equal(t, first, recent[1])
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "cta-btn", recent[0].ComponentID)
}

func TestBoundAfterFifteenRecords(t *testing.T) {
	h := New(DefaultCapacity)
	for i := 0; i < 15; i++ {
		h.Record(fmt.Sprintf("edit %d", i), "c")
	}

	recent := h.Recent()
	require.Len(t, recent, 10)
	for i, rec := range recent {
		assert.Equal(t, fmt.Sprintf("edit %d", 14-i), rec.Description)
	}
	assert.Equal(t, 10, h.Len())
}

func TestEleventhEvictsOldest(t *testing.T) {
	h := New(10)
	for i := 0; i < 11; i++ {
		h.Record(fmt.Sprintf("edit %d", i), "c")
	}

	recent := h.Recent()
	require.Len(t, recent, 10)
	assert.Equal(t, "edit 10", recent[0].Description)
	assert.Equal(t, "edit 1", recent[9].Description)
}

func TestTimestamps(t *testing.T) {
	h := New(3)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	rec := h.Record("x", "y")
	assert.Equal(t, fixed, rec.Timestamp)
}

func TestInvalidCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, New(0).Capacity())
	assert.Equal(t, DefaultCapacity, New(-4).Capacity())
	assert.Equal(t, 1, New(1).Capacity())
}

func TestCapacityOne(t *testing.T) {
	h := New(1)
	h.Record("a", "x")
	h.Record("b", "x")

	recent := h.Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, "b", recent[0].Description)
}

func TestClear(t *testing.T) {
	h := New(5)
	h.Record("a", "x")
	h.Clear()

	assert.Zero(t, h.Len())
	assert.Empty(t, h.Recent())

	h.Record("b", "x")
	assert.Equal(t, "b", h.Recent()[0].Description)
}

func TestConcurrentRecords(t *testing.T) {
	h := New(10)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				h.Record("edit", "c")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, h.Len())
	assert.Len(t, h.Recent(), 10)
}
