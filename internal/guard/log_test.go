package guard

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// responseEntry builds a terminal response entry with the given status.
func responseEntry(id string, status int) LogEntry {
	return LogEntry{
		Type:      EntryTypeResponse,
		ID:        id,
		Timestamp: time.Now(),
		Method:    http.MethodGet,
		URL:       "https://api.example.com/users",
		Status:    status,
		Source:    SourceNetwork,
	}
}

// TestRequestLog_AppendAndSnapshot tests basic insertion order.
func TestRequestLog_AppendAndSnapshot(t *testing.T) {
	t.Parallel()

	log := newRequestLog(10)

	log.append(LogEntry{Type: EntryTypeRequest, ID: "a"})
	log.append(responseEntry("a", http.StatusOK))

	entries := log.snapshot()
	require.Len(t, entries, 2)
	assert.Equal(t, EntryTypeRequest, entries[0].Type)
	assert.Equal(t, EntryTypeResponse, entries[1].Type)
	assert.Equal(t, "a", entries[0].ID)
}

// TestRequestLog_CapacityEvictsOldest tests FIFO eviction past capacity.
func TestRequestLog_CapacityEvictsOldest(t *testing.T) {
	t.Parallel()

	const capacity = 5

	log := newRequestLog(capacity)

	for i := range capacity + 3 {
		log.append(responseEntry(fmt.Sprintf("req-%d", i), http.StatusOK))
	}

	entries := log.snapshot()
	require.Len(t, entries, capacity)

	// The most recent entries survive, in insertion order.
	for i, entry := range entries {
		assert.Equal(t, fmt.Sprintf("req-%d", i+3), entry.ID)
	}
}

// TestRequestLog_SnapshotIsCopy tests that callers cannot mutate the buffer.
func TestRequestLog_SnapshotIsCopy(t *testing.T) {
	t.Parallel()

	log := newRequestLog(10)
	log.append(responseEntry("a", http.StatusOK))

	snapshot := log.snapshot()
	snapshot[0].ID = "tampered"

	assert.Equal(t, "a", log.snapshot()[0].ID)
}

// TestRequestLog_Clear tests buffer reset.
func TestRequestLog_Clear(t *testing.T) {
	t.Parallel()

	log := newRequestLog(10)
	log.append(responseEntry("a", http.StatusOK))

	log.clear()

	assert.Empty(t, log.snapshot())
	assert.Equal(t, Stats{}, log.stats())
}

// TestRequestLog_Stats tests aggregate recomputation.
func TestRequestLog_Stats(t *testing.T) {
	t.Parallel()

	log := newRequestLog(10)

	// Request entries are not terminal outcomes and never count.
	log.append(LogEntry{Type: EntryTypeRequest, ID: "a"})
	log.append(responseEntry("a", http.StatusOK))
	log.append(responseEntry("b", http.StatusNotFound))
	log.append(responseEntry("c", http.StatusCreated))
	log.append(LogEntry{Type: EntryTypeError, ID: "d", Message: "network down"})

	stats := log.stats()

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Successful)
	assert.Equal(t, 2, stats.Failed)
	assert.InDelta(t, 0.5, stats.SuccessRate, 1e-9)
}

// TestRequestLog_StatsFollowEviction tests that stats stay consistent
// with the visible log after eviction.
func TestRequestLog_StatsFollowEviction(t *testing.T) {
	t.Parallel()

	log := newRequestLog(2)

	log.append(responseEntry("a", http.StatusInternalServerError))
	log.append(responseEntry("b", http.StatusOK))
	log.append(responseEntry("c", http.StatusOK))

	// The 500 outcome was evicted, so it no longer affects the aggregates.
	stats := log.stats()

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Successful)
	assert.Equal(t, 0, stats.Failed)
	assert.InDelta(t, 1.0, stats.SuccessRate, 1e-9)
}

// TestNewRequestLog_MinimumCapacity tests the capacity floor.
func TestNewRequestLog_MinimumCapacity(t *testing.T) {
	t.Parallel()

	log := newRequestLog(0)

	log.append(responseEntry("a", http.StatusOK))
	log.append(responseEntry("b", http.StatusOK))

	entries := log.snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].ID)
}
