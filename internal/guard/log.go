package guard

import (
	"sync"
	"time"
)

// EntryType tags a log entry variant.
type EntryType string

const (
	// EntryTypeRequest marks the entry appended when a dispatch starts.
	EntryTypeRequest EntryType = "request"
	// EntryTypeResponse marks the terminal entry of a completed dispatch.
	EntryTypeResponse EntryType = "response"
	// EntryTypeError marks the terminal entry of a failed dispatch.
	EntryTypeError EntryType = "error"
)

// LogEntry is one structured event in the request log.
// Request entries carry method and URL; response entries carry status,
// duration, size, and source; error entries carry a message.
// The correlation ID ties together the entries of a single dispatch.
type LogEntry struct {
	// Type is the entry variant.
	Type EntryType `yaml:"type"`
	// ID is the correlation identifier of the dispatch.
	ID string `yaml:"id"`
	// Timestamp is when the event was recorded.
	Timestamp time.Time `yaml:"timestamp"`
	// Method is the HTTP method of the request.
	Method string `yaml:"method,omitempty"`
	// URL is the request URL.
	URL string `yaml:"url,omitempty"`
	// Status is the HTTP status code of the response.
	Status int `yaml:"status,omitempty"`
	// Duration is the time from dispatch start to the terminal outcome.
	Duration time.Duration `yaml:"duration,omitempty"`
	// Size is the response body size in bytes.
	Size int64 `yaml:"size,omitempty"`
	// Source reports where the response came from.
	Source Source `yaml:"source,omitempty"`
	// Message is the failure description of an error entry.
	Message string `yaml:"message,omitempty"`
}

// Stats aggregates the terminal outcomes currently visible in the log.
type Stats struct {
	// Total is the number of terminal entries.
	Total int
	// Successful is the number of responses with a status below 400.
	Successful int
	// Failed is the number of error entries plus responses with status 400 or above.
	Failed int
	// SuccessRate is Successful divided by Total, zero when the log holds no outcomes.
	SuccessRate float64
}

// requestLog is a fixed-capacity FIFO buffer of log entries.
// Insertion past capacity evicts the oldest entry. This is a deliberate
// simplicity tradeoff, not an LRU: eviction ignores entry relevance.
type requestLog struct {
	mu       sync.RWMutex
	entries  []LogEntry
	capacity int
}

// newRequestLog creates a log holding at most capacity entries.
func newRequestLog(capacity int) *requestLog {
	if capacity < 1 {
		capacity = 1
	}

	return &requestLog{
		entries:  make([]LogEntry, 0, capacity),
		capacity: capacity,
	}
}

// append adds an entry, evicting the oldest one when the buffer is full.
func (l *requestLog) append(entry LogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) == l.capacity {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:len(l.entries)-1]
	}

	l.entries = append(l.entries, entry)
}

// snapshot returns a copy of the buffer in insertion order.
func (l *requestLog) snapshot() []LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]LogEntry, len(l.entries))
	copy(entries, l.entries)

	return entries
}

// clear removes all entries.
func (l *requestLog) clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = l.entries[:0]
}

// stats recomputes the aggregates from the current buffer on every call.
// No incremental counters are kept: the numbers are always consistent
// with the visible log, at the cost of an O(n) pass over the bounded buffer.
func (l *requestLog) stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result Stats

	for _, entry := range l.entries {
		switch entry.Type {
		case EntryTypeResponse:
			result.Total++

			if entry.Status < 400 {
				result.Successful++
			} else {
				result.Failed++
			}
		case EntryTypeError:
			result.Total++
			result.Failed++
		case EntryTypeRequest:
			// Request entries are not terminal outcomes.
		}
	}

	if result.Total > 0 {
		result.SuccessRate = float64(result.Successful) / float64(result.Total)
	}

	return result
}
