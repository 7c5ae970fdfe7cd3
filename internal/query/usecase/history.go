package usecase

import (
	"sync"

	"github.com/queryware/sqlgate/internal/query/domain"
)

// History is a bounded in-memory ring of execution records. When full, the
// oldest record is dropped.
type History struct {
	mu      sync.Mutex
	size    int
	records []domain.ExecutionRecord
	next    int
	full    bool
}

// NewHistory creates a ring holding up to size records; size <= 0 disables
// recording.
func NewHistory(size int) *History {
	h := &History{size: size}
	if size > 0 {
		h.records = make([]domain.ExecutionRecord, size)
	}
	return h
}

// Add appends one record, evicting the oldest if the ring is full.
func (h *History) Add(record domain.ExecutionRecord) {
	if h.size <= 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records[h.next] = record
	h.next = (h.next + 1) % h.size
	if h.next == 0 {
		h.full = true
	}
}

// List returns the identity's records, newest first.
func (h *History) List(identity string) []domain.ExecutionRecord {
	if h.size <= 0 {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	count := h.next
	if h.full {
		count = h.size
	}

	out := make([]domain.ExecutionRecord, 0, count)
	for i := 1; i <= count; i++ {
		record := h.records[(h.next-i+h.size)%h.size]
		if record.Identity == identity {
			out = append(out, record)
		}
	}
	return out
}
