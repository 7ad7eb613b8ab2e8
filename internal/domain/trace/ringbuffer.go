package trace

import "sync"

const defaultCapacity = 100

// RingBuffer keeps the most recent resolution entries. It is safe for concurrent use.
type RingBuffer struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

// NewRingBuffer creates a ring buffer holding up to capacity entries.
// A non-positive capacity falls back to 100.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &RingBuffer{entries: make([]Entry, capacity)}
}

// Add records e, overwriting the oldest entry once the buffer is full.
func (rb *RingBuffer) Add(e Entry) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.entries[rb.next] = e
	rb.next++
	if rb.next == len(rb.entries) {
		rb.next = 0
		rb.full = true
	}
}

// Last returns up to n of the newest entries, oldest first.
func (rb *RingBuffer) Last(n int) []Entry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	n = min(n, rb.count())
	if n <= 0 {
		return nil
	}

	out := make([]Entry, n)
	size := len(rb.entries)
	start := (rb.next - n + size) % size
	for i := range out {
		out[i] = rb.entries[(start+i)%size]
	}
	return out
}

// Count returns the number of entries currently stored.
func (rb *RingBuffer) Count() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.count()
}

func (rb *RingBuffer) count() int {
	if rb.full {
		return len(rb.entries)
	}
	return rb.next
}
