// Package memory provides an in-memory HistoryStore, used as the default
// transcript backend and as a test double.
package memory

import (
	"context"
	"sync"
)

// History implements ports.HistoryStore backed by a slice.
type History struct {
	mu      sync.Mutex
	entries []string
}

// NewHistory creates an empty in-memory history.
func NewHistory() *History {
	return &History{}
}

// Append adds one entry at the end of the history.
func (h *History) Append(_ context.Context, entry string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, entry)
	return nil
}

// Entries returns a copy of the stored entries in insertion order.
func (h *History) Entries(_ context.Context) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out, nil
}

// Clear removes every stored entry.
func (h *History) Clear(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
	return nil
}
