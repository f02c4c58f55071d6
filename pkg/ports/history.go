package ports

import "context"

// HistoryStore persists the replayable transcript of a session across
// process restarts. Entries keep insertion order; the store never
// deduplicates.
//
// The session treats the store as best-effort: an append failure is logged
// and never fails the run that produced the entry.
type HistoryStore interface {
	// Append adds one transcript entry at the end of the history.
	Append(ctx context.Context, entry string) error

	// Entries returns all stored entries in insertion order.
	Entries(ctx context.Context) ([]string, error)

	// Clear removes every stored entry.
	Clear(ctx context.Context) error
}
