// Package file provides a filesystem-backed HistoryStore so a transcript
// survives across interactive sessions.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// History implements ports.HistoryStore with one JSON-encoded entry per
// line. JSON encoding keeps multi-line fragments on a single history line.
type History struct {
	Path string
}

// New creates a history store at path. An empty path defaults to
// ".tendril/history".
func New(path string) *History {
	if path == "" {
		path = filepath.Join(".tendril", "history")
	}
	return &History{Path: path}
}

// Append adds one entry at the end of the file, creating it if needed.
func (h *History) Append(_ context.Context, entry string) error {
	if err := os.MkdirAll(filepath.Dir(h.Path), 0o755); err != nil {
		return fmt.Errorf("failed to ensure history directory: %w", err)
	}
	f, err := os.OpenFile(h.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode history entry: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return f.Sync()
}

// Entries returns all stored entries in insertion order. A missing file is
// an empty history.
func (h *History) Entries(_ context.Context) ([]string, error) {
	data, err := os.ReadFile(h.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	var entries []string
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var entry string
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("corrupt history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Clear removes the history file.
func (h *History) Clear(_ context.Context) error {
	if err := os.Remove(h.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
