// Package redis provides a Redis-backed HistoryStore for sharing a session
// transcript across hosts or surviving local state loss.
package redis

import (
	"context"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// History implements ports.HistoryStore on a Redis list.
type History struct {
	client *backend.Client
	key    string
	ttl    time.Duration
}

// Option configures the store.
type Option func(*History)

// WithTTL sets an expiration refreshed on every append.
func WithTTL(ttl time.Duration) Option {
	return func(h *History) {
		h.ttl = ttl
	}
}

// WithKey overrides the list key (default "tendril:history:default").
func WithKey(key string) Option {
	return func(h *History) {
		h.key = key
	}
}

// New creates a Redis history store with its own client.
func New(address, password string, db int, opts ...Option) *History {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis history store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *History {
	h := &History{
		client: client,
		key:    "tendril:history:default",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Append pushes one entry onto the end of the list.
func (h *History) Append(ctx context.Context, entry string) error {
	if err := h.client.RPush(ctx, h.key, entry).Err(); err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	if h.ttl > 0 {
		if err := h.client.Expire(ctx, h.key, h.ttl).Err(); err != nil {
			return fmt.Errorf("failed to refresh history TTL: %w", err)
		}
	}
	return nil
}

// Entries returns the full list in insertion order.
func (h *History) Entries(ctx context.Context) ([]string, error) {
	entries, err := h.client.LRange(ctx, h.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

// Clear deletes the list.
func (h *History) Clear(ctx context.Context) error {
	if err := h.client.Del(ctx, h.key).Err(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
