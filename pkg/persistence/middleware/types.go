// Package middleware wraps a HistoryStore with cross-cutting behavior:
// redaction of sensitive fragments before they are persisted, and
// encryption of the transcript at rest.
package middleware

import "github.com/aretw0/tendril/pkg/ports"

// Middleware allows wrapping a HistoryStore to add behavior.
type Middleware func(ports.HistoryStore) ports.HistoryStore

// Chain applies middlewares outermost-first around store.
func Chain(store ports.HistoryStore, middlewares ...Middleware) ports.HistoryStore {
	for i := len(middlewares) - 1; i >= 0; i-- {
		store = middlewares[i](store)
	}
	return store
}
