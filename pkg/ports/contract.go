package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunHistoryStoreContract verifies the HistoryStore behavior every adapter
// must provide. Adapter tests call this with a freshly initialized store.
func RunHistoryStoreContract(t *testing.T, store HistoryStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("Starts Empty", func(t *testing.T) {
		entries, err := store.Entries(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("Preserves Insertion Order", func(t *testing.T) {
		require.NoError(t, store.Append(ctx, "x = 1"))
		require.NoError(t, store.Append(ctx, "y = x + 1"))
		require.NoError(t, store.Append(ctx, "x = 1"))

		entries, err := store.Entries(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"x = 1", "y = x + 1", "x = 1"}, entries)
	})

	t.Run("Clear Removes Everything", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))
		entries, err := store.Entries(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
