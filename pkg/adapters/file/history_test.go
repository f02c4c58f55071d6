package file_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/tendril/pkg/adapters/file"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHistory_Contract(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "history"))
	ports.RunHistoryStoreContract(t, store)
}

func TestFileHistory_MultilineEntries(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "history"))
	ctx := context.Background()

	entry := "a = 1\nb = a + 1"
	require.NoError(t, store.Append(ctx, entry))

	entries, err := store.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{entry}, entries)
}

func TestFileHistory_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	ctx := context.Background()

	require.NoError(t, file.New(path).Append(ctx, "x = 1"))

	entries, err := file.New(path).Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x = 1"}, entries)
}
