package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tendril/pkg/adapters/memory"
	"github.com/aretw0/tendril/pkg/persistence/middleware"
	"github.com/aretw0/tendril/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func TestRedactionMiddleware(t *testing.T) {
	ctx := context.Background()

	newStore := func(t *testing.T, patterns []string) (ports.HistoryStore, *memory.History) {
		t.Helper()
		mw, err := middleware.NewRedactionMiddleware(patterns)
		require.NoError(t, err)
		underlying := memory.NewHistory()
		return mw(underlying), underlying
	}

	t.Run("Masks Matching Assignments", func(t *testing.T) {
		store, underlying := newStore(t, []string{"(?i)token", "(?i)password"})

		require.NoError(t, store.Append(ctx, `api_token = "abc123"`))
		require.NoError(t, store.Append(ctx, `x = 42`))

		entries, err := underlying.Entries(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{`api_token = "[REDACTED]"`, `x = 42`}, entries)
	})

	t.Run("Leaves Non Assignments Alone", func(t *testing.T) {
		store, underlying := newStore(t, []string{"(?i)token"})

		require.NoError(t, store.Append(ctx, `print token`))

		entries, err := underlying.Entries(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{`print token`}, entries)
	})

	t.Run("Rejects Invalid Pattern", func(t *testing.T) {
		_, err := middleware.NewRedactionMiddleware([]string{"("})
		assert.Error(t, err)
	})
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	ctx := context.Background()
	key := generateKey(t)

	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	require.NoError(t, err)

	underlying := memory.NewHistory()
	secure := mw(underlying)

	require.NoError(t, secure.Append(ctx, `secret = "my-secret-sauce"`))

	// The underlying store should only ever see ciphertext.
	stored, err := underlying.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, strings.HasPrefix(stored[0], "enc:"))
	assert.NotContains(t, stored[0], "my-secret-sauce")

	entries, err := secure.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{`secret = "my-secret-sauce"`}, entries)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	ctx := context.Background()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	underlying := memory.NewHistory()

	oldMw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})
	require.NoError(t, err)
	require.NoError(t, oldMw(underlying).Append(ctx, "written-with-old-key"))

	rotated, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})
	require.NoError(t, err)

	entries, err := rotated(underlying).Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"written-with-old-key"}, entries)
}

func TestEncryptionMiddleware_WrongKey(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewHistory()

	writer, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	require.NoError(t, err)
	require.NoError(t, writer(underlying).Append(ctx, "entry"))

	reader, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	require.NoError(t, err)

	_, err = reader(underlying).Entries(ctx)
	assert.Error(t, err)
}

func TestEncryptionMiddleware_PlainEntriesPassThrough(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewHistory()
	require.NoError(t, underlying.Append(ctx, "plain-before-encryption"))

	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	require.NoError(t, err)
	secure := mw(underlying)
	require.NoError(t, secure.Append(ctx, "encrypted-after"))

	entries, err := secure.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"plain-before-encryption", "encrypted-after"}, entries)
}

func TestEncryptionMiddleware_RejectsShortKey(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	assert.Error(t, err)
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewHistory()

	redact, err := middleware.NewRedactionMiddleware([]string{"(?i)secret"})
	require.NoError(t, err)
	encrypt, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	require.NoError(t, err)

	// Redaction runs outermost so the plaintext never reaches the cipher.
	store := middleware.Chain(underlying, redact, encrypt)

	require.NoError(t, store.Append(ctx, `my_secret = "hunter2"`))

	entries, err := store.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{`my_secret = "[REDACTED]"`}, entries)

	stored, err := underlying.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.NotContains(t, stored[0], "hunter2")
}
