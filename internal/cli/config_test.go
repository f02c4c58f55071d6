package cli

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tendril.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("Missing File Yields Defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "file", cfg.History.Backend)
		assert.False(t, cfg.NoColor)
	})

	t.Run("Empty Path Yields Defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "file", cfg.History.Backend)
	})

	t.Run("Decodes Known Keys", func(t *testing.T) {
		path := writeConfig(t, `
no_color: true
history:
  backend: redis
  redis_addr: localhost:6379
  redis_db: 3
  redact:
    - "(?i)token"
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.True(t, cfg.NoColor)
		assert.Equal(t, "redis", cfg.History.Backend)
		assert.Equal(t, "localhost:6379", cfg.History.RedisAddr)
		assert.Equal(t, 3, cfg.History.RedisDB)
		assert.Equal(t, []string{"(?i)token"}, cfg.History.Redact)
	})

	t.Run("Tolerates Unknown Keys", func(t *testing.T) {
		path := writeConfig(t, "future_option: true\nhistory:\n  backend: memory\n")
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "memory", cfg.History.Backend)
	})

	t.Run("Rejects Malformed YAML", func(t *testing.T) {
		path := writeConfig(t, ":\n  - [")
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestConfigHistoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Memory Backend", func(t *testing.T) {
		cfg := Config{History: HistoryConfig{Backend: "memory"}}
		store, err := cfg.HistoryStore()
		require.NoError(t, err)
		require.NoError(t, store.Append(ctx, "x = 1"))
		entries, err := store.Entries(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"x = 1"}, entries)
	})

	t.Run("File Backend Uses Configured Path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "history")
		cfg := Config{History: HistoryConfig{Backend: "file", Path: path}}
		store, err := cfg.HistoryStore()
		require.NoError(t, err)
		require.NoError(t, store.Append(ctx, "x = 1"))
		_, err = os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("Redis Backend Requires Address", func(t *testing.T) {
		cfg := Config{History: HistoryConfig{Backend: "redis"}}
		_, err := cfg.HistoryStore()
		assert.Error(t, err)
	})

	t.Run("Unknown Backend Fails", func(t *testing.T) {
		cfg := Config{History: HistoryConfig{Backend: "carrier-pigeon"}}
		_, err := cfg.HistoryStore()
		assert.Error(t, err)
	})

	t.Run("Redaction Applies", func(t *testing.T) {
		cfg := Config{History: HistoryConfig{
			Backend: "memory",
			Redact:  []string{"(?i)password"},
		}}
		store, err := cfg.HistoryStore()
		require.NoError(t, err)
		require.NoError(t, store.Append(ctx, `db_password = "hunter2"`))
		entries, err := store.Entries(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{`db_password = "[REDACTED]"`}, entries)
	})

	t.Run("Encryption Round Trips Through Env Key", func(t *testing.T) {
		key := make([]byte, 32)
		_, err := io.ReadFull(rand.Reader, key)
		require.NoError(t, err)
		t.Setenv("TENDRIL_TEST_HISTORY_KEY", base64.StdEncoding.EncodeToString(key))

		path := filepath.Join(t.TempDir(), "history")
		cfg := Config{History: HistoryConfig{
			Backend:          "file",
			Path:             path,
			EncryptionKeyEnv: "TENDRIL_TEST_HISTORY_KEY",
		}}
		store, err := cfg.HistoryStore()
		require.NoError(t, err)
		require.NoError(t, store.Append(ctx, `secret = "sauce"`))

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "sauce")

		entries, err := store.Entries(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{`secret = "sauce"`}, entries)
	})

	t.Run("Encryption Requires Env Variable", func(t *testing.T) {
		cfg := Config{History: HistoryConfig{
			Backend:          "memory",
			EncryptionKeyEnv: "TENDRIL_TEST_UNSET_KEY",
		}}
		_, err := cfg.HistoryStore()
		assert.Error(t, err)
	})

	t.Run("Invalid Redaction Pattern Fails", func(t *testing.T) {
		cfg := Config{History: HistoryConfig{Backend: "memory", Redact: []string{"("}}}
		_, err := cfg.HistoryStore()
		assert.Error(t, err)
	})
}
