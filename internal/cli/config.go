package cli

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	fileadapter "github.com/aretw0/tendril/pkg/adapters/file"
	"github.com/aretw0/tendril/pkg/adapters/memory"
	redisadapter "github.com/aretw0/tendril/pkg/adapters/redis"
	"github.com/aretw0/tendril/pkg/persistence/middleware"
	"github.com/aretw0/tendril/pkg/ports"
)

// Config is the user-level configuration, read from ~/.tendril.yaml.
type Config struct {
	NoColor bool          `mapstructure:"no_color"`
	History HistoryConfig `mapstructure:"history"`
}

// HistoryConfig selects the transcript persistence backend.
type HistoryConfig struct {
	Backend       string `mapstructure:"backend"` // "memory", "file" or "redis"
	Path          string `mapstructure:"path"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	// Redact lists regexp patterns; an assignment whose target matches
	// one of them is stored with its value masked.
	Redact []string `mapstructure:"redact"`

	// EncryptionKeyEnv names an environment variable holding a base64
	// encoded 32-byte key. When set, entries are encrypted at rest.
	EncryptionKeyEnv string `mapstructure:"encryption_key_env"`
}

// DefaultConfigPath returns ~/.tendril.yaml, or empty when no home
// directory can be determined.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tendril.yaml")
}

// LoadConfig reads path and decodes it. A missing file yields the defaults.
// The YAML goes through a generic map so unknown keys are tolerated.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		History: HistoryConfig{Backend: "file"},
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := mapstructure.Decode(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// HistoryStore builds the configured transcript backend, wrapped with
// redaction and encryption when configured.
func (c Config) HistoryStore() (ports.HistoryStore, error) {
	var store ports.HistoryStore
	switch c.History.Backend {
	case "", "memory":
		store = memory.NewHistory()
	case "file":
		path := c.History.Path
		if path == "" {
			if home, err := os.UserHomeDir(); err == nil {
				path = filepath.Join(home, ".tendril", "history")
			}
		}
		store = fileadapter.New(path)
	case "redis":
		if c.History.RedisAddr == "" {
			return nil, fmt.Errorf("history backend %q requires redis_addr", c.History.Backend)
		}
		store = redisadapter.New(c.History.RedisAddr, c.History.RedisPassword, c.History.RedisDB)
	default:
		return nil, fmt.Errorf("unknown history backend %q", c.History.Backend)
	}

	var middlewares []middleware.Middleware
	if len(c.History.Redact) > 0 {
		redact, err := middleware.NewRedactionMiddleware(c.History.Redact)
		if err != nil {
			return nil, err
		}
		middlewares = append(middlewares, redact)
	}
	if c.History.EncryptionKeyEnv != "" {
		encoded := os.Getenv(c.History.EncryptionKeyEnv)
		if encoded == "" {
			return nil, fmt.Errorf("history encryption enabled but %s is not set", c.History.EncryptionKeyEnv)
		}
		key, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode history encryption key: %w", err)
		}
		encrypt, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, err
		}
		middlewares = append(middlewares, encrypt)
	}
	return middleware.Chain(store, middlewares...), nil
}
