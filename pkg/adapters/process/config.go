package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ToolConfig describes one trusted external command the surrounding tool may
// shell out to (a type-checker, a formatter, ...).
type ToolConfig struct {
	Name        string   `yaml:"name" json:"name" mapstructure:"name"`
	Command     string   `yaml:"command" json:"command" mapstructure:"command"`
	Args        []string `yaml:"args" json:"args" mapstructure:"args"`
	Env         []string `yaml:"env" json:"env" mapstructure:"env"`
	Description string   `yaml:"description" json:"description" mapstructure:"description"`
}

// LoadTools reads a tools file (YAML or JSON) and returns the configured
// commands keyed by name. A missing file means "no tools configured", not an
// error. Entries are decoded through a generic map so unknown keys are
// tolerated rather than rejected.
func LoadTools(path string) (map[string]ToolConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]ToolConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read tools config: %w", err)
	}

	var raw struct {
		Tools []map[string]any `yaml:"tools" json:"tools"`
	}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse tools config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse tools config: %w", err)
		}
	}

	tools := make(map[string]ToolConfig, len(raw.Tools))
	for _, entry := range raw.Tools {
		var tool ToolConfig
		if err := mapstructure.Decode(entry, &tool); err != nil {
			return nil, fmt.Errorf("failed to decode tool entry: %w", err)
		}
		if tool.Name == "" || tool.Command == "" {
			continue
		}
		tools[tool.Name] = tool
	}
	return tools, nil
}
