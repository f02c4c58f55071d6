package lang

import (
	"fmt"
	"io"
	"os"
)

// LoadFile executes the program at path as a standalone module and returns
// the resulting top-level namespace. The environment is seeded for the path
// (so __file__ points at it) and is only returned when execution succeeds.
// Program output goes to out; pass nil for os.Stdout.
func LoadFile(path string, out io.Writer) (*Env, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	env := NewEnv(path)
	if out != nil {
		env.SetOutput(out)
	}
	if err := Exec(string(data), env); err != nil {
		return nil, err
	}
	return env, nil
}
