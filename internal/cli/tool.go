package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/adapters/process"
	"github.com/aretw0/tendril/pkg/domain"
)

// RunTool runs a command registered in the tools file (e.g. a type-checker)
// in streaming mode and returns its exit code.
func RunTool(name, toolsPath string, extraArgs []string, verbose bool) (int, error) {
	tools, err := process.LoadTools(toolsPath)
	if err != nil {
		return domain.OSErrorCode, err
	}
	tool, ok := tools[name]
	if !ok {
		return domain.OSErrorCode, fmt.Errorf("tool not registered: %s", name)
	}

	runner := process.NewRunner(
		process.WithLogger(logging.New(logging.Level(verbose))),
		process.WithVerbose(verbose),
		process.WithEnv(tool.Env),
	)

	command := append([]string{tool.Command}, tool.Args...)
	command = append(command, extraArgs...)
	code, _, err := runner.Execute(context.Background(), command, process.ExecOptions{
		Streaming: true,
	})
	return code, err
}
