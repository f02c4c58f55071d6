package cli

import (
	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/session"
)

// RunFile executes a program file as the entry point. Any failure aborts
// with a non-zero status; there is no session to keep alive in batch mode.
func RunFile(path string, verbose bool) {
	sess := session.New(
		session.WithPath(path),
		session.WithLogger(logging.New(logging.Level(verbose))),
	)
	sess.RunFile(path, true)
}

// RunCode executes a code string non-interactively. Expressions are not
// echoed; failures abort with a non-zero status.
func RunCode(code string, verbose bool) {
	sess := session.New(
		session.WithLogger(logging.New(logging.Level(verbose))),
	)
	sess.Run(code, session.RunOptions{Mode: session.ModeExec, EscalateAll: true})
}
