package domain

import (
	"errors"
	"fmt"
)

// OSErrorCode is the reserved sentinel exit code for OS-level launch failures
// (executable not found, spawn error). It is distinct from every exit code a
// successfully launched process can report.
const OSErrorCode = -1

// ErrNotExpression is returned when a fragment does not parse as a single
// standalone expression. It is the expected signal that triggers the
// eval-to-exec fallback and is never surfaced to the user.
var ErrNotExpression = errors.New("not a valid standalone expression")

// ErrEmptyCommand is returned when a command list with no elements is passed
// to the process runner.
var ErrEmptyCommand = errors.New("console commands must be passed as non-empty lists")

// ExitError is the cooperative-termination signal: code under execution
// explicitly requested that the whole session end with the given status.
// It is always honored and never treated as a failure.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit requested with status %d", e.Code)
}

// LaunchError reports that the OS could not start a process at all.
// Its Code is always OSErrorCode.
type LaunchError struct {
	Command []string
	Code    int
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("command %v failed to launch: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// ExitStatusError reports that a successfully launched process exited
// non-zero. Output holds the joined captured output, when available.
type ExitStatusError struct {
	Command []string
	Code    int
	Output  string
}

func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("command %v exited with status %d", e.Command, e.Code)
}
