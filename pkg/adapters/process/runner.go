// Package process runs external commands for the surrounding tool (e.g.
// shelling out to a type-checker), either streaming their output live or
// capturing it into a structured result.
package process

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/domain"
)

// Runner executes external processes. A Runner holds no per-invocation
// state, so it may be used concurrently from independent call sites; each
// Execute owns its own process handle and stream buffers.
type Runner struct {
	logger  *slog.Logger
	verbose bool
	dir     string
	env     []string
	stdout  io.Writer
	stderr  io.Writer
}

// Option configures the runner.
type Option func(*Runner)

// WithLogger sets the trace logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithVerbose enables line-oriented tracing of process communication
// (`<0` for stdin, `1>` for stdout, `2>` for stderr).
func WithVerbose(verbose bool) Option {
	return func(r *Runner) {
		r.verbose = verbose
	}
}

// WithDir sets the working directory for executed processes.
func WithDir(dir string) Option {
	return func(r *Runner) {
		r.dir = dir
	}
}

// WithEnv appends extra KEY=VALUE entries to the child environment.
func WithEnv(env []string) Option {
	return func(r *Runner) {
		r.env = env
	}
}

// WithStdout redirects streaming-mode stdout (default os.Stdout).
func WithStdout(w io.Writer) Option {
	return func(r *Runner) {
		r.stdout = w
	}
}

// WithStderr redirects streaming-mode stderr (default os.Stderr).
func WithStderr(w io.Writer) Option {
	return func(r *Runner) {
		r.stderr = w
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger: logging.NewNop(),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ExecOptions configures one Execute invocation.
type ExecOptions struct {
	// Stdin, when non-empty, is written to the process once at the start
	// of communication.
	Stdin string

	// Streaming passes output through to the runner's stdout/stderr as it
	// arrives and returns the exit code. When false, output is captured and
	// returned as text instead.
	Streaming bool

	// RaiseOnFailure turns launch failures and non-zero exits into errors.
	// When false they are converted to return values: the reserved sentinel
	// code in streaming mode, the empty string in capturing mode.
	RaiseOnFailure bool
}

// Execute runs command, which must be a non-empty argument list. The first
// element is resolved against the executable search path when possible and
// passed through unresolved otherwise.
//
// Streaming mode returns the exit code (output goes to the runner's
// writers). Capturing mode returns the decoded stdout content followed by
// the stderr content. See ExecOptions.RaiseOnFailure for the error policy;
// a launch failure is always distinguished from a non-zero exit.
func (r *Runner) Execute(ctx context.Context, command []string, opts ExecOptions) (int, string, error) {
	if len(command) == 0 {
		return domain.OSErrorCode, "", domain.ErrEmptyCommand
	}

	// Resolve against PATH; fall back to the bare name on failure.
	resolved := make([]string, len(command))
	copy(resolved, command)
	if path, err := exec.LookPath(resolved[0]); err == nil {
		resolved[0] = path
	}
	r.logger.Debug("running command", "cmd", strings.Join(resolved, " "))

	if opts.Streaming {
		return r.stream(ctx, command, resolved, opts)
	}
	return r.capture(ctx, command, resolved, opts)
}

// Capture runs command in capturing mode and returns the structured result.
// Unlike Execute it exposes the per-stream chunks; a nil error means the
// process launched, whatever its exit code.
func (r *Runner) Capture(ctx context.Context, command []string, stdin string) (*domain.ProcessResult, error) {
	if len(command) == 0 {
		return nil, domain.ErrEmptyCommand
	}
	resolved := make([]string, len(command))
	copy(resolved, command)
	if path, err := exec.LookPath(resolved[0]); err == nil {
		resolved[0] = path
	}
	return r.callOutput(ctx, resolved, stdin)
}

func (r *Runner) newCmd(ctx context.Context, resolved []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, resolved[0], resolved[1:]...)
	cmd.Dir = r.dir
	if len(r.env) > 0 {
		cmd.Env = append(cmd.Environ(), r.env...)
	}
	return cmd
}

func (r *Runner) stream(ctx context.Context, command, resolved []string, opts ExecOptions) (int, string, error) {
	cmd := r.newCmd(ctx, resolved)

	var outW io.Writer = r.stdout
	var errW io.Writer = r.stderr
	var tracers []*lineTracer
	if r.verbose {
		outTrace := newLineTracer(r.logger, "1> ")
		errTrace := newLineTracer(r.logger, "2> ")
		tracers = append(tracers, outTrace, errTrace)
		outW = io.MultiWriter(r.stdout, outTrace)
		errW = io.MultiWriter(r.stderr, errTrace)
	}
	cmd.Stdout = outW
	cmd.Stderr = errW
	r.feedStdin(cmd, opts.Stdin)

	if err := cmd.Start(); err != nil {
		if opts.RaiseOnFailure {
			return domain.OSErrorCode, "", &domain.LaunchError{Command: command, Code: domain.OSErrorCode, Err: err}
		}
		r.logger.Debug("command failed to launch", "err", err)
		return domain.OSErrorCode, "", nil
	}

	waitErr := cmd.Wait()
	for _, tr := range tracers {
		tr.flush()
	}
	code := cmd.ProcessState.ExitCode()
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			// I/O plumbing failed after a successful launch.
			if opts.RaiseOnFailure {
				return domain.OSErrorCode, "", &domain.LaunchError{Command: command, Code: domain.OSErrorCode, Err: waitErr}
			}
			return domain.OSErrorCode, "", nil
		}
	}
	if code != 0 && opts.RaiseOnFailure {
		return code, "", &domain.ExitStatusError{Command: command, Code: code}
	}
	return code, "", nil
}

func (r *Runner) capture(ctx context.Context, command, resolved []string, opts ExecOptions) (int, string, error) {
	res, err := r.callOutput(ctx, resolved, opts.Stdin)
	if err != nil {
		if opts.RaiseOnFailure {
			return domain.OSErrorCode, "", &domain.LaunchError{Command: command, Code: domain.OSErrorCode, Err: err}
		}
		r.logger.Debug("command failed to launch", "err", err)
		return domain.OSErrorCode, "", nil
	}

	output := res.Output()
	code := *res.ExitCode
	if code != 0 && opts.RaiseOnFailure {
		return code, output, &domain.ExitStatusError{Command: command, Code: code, Output: output}
	}
	return code, output, nil
}

// callOutput launches the process and drains both pipes until termination.
// Each drain iteration blocks on at least one chunk of process
// communication, so the loop cannot spin without progress. The exit code is
// resolved exactly once, after both streams hit EOF.
func (r *Runner) callOutput(ctx context.Context, resolved []string, stdin string) (*domain.ProcessResult, error) {
	cmd := r.newCmd(ctx, resolved)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	r.feedStdin(cmd, stdin)

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	res := &domain.ProcessResult{}
	var wg sync.WaitGroup
	wg.Add(2)
	go r.drain(&wg, stdoutPipe, &res.Stdout, "1> ")
	go r.drain(&wg, stderrPipe, &res.Stderr, "2> ")
	wg.Wait()

	// Wait only resolves the exit status; output is already drained.
	waitErr := cmd.Wait()
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return nil, waitErr
	}
	code := cmd.ProcessState.ExitCode()
	res.ExitCode = &code
	return res, nil
}

// drain reads one stream to EOF in blocking chunks, decoding each chunk
// lossily (invalid bytes replaced) and appending it in arrival order.
func (r *Runner) drain(wg *sync.WaitGroup, pipe io.Reader, dest *[]string, prefix string) {
	defer wg.Done()
	buf := make([]byte, 4096)
	for {
		n, err := pipe.Read(buf)
		if n > 0 {
			chunk := decodeLossy(buf[:n])
			*dest = append(*dest, chunk)
			if r.verbose {
				logging.LogPrefix(r.logger, prefix, chunk)
			}
		}
		if err != nil {
			return
		}
	}
}

func (r *Runner) feedStdin(cmd *exec.Cmd, stdin string) {
	if stdin == "" {
		return
	}
	if r.verbose {
		logging.LogPrefix(r.logger, "<0 ", stdin)
	}
	cmd.Stdin = strings.NewReader(stdin)
}

// decodeLossy converts raw process output to text, replacing undecodable
// bytes instead of failing.
func decodeLossy(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}

// lineTracer logs complete output lines with a stream prefix. Partial lines
// are buffered until a newline or flush.
type lineTracer struct {
	logger *slog.Logger
	prefix string
	buf    strings.Builder
}

func newLineTracer(logger *slog.Logger, prefix string) *lineTracer {
	return &lineTracer{logger: logger, prefix: prefix}
}

func (t *lineTracer) Write(p []byte) (int, error) {
	for _, c := range string(p) {
		if c == '\n' {
			t.logger.Debug(t.prefix + t.buf.String())
			t.buf.Reset()
			continue
		}
		t.buf.WriteRune(c)
	}
	return len(p), nil
}

func (t *lineTracer) flush() {
	if t.buf.Len() > 0 {
		t.logger.Debug(t.prefix + t.buf.String())
		t.buf.Reset()
	}
}
