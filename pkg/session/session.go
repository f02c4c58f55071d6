package session

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/lang"
	"github.com/aretw0/tendril/pkg/ports"
)

// ExitFunc is the injected termination handler. The default terminates the
// host process; embedding contexts override it to control shutdown.
type ExitFunc func(code int)

// Mode selects how Run treats a fragment.
type Mode int

const (
	// ModeAuto evaluates-and-prints when the fragment is a standalone
	// expression, executes it as statements otherwise.
	ModeAuto Mode = iota
	// ModeEval evaluates only; the result is returned, never printed.
	ModeEval
	// ModeExec executes as statements unconditionally.
	ModeExec
)

// RunOptions configures one Run invocation.
type RunOptions struct {
	Mode Mode

	// Path, when set, runs the fragment against a separate fresh
	// environment seeded for that path. The resulting bindings are merged
	// back into the session environment on every exit path.
	Path string

	// EscalateAll turns any unexpected failure into a termination request
	// with status 1 (after the diagnostic is printed).
	EscalateAll bool

	// Record appends the fragment to the transcript on success, when
	// transcript storing is enabled.
	Record bool
}

// Session owns a persistent environment and dispatches code fragments
// through the evaluate-or-execute decider under failure isolation.
type Session struct {
	env     *lang.Env
	stored  []string // nil when transcript storing is disabled
	exit    ExitFunc
	path    string
	logger  *slog.Logger
	history ports.HistoryStore
	loader  ports.FileLoader
	out     io.Writer
	errOut  io.Writer
}

// Option configures a Session.
type Option func(*Session)

// WithExitFunc injects the termination handler.
func WithExitFunc(fn ExitFunc) Option {
	return func(s *Session) {
		s.exit = fn
	}
}

// WithStore enables transcript accumulation. Disabled by default; one-shot
// batch execution has no use for a replay record.
func WithStore() Option {
	return func(s *Session) {
		s.stored = []string{}
	}
}

// WithPath sets the originating file path seeded into the environment.
func WithPath(path string) Option {
	return func(s *Session) {
		s.path = path
	}
}

// WithLogger configures the diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithHistory attaches a persistent history store. Appends are best-effort.
func WithHistory(store ports.HistoryStore) Option {
	return func(s *Session) {
		s.history = store
	}
}

// WithLoader overrides the file-loading collaborator used by RunFile.
func WithLoader(loader ports.FileLoader) Option {
	return func(s *Session) {
		s.loader = loader
	}
}

// WithOutput redirects the session's value/print output (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(s *Session) {
		s.out = w
	}
}

// WithErrOutput redirects failure diagnostics (default os.Stderr).
func WithErrOutput(w io.Writer) Option {
	return func(s *Session) {
		s.errOut = w
	}
}

// New creates a Session with a freshly seeded environment.
func New(opts ...Option) *Session {
	s := &Session{
		exit:   os.Exit,
		logger: logging.NewNop(),
		out:    os.Stdout,
		errOut: os.Stderr,
		loader: ports.FileLoaderFunc(lang.LoadFile),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.env = lang.NewEnv(s.path)
	s.env.SetOutput(s.out)
	return s
}

// Env exposes the owned environment for inspection (completion, tests).
// Callers must not mutate it concurrently with Run.
func (s *Session) Env() *lang.Env {
	return s.env
}

// Run dispatches one fragment per opts. Failures never propagate: they are
// isolated, diagnosed, and (only under EscalateAll or cooperative
// termination) routed to the termination handler. The evaluated value is
// returned for expression fragments, NoValue otherwise.
func (s *Session) Run(code string, opts RunOptions) lang.Value {
	result := lang.NoValue
	s.isolate(func() error {
		env := s.env
		if opts.Path != "" {
			env = lang.NewEnv(opts.Path)
			env.SetOutput(s.out)
			// Merge back whatever was bound, on success, failure and
			// cooperative-termination paths alike.
			defer s.env.Merge(env)
		}

		var err error
		switch opts.Mode {
		case ModeEval:
			result, err = EvalOnly(code, env)
		case ModeExec:
			err = ExecuteOnly(code, env)
		default:
			result, err = Interpret(code, env, s.out)
		}
		if err != nil {
			return lang.PushFrame(err, "session.run")
		}
		if opts.Record {
			s.record(code)
		}
		return nil
	}, opts.EscalateAll)
	return result
}

// RunFile loads and executes an external file as the program entry point,
// merges its resulting namespace into the session environment, and records
// a replayable import line instead of the literal file contents.
func (s *Session) RunFile(path string, escalateAll bool) {
	s.isolate(func() error {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		moduleEnv, err := s.loader.Load(abs, s.out)
		if err != nil {
			return lang.PushFrame(lang.PushFrame(err, "runfile"), "session.run")
		}
		s.env.Merge(moduleEnv)
		s.record("from " + moduleName(abs) + " import *")
		return nil
	}, escalateAll)
}

// ExportEnv copies the session's bindings into dest, omitting the excluded
// names. Used to seed externally-run code with the session's runtime support
// without its bookkeeping.
func (s *Session) ExportEnv(dest *lang.Env, exclude ...string) {
	s.env.Export(dest, exclude...)
}

// Transcript returns the replayable record of everything run with
// Record: true. When collapse is set, all entries are destructively joined
// into a single entry; the operation is idempotent afterwards. Returns the
// empty string when storing is disabled.
func (s *Session) Transcript(collapse bool) string {
	if s.stored == nil {
		return ""
	}
	joined := strings.Join(s.stored, "\n")
	if collapse {
		s.stored = []string{joined}
	}
	return joined
}

func (s *Session) record(entry string) {
	if s.stored != nil {
		s.stored = append(s.stored, entry)
	}
	if s.history != nil {
		if err := s.history.Append(context.Background(), entry); err != nil {
			s.logger.Warn("failed to persist history entry", "err", err)
		}
	}
}

// moduleName strips the directory and every extension from a path,
// mirroring how the transcript refers to loaded files.
func moduleName(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}
