package session

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/tendril/pkg/lang"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, opts ...Option) (*Session, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	base := []Option{
		WithOutput(&out),
		WithErrOutput(&errOut),
		WithExitFunc(func(code int) {
			t.Fatalf("unexpected termination with status %d", code)
		}),
	}
	return New(append(base, opts...)...), &out, &errOut
}

func TestRun_ExpressionEchoesValue(t *testing.T) {
	s, out, _ := newTestSession(t)
	before := s.Env().Len()

	v := s.Run("2 + 2", RunOptions{})

	assert.Equal(t, lang.Value(int64(4)), v)
	assert.Equal(t, "4\n", out.String())
	assert.Equal(t, before, s.Env().Len(), "expression must not touch the bound-name set")
}

func TestRun_AssignmentBindsSilently(t *testing.T) {
	s, out, _ := newTestSession(t)

	s.Run("x = 2 + 2", RunOptions{})

	assert.Empty(t, out.String())
	v, ok := s.Env().Get("x")
	require.True(t, ok)
	assert.Equal(t, lang.Value(int64(4)), v)
}

func TestRun_ReservedNameDoesNotEcho(t *testing.T) {
	s, out, _ := newTestSession(t)
	s.Run("match", RunOptions{})
	assert.Empty(t, out.String())
}

func TestRun_Modes(t *testing.T) {
	t.Run("ModeEval Returns Without Printing", func(t *testing.T) {
		s, out, _ := newTestSession(t)
		v := s.Run("1 + 2", RunOptions{Mode: ModeEval})
		assert.Equal(t, lang.Value(int64(3)), v)
		assert.Empty(t, out.String())
	})

	t.Run("ModeExec Never Echoes", func(t *testing.T) {
		s, out, _ := newTestSession(t)
		s.Run("2 + 2", RunOptions{Mode: ModeExec})
		assert.Empty(t, out.String())
	})
}

func TestRun_SessionSurvivesFailure(t *testing.T) {
	s, out, errOut := newTestSession(t)

	s.Run("1 / 0", RunOptions{})
	assert.Contains(t, errOut.String(), "RuntimeError")
	assert.Contains(t, errOut.String(), "division by zero")

	// A subsequent unrelated run succeeds normally.
	out.Reset()
	v := s.Run("40 + 2", RunOptions{})
	assert.Equal(t, lang.Value(int64(42)), v)
	assert.Equal(t, "42\n", out.String())
}

func TestRun_DiagnosticStripsDispatchFrames(t *testing.T) {
	s, _, errOut := newTestSession(t)
	s.Run("len(missing)", RunOptions{})

	diag := errOut.String()
	assert.NotContains(t, diag, "session.run")
	assert.NotContains(t, diag, "interpret")
	assert.Contains(t, diag, "unbound identifier")
}

func TestRun_Escalation(t *testing.T) {
	t.Run("Failure Invokes Handler Exactly Once", func(t *testing.T) {
		var codes []int
		var out, errOut bytes.Buffer
		s := New(
			WithOutput(&out),
			WithErrOutput(&errOut),
			WithExitFunc(func(code int) { codes = append(codes, code) }),
		)

		s.Run("1 / 0", RunOptions{EscalateAll: true})
		assert.Equal(t, []int{1}, codes)
	})

	t.Run("Success Invokes Handler Zero Times", func(t *testing.T) {
		calls := 0
		s := New(
			WithOutput(io.Discard),
			WithErrOutput(io.Discard),
			WithExitFunc(func(int) { calls++ }),
		)
		s.Run("x = 1", RunOptions{EscalateAll: true})
		assert.Zero(t, calls)
	})
}

func TestRun_CooperativeTermination(t *testing.T) {
	var codes []int
	var out, errOut bytes.Buffer
	s := New(
		WithOutput(&out),
		WithErrOutput(&errOut),
		WithExitFunc(func(code int) { codes = append(codes, code) }),
	)

	s.Run("exit(7)", RunOptions{EscalateAll: true})

	assert.Equal(t, []int{7}, codes, "exit status must pass through untouched, once")
	assert.Empty(t, errOut.String(), "cooperative termination is not a failure")
}

func TestRun_PathScopedEnvironmentMergesBack(t *testing.T) {
	t.Run("On Success", func(t *testing.T) {
		s, _, _ := newTestSession(t)
		target := filepath.Join(t.TempDir(), "scoped.td")

		s.Run("scoped = 11", RunOptions{Path: target, Mode: ModeExec})

		v, ok := s.Env().Get("scoped")
		require.True(t, ok, "path-scoped bindings must become visible session-wide")
		assert.Equal(t, lang.Value(int64(11)), v)

		// The fresh environment carried its own __file__; after the merge the
		// session sees the scoped one.
		file, _ := s.Env().Get("__file__")
		assert.Equal(t, target, file)
	})

	t.Run("On Failure", func(t *testing.T) {
		s, _, errOut := newTestSession(t)

		s.Run("kept = 5\nkept / 0", RunOptions{Path: "other.td", Mode: ModeExec})

		assert.Contains(t, errOut.String(), "division by zero")
		v, ok := s.Env().Get("kept")
		require.True(t, ok, "bindings made before the failure still merge back")
		assert.Equal(t, lang.Value(int64(5)), v)
	})
}

func TestTranscript(t *testing.T) {
	t.Run("Records In Run Order", func(t *testing.T) {
		s, _, _ := newTestSession(t, WithStore())
		s.Run("x = 1", RunOptions{Record: true})
		s.Run("y = 2", RunOptions{Record: true})
		s.Run("z = 3", RunOptions{Record: false})

		assert.Equal(t, "x = 1\ny = 2", s.Transcript(false))
	})

	t.Run("Failed Fragments Are Not Recorded", func(t *testing.T) {
		s, _, _ := newTestSession(t, WithStore())
		s.Run("x = 1", RunOptions{Record: true})
		s.Run("1 / 0", RunOptions{Record: true})

		assert.Equal(t, "x = 1", s.Transcript(false))
	})

	t.Run("Collapse Is Idempotent", func(t *testing.T) {
		s, _, _ := newTestSession(t, WithStore())
		s.Run("a = 1", RunOptions{Record: true})
		s.Run("b = 2", RunOptions{Record: true})

		first := s.Transcript(true)
		second := s.Transcript(true)
		assert.Equal(t, "a = 1\nb = 2", first)
		assert.Equal(t, first, second)
	})

	t.Run("Disabled Storing Yields Empty", func(t *testing.T) {
		s, _, _ := newTestSession(t)
		s.Run("x = 1", RunOptions{Record: true})
		assert.Empty(t, s.Transcript(true))
	})
}

func TestRunFile(t *testing.T) {
	t.Run("Merges Namespace And Records Import Line", func(t *testing.T) {
		s, _, _ := newTestSession(t, WithStore())
		path := filepath.Join(t.TempDir(), "startup.td")
		require.NoError(t, os.WriteFile(path, []byte("greeting = \"hi\"\n"), 0o644))

		s.RunFile(path, false)

		v, ok := s.Env().Get("greeting")
		require.True(t, ok)
		assert.Equal(t, lang.Value("hi"), v)
		assert.Equal(t, "from startup import *", s.Transcript(false))
	})

	t.Run("Missing File Escalates", func(t *testing.T) {
		var codes []int
		var out, errOut bytes.Buffer
		s := New(
			WithOutput(&out),
			WithErrOutput(&errOut),
			WithExitFunc(func(code int) { codes = append(codes, code) }),
		)

		s.RunFile(filepath.Join(t.TempDir(), "absent.td"), true)
		assert.Equal(t, []int{1}, codes)
	})

	t.Run("Custom Loader Is Honored", func(t *testing.T) {
		loaded := ""
		loader := ports.FileLoaderFunc(func(path string, out io.Writer) (*lang.Env, error) {
			loaded = path
			env := lang.NewEnv(path)
			env.Set("injected", int64(1))
			return env, nil
		})
		s, _, _ := newTestSession(t, WithLoader(loader))

		s.RunFile("virtual.td", false)

		assert.NotEmpty(t, loaded)
		_, ok := s.Env().Get("injected")
		assert.True(t, ok)
	})
}

func TestExportEnv(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Run("helper = 10", RunOptions{})
	s.Run("internal = 20", RunOptions{})

	dest := lang.NewEnv("")
	s.ExportEnv(dest, "internal", "__name__")

	_, hasHelper := dest.Get("helper")
	_, hasInternal := dest.Get("internal")
	assert.True(t, hasHelper)
	assert.False(t, hasInternal)
}

func TestRun_RecordsToHistoryStore(t *testing.T) {
	store := &recordingStore{}
	s, _, _ := newTestSession(t, WithStore(), WithHistory(store))

	s.Run("x = 1", RunOptions{Record: true})

	assert.Equal(t, []string{"x = 1"}, store.entries)
}

type recordingStore struct {
	entries []string
}

func (r *recordingStore) Append(_ context.Context, entry string) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingStore) Entries(_ context.Context) ([]string, error) {
	return r.entries, nil
}

func (r *recordingStore) Clear(_ context.Context) error {
	r.entries = nil
	return nil
}
