package process

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test relies on sh")
	}
}

func TestExecute_CapturingMode(t *testing.T) {
	skipOnWindows(t)
	runner := NewRunner()
	ctx := context.Background()

	t.Run("Returns Stdout Then Stderr", func(t *testing.T) {
		code, out, err := runner.Execute(ctx,
			[]string{"sh", "-c", "printf out; printf err 1>&2"},
			ExecOptions{})
		require.NoError(t, err)
		assert.Zero(t, code)
		assert.Equal(t, "outerr", out)
	})

	t.Run("Stdin Is Fed Once", func(t *testing.T) {
		code, out, err := runner.Execute(ctx,
			[]string{"cat"},
			ExecOptions{Stdin: "hello"})
		require.NoError(t, err)
		assert.Zero(t, code)
		assert.Equal(t, "hello", out)
	})

	t.Run("NonZero Exit Without Raise Returns Output", func(t *testing.T) {
		code, out, err := runner.Execute(ctx,
			[]string{"sh", "-c", "echo oops; exit 3"},
			ExecOptions{})
		require.NoError(t, err)
		assert.Equal(t, 3, code)
		assert.Equal(t, "oops\n", out)
	})

	t.Run("NonZero Exit With Raise Carries Output", func(t *testing.T) {
		_, _, err := runner.Execute(ctx,
			[]string{"sh", "-c", "echo oops; exit 3"},
			ExecOptions{RaiseOnFailure: true})
		var exitErr *domain.ExitStatusError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 3, exitErr.Code)
		assert.Equal(t, "oops\n", exitErr.Output)
	})
}

func TestExecute_StreamingMode(t *testing.T) {
	skipOnWindows(t)
	ctx := context.Background()

	t.Run("Passes Output Through And Returns Code", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		runner := NewRunner(WithStdout(&stdout), WithStderr(&stderr))

		code, out, err := runner.Execute(ctx,
			[]string{"sh", "-c", "echo visible; echo noisy 1>&2"},
			ExecOptions{Streaming: true})
		require.NoError(t, err)
		assert.Zero(t, code)
		assert.Empty(t, out, "streaming mode captures nothing")
		assert.Equal(t, "visible\n", stdout.String())
		assert.Equal(t, "noisy\n", stderr.String())
	})

	t.Run("NonZero Exit With Raise", func(t *testing.T) {
		runner := NewRunner(WithStdout(&bytes.Buffer{}), WithStderr(&bytes.Buffer{}))
		_, _, err := runner.Execute(ctx,
			[]string{"sh", "-c", "exit 2"},
			ExecOptions{Streaming: true, RaiseOnFailure: true})
		var exitErr *domain.ExitStatusError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})
}

func TestExecute_LaunchFailure(t *testing.T) {
	runner := NewRunner(WithStdout(&bytes.Buffer{}), WithStderr(&bytes.Buffer{}))
	ctx := context.Background()
	missing := []string{"definitely-not-an-executable-4ccf1"}

	t.Run("Capturing Without Raise Returns Empty String", func(t *testing.T) {
		code, out, err := runner.Execute(ctx, missing, ExecOptions{})
		require.NoError(t, err)
		assert.Equal(t, domain.OSErrorCode, code)
		assert.Empty(t, out)
	})

	t.Run("Streaming Without Raise Returns Sentinel", func(t *testing.T) {
		code, _, err := runner.Execute(ctx, missing, ExecOptions{Streaming: true})
		require.NoError(t, err)
		assert.Equal(t, domain.OSErrorCode, code)
	})

	t.Run("With Raise Surfaces LaunchError", func(t *testing.T) {
		_, _, err := runner.Execute(ctx, missing, ExecOptions{RaiseOnFailure: true})
		var launchErr *domain.LaunchError
		require.ErrorAs(t, err, &launchErr)
		assert.Equal(t, domain.OSErrorCode, launchErr.Code)
	})

	t.Run("Empty Command Is Rejected", func(t *testing.T) {
		_, _, err := runner.Execute(ctx, nil, ExecOptions{})
		assert.ErrorIs(t, err, domain.ErrEmptyCommand)
	})
}

func TestCapture_StructuredResult(t *testing.T) {
	skipOnWindows(t)
	runner := NewRunner()

	res, err := runner.Capture(context.Background(),
		[]string{"sh", "-c", "printf a; printf b 1>&2; exit 5"}, "")
	require.NoError(t, err)
	require.True(t, res.Finished())
	assert.Equal(t, 5, *res.ExitCode)
	assert.Equal(t, "a", joined(res.Stdout))
	assert.Equal(t, "b", joined(res.Stderr))
	assert.Equal(t, "ab", res.Output())
}

func joined(chunks []string) string {
	out := ""
	for _, c := range chunks {
		out += c
	}
	return out
}

func TestLoadTools(t *testing.T) {
	t.Run("Parses YAML Registry", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tools.yaml")
		content := `tools:
  - name: typecheck
    command: tdc
    args: ["--strict"]
    description: static checker
  - command: orphan-without-name
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		tools, err := LoadTools(path)
		require.NoError(t, err)
		require.Len(t, tools, 1)
		assert.Equal(t, "tdc", tools["typecheck"].Command)
		assert.Equal(t, []string{"--strict"}, tools["typecheck"].Args)
	})

	t.Run("Missing File Means No Tools", func(t *testing.T) {
		tools, err := LoadTools(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Empty(t, tools)
	})
}
