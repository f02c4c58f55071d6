package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/internal/presentation/tui"
	"github.com/aretw0/tendril/pkg/session"
)

const (
	mainPrompt = "=> "
	morePrompt = ".. "
)

const helpText = `
# Tendril REPL

Type an expression to evaluate it, or statements to run them.
End a line with ` + "`\\`" + ` to continue on the next line.

## Commands

  - ` + "`:help`" + `     Show this help
  - ` + "`:history`" + `  Print everything run so far
  - ` + "`:save <path>`" + `  Write the replayable transcript to a file
  - ` + "`:quit`" + `     Leave the session
`

// ReplOptions configures the interactive loop.
type ReplOptions struct {
	Version    string
	Verbose    bool
	ConfigPath string
}

// RunRepl starts an interactive session. When stdin is not a terminal the
// prompt machinery is skipped and fragments are read straight from the pipe.
func RunRepl(opts ReplOptions) error {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	logger := logging.New(logging.Level(opts.Verbose))

	store, err := cfg.HistoryStore()
	if err != nil {
		return err
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if !interactive {
		sess := session.New(
			session.WithStore(),
			session.WithLogger(logger),
			session.WithHistory(store),
		)
		return runPiped(sess)
	}

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	histPath := linerHistoryPath()
	loadLinerHistory(line, histPath)

	// The termination handler flushes editor history before the process
	// goes away, so exit(0) typed at the prompt behaves like :quit.
	sess := session.New(
		session.WithStore(),
		session.WithLogger(logger),
		session.WithHistory(store),
		session.WithExitFunc(func(code int) {
			saveLinerHistory(line, histPath)
			line.Close()
			os.Exit(code)
		}),
	)

	if !cfg.NoColor {
		tui.PrintBanner(os.Stdout, opts.Version)
	} else {
		fmt.Printf("tendril %s | type :help for help, :quit to leave\n", opts.Version)
	}
	renderHelp := tui.NewRenderer(80)

	defer func() {
		saveLinerHistory(line, histPath)
		line.Close()
	}()

	for {
		input, err := readFragment(line)
		if err == liner.ErrPromptAborted {
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, ":") {
			if quit := replCommand(sess, renderHelp, input); quit {
				return nil
			}
			continue
		}

		sess.Run(input, session.RunOptions{Mode: session.ModeAuto, Record: true})
	}
}

// readFragment reads one fragment, honoring trailing-backslash continuation.
func readFragment(line *liner.State) (string, error) {
	input, err := line.Prompt(mainPrompt)
	if err != nil {
		return "", err
	}
	for strings.HasSuffix(input, "\\") {
		more, err := line.Prompt(morePrompt)
		if err != nil {
			return "", err
		}
		input = strings.TrimSuffix(input, "\\") + "\n" + more
	}
	return input, nil
}

// replCommand handles ':' meta-commands, returning true on :quit.
func replCommand(sess *session.Session, renderHelp func(string) string, input string) bool {
	fields := strings.Fields(input)
	switch fields[0] {
	case ":quit", ":exit":
		return true
	case ":help":
		fmt.Print(renderHelp(helpText))
	case ":history":
		if transcript := sess.Transcript(false); transcript != "" {
			fmt.Println(transcript)
		}
	case ":save":
		if len(fields) != 2 {
			fmt.Fprintln(os.Stderr, "usage: :save <path>")
			return false
		}
		transcript := sess.Transcript(true)
		if err := os.WriteFile(fields[1], []byte(transcript+"\n"), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to save transcript: %v\n", err)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %s (try :help)\n", fields[0])
	}
	return false
}

// runPiped executes fragments from a non-terminal stdin, one line each,
// isolating failures so later lines still run.
func runPiped(sess *session.Session) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		sess.Run(text, session.RunOptions{Mode: session.ModeAuto, Record: true})
	}
	return scanner.Err()
}

func linerHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tendril_input_history")
}

func loadLinerHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = line.ReadHistory(f)
}

func saveLinerHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = line.WriteHistory(f)
}
