package domain

import "strings"

// ProcessResult captures the observable outcome of one external command
// invocation. Stdout and Stderr hold decoded output chunks in arrival order;
// ordering is only guaranteed within each stream, not between them.
type ProcessResult struct {
	Stdout []string
	Stderr []string

	// ExitCode is set exactly once, after both streams have been fully
	// drained. It is nil while the process is still running.
	ExitCode *int
}

// Output joins the decoded stdout content followed by the stderr content.
func (r *ProcessResult) Output() string {
	var b strings.Builder
	for _, s := range r.Stdout {
		b.WriteString(s)
	}
	for _, s := range r.Stderr {
		b.WriteString(s)
	}
	return b.String()
}

// Finished reports whether the exit code has been resolved.
func (r *ProcessResult) Finished() bool {
	return r.ExitCode != nil
}
