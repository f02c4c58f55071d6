package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown (the REPL help text)
// using glamour. When the renderer cannot be initialized, the fallback
// returns the raw markdown unchanged so help is never lost.
func NewRenderer(width int) func(string) string {
	opts := []glamour.TermRendererOption{
		glamour.WithAutoStyle(), // Detect light/dark background
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return func(markdown string) string { return markdown }
	}

	return func(markdown string) string {
		out, err := r.Render(markdown)
		if err != nil {
			return markdown
		}
		return out
	}
}
