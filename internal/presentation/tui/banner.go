package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the interactive-session banner. Colors degrade
// gracefully on terminals without true color support.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Green-to-teal gradient, one shade per row.
	rows := []struct {
		text  string
		color string
	}{
		{` _                 _      _ _`, "#4ade80"},
		{`| |_ ___ _ __   __| |_ __(_) |`, "#34d399"},
		{`| __/ _ \ '_ \ / _` + "`" + ` | '__| | |`, "#2dd4bf"},
		{`| ||  __/ | | | (_| | |  | | |`, "#22d3ee"},
		{` \__\___|_| |_|\__,_|_|  |_|_|`, "#38bdf8"},
	}

	fmt.Fprintln(w)
	for _, row := range rows {
		fmt.Fprintln(w, termenv.String(row.text).Foreground(p.Color(row.color)))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "tendril %s | type :help for help, :quit to leave\n\n", version)
}
