package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/lang"
)

// addedTraceFrames is the number of innermost trace frames contributed by
// the session's own dispatch chain: one from Session.Run and one from the
// interpret/execute/evaluate wrapper. The isolator strips exactly this many
// frames before printing a diagnostic so users only see frames from their
// own code. Getting this wrong either hides user frames or leaks dispatch
// internals, so it must track the dispatch depth, not be tuned by eye.
const addedTraceFrames = 2

// failureRecord is the ephemeral diagnostic view of an unexpected failure.
// It is built, printed, and discarded; never stored.
type failureRecord struct {
	kind  string
	msg   string
	trace []lang.Frame
}

func newFailureRecord(err error) failureRecord {
	rec := failureRecord{kind: "Error", msg: err.Error()}
	var rt *lang.RuntimeError
	var syn *lang.SyntaxError
	switch {
	case errors.As(err, &rt):
		rec.kind = "RuntimeError"
		rec.msg = rt.Msg
		trace := rt.Trace
		if len(trace) >= addedTraceFrames {
			trace = trace[:len(trace)-addedTraceFrames]
		}
		rec.trace = trace
	case errors.As(err, &syn):
		rec.kind = "SyntaxError"
		rec.msg = syn.Msg
	}
	return rec
}

func (r failureRecord) String() string {
	var b strings.Builder
	for i := len(r.trace) - 1; i >= 0; i-- {
		f := r.trace[i]
		fmt.Fprintf(&b, "  in %s (line %d)\n", f.Fn, f.Line)
	}
	fmt.Fprintf(&b, "%s: %s", r.kind, r.msg)
	return b.String()
}

// isolate runs action and guarantees the failure policy of the session:
//
//   - A cooperative-termination signal is forwarded to the termination
//     handler with its requested status, bypassing failure reporting.
//   - Any other failure is diagnosed to the error stream with the dispatch
//     frames stripped, then swallowed; when escalateAll is set the
//     termination handler is additionally invoked once with status 1.
//
// isolate never re-raises, so the surrounding read loop always survives.
func (s *Session) isolate(action func() error, escalateAll bool) {
	err := action()
	if err == nil {
		return
	}

	var exit *domain.ExitError
	if errors.As(err, &exit) {
		s.exit(exit.Code)
		return
	}

	rec := newFailureRecord(err)
	fmt.Fprintln(s.errOut, rec.String())
	s.logger.Debug("fragment failed", "kind", rec.kind, "err", rec.msg)

	if escalateAll {
		s.exit(1)
	}
}
