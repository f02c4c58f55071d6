package tendril

import (
	"github.com/aretw0/tendril/pkg/adapters/process"
	"github.com/aretw0/tendril/pkg/session"
)

// Version is the current Tendril release.
const Version = "0.3.0"

// New creates an interactive session with a freshly seeded environment.
// It is a convenience wrapper around session.New; see pkg/session for the
// available options.
func New(opts ...session.Option) *session.Session {
	return session.New(opts...)
}

// NewProcessRunner creates a command runner for shelling out to external
// processes. See pkg/adapters/process for the available options.
func NewProcessRunner(opts ...process.Option) *process.Runner {
	return process.NewRunner(opts...)
}
