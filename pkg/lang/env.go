package lang

import (
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Env is the live namespace a session executes against. It is mutated in
// place by every run and owned by exactly one session; callers must
// serialize access.
type Env struct {
	vars map[string]Value
	out  io.Writer
}

// NewEnv builds a fresh environment seeded with session metadata
// (__name__, __package__, and __file__ when a path is given) plus every
// reserved identifier bound to the NoValue placeholder.
func NewEnv(path string) *Env {
	e := &Env{
		vars: make(map[string]Value),
		out:  os.Stdout,
	}
	e.vars["__name__"] = "__main__"
	e.vars["__package__"] = nil
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		e.vars["__file__"] = abs
	}
	for _, name := range ReservedNames {
		e.vars[name] = NoValue
	}
	return e
}

// SetOutput redirects the print statement's destination (default os.Stdout).
func (e *Env) SetOutput(w io.Writer) {
	e.out = w
}

// Get returns the value bound to name.
func (e *Env) Get(name string) (Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Set binds name to v, replacing any previous binding.
func (e *Env) Set(name string, v Value) {
	e.vars[name] = v
}

// Delete removes the binding for name, reporting whether it existed.
func (e *Env) Delete(name string) bool {
	if _, ok := e.vars[name]; !ok {
		return false
	}
	delete(e.vars, name)
	return true
}

// Names returns the bound identifiers in deterministic order.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.vars))
	for k := range e.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of bindings.
func (e *Env) Len() int {
	return len(e.vars)
}

// Merge copies every binding from other into e, overwriting collisions.
// Used to fold a path-scoped sub-environment back into the owning session.
func (e *Env) Merge(other *Env) {
	for k, v := range other.vars {
		e.vars[k] = v
	}
}

// Export copies e's bindings into dest, omitting the excluded names.
func (e *Env) Export(dest *Env, exclude ...string) {
	skip := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		skip[name] = struct{}{}
	}
	for k, v := range e.vars {
		if _, omit := skip[k]; omit {
			continue
		}
		dest.vars[k] = v
	}
}
