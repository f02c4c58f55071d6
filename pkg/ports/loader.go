package ports

import (
	"io"

	"github.com/aretw0/tendril/pkg/lang"
)

// FileLoader executes an external program file as a standalone module and
// returns the resulting top-level namespace. The session only merges the
// result; how the file is located and executed is the loader's business.
type FileLoader interface {
	Load(path string, out io.Writer) (*lang.Env, error)
}

// FileLoaderFunc adapts a plain function to the FileLoader interface.
type FileLoaderFunc func(path string, out io.Writer) (*lang.Env, error)

func (f FileLoaderFunc) Load(path string, out io.Writer) (*lang.Env, error) {
	return f(path, out)
}
