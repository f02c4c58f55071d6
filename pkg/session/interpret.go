package session

import (
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/lang"
)

// Interpret tries to evaluate code as a single expression and falls back to
// executing it as a statement sequence.
//
//   - Not a standalone expression: execute as statements, no diagnostic.
//     This is the expected path for assignments and multi-statement input.
//   - Evaluates to a real value: print its machine-readable representation
//     to out and stop; the fragment is not also executed.
//   - Evaluates to the no-value sentinel (a reserved placeholder): fall
//     through to statement execution, which for a bare expression is a no-op
//     beyond evaluation.
//
// This gives the REPL ergonomics where `2 + 2` echoes 4 while `x = 2 + 2`
// silently binds.
func Interpret(code string, env *lang.Env, out io.Writer) (lang.Value, error) {
	v, err := lang.Eval(code, env)
	if err != nil {
		if errors.Is(err, domain.ErrNotExpression) {
			return lang.NoValue, lang.PushFrame(lang.Exec(code, env), "interpret")
		}
		return lang.NoValue, lang.PushFrame(err, "interpret")
	}
	if !lang.IsNoValue(v) {
		fmt.Fprintln(out, lang.Repr(v))
		return v, nil
	}
	return lang.NoValue, lang.PushFrame(lang.Exec(code, env), "interpret")
}

// ExecuteOnly runs code unconditionally as a statement sequence, with no
// evaluation attempt. Used for file loads and non-interactive batch runs
// where expression echoing is undesired.
func ExecuteOnly(code string, env *lang.Env) error {
	return lang.PushFrame(lang.Exec(code, env), "execute")
}

// EvalOnly evaluates code as an expression and returns the result without
// printing it.
func EvalOnly(code string, env *lang.Env) (lang.Value, error) {
	v, err := lang.Eval(code, env)
	return v, lang.PushFrame(err, "evaluate")
}
