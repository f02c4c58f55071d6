package lang

import (
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/tendril/pkg/domain"
)

// builtins are the callable functions available in expression position.
// They are pure except for exit, which raises the cooperative-termination
// signal rather than computing anything.
var builtins = map[string]func(line int, args []Value) (Value, error){
	"abs":   builtinAbs,
	"exit":  builtinExit,
	"float": builtinFloat,
	"int":   builtinInt,
	"len":   builtinLen,
	"range": builtinRange,
	"str":   builtinStr,
}

func evalCall(x *callExpr, env *Env) (Value, error) {
	fn, ok := builtins[x.fn]
	if !ok {
		if _, bound := env.Get(x.fn); bound {
			return NoValue, runtimeErrf(x.line, x.fn, "%q is not callable", x.fn)
		}
		return NoValue, runtimeErrf(x.line, x.fn, "unknown function %q", x.fn)
	}
	args := make([]Value, len(x.args))
	for i, arg := range x.args {
		v, err := evalExpr(arg, env)
		if err != nil {
			return NoValue, err
		}
		args[i] = v
	}
	return fn(x.line, args)
}

func arity(line int, fn string, args []Value, want int) error {
	if len(args) != want {
		return runtimeErrf(line, fn, "%s expects %d argument(s), got %d", fn, want, len(args))
	}
	return nil
}

func builtinLen(line int, args []Value) (Value, error) {
	if err := arity(line, "len", args, 1); err != nil {
		return NoValue, err
	}
	switch x := args[0].(type) {
	case string:
		return int64(len(x)), nil
	case []Value:
		return int64(len(x)), nil
	}
	return NoValue, runtimeErrf(line, "len", "len does not apply to %s", typeName(args[0]))
}

func builtinStr(line int, args []Value) (Value, error) {
	if err := arity(line, "str", args, 1); err != nil {
		return NoValue, err
	}
	return Str(args[0]), nil
}

func builtinInt(line int, args []Value) (Value, error) {
	if err := arity(line, "int", args, 1); err != nil {
		return NoValue, err
	}
	switch x := args[0].(type) {
	case int64:
		return x, nil
	case float64:
		return int64(x), nil
	case bool:
		if x {
			return int64(1), nil
		}
		return int64(0), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return NoValue, runtimeErrf(line, "int", "cannot parse %q as int", x)
		}
		return n, nil
	}
	return NoValue, runtimeErrf(line, "int", "cannot convert %s to int", typeName(args[0]))
}

func builtinFloat(line int, args []Value) (Value, error) {
	if err := arity(line, "float", args, 1); err != nil {
		return NoValue, err
	}
	switch x := args[0].(type) {
	case int64:
		return float64(x), nil
	case float64:
		return x, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return NoValue, runtimeErrf(line, "float", "cannot parse %q as float", x)
		}
		return f, nil
	}
	return NoValue, runtimeErrf(line, "float", "cannot convert %s to float", typeName(args[0]))
}

func builtinAbs(line int, args []Value) (Value, error) {
	if err := arity(line, "abs", args, 1); err != nil {
		return NoValue, err
	}
	switch x := args[0].(type) {
	case int64:
		if x < 0 {
			return -x, nil
		}
		return x, nil
	case float64:
		return math.Abs(x), nil
	}
	return NoValue, runtimeErrf(line, "abs", "abs does not apply to %s", typeName(args[0]))
}

func builtinRange(line int, args []Value) (Value, error) {
	if err := arity(line, "range", args, 1); err != nil {
		return NoValue, err
	}
	n, ok := args[0].(int64)
	if !ok {
		return NoValue, runtimeErrf(line, "range", "range expects an int, got %s", typeName(args[0]))
	}
	if n < 0 {
		n = 0
	}
	out := make([]Value, n)
	for i := int64(0); i < n; i++ {
		out[i] = i
	}
	return out, nil
}

// builtinExit raises the cooperative-termination signal. With no arguments
// the requested status is 0; a single int argument sets it explicitly.
func builtinExit(line int, args []Value) (Value, error) {
	code := 0
	switch len(args) {
	case 0:
	case 1:
		n, ok := args[0].(int64)
		if !ok {
			return NoValue, runtimeErrf(line, "exit", "exit expects an int status, got %s", typeName(args[0]))
		}
		code = int(n)
	default:
		return NoValue, runtimeErrf(line, "exit", "exit expects at most 1 argument, got %d", len(args))
	}
	return NoValue, &domain.ExitError{Code: code}
}
