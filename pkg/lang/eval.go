package lang

import (
	"fmt"
	"strings"
)

// Frame is one entry of a failure trace: the construct being evaluated and
// the source line it sits on.
type Frame struct {
	Fn   string
	Line int
}

// RuntimeError is any unexpected failure during fragment execution. Trace
// grows as the error unwinds: the first frame is where the failure happened,
// the last frames belong to whatever dispatch machinery forwarded it.
type RuntimeError struct {
	Msg   string
	Trace []Frame
}

func (e *RuntimeError) Error() string { return e.Msg }

func runtimeErrf(line int, fn string, format string, args ...any) *RuntimeError {
	return &RuntimeError{
		Msg:   fmt.Sprintf(format, args...),
		Trace: []Frame{{Fn: fn, Line: line}},
	}
}

// PushFrame appends a dispatch frame to err's trace when err is a
// RuntimeError. Cooperative-termination and syntax errors pass through
// untouched; any other error is promoted to a RuntimeError first.
func PushFrame(err error, fn string) error {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case *RuntimeError:
		e.Trace = append(e.Trace, Frame{Fn: fn})
		return e
	case *SyntaxError:
		return e
	}
	return err
}

// Eval parses code as a single expression and evaluates it against env.
// A fragment that is not a standalone expression fails with
// domain.ErrNotExpression (wrapped); that is the expected fallback signal,
// not a user-visible failure.
func Eval(code string, env *Env) (Value, error) {
	expr, err := ParseExpression(code)
	if err != nil {
		return NoValue, err
	}
	return evalExpr(expr, env)
}

// Exec parses code as a statement sequence and runs it against env,
// mutating it in place.
func Exec(code string, env *Env) error {
	stmts, err := ParseProgram(code)
	if err != nil {
		return err
	}
	for _, st := range stmts {
		if err := execStmt(st, env); err != nil {
			return err
		}
	}
	return nil
}

func execStmt(st stmtNode, env *Env) error {
	switch s := st.(type) {
	case *exprStmt:
		_, err := evalExpr(s.x, env)
		return err
	case *assignStmt:
		v, err := evalExpr(s.x, env)
		if err != nil {
			return err
		}
		env.Set(s.name, v)
		return nil
	case *delStmt:
		if !env.Delete(s.name) {
			return runtimeErrf(s.line, "del", "cannot delete unbound identifier %q", s.name)
		}
		return nil
	case *printStmt:
		parts := make([]string, len(s.args))
		for i, arg := range s.args {
			v, err := evalExpr(arg, env)
			if err != nil {
				return err
			}
			parts[i] = Str(v)
		}
		fmt.Fprintln(env.out, strings.Join(parts, " "))
		return nil
	default:
		return &RuntimeError{Msg: fmt.Sprintf("unknown statement %T", st)}
	}
}

func evalExpr(e exprNode, env *Env) (Value, error) {
	switch x := e.(type) {
	case *litExpr:
		return x.val, nil
	case *identExpr:
		v, ok := env.Get(x.name)
		if !ok {
			return NoValue, runtimeErrf(x.line, x.name, "unbound identifier %q", x.name)
		}
		return v, nil
	case *unaryExpr:
		return evalUnary(x, env)
	case *binaryExpr:
		return evalBinary(x, env)
	case *callExpr:
		return evalCall(x, env)
	case *listExpr:
		elems := make([]Value, len(x.elems))
		for i, el := range x.elems {
			v, err := evalExpr(el, env)
			if err != nil {
				return NoValue, err
			}
			elems[i] = v
		}
		return elems, nil
	default:
		return NoValue, &RuntimeError{Msg: fmt.Sprintf("unknown expression %T", e)}
	}
}

func evalUnary(x *unaryExpr, env *Env) (Value, error) {
	v, err := evalExpr(x.x, env)
	if err != nil {
		return NoValue, err
	}
	switch x.op {
	case tkMinus:
		switch n := v.(type) {
		case int64:
			return -n, nil
		case float64:
			return -n, nil
		}
		return NoValue, runtimeErrf(x.line, "-", "cannot negate %s", typeName(v))
	case tkNot:
		return !Truthy(v), nil
	}
	return NoValue, runtimeErrf(x.line, "unary", "unknown unary operator")
}

func evalBinary(x *binaryExpr, env *Env) (Value, error) {
	line, _ := x.lhs.exprPos()

	// Short-circuit logic first.
	if x.op == tkAnd || x.op == tkOr {
		lhs, err := evalExpr(x.lhs, env)
		if err != nil {
			return NoValue, err
		}
		if x.op == tkAnd && !Truthy(lhs) {
			return false, nil
		}
		if x.op == tkOr && Truthy(lhs) {
			return true, nil
		}
		rhs, err := evalExpr(x.rhs, env)
		if err != nil {
			return NoValue, err
		}
		return Truthy(rhs), nil
	}

	lhs, err := evalExpr(x.lhs, env)
	if err != nil {
		return NoValue, err
	}
	rhs, err := evalExpr(x.rhs, env)
	if err != nil {
		return NoValue, err
	}

	switch x.op {
	case tkEq:
		return equalValues(lhs, rhs), nil
	case tkNeq:
		return !equalValues(lhs, rhs), nil
	}

	// String handling for + and comparisons.
	if ls, ok := lhs.(string); ok {
		rs, ok := rhs.(string)
		if !ok {
			return NoValue, runtimeErrf(line, opText(x.op), "mismatched operands: string and %s", typeName(rhs))
		}
		switch x.op {
		case tkPlus:
			return ls + rs, nil
		case tkLt:
			return ls < rs, nil
		case tkLte:
			return ls <= rs, nil
		case tkGt:
			return ls > rs, nil
		case tkGte:
			return ls >= rs, nil
		}
		return NoValue, runtimeErrf(line, opText(x.op), "unsupported operation %s on strings", opText(x.op))
	}

	// List concatenation.
	if ll, ok := lhs.([]Value); ok && x.op == tkPlus {
		rl, ok := rhs.([]Value)
		if !ok {
			return NoValue, runtimeErrf(line, "+", "mismatched operands: list and %s", typeName(rhs))
		}
		out := make([]Value, 0, len(ll)+len(rl))
		out = append(out, ll...)
		out = append(out, rl...)
		return out, nil
	}

	li, lIsInt := lhs.(int64)
	ri, rIsInt := rhs.(int64)
	if lIsInt && rIsInt {
		switch x.op {
		case tkPlus:
			return li + ri, nil
		case tkMinus:
			return li - ri, nil
		case tkStar:
			return li * ri, nil
		case tkSlash:
			if ri == 0 {
				return NoValue, runtimeErrf(line, "/", "division by zero")
			}
			return li / ri, nil
		case tkPercent:
			if ri == 0 {
				return NoValue, runtimeErrf(line, "%", "modulo by zero")
			}
			return li % ri, nil
		case tkLt:
			return li < ri, nil
		case tkLte:
			return li <= ri, nil
		case tkGt:
			return li > ri, nil
		case tkGte:
			return li >= ri, nil
		}
	}

	lf, lIsNum := toFloat(lhs)
	rf, rIsNum := toFloat(rhs)
	if !lIsNum || !rIsNum {
		return NoValue, runtimeErrf(line, opText(x.op), "unsupported operands %s and %s for %s",
			typeName(lhs), typeName(rhs), opText(x.op))
	}
	switch x.op {
	case tkPlus:
		return lf + rf, nil
	case tkMinus:
		return lf - rf, nil
	case tkStar:
		return lf * rf, nil
	case tkSlash:
		if rf == 0 {
			return NoValue, runtimeErrf(line, "/", "division by zero")
		}
		return lf / rf, nil
	case tkPercent:
		return NoValue, runtimeErrf(line, "%", "modulo requires integer operands")
	case tkLt:
		return lf < rf, nil
	case tkLte:
		return lf <= rf, nil
	case tkGt:
		return lf > rf, nil
	case tkGte:
		return lf >= rf, nil
	}
	return NoValue, runtimeErrf(line, opText(x.op), "unknown operator")
}

func typeName(v Value) string {
	switch v.(type) {
	case nil:
		return "nil"
	case noValue:
		return "unbound"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "string"
	case []Value:
		return "list"
	}
	return fmt.Sprintf("%T", v)
}

func opText(typ tokenType) string {
	switch typ {
	case tkPlus:
		return "+"
	case tkMinus:
		return "-"
	case tkStar:
		return "*"
	case tkSlash:
		return "/"
	case tkPercent:
		return "%"
	case tkLt:
		return "<"
	case tkLte:
		return "<="
	case tkGt:
		return ">"
	case tkGte:
		return ">="
	case tkEq:
		return "=="
	case tkNeq:
		return "!="
	}
	return "?"
}
