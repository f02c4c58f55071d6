package lang

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is the dynamic type of everything the language manipulates.
// Concrete representations: nil, bool, int64, float64, string and []Value.
type Value = any

// noValue is the designated "no usable value" sentinel. It doubles as the
// placeholder bound to reserved identifiers at environment creation, so
// evaluating a reserved-but-unused name yields no value rather than an error.
type noValue struct{}

// NoValue is the sentinel an evaluation yields when it technically succeeds
// but produces nothing worth printing.
var NoValue Value = noValue{}

// IsNoValue reports whether v is the no-value sentinel.
// Values must never be compared with == directly: slices are not comparable.
func IsNoValue(v Value) bool {
	_, ok := v.(noValue)
	return ok
}

// ReservedNames are identifiers reserved for future language constructs.
// Each is seeded into fresh environments bound to NoValue so completion
// machinery can offer them without them ever evaluating to a real value.
var ReservedNames = []string{
	"async",
	"await",
	"case",
	"data",
	"match",
	"where",
}

// Repr renders a machine-readable representation of v: unambiguous and
// round-trippable through the parser wherever the value has a literal form.
func Repr(v Value) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case noValue:
		return "<unbound>"
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		s := strconv.FormatFloat(x, 'g', -1, 64)
		// Keep floats distinguishable from ints on the way back in.
		if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") && !strings.Contains(s, "NaN") {
			s += ".0"
		}
		return s
	case string:
		return strconv.Quote(x)
	case []Value:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = Repr(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", x)
	}
}

// Str renders the human-readable form of v, as the print statement shows it.
// Strings appear unquoted; everything else matches Repr.
func Str(v Value) string {
	if s, ok := v.(string); ok {
		return s
	}
	return Repr(v)
}

// Truthy reports the boolean interpretation of v.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case nil, noValue:
		return false
	case bool:
		return x
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != ""
	case []Value:
		return len(x) > 0
	default:
		return true
	}
}

// equalValues implements == for the language, including element-wise list
// comparison and int/float cross-type numeric equality.
func equalValues(a, b Value) bool {
	if la, ok := a.([]Value); ok {
		lb, ok := b.([]Value)
		if !ok || len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !equalValues(la[i], lb[i]) {
				return false
			}
		}
		return true
	}
	if _, ok := b.([]Value); ok {
		return false
	}
	af, aIsNum := toFloat(a)
	bf, bIsNum := toFloat(b)
	if aIsNum && bIsNum {
		return af == bf
	}
	return a == b
}

func toFloat(v Value) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
