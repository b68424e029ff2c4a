// Package value defines the tagged-union runtime value domain that
// evaluators and the scope operate over, per spec.md §9's design note: a
// statically typed target should represent untyped source values as a
// tagged union with structural comparison available for by-value watches.
package value

import (
	"fmt"
	"math"

	"github.com/google/go-cmp/cmp"
)

// Kind identifies which variant of the value union a Value holds.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindFunction
	KindHost
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindFunction:
		return "function"
	case KindHost:
		return "host"
	}
	return "unknown"
}

// Function is the callable shape exposed to Call nodes. receiver is the
// `this` binding for the call (the resolving container for a bare
// identifier call, or the member's object for a member call).
type Function func(receiver any, args []any) (any, error)

// Undefined is the zero value of the domain: an unset identifier, a missing
// member, or the result of calling a falsy callee.
type undefinedT struct{}

var Undefined undefinedT

func (undefinedT) String() string { return "undefined" }

// Kind classifies a raw dynamic value the way scope/locals storage holds
// it: Go nil is Null, Undefined is KindUndefined, bool/float64/string/
// []any/map[string]any/Function map directly, anything else is KindHost.
func KindOf(v any) Kind {
	switch v.(type) {
	case undefinedT, nil:
		if v == nil {
			return KindNull
		}
		return KindUndefined
	case bool:
		return KindBool
	case float64:
		return KindNumber
	case string:
		return KindString
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	case Function:
		return KindFunction
	}
	return KindHost
}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(undefinedT)
	return ok
}

// Truthy implements the language's notion of truthiness: undefined, null,
// false, 0, NaN, and "" are falsy; everything else (including empty arrays
// and objects) is truthy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case undefinedT:
		return false
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case string:
		return t != ""
	}
	return true
}

// ToNumber coerces v for arithmetic. Undefined and null substitute 0 per
// spec.md §4.4's Unary/Binary rules, booleans become 1 or 0, strings are
// parsed as numbers (the empty string is 0, an unparsable one NaN), and any
// other value reports NaN rather than panicking.
func ToNumber(v any) float64 {
	switch t := v.(type) {
	case undefinedT:
		return 0
	case nil:
		return 0
	case float64:
		return t
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		return parseNumber(t)
	}
	return math.NaN()
}

func parseNumber(s string) float64 {
	var f float64
	if s == "" {
		return 0
	}
	if _, err := fmt.Sscanf(s, "%g", &f); err != nil {
		return math.NaN()
	}
	return f
}

// Equal implements the scope's default (===-like) comparison, with the
// explicit NaN-equals-NaN exception spec.md §4.6.2 and §9(a) call for.
func Equal(a, b any) bool {
	an, aIsNum := a.(float64)
	bn, bIsNum := b.(float64)
	if aIsNum && bIsNum && math.IsNaN(an) && math.IsNaN(bn) {
		return true
	}
	if KindOf(a) != KindOf(b) {
		return false
	}
	switch av := a.(type) {
	case []any, map[string]any, Function:
		// Reference comparison for composite/callable values: compare
		// identity, not structure, outside of byValue watches.
		return sameIdentity(av, b)
	default:
		return a == b
	}
}

// LooseEqual implements `==`/`!=`'s abstract equality: same-Kind operands
// compare exactly as Equal does, but a Number compared against a String (or
// a Bool against either) first coerces the non-number side via ToNumber,
// and null loosely equals undefined. Composite and function values never
// coerce, so they fall back to Equal's reference comparison.
func LooseEqual(a, b any) bool {
	ak, bk := KindOf(a), KindOf(b)
	if ak == bk {
		return Equal(a, b)
	}
	if (ak == KindNull && bk == KindUndefined) || (ak == KindUndefined && bk == KindNull) {
		return true
	}
	if ak == KindArray || ak == KindObject || ak == KindFunction || ak == KindHost ||
		bk == KindArray || bk == KindObject || bk == KindFunction || bk == KindHost {
		return false
	}
	if ak == KindNull || ak == KindUndefined || bk == KindNull || bk == KindUndefined {
		return false
	}
	an, bn := ToNumber(a), ToNumber(b)
	if math.IsNaN(an) && math.IsNaN(bn) {
		return true
	}
	return an == bn
}

func sameIdentity(a, b any) bool {
	switch av := a.(type) {
	case []any:
		bv, ok := b.([]any)
		return ok && sameSlicePointer(av, bv)
	case map[string]any:
		bv, ok := b.(map[string]any)
		return ok && sameMapPointer(av, bv)
	case Function:
		_, ok := b.(Function)
		return ok && false // distinct closures are never identical by reference here
	}
	return false
}

// DeepEqual implements the scope's byValue comparison: full structural
// equality, used by watchers registered with byValue=true.
func DeepEqual(a, b any) bool {
	if an, ok := a.(float64); ok {
		if bn, ok := b.(float64); ok && math.IsNaN(an) && math.IsNaN(bn) {
			return true
		}
	}
	return cmp.Equal(a, b, cmp.Comparer(func(x, y float64) bool {
		if math.IsNaN(x) && math.IsNaN(y) {
			return true
		}
		return x == y
	}))
}

// Clone deep-copies v for byValue watcher snapshots, so a later in-place
// mutation of the caller's array/object doesn't retroactively change what
// the watcher believes `last` was.
func Clone(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Clone(e)
		}
		return out
	default:
		return v
	}
}
