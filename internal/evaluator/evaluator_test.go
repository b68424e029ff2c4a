package evaluator

import (
	"errors"
	"testing"

	"github.com/cwbudde/bindexpr/internal/bexprerrors"
	"github.com/cwbudde/bindexpr/internal/filters"
	"github.com/cwbudde/bindexpr/internal/value"
)

func mustCompile(t *testing.T, source string, opts ...Option) *Evaluator {
	t.Helper()
	e, err := Compile(source, nil, opts...)
	if err != nil {
		t.Fatalf("Compile(%q) returned error: %v", source, err)
	}
	return e
}

func TestEvalNumericLiteralIsConstantAndLiteral(t *testing.T) {
	e := mustCompile(t, "233")
	if !e.Literal || !e.Constant {
		t.Fatalf("expected a bare numeric literal to be Literal and Constant, got Literal=%v Constant=%v", e.Literal, e.Constant)
	}
	got, err := e.Eval(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 233.0 {
		t.Errorf("got %v, want 233", got)
	}
}

func TestEvalMemberChain(t *testing.T) {
	e := mustCompile(t, "a.b.c")
	scope := map[string]any{"a": map[string]any{"b": map[string]any{"c": 7.0}}}
	got, err := e.Eval(scope, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7.0 {
		t.Errorf("got %v, want 7", got)
	}
}

func TestEvalUndefinedMemberChainIsUndefinedNotError(t *testing.T) {
	e := mustCompile(t, "a.b.c")
	got, err := e.Eval(map[string]any{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !value.IsUndefined(got) {
		t.Errorf("got %#v, want the Undefined sentinel", got)
	}
}

func TestEvalLocalsShadowScope(t *testing.T) {
	e := mustCompile(t, "a")
	scope := map[string]any{"a": 1.0}
	locals := map[string]any{"a": 2.0}
	got, err := e.Eval(scope, locals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2.0 {
		t.Errorf("got %v, want 2 (locals should shadow scope)", got)
	}
}

func TestEvalComputedMemberIndexesArrays(t *testing.T) {
	e := mustCompile(t, "a[1]")
	scope := map[string]any{"a": []any{10.0, 20.0, 30.0}}
	got, err := e.Eval(scope, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 20.0 {
		t.Errorf("got %v, want 20", got)
	}
}

func TestEvalArithmeticAndStringConcat(t *testing.T) {
	cases := []struct {
		source string
		want   any
	}{
		{"1 + 2", 3.0},
		{"'a' + 'b'", "ab"},
		{"5 - 2", 3.0},
		{"3 * 4", 12.0},
		{"10 / 4", 2.5},
		{"10 % 3", 1.0},
		{"-5", -5.0},
		{"+'3'", 3.0},
		{"!0", true},
		{"!1", false},
	}
	for _, c := range cases {
		e := mustCompile(t, c.source)
		got, err := e.Eval(nil, nil)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", c.source, err)
		}
		if got != c.want {
			t.Errorf("%q = %v, want %v", c.source, got, c.want)
		}
	}
}

func TestEvalComparisonsAndEquality(t *testing.T) {
	cases := []struct {
		source string
		want   bool
	}{
		{"1 < 2", true},
		{"2 < 1", false},
		{"2 <= 2", true},
		{"3 > 2", true},
		{"'a' < 'b'", true},
		{"1 == '1'", true},
		{"1 === '1'", false},
		{"1 === 1", true},
		{"1 != 2", true},
		{"1 !== 2", true},
	}
	for _, c := range cases {
		e := mustCompile(t, c.source)
		got, err := e.Eval(nil, nil)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", c.source, err)
		}
		if got != c.want {
			t.Errorf("%q = %v, want %v", c.source, got, c.want)
		}
	}
}

func TestEvalLogicalShortCircuitReturnsOperand(t *testing.T) {
	e := mustCompile(t, "0 || 'fallback'")
	got, err := e.Eval(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "fallback" {
		t.Errorf("got %v, want %q", got, "fallback")
	}

	e = mustCompile(t, "1 && 'second'")
	got, err = e.Eval(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "second" {
		t.Errorf("got %v, want %q", got, "second")
	}
}

func TestEvalConditionalEvaluatesOnlyChosenBranch(t *testing.T) {
	e := mustCompile(t, "true ? 'yes' : explode.constructor")
	got, err := e.Eval(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "yes" {
		t.Errorf("got %v, want %q", got, "yes")
	}
}

func TestEvalArrayAndObjectLiterals(t *testing.T) {
	e := mustCompile(t, "[1, a, 3]")
	got, err := e.Eval(map[string]any{"a": 2.0}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr, ok := got.([]any)
	if !ok || len(arr) != 3 || arr[1] != 2.0 {
		t.Fatalf("got %#v, want [1 2 3]", got)
	}

	e = mustCompile(t, "{x: a, y: 2}")
	got, err = e.Eval(map[string]any{"a": 1.0}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj, ok := got.(map[string]any)
	if !ok || obj["x"] != 1.0 || obj["y"] != 2.0 {
		t.Fatalf("got %#v, want {x:1 y:2}", got)
	}
}

func TestAssignIdentifierWritesScope(t *testing.T) {
	e := mustCompile(t, "a = 1; b = 2; a + b")
	scope := map[string]any{}
	got, err := e.Eval(scope, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 3.0 {
		t.Errorf("got %v, want 3", got)
	}
	if scope["a"] != 1.0 || scope["b"] != 2.0 {
		t.Errorf("scope = %#v, want a=1 b=2", scope)
	}
}

func TestAssignMemberNonComputedVivifies(t *testing.T) {
	e := mustCompile(t, "a.b.c = 9")
	scope := map[string]any{}
	_, err := e.Eval(scope, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, ok := scope["a"].(map[string]any)
	if !ok {
		t.Fatalf("scope[a] = %#v, want a vivified map", scope["a"])
	}
	b, ok := a["b"].(map[string]any)
	if !ok || b["c"] != 9.0 {
		t.Fatalf("scope[a][b] = %#v, want map with c=9", a["b"])
	}
}

func TestAssignMemberComputedIndexInBounds(t *testing.T) {
	e := mustCompile(t, "a[1] = 9")
	scope := map[string]any{"a": []any{1.0, 2.0, 3.0}}
	_, err := e.Eval(scope, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr := scope["a"].([]any)
	if arr[1] != 9.0 {
		t.Errorf("arr = %v, want [1 9 3]", arr)
	}
}

func TestEvaluatorAssignMethodUsesValueParameter(t *testing.T) {
	e := mustCompile(t, "a.b")
	scope := map[string]any{}
	got, err := e.Assign(scope, 42.0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42.0 {
		t.Errorf("got %v, want 42", got)
	}
	a := scope["a"].(map[string]any)
	if a["b"] != 42.0 {
		t.Errorf("scope[a][b] = %v, want 42", a["b"])
	}
}

func TestEvaluatorAssignIsNoopWhenNotAssignable(t *testing.T) {
	e := mustCompile(t, "1 + 2")
	got, err := e.Assign(map[string]any{}, 42.0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !value.IsUndefined(got) {
		t.Errorf("got %#v, want the Undefined sentinel", got)
	}
}

func TestEvalSecurityErrorOnBlacklistedMemberName(t *testing.T) {
	e := mustCompile(t, "a.constructor")
	_, err := e.Eval(map[string]any{"a": map[string]any{}}, nil)
	var secErr *bexprerrors.SecurityError
	if !errors.As(err, &secErr) {
		t.Fatalf("got err=%v, want a *bexprerrors.SecurityError", err)
	}
}

func TestEvalSecurityErrorOnHostGlobalShape(t *testing.T) {
	e := mustCompile(t, "wd")
	global := map[string]any{
		"document":   true,
		"location":   true,
		"alert":      true,
		"setTimeout": true,
	}
	_, err := e.Eval(map[string]any{"wd": global}, nil)
	var secErr *bexprerrors.SecurityError
	if !errors.As(err, &secErr) {
		t.Fatalf("got err=%v, want a *bexprerrors.SecurityError", err)
	}
}

func TestWithSandboxFalseDisablesGuard(t *testing.T) {
	e := mustCompile(t, "a.constructor", WithSandbox(false))
	_, err := e.Eval(map[string]any{"a": map[string]any{}}, nil)
	if err != nil {
		t.Fatalf("unexpected error with sandbox disabled: %v", err)
	}
}

func TestEvalCallInvokesHostFunctionWithReceiver(t *testing.T) {
	var seenReceiver any
	scope := map[string]any{}
	scope["obj"] = map[string]any{
		"greet": value.Function(func(receiver any, args []any) (any, error) {
			seenReceiver = receiver
			return "hello " + args[0].(string), nil
		}),
	}
	e := mustCompile(t, "obj.greet('world')")
	got, err := e.Eval(scope, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello world" {
		t.Errorf("got %v, want %q", got, "hello world")
	}
	if recv, ok := seenReceiver.(map[string]any); !ok || recv["greet"] == nil {
		t.Errorf("receiver = %#v, want the obj map", seenReceiver)
	}
}

func TestEvalCallRejectsBoundCallPrimitives(t *testing.T) {
	scope := map[string]any{"fn": map[string]any{
		"call": value.Function(func(any, []any) (any, error) { return nil, nil }),
	}}
	e := mustCompile(t, "fn.call()")
	_, err := e.Eval(scope, nil)
	var secErr *bexprerrors.SecurityError
	if !errors.As(err, &secErr) {
		t.Fatalf("got err=%v, want a *bexprerrors.SecurityError", err)
	}
}

func TestEvalFilterHasNoSandboxGuard(t *testing.T) {
	registry := filters.New()
	registry.Register("shout", func() filters.Func {
		return func(input any, args ...any) any {
			s, _ := input.(string)
			return s + "!"
		}
	})
	e, err := Compile("name | shout", registry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := e.Eval(map[string]any{"name": "hi"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hi!" {
		t.Errorf("got %v, want %q", got, "hi!")
	}
}

func TestEvalFilterWithExtraArgs(t *testing.T) {
	registry := filters.New()
	registry.Register("repeat", func() filters.Func {
		return func(input any, args ...any) any {
			s, _ := input.(string)
			n := int(args[0].(float64))
			out := ""
			for i := 0; i < n; i++ {
				out += s
			}
			return out
		}
	})
	e, err := Compile("'x' | repeat:3", registry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := e.Eval(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "xxx" {
		t.Errorf("got %v, want %q", got, "xxx")
	}
}

func TestEvalUnregisteredFilterIsUndefined(t *testing.T) {
	e := mustCompile(t, "a | nope")
	got, err := e.Eval(map[string]any{"a": 1.0}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !value.IsUndefined(got) {
		t.Errorf("got %#v, want the Undefined sentinel", got)
	}
}

func TestCompileOneTimePrefixStripsMarkerAndFlagsOneTime(t *testing.T) {
	e := mustCompile(t, "::a")
	if !e.OneTime {
		t.Fatal("expected OneTime to be true for a :: prefixed expression")
	}
	got, err := e.Eval(map[string]any{"a": 5.0}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 5.0 {
		t.Errorf("got %v, want 5", got)
	}
}

func TestCompileInputsForNonTrivialExpression(t *testing.T) {
	e := mustCompile(t, "a + b")
	if len(e.Inputs) != 2 {
		t.Fatalf("got %d inputs, want 2", len(e.Inputs))
	}
	scope := map[string]any{"a": 1.0, "b": 2.0}
	first, err := e.Inputs[0].Eval(scope, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != 1.0 {
		t.Errorf("got %v, want 1", first)
	}
}

func TestCompileInputsNilForBareIdentifier(t *testing.T) {
	e := mustCompile(t, "a")
	if e.Inputs != nil {
		t.Errorf("got %v, want nil Inputs for a bare identifier", e.Inputs)
	}
}
