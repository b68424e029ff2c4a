package sandbox

import (
	"testing"

	"github.com/cwbudde/bindexpr/internal/value"
)

func TestEnsureSafeMemberNameRejectsBlacklist(t *testing.T) {
	for _, name := range []string{"constructor", "__proto__", "__defineGetter__", "__defineSetter__", "__lookupGetter__", "__lookupSetter__"} {
		if err := EnsureSafeMemberName(name); err == nil {
			t.Errorf("expected SecurityError for %q, got nil", name)
		}
	}
	if err := EnsureSafeMemberName("name"); err != nil {
		t.Errorf("did not expect an error for an ordinary name: %v", err)
	}
}

func TestEnsureSafeObjectRejectsHostGlobalShape(t *testing.T) {
	global := map[string]any{
		"document":   true,
		"location":   true,
		"alert":      true,
		"setTimeout": true,
	}
	if err := EnsureSafeObject(global); err == nil {
		t.Fatal("expected SecurityError for host-global shape")
	}
	if err := EnsureSafeObject(map[string]any{"document": true}); err != nil {
		t.Errorf("a partial shape should not trip the guard: %v", err)
	}
}

func TestEnsureSafeObjectRejectsReflectionAPIShape(t *testing.T) {
	obj := map[string]any{"getOwnPropertyNames": true}
	if err := EnsureSafeObject(obj); err == nil {
		t.Fatal("expected SecurityError for a reflection API shape")
	}
}

func TestEnsureSafeObjectRejectsDOMNodeShape(t *testing.T) {
	node := map[string]any{"nodeType": float64(1), "nodeName": "DIV"}
	if err := EnsureSafeObject(node); err == nil {
		t.Fatal("expected SecurityError for DOM-node shape")
	}
	notANode := map[string]any{"nodeType": "not-a-number", "nodeName": "DIV"}
	if err := EnsureSafeObject(notANode); err != nil {
		t.Errorf("mismatched field types should not trip the guard: %v", err)
	}
}

func TestEnsureSafeObjectAllowsFalsyAndUndefined(t *testing.T) {
	for _, v := range []any{nil, value.Undefined, false, float64(0), ""} {
		if err := EnsureSafeObject(v); err != nil {
			t.Errorf("falsy value %#v should pass: %v", v, err)
		}
	}
}

type selfConstructingValue struct{}

func (selfConstructingValue) SelfConstructor() bool { return true }

func TestEnsureSafeObjectRejectsFunctionConstructorIdentity(t *testing.T) {
	if err := EnsureSafeObject(selfConstructingValue{}); err == nil {
		t.Fatal("expected SecurityError for the Function constructor identity")
	}
}

func TestEnsureSafeFunctionRejectsBoundCallPrimitives(t *testing.T) {
	for _, name := range []string{"call", "apply", "bind"} {
		if err := EnsureSafeFunction(name, nil); err == nil {
			t.Errorf("expected SecurityError for %q, got nil", name)
		}
	}
	if err := EnsureSafeFunction("toString", nil); err != nil {
		t.Errorf("did not expect an error for an ordinary function name: %v", err)
	}
}

func TestEnsureSafeFunctionRejectsFunctionConstructorIdentity(t *testing.T) {
	if err := EnsureSafeFunction("whatever", selfConstructingValue{}); err == nil {
		t.Fatal("expected SecurityError for the Function constructor identity")
	}
}
