// Package sandbox implements the runtime guards evaluators call before
// exposing a name, dereferencing a member, invoking a function, or
// assigning a value, per spec.md §4.5.
package sandbox

import (
	"reflect"

	"github.com/cwbudde/bindexpr/internal/bexprerrors"
	"github.com/cwbudde/bindexpr/internal/value"
)

// blacklistedNames can never be read as an identifier or dereferenced as a
// member, because they reach into prototype/constructor machinery.
var blacklistedNames = map[string]bool{
	"constructor":         true,
	"__proto__":           true,
	"__defineGetter__":    true,
	"__defineSetter__":    true,
	"__lookupGetter__":    true,
	"__lookupSetter__":    true,
}

// boundCallPrimitives are rejected as function values: invoking them would
// let an expression rebind `this` or capture arbitrary arguments outside
// the sandbox's call-context discipline.
var boundCallPrimitives = map[string]bool{
	"call":  true,
	"apply": true,
	"bind":  true,
}

// EnsureSafeMemberName rejects the six blacklisted member names.
func EnsureSafeMemberName(name string) error {
	if blacklistedNames[name] {
		return bexprerrors.NewSecurityError("referencing \"" + name + "\" is disallowed")
	}
	return nil
}

// fielder is satisfied by any host value this package can interrogate for
// the blacklisted shape checks without full reflection-based traversal.
type fielder interface {
	Field(name string) (any, bool)
}

// EnsureSafeObject rejects a truthy obj when it has host-global shape
// (document/location/alert/setTimeout all present, even via a cloned
// prototype), is the function constructor itself, exposes reflection entry
// points, or has DOM-node shape (numeric nodeType + string nodeName).
func EnsureSafeObject(obj any) error {
	if obj == nil || value.IsUndefined(obj) || !value.Truthy(obj) {
		return nil
	}

	if isHostGlobal(obj) {
		return bexprerrors.NewSecurityError("referencing the host global object is disallowed")
	}
	if isFunctionConstructorIdentity(obj) {
		return bexprerrors.NewSecurityError("referencing Function constructor is disallowed")
	}
	if hasMember(obj, "getOwnPropertyNames") || hasMember(obj, "getOwnPropertyDescriptor") {
		return bexprerrors.NewSecurityError("referencing a reflection API is disallowed")
	}
	if isDOMNodeShape(obj) {
		return bexprerrors.NewSecurityError("referencing a DOM node is disallowed")
	}
	return nil
}

// EnsureSafeFunction rejects the function constructor identity and the
// three bound-call primitives.
func EnsureSafeFunction(name string, fn any) error {
	if boundCallPrimitives[name] {
		return bexprerrors.NewSecurityError("invoking \"" + name + "\" is disallowed")
	}
	if isFunctionConstructorIdentity(fn) {
		return bexprerrors.NewSecurityError("invoking Function constructor is disallowed")
	}
	return nil
}

func hasMember(obj any, name string) bool {
	if f, ok := obj.(fielder); ok {
		_, present := f.Field(name)
		return present
	}
	if m, ok := obj.(map[string]any); ok {
		_, present := m[name]
		return present
	}
	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return false
	}
	return rv.FieldByName(exportedName(name)).IsValid()
}

func exportedName(name string) string {
	if name == "" {
		return name
	}
	r := []rune(name)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] = r[0] - 32
	}
	return string(r)
}

// isHostGlobal matches objects shaped like a JS global object: it must
// simultaneously expose document, location, alert, and setTimeout. A host
// embedding bindexpr in Go will not naturally produce this shape; the check
// exists to keep the sandbox contract faithful when a Host value happens to
// wrap something global-like.
func isHostGlobal(obj any) bool {
	return hasMember(obj, "document") && hasMember(obj, "location") &&
		hasMember(obj, "alert") && hasMember(obj, "setTimeout")
}

// isFunctionConstructorIdentity matches the sentinel installed by a host
// that wants to mark a value as "the Function constructor": obj.constructor
// === obj, modeled here as the value declaring itself its own constructor
// via a `SelfConstructor() bool` method.
func isFunctionConstructorIdentity(obj any) bool {
	type selfConstructor interface{ SelfConstructor() bool }
	sc, ok := obj.(selfConstructor)
	return ok && sc.SelfConstructor()
}

// isDOMNodeShape matches typeof nodeType === number && typeof nodeName ===
// string.
func isDOMNodeShape(obj any) bool {
	nodeType, hasType := memberValue(obj, "nodeType")
	nodeName, hasName := memberValue(obj, "nodeName")
	if !hasType || !hasName {
		return false
	}
	_, typeIsNumber := nodeType.(float64)
	_, nameIsString := nodeName.(string)
	return typeIsNumber && nameIsString
}

func memberValue(obj any, name string) (any, bool) {
	if f, ok := obj.(fielder); ok {
		return f.Field(name)
	}
	if m, ok := obj.(map[string]any); ok {
		v, present := m[name]
		return v, present
	}
	return nil, false
}
