package evaluator

import (
	"reflect"

	"github.com/cwbudde/bindexpr/internal/filters"
	"github.com/cwbudde/bindexpr/internal/value"
)

// stage changes identifier lookup semantics per spec.md §4.4: the main
// function consults locals before scope; a per-input function (stage
// inputs) is called with scope alone, so it never consults locals even if
// one happens to be passed; the assign function behaves like main but
// builds its left-hand side in create mode.
type stage int

const (
	stageMain stage = iota
	stageInputs
	stageAssign
)

// callContext records enough about how a value was resolved (bare
// identifier vs member dereference) to know the receiver and safety checks
// a following Call node must apply.
type callContext struct {
	receiver any
	name     string
	computed bool
}

// evalCtx threads the per-call state through the tree-walking
// interpretation of a compiled Program.
type evalCtx struct {
	scope    any
	locals   any
	stage    stage
	create   bool // building an assignment left-hand side; auto-vivify missing containers
	registry *filters.Registry
	sandbox  bool

	// assignValue is the value substituted for a ValueParameter placeholder
	// while running a synthetic Assign AST built by ast.AssignableAST.
	assignValue any
}

func (c evalCtx) withStage(s stage) evalCtx {
	c.stage = s
	return c
}

func (c evalCtx) withCreate(create bool) evalCtx {
	c.create = create
	return c
}

// resolveContainer picks which container a free identifier resolves
// against, per spec.md §4.4's precedence: locals first if it already owns
// the name (and we're not building a per-input function), else scope if
// truthy, else locals again as a last resort so create-mode has somewhere
// to vivify into when no scope was supplied. found reports whether the
// chosen container already holds the name.
func resolveContainer(c evalCtx, name string) (container any, found bool) {
	if c.stage != stageInputs && containerHas(c.locals, name) {
		return c.locals, true
	}
	if value.Truthy(c.scope) {
		return c.scope, containerHas(c.scope, name)
	}
	if c.stage != stageInputs && value.Truthy(c.locals) {
		return c.locals, false
	}
	return nil, false
}

// containerHas reports whether container directly owns name (as opposed to
// merely resolving to undefined because it's nil).
func containerHas(container any, name string) bool {
	if container == nil {
		return false
	}
	switch m := container.(type) {
	case map[string]any:
		_, ok := m[name]
		return ok
	}
	_, ok := structField(container, name)
	return ok
}

// getProperty reads name off container: map[string]any first, then a
// reflection-based struct/pointer field or method lookup for arbitrary
// host values, matching the tagged-union design note of spec.md §9 where
// "Host" values are opaque to everything except sandbox shape checks and
// simple member access.
func getProperty(container any, name string) (any, bool) {
	if container == nil {
		return value.Undefined, false
	}
	switch m := container.(type) {
	case map[string]any:
		v, ok := m[name]
		if !ok {
			return value.Undefined, false
		}
		return v, true
	case []any:
		return value.Undefined, false
	}
	return structField(container, name)
}

func structField(container any, name string) (any, bool) {
	rv := reflect.ValueOf(container)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return value.Undefined, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return value.Undefined, false
	}
	exported := exportedName(name)
	if fv := rv.FieldByName(exported); fv.IsValid() && fv.CanInterface() {
		return fv.Interface(), true
	}
	if mv := reflect.ValueOf(container).MethodByName(exported); mv.IsValid() {
		return mv.Interface(), true
	}
	return value.Undefined, false
}

func exportedName(name string) string {
	if name == "" {
		return name
	}
	r := []rune(name)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 32
	}
	return string(r)
}

// setProperty writes value under name on container. Only map[string]any
// containers are mutable in this implementation; a host struct passed as
// scope/locals is read-only (matching the "no mutating code generation...
// arbitrary host reflection" non-goal stance — bindexpr never writes back
// into a host's native fields).
func setProperty(container any, name string, val any) bool {
	m, ok := container.(map[string]any)
	if !ok {
		return false
	}
	m[name] = val
	return true
}

// vivify ensures container[name] holds a map[string]any, creating one if
// the slot is currently undefined/nil, and returns it. Used while building
// an assignment target in create mode so `a.b.c = 1` can materialize `a`
// and `a.b` as it goes.
func vivify(container any, name string) any {
	m, ok := container.(map[string]any)
	if !ok {
		return value.Undefined
	}
	existing, has := m[name]
	if has && value.Truthy(existing) {
		return existing
	}
	fresh := make(map[string]any)
	m[name] = fresh
	return fresh
}
