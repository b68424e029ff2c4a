// Package filters implements the FilterRegistry of spec.md §4.7: a
// name-to-function mapping consulted eagerly by the evaluator builder, with
// a per-filter stateful flag the AST's constant analysis treats as opaque.
package filters

import "sync"

// Func is a filter's runtime shape: an input value, optional extra
// arguments, and a result.
type Func func(input any, args ...any) any

// Factory produces a Func, invoked exactly once at registration time and
// cached under its name.
type Factory func() Func

type entry struct {
	fn       Func
	stateful bool
}

// Registry is a name -> filter mapping plus a per-name stateful marker. The
// zero value is ready to use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register invokes factory once and caches the produced filter under name.
// Use RegisterStateful for a filter the analyser must treat as non-constant
// and as an opaque input.
func (r *Registry) Register(name string, factory Factory) {
	r.register(name, factory, false)
}

// RegisterStateful is like Register but marks the filter stateful: the
// constant analysis in internal/ast treats any Filter node naming it as
// non-constant, and toWatch falls back to "[self]" for it.
func (r *Registry) RegisterStateful(name string, factory Factory) {
	r.register(name, factory, true)
}

func (r *Registry) register(name string, factory Factory, stateful bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[string]entry)
	}
	r.entries[name] = entry{fn: factory(), stateful: stateful}
}

// RegisterMap iterates an object of factories, registering each as
// stateless. Equivalent to calling Register once per key.
func (r *Registry) RegisterMap(factories map[string]Factory) {
	for name, factory := range factories {
		r.Register(name, factory)
	}
}

// Filter returns the cached filter for name, or nil if unregistered.
func (r *Registry) Filter(name string) Func {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[name].fn
}

// IsStateful reports whether name was registered stateful. An unregistered
// name is conservatively treated as stateful so the constant analysis never
// mis-optimizes a filter it cannot resolve at compile time.
func (r *Registry) IsStateful(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return true
	}
	return e.stateful
}
