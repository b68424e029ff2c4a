// Package bindexpr is the public facade over the expression engine: compile
// a source string once with Parse/MustParse, evaluate it repeatedly against
// a scope and optional locals, watch it for changes via a Scope, and
// register custom filters via a FilterRegistry. This mirrors spec.md §6's
// external-interfaces surface.
package bindexpr

import (
	"log/slog"

	"github.com/cwbudde/bindexpr/internal/evaluator"
	"github.com/cwbudde/bindexpr/internal/filters"
	"github.com/cwbudde/bindexpr/internal/scope"
)

// Evaluator is a compiled expression, re-exported from internal/evaluator so
// callers never need to import an internal package.
type Evaluator = evaluator.Evaluator

// Option configures a compiled Evaluator.
type Option = evaluator.Option

// WithSandbox toggles the sandbox guards on a compiled Evaluator.
func WithSandbox(enabled bool) Option { return evaluator.WithSandbox(enabled) }

// FilterRegistry is a name -> filter mapping consulted by Filter nodes.
type FilterRegistry = filters.Registry

// NewFilterRegistry creates an empty FilterRegistry.
func NewFilterRegistry() *FilterRegistry { return filters.New() }

// Scope is the dirty-checking object graph expressions can be watched
// against.
type Scope = scope.Scope

// ScopeOption configures a Scope.
type ScopeOption = scope.Option

// WithLogger overrides a Scope's default logger.
func WithLogger(l *slog.Logger) ScopeOption { return scope.WithLogger(l) }

// WithScheduler overrides how a Scope defers evalAsync/applyAsync work.
func WithScheduler(sch scope.Scheduler) ScopeOption { return scope.WithScheduler(sch) }

// NewScope creates a Scope rooted at root.
func NewScope(root any, opts ...ScopeOption) *Scope {
	return scope.New(root, opts...)
}

// Parse compiles source against registry (nil is fine) with opts applied.
func Parse(source string, registry *FilterRegistry, opts ...Option) (*Evaluator, error) {
	return evaluator.Compile(source, registry, opts...)
}

// MustParse is like Parse but panics on error, for compile-time-constant
// expressions such as those embedded in templates.
func MustParse(source string, registry *FilterRegistry, opts ...Option) *Evaluator {
	e, err := Parse(source, registry, opts...)
	if err != nil {
		panic(err)
	}
	return e
}
