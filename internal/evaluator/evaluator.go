// Package evaluator lowers a parsed AST into a callable Evaluator, applying
// the sandbox guards of internal/sandbox at every identifier read, member
// dereference, call argument/result, and assignment right-hand side, per
// spec.md §4.4–§4.5. Lowering is realized as a small tree-walking
// interpreter (one of the representations spec.md §9 allows explicitly)
// rather than source-to-source codegen, since Go has no runtime `eval`.
package evaluator

import (
	"strings"

	"github.com/cwbudde/bindexpr/internal/ast"
	"github.com/cwbudde/bindexpr/internal/bexprerrors"
	"github.com/cwbudde/bindexpr/internal/filters"
	"github.com/cwbudde/bindexpr/internal/parser"
	"github.com/cwbudde/bindexpr/internal/value"
)

// Option configures a compiled Evaluator at build time.
type Option func(*Evaluator)

// WithSandbox toggles the sandbox guards. Defaults to enabled; disabling it
// is for trusted, host-controlled expressions only.
func WithSandbox(enabled bool) Option {
	return func(e *Evaluator) { e.sandbox = enabled }
}

// Evaluator is a compiled expression: a callable closure over a scope and
// an optional locals object, carrying the attributes spec.md §3 and §6
// require (Literal, Constant, OneTime, Inputs, Assign).
type Evaluator struct {
	Literal  bool
	Constant bool
	OneTime  bool
	// Inputs holds one Evaluator per member of the AST's input-set,
	// present only when that set is non-empty.
	Inputs []*Evaluator

	program    *ast.Program
	registry   *filters.Registry
	sandbox    bool
	inputStage bool
	assignAST  *ast.Assignment
}

// Compile parses source and lowers it into an Evaluator. A leading "::"
// marks the expression one-time and is stripped before the remaining text
// ever reaches the lexer, per spec.md §6.
func Compile(source string, registry *filters.Registry, opts ...Option) (*Evaluator, error) {
	oneTime := false
	if strings.HasPrefix(source, "::") {
		oneTime = true
		source = source[2:]
	}

	var checker ast.StatefulChecker
	if registry != nil {
		checker = registry
	}
	prog, err := parser.Parse(source, checker)
	if err != nil {
		return nil, err
	}

	e := &Evaluator{
		Literal:  ast.IsLiteral(prog),
		Constant: prog.Constant(),
		OneTime:  oneTime,
		program:  prog,
		registry: registry,
		sandbox:  true,
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, n := range ast.Inputs(prog) {
		inputProg := &ast.Program{Body: []ast.Node{n}}
		e.Inputs = append(e.Inputs, &Evaluator{
			Literal:    ast.IsLiteral(inputProg),
			Constant:   n.Constant(),
			program:    inputProg,
			registry:   registry,
			sandbox:    e.sandbox,
			inputStage: true,
		})
	}

	e.assignAST = ast.AssignableAST(prog)

	return e, nil
}

// Eval runs the compiled expression against scope and locals. locals may be
// nil. It returns a *bexprerrors.SecurityError if a sandbox guard trips;
// normal expressions otherwise never error.
func (e *Evaluator) Eval(scope, locals any) (any, error) {
	ctx := evalCtx{scope: scope, locals: locals, registry: e.registry, sandbox: e.sandbox}
	if e.inputStage {
		ctx.stage = stageInputs
	}
	return e.run(ctx)
}

func (e *Evaluator) run(ctx evalCtx) (any, error) {
	var result any = value.Undefined
	for _, stmt := range e.program.Body {
		v, _, err := evalNode(ctx, stmt)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// Assign sets scope (or locals, if the target already lives there) to val
// and returns val. It is a no-op returning value.Undefined when the
// compiled expression is not one of the three assignable AST variants.
func (e *Evaluator) Assign(scope any, val any, locals any) (any, error) {
	if e.assignAST == nil {
		return value.Undefined, nil
	}
	ctx := evalCtx{scope: scope, locals: locals, registry: e.registry, sandbox: e.sandbox, assignValue: val}
	v, _, err := evalAssignment(ctx, e.assignAST)
	return v, err
}

func evalNode(ctx evalCtx, node ast.Node) (any, *callContext, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return evalLiteral(n)
	case *ast.Array:
		return evalArray(ctx, n)
	case *ast.Object:
		return evalObject(ctx, n)
	case *ast.Identifier:
		return evalIdentifier(ctx, n)
	case *ast.ThisExpr:
		return ctx.scope, nil, nil
	case *ast.MemberNonComputed:
		return evalMemberNonComputed(ctx, n)
	case *ast.MemberComputed:
		return evalMemberComputed(ctx, n)
	case *ast.Call:
		return evalCall(ctx, n)
	case *ast.Filter:
		return evalFilter(ctx, n)
	case *ast.Assignment:
		return evalAssignment(ctx, n)
	case *ast.Unary:
		return evalUnary(ctx, n)
	case *ast.Binary:
		return evalBinary(ctx, n)
	case *ast.Logical:
		return evalLogical(ctx, n)
	case *ast.Conditional:
		return evalConditional(ctx, n)
	case ast.ValueParameter:
		return ctx.assignValue, nil, nil
	}
	return nil, nil, bexprerrors.NewCompileError("", "unknown AST variant", node.Pos())
}
