package evaluator

import (
	"github.com/cwbudde/bindexpr/internal/ast"
	"github.com/cwbudde/bindexpr/internal/sandbox"
	"github.com/cwbudde/bindexpr/internal/value"
)

func evalCall(ctx evalCtx, n *ast.Call) (any, *callContext, error) {
	calleeCtx := ctx.withCreate(false)
	calleeVal, cctx, err := evalNode(calleeCtx, n.Callee)
	if err != nil {
		return nil, nil, err
	}

	args := make([]any, len(n.Args))
	for i, a := range n.Args {
		v, _, err := evalNode(ctx.withCreate(false), a)
		if err != nil {
			return nil, nil, err
		}
		if ctx.sandbox {
			if err := sandbox.EnsureSafeObject(v); err != nil {
				return nil, nil, err
			}
		}
		args[i] = v
	}

	var receiver any
	var name string
	if cctx != nil {
		receiver = cctx.receiver
		name = cctx.name
	}

	if ctx.sandbox {
		if err := sandbox.EnsureSafeObject(receiver); err != nil {
			return nil, nil, err
		}
		if err := sandbox.EnsureSafeFunction(name, calleeVal); err != nil {
			return nil, nil, err
		}
	}

	if !value.Truthy(calleeVal) {
		return value.Undefined, nil, nil
	}

	fn, ok := calleeVal.(value.Function)
	if !ok {
		return value.Undefined, nil, nil
	}

	result, err := fn(receiver, args)
	if err != nil {
		return nil, nil, err
	}

	if ctx.sandbox {
		if err := sandbox.EnsureSafeObject(result); err != nil {
			return nil, nil, err
		}
	}

	return result, nil, nil
}

func evalFilter(ctx evalCtx, n *ast.Filter) (any, *callContext, error) {
	if ctx.registry == nil {
		return value.Undefined, nil, nil
	}
	fn := ctx.registry.Filter(n.Callee.Name)
	if fn == nil {
		return value.Undefined, nil, nil
	}

	args := make([]any, len(n.Args))
	for i, a := range n.Args {
		v, _, err := evalNode(ctx.withCreate(false), a)
		if err != nil {
			return nil, nil, err
		}
		args[i] = v
	}

	// Filters receive the piped-in input as a positional argument, not a
	// safety-guarded one: spec.md §4.4 is explicit that there are no
	// sandbox guards on filter inputs or outputs.
	if len(args) == 0 {
		return fn(value.Undefined), nil, nil
	}
	return fn(args[0], args[1:]...), nil, nil
}
