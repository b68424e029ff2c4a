package evaluator

import (
	"github.com/cwbudde/bindexpr/internal/ast"
	"github.com/cwbudde/bindexpr/internal/sandbox"
	"github.com/cwbudde/bindexpr/internal/value"
)

func evalIdentifier(ctx evalCtx, n *ast.Identifier) (any, *callContext, error) {
	if err := sandbox.EnsureSafeMemberName(n.Name); err != nil {
		return nil, nil, err
	}

	container, found := resolveContainer(ctx, n.Name)

	var val any = value.Undefined
	switch {
	case found:
		val, _ = getProperty(container, n.Name)
	case container != nil && ctx.create:
		val = vivify(container, n.Name)
	case container != nil:
		val = value.Undefined
	}

	if ctx.sandbox {
		if err := sandbox.EnsureSafeObject(val); err != nil {
			return nil, nil, err
		}
	}

	return val, &callContext{receiver: container, name: n.Name, computed: false}, nil
}

// resolveAssignTarget returns the container and property name that an
// Identifier assignment target writes through, using the same container
// precedence evalIdentifier uses for reads.
func resolveAssignTarget(ctx evalCtx, n *ast.Identifier) (container any, name string, err error) {
	if err := sandbox.EnsureSafeMemberName(n.Name); err != nil {
		return nil, "", err
	}
	container, _ = resolveContainer(ctx, n.Name)
	return container, n.Name, nil
}
