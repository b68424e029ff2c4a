package evaluator

import (
	"github.com/cwbudde/bindexpr/internal/ast"
	"github.com/cwbudde/bindexpr/internal/bexprerrors"
	"github.com/cwbudde/bindexpr/internal/sandbox"
)

// evalAssignment writes the evaluated right-hand side through the left-hand
// side's container, per spec.md §4.4: only a bare Identifier or a member
// dereference (computed or not) may appear on the left, and the right-hand
// side is sandbox-checked before it is ever stored.
func evalAssignment(ctx evalCtx, n *ast.Assignment) (any, *callContext, error) {
	val, _, err := evalNode(ctx.withStage(stageAssign).withCreate(false), n.Right)
	if err != nil {
		return nil, nil, err
	}
	if ctx.sandbox {
		if err := sandbox.EnsureSafeObject(val); err != nil {
			return nil, nil, err
		}
	}

	assignCtx := ctx.withStage(stageAssign).withCreate(true)

	switch left := n.Left.(type) {
	case *ast.Identifier:
		container, name, err := resolveAssignTarget(assignCtx, left)
		if err != nil {
			return nil, nil, err
		}
		if container == nil {
			container = map[string]any{}
		}
		setProperty(container, name, val)
		return val, &callContext{receiver: container, name: name}, nil

	case *ast.MemberNonComputed:
		container, key, _, err := resolveMemberAssignTarget(assignCtx, left.Object, left.Property, false)
		if err != nil {
			return nil, nil, err
		}
		name, _ := key.(string)
		setProperty(container, name, val)
		return val, &callContext{receiver: container, name: name}, nil

	case *ast.MemberComputed:
		container, key, isIndex, err := resolveMemberAssignTarget(assignCtx, left.Object, left.Property, true)
		if err != nil {
			return nil, nil, err
		}
		if isIndex {
			idx, _ := key.(int)
			setIndex(container, idx, val)
			return val, &callContext{receiver: container, computed: true}, nil
		}
		name, _ := key.(string)
		setProperty(container, name, val)
		return val, &callContext{receiver: container, name: name, computed: true}, nil

	default:
		return nil, nil, bexprerrors.NewCompileError("", "invalid assignment target", n.Pos())
	}
}

// setIndex writes val at arr[idx] when arr is a []any and idx already falls
// within it. Growing an array on out-of-range assignment is not supported.
func setIndex(container any, idx int, val any) {
	arr, ok := container.([]any)
	if !ok || idx < 0 || idx >= len(arr) {
		return
	}
	arr[idx] = val
}
