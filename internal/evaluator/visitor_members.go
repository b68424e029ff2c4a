package evaluator

import (
	"github.com/cwbudde/bindexpr/internal/ast"
	"github.com/cwbudde/bindexpr/internal/sandbox"
	"github.com/cwbudde/bindexpr/internal/value"
)

func evalMemberNonComputed(ctx evalCtx, n *ast.MemberNonComputed) (any, *callContext, error) {
	if err := sandbox.EnsureSafeMemberName(n.Property.Name); err != nil {
		return nil, nil, err
	}

	objCtx := ctx.withCreate(ctx.create)
	obj, _, err := evalNode(objCtx, n.Object)
	if err != nil {
		return nil, nil, err
	}

	if ctx.create && !value.Truthy(obj) {
		obj = vivifyAny(obj)
	}

	var val any = value.Undefined
	if value.Truthy(obj) {
		if ctx.create {
			val = vivify(obj, n.Property.Name)
		} else {
			val, _ = getProperty(obj, n.Property.Name)
		}
	}

	if ctx.sandbox {
		if err := sandbox.EnsureSafeObject(val); err != nil {
			return nil, nil, err
		}
	}

	return val, &callContext{receiver: obj, name: n.Property.Name, computed: false}, nil
}

func evalMemberComputed(ctx evalCtx, n *ast.MemberComputed) (any, *callContext, error) {
	objCtx := ctx.withCreate(ctx.create)
	obj, _, err := evalNode(objCtx, n.Object)
	if err != nil {
		return nil, nil, err
	}

	propCtx := ctx.withCreate(false)
	propVal, _, err := evalNode(propCtx, n.Property)
	if err != nil {
		return nil, nil, err
	}

	key, isIndex, err := computedKey(propVal)
	if err != nil {
		return nil, nil, err
	}

	if ctx.create && !value.Truthy(obj) {
		obj = vivifyAny(obj)
	}

	var val any = value.Undefined
	switch {
	case !value.Truthy(obj):
		val = value.Undefined
	case isIndex:
		val = indexInto(obj, key)
	default:
		keyName, _ := key.(string)
		if err := sandbox.EnsureSafeMemberName(keyName); err != nil {
			return nil, nil, err
		}
		if ctx.create {
			val = vivify(obj, keyName)
		} else {
			val, _ = getProperty(obj, keyName)
		}
	}

	if ctx.sandbox {
		if err := sandbox.EnsureSafeObject(val); err != nil {
			return nil, nil, err
		}
	}

	return val, &callContext{receiver: obj, name: keyString(key), computed: true}, nil
}

// computedKey classifies the evaluated property expression: a number
// selects array-index semantics (truncated to an int), a string is used as
// an object key as is, and any other value yields the empty-string key.
func computedKey(propVal any) (key any, isIndex bool, err error) {
	if n, ok := propVal.(float64); ok {
		return int(n), true, nil
	}
	if s, ok := propVal.(string); ok {
		return s, false, nil
	}
	return "", false, nil
}

func keyString(key any) string {
	if s, ok := key.(string); ok {
		return s
	}
	return ""
}

func indexInto(obj any, key any) any {
	idx, ok := key.(int)
	if !ok {
		return value.Undefined
	}
	arr, ok := obj.([]any)
	if !ok || idx < 0 || idx >= len(arr) {
		return value.Undefined
	}
	return arr[idx]
}

// vivifyAny produces a fresh empty container to stand in for a
// currently-undefined value discovered mid-chain during create-mode
// traversal.
func vivifyAny(current any) any {
	if value.Truthy(current) {
		return current
	}
	return map[string]any{}
}

// resolveMemberAssignTarget evaluates the object half of a member
// assignment target in create mode and returns the container plus the
// resolved property key (string for object members, int for array
// indices).
func resolveMemberAssignTarget(ctx evalCtx, objectNode ast.Node, propertyNode ast.Node, computed bool) (container any, key any, isIndex bool, err error) {
	objCtx := ctx.withCreate(true)
	obj, _, err := evalNode(objCtx, objectNode)
	if err != nil {
		return nil, nil, false, err
	}
	if !value.Truthy(obj) {
		obj = map[string]any{}
	}

	if !computed {
		ident := propertyNode.(*ast.Identifier)
		if err := sandbox.EnsureSafeMemberName(ident.Name); err != nil {
			return nil, nil, false, err
		}
		return obj, ident.Name, false, nil
	}

	propVal, _, err := evalNode(ctx.withCreate(false), propertyNode)
	if err != nil {
		return nil, nil, false, err
	}
	k, isIdx, err := computedKey(propVal)
	if err != nil {
		return nil, nil, false, err
	}
	if !isIdx {
		if err := sandbox.EnsureSafeMemberName(keyString(k)); err != nil {
			return nil, nil, false, err
		}
	}
	return obj, k, isIdx, nil
}
