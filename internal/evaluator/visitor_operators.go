package evaluator

import (
	"math"

	"github.com/cwbudde/bindexpr/internal/ast"
	"github.com/cwbudde/bindexpr/internal/value"
)

func evalUnary(ctx evalCtx, n *ast.Unary) (any, *callContext, error) {
	v, _, err := evalNode(ctx.withCreate(false), n.Arg)
	if err != nil {
		return nil, nil, err
	}
	switch n.Op {
	case ast.UnaryPlus:
		return value.ToNumber(v), nil, nil
	case ast.UnaryMinus:
		return -value.ToNumber(v), nil, nil
	case ast.UnaryNot:
		return !value.Truthy(v), nil, nil
	}
	return value.Undefined, nil, nil
}

func evalBinary(ctx evalCtx, n *ast.Binary) (any, *callContext, error) {
	left, _, err := evalNode(ctx.withCreate(false), n.Left)
	if err != nil {
		return nil, nil, err
	}
	right, _, err := evalNode(ctx.withCreate(false), n.Right)
	if err != nil {
		return nil, nil, err
	}

	switch n.Op {
	case ast.BinAdd:
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil, nil
			}
		}
		return value.ToNumber(left) + value.ToNumber(right), nil, nil
	case ast.BinSub:
		return value.ToNumber(left) - value.ToNumber(right), nil, nil
	case ast.BinMul:
		return value.ToNumber(left) * value.ToNumber(right), nil, nil
	case ast.BinDiv:
		return value.ToNumber(left) / value.ToNumber(right), nil, nil
	case ast.BinMod:
		return math.Mod(value.ToNumber(left), value.ToNumber(right)), nil, nil
	case ast.BinEq:
		return value.LooseEqual(left, right), nil, nil
	case ast.BinNeq:
		return !value.LooseEqual(left, right), nil, nil
	case ast.BinStrictEq:
		return value.Equal(left, right), nil, nil
	case ast.BinStrictNeq:
		return !value.Equal(left, right), nil, nil
	case ast.BinLt:
		return compare(left, right) < 0, nil, nil
	case ast.BinGt:
		return compare(left, right) > 0, nil, nil
	case ast.BinLe:
		return compare(left, right) <= 0, nil, nil
	case ast.BinGe:
		return compare(left, right) >= 0, nil, nil
	}
	return value.Undefined, nil, nil
}

func compare(a, b any) int {
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			switch {
			case as < bs:
				return -1
			case as > bs:
				return 1
			default:
				return 0
			}
		}
	}
	an, bn := value.ToNumber(a), value.ToNumber(b)
	switch {
	case an < bn:
		return -1
	case an > bn:
		return 1
	default:
		return 0
	}
}

func evalLogical(ctx evalCtx, n *ast.Logical) (any, *callContext, error) {
	left, _, err := evalNode(ctx.withCreate(false), n.Left)
	if err != nil {
		return nil, nil, err
	}
	switch n.Op {
	case ast.LogicalAnd:
		if !value.Truthy(left) {
			return left, nil, nil
		}
	case ast.LogicalOr:
		if value.Truthy(left) {
			return left, nil, nil
		}
	}
	return evalNode(ctx.withCreate(false), n.Right)
}

func evalConditional(ctx evalCtx, n *ast.Conditional) (any, *callContext, error) {
	test, _, err := evalNode(ctx.withCreate(false), n.Test)
	if err != nil {
		return nil, nil, err
	}
	if value.Truthy(test) {
		return evalNode(ctx.withCreate(false), n.Consequent)
	}
	return evalNode(ctx.withCreate(false), n.Alternate)
}
