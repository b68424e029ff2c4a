package evaluator

import (
	"strconv"

	"github.com/cwbudde/bindexpr/internal/ast"
	"github.com/cwbudde/bindexpr/internal/value"
)

func evalLiteral(n *ast.Literal) (any, *callContext, error) {
	if n.Value == ast.Undefined {
		return value.Undefined, nil, nil
	}
	return n.Value, nil, nil
}

func evalArray(ctx evalCtx, n *ast.Array) (any, *callContext, error) {
	out := make([]any, len(n.Elements))
	for i, el := range n.Elements {
		v, _, err := evalNode(ctx, el)
		if err != nil {
			return nil, nil, err
		}
		out[i] = v
	}
	return out, nil, nil
}

func evalObject(ctx evalCtx, n *ast.Object) (any, *callContext, error) {
	out := make(map[string]any, len(n.Properties))
	for _, p := range n.Properties {
		key, err := objectKey(p.Key)
		if err != nil {
			return nil, nil, err
		}
		v, _, err := evalNode(ctx, p.Value)
		if err != nil {
			return nil, nil, err
		}
		out[key] = v
	}
	return out, nil, nil
}

func objectKey(k ast.Node) (string, error) {
	switch key := k.(type) {
	case *ast.Identifier:
		return key.Name, nil
	case *ast.Literal:
		switch v := key.Value.(type) {
		case string:
			return v, nil
		case float64:
			return strconv.FormatFloat(v, 'g', -1, 64), nil
		}
	}
	return "", nil
}
