package template

import (
	"encoding/json"
	"fmt"
	"strconv"

	"trace-mapper/internal/diagnostic"
	"trace-mapper/internal/expression"
	"trace-mapper/internal/ordered"
)

// Eval maps a compiled template against the scope's source event.
func Eval(n Node, scope expression.Scope) (any, error) {
	switch n := n.(type) {
	case *Literal:
		return n.Value, nil
	case *Expr:
		return evalExpr(n.Expr, n.path, scope)
	case *Object:
		return evalObject(n, scope)
	case *Array:
		return evalArray(n, scope)
	case *Switch:
		return evalSwitch(n, scope)
	case *Foreach:
		return evalForeach(n, scope)
	case *If:
		return evalIf(n, scope)
	default:
		return nil, fmt.Errorf("unknown template node %T", n)
	}
}

func evalExpr(e *expression.Expression, path string, scope expression.Scope) (any, error) {
	out, err := e.Eval(scope)
	if err != nil {
		return nil, fmt.Errorf("at %s: %w", path, err)
	}

	return out, nil
}

func evalObject(n *Object, scope expression.Scope) (any, error) {
	out := make(ordered.Object, 0, len(n.Members))
	index := make(map[string]int, len(n.Members))

	for _, m := range n.Members {
		key := m.Key.Literal

		if m.Key.Expr != nil {
			k, err := evalKey(m.Key.Expr, memberPath(n.path, m.Key.Expr.String()), scope)
			if err != nil {
				return nil, err
			}

			key = k
		}

		val, err := Eval(m.Value, scope)
		if err != nil {
			return nil, err
		}

		// a repeated key keeps its first position and its last value
		if i, ok := index[key]; ok {
			out[i].Value = val
			continue
		}

		index[key] = len(out)
		out = append(out, ordered.Member{Key: key, Value: val})
	}

	return out, nil
}

// evalKey renders an expression key. Strings are used as is; numbers and
// booleans use their JSON text.
func evalKey(e *expression.Expression, path string, scope expression.Scope) (string, error) {
	v, err := evalExpr(e, path, scope)
	if err != nil {
		return "", err
	}

	switch k := v.(type) {
	case string:
		return k, nil
	case bool:
		return strconv.FormatBool(k), nil
	case json.Number:
		return k.String(), nil
	case int:
		return strconv.Itoa(k), nil
	case float64:
		return strconv.FormatFloat(k, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("at %s: %w", path, &diagnostic.ExprError{
			Expr: e.Text(),
			Err:  fmt.Errorf("object key must be a string, number or bool, got %s", diagnostic.Excerpt(v)),
		})
	}
}

func evalArray(n *Array, scope expression.Scope) (any, error) {
	out := make([]any, len(n.Items))

	for i, item := range n.Items {
		v, err := Eval(item, scope)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

func evalSwitch(n *Switch, scope expression.Scope) (any, error) {
	selector, err := evalExpr(n.Selector, n.path, scope)
	if err != nil {
		return nil, err
	}

	for _, c := range n.Cases {
		if ordered.Equal(c.Match, selector) {
			return Eval(c.Value, scope)
		}
	}

	if n.Default != nil {
		return Eval(n.Default, scope)
	}

	return nil, &diagnostic.ConfigError{
		Path:   n.path,
		Reason: fmt.Sprintf("missing default case: no case matches %s", diagnostic.Excerpt(selector)),
	}
}

func evalForeach(n *Foreach, scope expression.Scope) (any, error) {
	seq, err := evalExpr(n.Sequence, n.path, scope)
	if err != nil {
		return nil, err
	}

	var items []any

	switch s := seq.(type) {
	case nil:
	case []any:
		items = s
	default:
		return nil, &diagnostic.TypeError{Path: n.path, Expected: "array for foreach", Got: seq}
	}

	out := make([]any, 0, len(items))

	for i, item := range items {
		v, err := Eval(n.Body, scope.Enter(item, i))
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}

func evalIf(n *If, scope expression.Scope) (any, error) {
	v, err := evalExpr(n.Cond, n.path, scope)
	if err != nil {
		return nil, err
	}

	cond, ok := v.(bool)
	if !ok {
		return nil, &diagnostic.TypeError{Path: n.path, Expected: "bool condition for if", Got: v}
	}

	if cond {
		return Eval(n.Then, scope)
	}

	return Eval(n.Else, scope)
}
