package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"trace-mapper/internal/diagnostic"
	"trace-mapper/internal/expression"
	"trace-mapper/internal/ordered"
)

// Compile builds the node tree of a decoded template. path names the
// template's root in error messages, e.g. "x.functions.set.map_args".
// Errors are *diagnostic.ConfigError.
func Compile(raw any, path string) (Node, error) {
	switch v := raw.(type) {
	case nil, bool, json.Number, float64, float32, int, int64, uint64:
		return &Literal{path: path, Value: v}, nil

	case string:
		if !expression.IsExpression(v) {
			return &Literal{path: path, Value: v}, nil
		}

		e, err := compileExpr(strings.TrimPrefix(v, expression.Marker), path)
		if err != nil {
			return nil, err
		}

		return &Expr{path: path, Expr: e}, nil

	case []any:
		items := make([]Node, len(v))

		for i, item := range v {
			n, err := Compile(item, indexPath(path, i))
			if err != nil {
				return nil, err
			}

			items[i] = n
		}

		return &Array{path: path, Items: items}, nil

	case ordered.Object:
		return compileObject(v, path)

	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		obj := make(ordered.Object, 0, len(v))
		for _, k := range keys {
			obj = append(obj, ordered.Member{Key: k, Value: v[k]})
		}

		return compileObject(obj, path)

	default:
		return nil, &diagnostic.ConfigError{Path: path, Reason: fmt.Sprintf("unsupported template value of type %T", raw)}
	}
}

// MustCompile is like Compile but panics on error.
func MustCompile(raw any) Node {
	n, err := Compile(raw, "$")
	if err != nil {
		panic(err)
	}

	return n
}

func compileObject(obj ordered.Object, path string) (Node, error) {
	var (
		calls   []directiveCall
		callIdx []int
	)

	for i, m := range obj {
		if call, ok := parseDirective(m.Key); ok {
			calls = append(calls, call)
			callIdx = append(callIdx, i)
		}
	}

	switch {
	case len(calls) > 1:
		keys := make([]string, len(calls))
		for i, idx := range callIdx {
			keys[i] = obj[idx].Key
		}

		return nil, &diagnostic.ConfigError{
			Path:   path,
			Reason: "an object may hold at most one directive key, found " + strings.Join(keys, ", "),
		}

	case len(calls) == 1 && len(obj) > 1:
		return nil, &diagnostic.ConfigError{
			Path:   path,
			Reason: fmt.Sprintf("directive key %q cannot be mixed with other keys", obj[callIdx[0]].Key),
		}

	case len(calls) == 1:
		call := calls[0]
		member := obj[callIdx[0]]
		dpath := memberPath(path, member.Key)

		arg, err := compileExpr(call.arg, dpath)
		if err != nil {
			return nil, err
		}

		return directives[call.name](arg, member.Value, dpath)
	}

	members := make([]Member, 0, len(obj))

	for _, m := range obj {
		key := Key{Literal: m.Key}

		if expression.IsExpression(m.Key) {
			e, err := compileExpr(strings.TrimPrefix(m.Key, expression.Marker), memberPath(path, m.Key))
			if err != nil {
				return nil, err
			}

			key = Key{Expr: e}
		}

		val, err := Compile(m.Value, memberPath(path, m.Key))
		if err != nil {
			return nil, err
		}

		members = append(members, Member{Key: key, Value: val})
	}

	return &Object{path: path, Members: members}, nil
}

func compileExpr(text, path string) (*expression.Expression, error) {
	e, err := expression.Compile(text)
	if err != nil {
		return nil, &diagnostic.ConfigError{Path: path, Reason: "invalid expression", Err: err}
	}

	return e, nil
}

// directiveCall is a parsed directive key such as "@foreach({{args.items}})".
type directiveCall struct {
	name string
	arg  string
}

// parseDirective recognizes keys of the form "@name(arg)" where name is a
// registered directive and the parenthesis opened after name closes at the
// end of the key.
func parseDirective(key string) (directiveCall, bool) {
	if !expression.IsExpression(key) {
		return directiveCall{}, false
	}

	body := strings.TrimSpace(strings.TrimPrefix(key, expression.Marker))

	open := strings.IndexByte(body, '(')
	if open <= 0 {
		return directiveCall{}, false
	}

	name := strings.TrimSpace(body[:open])
	if _, ok := directives[name]; !ok {
		return directiveCall{}, false
	}

	end, err := closingParen(body, open)
	if err != nil || end != len(body)-1 {
		return directiveCall{}, false
	}

	return directiveCall{name: name, arg: body[open+1 : end]}, true
}

// closingParen returns the index of the parenthesis matching the one at
// open, skipping quoted strings.
func closingParen(s string, open int) (int, error) {
	depth := 0

	var quote byte

	for i := open; i < len(s); i++ {
		c := s[i]

		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}

			continue
		}

		switch c {
		case '"', '\'', '`':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}

	return -1, errors.New("unbalanced parenthesis")
}

func memberPath(path, key string) string {
	if path == "" {
		return key
	}

	return path + "." + key
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
