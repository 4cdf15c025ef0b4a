package template

import (
	"fmt"
	"slices"

	"trace-mapper/internal/diagnostic"
	"trace-mapper/internal/expression"
	"trace-mapper/internal/ordered"
)

// DefaultCase is the case value of a switch entry used when no other case
// matches.
const DefaultCase = "default"

// directiveCompiler builds the node of a directive from its argument
// expression and the template stored under the directive key.
type directiveCompiler func(arg *expression.Expression, raw any, path string) (Node, error)

// directives is the directive registry. It is fixed at init and read-only.
var directives map[string]directiveCompiler

func init() {
	directives = map[string]directiveCompiler{
		"switch":  compileSwitch,
		"foreach": compileForeach,
		"if":      compileIf,
	}
}

// Directives returns the registered directive names.
func Directives() []string {
	names := make([]string, 0, len(directives))
	for name := range directives {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// compileSwitch expects a list of {"case": <literal>, "value": <template>}.
func compileSwitch(selector *expression.Expression, raw any, path string) (Node, error) {
	entries, ok := raw.([]any)
	if !ok {
		return nil, &diagnostic.ConfigError{Path: path, Reason: "switch expects a list of {case, value} entries"}
	}

	node := &Switch{path: path, Selector: selector}

	for i, entry := range entries {
		epath := indexPath(path, i)

		obj, ok := asObject(entry)
		if !ok {
			return nil, &diagnostic.ConfigError{Path: epath, Reason: "switch entry must be an object with case and value"}
		}

		match, hasCase := obj.Get("case")
		rawValue, hasValue := obj.Get("value")

		if !hasCase || !hasValue || len(obj) != 2 {
			return nil, &diagnostic.ConfigError{
				Path:   epath,
				Reason: fmt.Sprintf("switch entry must have exactly the keys case and value, got %v", obj.Keys()),
			}
		}

		value, err := Compile(rawValue, epath+".value")
		if err != nil {
			return nil, err
		}

		node.Cases = append(node.Cases, Case{Match: match, Value: value})

		if match == DefaultCase && node.Default == nil {
			node.Default = value
		}
	}

	return node, nil
}

func compileForeach(sequence *expression.Expression, raw any, path string) (Node, error) {
	body, err := Compile(raw, path)
	if err != nil {
		return nil, err
	}

	return &Foreach{path: path, Sequence: sequence, Body: body}, nil
}

// compileIf expects [<then>, <else>].
func compileIf(cond *expression.Expression, raw any, path string) (Node, error) {
	branches, ok := raw.([]any)
	if !ok || len(branches) != 2 {
		return nil, &diagnostic.ConfigError{Path: path, Reason: "if expects a two-element list [then, else]"}
	}

	then, err := Compile(branches[0], indexPath(path, 0))
	if err != nil {
		return nil, err
	}

	otherwise, err := Compile(branches[1], indexPath(path, 1))
	if err != nil {
		return nil, err
	}

	return &If{path: path, Cond: cond, Then: then, Else: otherwise}, nil
}

func asObject(v any) (ordered.Object, bool) {
	switch o := v.(type) {
	case ordered.Object:
		return o, true
	case map[string]any:
		obj := make(ordered.Object, 0, len(o))
		for k, val := range o {
			obj = append(obj, ordered.Member{Key: k, Value: val})
		}

		return obj, true
	default:
		return nil, false
	}
}
