package mapping

import (
	"encoding/json"
	"fmt"
	"slices"

	"trace-mapper/internal/diagnostic"
	"trace-mapper/internal/match"
	"trace-mapper/internal/ordered"
	"trace-mapper/internal/schema"
	"trace-mapper/internal/template"
)

// Document keys.
const (
	KeyName         = "name"
	KeyFunctions    = "functions"
	KeyMapArgs      = "map_args"
	KeyInputSchema  = "input_schema"
	KeyOutputSchema = "output_schema"
)

var (
	varKeys = []string{KeyName, KeyFunctions}
	opKeys  = []string{KeyName, KeyMapArgs, KeyInputSchema, KeyOutputSchema}
)

// Diagnostic codes.
const (
	CodeNotObject      = "not_object"
	CodeDuplicateKey   = "duplicate_key"
	CodeMissingName    = "missing_name"
	CodeMissingKey     = "missing_key"
	CodeUnknownKey     = "unknown_key"
	CodeInvalidArgs    = "invalid_map_args"
	CodeInvalidSchema  = "invalid_schema"
	CodeEmptyFunctions = "empty_functions"
)

// Compile builds a Config from a decoded mapping document. Schemas are
// resolved through reg. The returned Config is only usable when the
// diagnostics hold no errors.
func Compile(raw any, reg *schema.Registry) (*Config, *diagnostic.Diagnostics) {
	diags := &diagnostic.Diagnostics{}
	cfg := newConfig()

	root, ok := raw.(ordered.Object)
	if !ok {
		diags.AddError(CodeNotObject, fmt.Sprintf("mapping document must be an object, got %s", typeName(raw)), "", "$")
		return cfg, diags
	}

	seen := make(map[string]bool, len(root))

	for _, m := range root {
		if seen[m.Key] {
			diags.AddError(CodeDuplicateKey, fmt.Sprintf("var %q is mapped twice", m.Key), m.Key, m.Key)
			continue
		}

		seen[m.Key] = true

		if v := compileVar(m.Key, m.Value, reg, diags); v != nil {
			cfg.add(v)
		}
	}

	return cfg, diags
}

func compileVar(source string, raw any, reg *schema.Registry, diags *diagnostic.Diagnostics) *VarMapping {
	obj, ok := raw.(ordered.Object)
	if !ok {
		diags.AddError(CodeNotObject, fmt.Sprintf("var mapping must be an object, got %s", typeName(raw)), source, source)
		return nil
	}

	checkKeys(obj, varKeys, source, source, diags)

	name, ok := requireName(obj, source, source, diags)
	if !ok {
		return nil
	}

	v := &VarMapping{Source: source, Name: name}

	fpath := source + "." + KeyFunctions

	rawFns, ok := obj.Get(KeyFunctions)
	if !ok {
		diags.AddError(CodeMissingKey, "functions is required", source, fpath)
		return nil
	}

	fns, ok := rawFns.(ordered.Object)
	if !ok {
		diags.AddError(CodeNotObject, fmt.Sprintf("functions must be an object, got %s", typeName(rawFns)), source, fpath)
		return nil
	}

	if len(fns) == 0 {
		diags.AddWarning(CodeEmptyFunctions, "no op is mapped", source, fpath)
	}

	for _, m := range fns {
		scope := source + "." + m.Key

		if _, dup := v.Op(m.Key); dup {
			diags.AddError(CodeDuplicateKey, fmt.Sprintf("op %q is mapped twice", m.Key), scope, fpath+"."+m.Key)
			continue
		}

		if op := compileOp(m.Key, m.Value, fpath+"."+m.Key, scope, reg, diags); op != nil {
			v.add(op)
		}
	}

	return v
}

func compileOp(source string, raw any, path, scope string, reg *schema.Registry, diags *diagnostic.Diagnostics) *OpMapping {
	obj, ok := raw.(ordered.Object)
	if !ok {
		diags.AddError(CodeNotObject, fmt.Sprintf("op mapping must be an object, got %s", typeName(raw)), scope, path)
		return nil
	}

	checkKeys(obj, opKeys, scope, path, diags)

	name, nameOK := requireName(obj, scope, path, diags)
	op := &OpMapping{Source: source, Name: name}
	valid := nameOK

	rawArgs, ok := obj.Get(KeyMapArgs)
	if !ok {
		diags.AddError(CodeMissingKey, "map_args is required", scope, path+"."+KeyMapArgs)

		valid = false
	} else {
		node, err := template.Compile(rawArgs, path+"."+KeyMapArgs)
		if err != nil {
			diags.AddErr(CodeInvalidArgs, scope, err)

			valid = false
		}

		op.MapArgs = node
	}

	for _, sc := range []struct {
		key    string
		target **schema.Schema
	}{
		{KeyInputSchema, &op.InputSchema},
		{KeyOutputSchema, &op.OutputSchema},
	} {
		rawSchema, ok := obj.Get(sc.key)
		if !ok {
			continue
		}

		s, err := compileSchema(rawSchema, reg)
		if err != nil {
			diags.AddError(CodeInvalidSchema, err.Error(), scope, path+"."+sc.key)

			valid = false

			continue
		}

		*sc.target = s
	}

	if !valid {
		return nil
	}

	return op
}

func compileSchema(raw any, reg *schema.Registry) (*schema.Schema, error) {
	switch raw.(type) {
	case ordered.Object, bool:
	default:
		return nil, fmt.Errorf("schema must be an object or a boolean, got %s", typeName(raw))
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding schema: %w", err)
	}

	return reg.Compile(data)
}

func requireName(obj ordered.Object, scope, path string, diags *diagnostic.Diagnostics) (string, bool) {
	raw, ok := obj.Get(KeyName)
	if !ok {
		diags.AddError(CodeMissingName, "target name is required", scope, path+"."+KeyName)
		return "", false
	}

	name, ok := raw.(string)
	if !ok || name == "" {
		diags.AddError(CodeMissingName, fmt.Sprintf("target name must be a non-empty string, got %s", typeName(raw)), scope, path+"."+KeyName)
		return "", false
	}

	return name, true
}

// checkKeys warns about keys the loader does not know.
func checkKeys(obj ordered.Object, known []string, scope, path string, diags *diagnostic.Diagnostics) {
	seen := make(map[string]bool, len(obj))

	for _, m := range obj {
		if seen[m.Key] {
			diags.AddError(CodeDuplicateKey, fmt.Sprintf("key %q appears twice", m.Key), scope, path+"."+m.Key)
			continue
		}

		seen[m.Key] = true

		if slices.Contains(known, m.Key) {
			continue
		}

		diags.Warnings = append(diags.Warnings, diagnostic.Diagnostic{
			Severity:    diagnostic.SeverityWarning,
			Code:        CodeUnknownKey,
			Message:     fmt.Sprintf("unknown key %q is ignored", m.Key),
			Scope:       scope,
			Path:        path + "." + m.Key,
			Suggestions: match.Suggest(m.Key, known, match.DefaultThreshold, match.DefaultLimit),
		})
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case ordered.Object, map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		if _, ok := ordered.Number(v); ok {
			return "number"
		}

		return fmt.Sprintf("%T", v)
	}
}
