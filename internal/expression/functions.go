package expression

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/expr-lang/expr"
)

// function is an allow-listed helper callable from expressions.
type function struct {
	name  string
	arity int
	fn    func(args ...any) (any, error)
}

var functions = []function{
	{"to_upper", 1, toUpper},
	{"to_lower", 1, toLower},
	{"inc", 1, inc},
	{"dec", 1, dec},
	{"size", 1, size},
	{"to_string", 1, toString},
	{"to_int", 1, toInt},
	{"to_float", 1, toFloat},
}

// FunctionNames lists the helpers available to expressions.
func FunctionNames() []string {
	names := make([]string, len(functions))
	for i, f := range functions {
		names[i] = f.name
	}

	return names
}

func functionOptions() []expr.Option {
	opts := make([]expr.Option, 0, len(functions))

	for _, f := range functions {
		opts = append(opts, expr.Function(f.name, func(params ...any) (any, error) {
			if len(params) != f.arity {
				return nil, fmt.Errorf("%s: expected %d argument(s), got %d", f.name, f.arity, len(params))
			}

			return f.fn(params...)
		}))
	}

	return opts
}

func toUpper(args ...any) (any, error) {
	s, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("to_upper: expected string, got %T", args[0])
	}

	return strings.ToUpper(s), nil
}

func toLower(args ...any) (any, error) {
	s, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("to_lower: expected string, got %T", args[0])
	}

	return strings.ToLower(s), nil
}

func inc(args ...any) (any, error) {
	return addInt("inc", args[0], 1)
}

func dec(args ...any) (any, error) {
	return addInt("dec", args[0], -1)
}

func addInt(name string, v any, delta int) (any, error) {
	switch n := v.(type) {
	case int:
		return n + delta, nil
	case int64:
		return n + int64(delta), nil
	case float64:
		return n + float64(delta), nil
	default:
		return nil, fmt.Errorf("%s: expected number, got %T", name, v)
	}
}

func size(args ...any) (any, error) {
	switch v := args[0].(type) {
	case string:
		return utf8.RuneCountInString(v), nil
	case []any:
		return len(v), nil
	case map[string]any:
		return len(v), nil
	case nil:
		return 0, nil
	default:
		return nil, fmt.Errorf("size: expected string, array or object, got %T", v)
	}
}

func toString(args ...any) (any, error) {
	switch v := args[0].(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("to_string: %w", err)
		}

		return string(data), nil
	}
}

func toInt(args ...any) (any, error) {
	switch v := args[0].(type) {
	case int:
		return v, nil
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("to_int: %v is not an integer", v)
		}

		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("to_int: %w", err)
		}

		return n, nil
	case bool:
		if v {
			return 1, nil
		}

		return 0, nil
	default:
		return nil, fmt.Errorf("to_int: unsupported %T", v)
	}
}

func toFloat(args ...any) (any, error) {
	switch v := args[0].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("to_float: %w", err)
		}

		return f, nil
	default:
		return nil, fmt.Errorf("to_float: unsupported %T", v)
	}
}
