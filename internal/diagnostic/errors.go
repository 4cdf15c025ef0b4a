package diagnostic

import (
	"encoding/json"
	"fmt"
	"strings"
)

// excerptLimit bounds how much of a schema or instance is quoted in messages.
const excerptLimit = 200

// ConfigError reports a problem with the mapping configuration: an unknown
// var/op pair, a switch without a matching or default case, a malformed
// template or directive.
type ConfigError struct {
	// Path locates the problem inside the mapping document, if known.
	Path string
	// Reason is the violated rule.
	Reason string
	// Suggestions are close matches for unknown names.
	Suggestions []string
	// Err is the underlying cause, if any.
	Err error
}

func (e *ConfigError) Error() string {
	var b strings.Builder

	b.WriteString("configuration error")

	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}

	b.WriteString(": ")
	b.WriteString(e.Reason)

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	if len(e.Suggestions) > 0 {
		b.WriteString(" (did you mean ")
		b.WriteString(strings.Join(e.Suggestions, ", "))
		b.WriteString("?)")
	}

	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// SchemaViolation reports an instance that does not conform to its schema.
type SchemaViolation struct {
	// Location names the failing schema, e.g. "input_schema".
	Location string
	// Schema is the schema document the instance was checked against.
	Schema json.RawMessage
	// Instance is the offending value.
	Instance any
	// Err is the validator's report.
	Err error
}

func (e *SchemaViolation) Error() string {
	return fmt.Sprintf("schema violation in %s: %v (instance %s, schema %s)",
		e.Location, e.Err, Excerpt(e.Instance), excerptRaw(e.Schema))
}

func (e *SchemaViolation) Unwrap() error { return e.Err }

// TypeError reports a directive argument of the wrong type.
type TypeError struct {
	Path     string
	Expected string
	Got      any
}

func (e *TypeError) Error() string {
	msg := fmt.Sprintf("type error: expected %s, got %s", e.Expected, describe(e.Got))
	if e.Path != "" {
		msg += " at " + e.Path
	}

	return msg
}

// ExprError reports an expression that could not be compiled or evaluated.
type ExprError struct {
	Expr string
	Err  error
}

func (e *ExprError) Error() string {
	return fmt.Sprintf("expression %q: %v", e.Expr, e.Err)
}

func (e *ExprError) Unwrap() error { return e.Err }

// EventError attributes a mapping failure to the event that caused it.
type EventError struct {
	Clock  int64
	Sender string
	Var    string
	Op     string
	Err    error
}

func (e *EventError) Error() string {
	return fmt.Sprintf("event var=%q op=%q clock=%d sender=%q: %v", e.Var, e.Op, e.Clock, e.Sender, e.Err)
}

func (e *EventError) Unwrap() error { return e.Err }

// Excerpt renders v as compact JSON, truncated for use in messages.
func Excerpt(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}

	return excerptRaw(data)
}

func excerptRaw(data []byte) string {
	if len(data) > excerptLimit {
		return string(data[:excerptLimit]) + "..."
	}

	return string(data)
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool " + Excerpt(v)
	case string:
		return "string " + Excerpt(v)
	case json.Number:
		return "number " + v.(json.Number).String()
	case []any:
		return "array " + Excerpt(v)
	case map[string]any:
		return "object " + Excerpt(v)
	default:
		return fmt.Sprintf("%T %s", v, Excerpt(v))
	}
}
