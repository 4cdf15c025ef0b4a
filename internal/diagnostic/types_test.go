package diagnostic

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_Err(t *testing.T) {
	d := &Diagnostics{}
	assert.NoError(t, d.Err())
	assert.False(t, d.HasErrors())

	d.AddWarning("unknown_key", "unknown key \"nmae\"", "x", "x.nmae")
	assert.NoError(t, d.Err())

	d.AddError("missing_name", "target name is required", "x.set", "x.functions.set")

	err := d.Err()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "[x.set] x.functions.set: [missing_name] target name is required")
}

func TestDiagnostics_AddErrKeepsConfigDetails(t *testing.T) {
	d := &Diagnostics{}
	d.AddErr("invalid_template", "x.set", &ConfigError{
		Path:        "map_args.a",
		Reason:      "multiple directive keys",
		Suggestions: []string{"foreach"},
	})

	require.Len(t, d.Errors, 1)
	assert.Equal(t, "map_args.a", d.Errors[0].Path)
	assert.Equal(t, "multiple directive keys", d.Errors[0].Message)
	assert.Equal(t, []string{"foreach"}, d.Errors[0].Suggestions)
	assert.Contains(t, d.Errors[0].String(), "did you mean foreach?")
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(9).String())
}

func TestErrorKinds_Unwrap(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
	}{
		{"config", &ConfigError{Reason: "bad", Err: cause}},
		{"schema", &SchemaViolation{Location: "input_schema", Err: cause}},
		{"expr", &ExprError{Expr: "values[0]", Err: cause}},
		{"event", &EventError{Var: "x", Op: "set", Err: cause}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.ErrorIs(t, wrapped, cause)
		})
	}
}

func TestEventError_NamesEvent(t *testing.T) {
	err := &EventError{Clock: 3, Sender: "A", Var: "x", Op: "set", Err: &TypeError{Expected: "bool", Got: 1.0}}
	msg := err.Error()

	assert.Contains(t, msg, `var="x"`)
	assert.Contains(t, msg, `op="set"`)
	assert.Contains(t, msg, "clock=3")
	assert.Contains(t, msg, `sender="A"`)
	assert.Contains(t, msg, "expected bool, got float64 1")
}

func TestExcerpt_Truncates(t *testing.T) {
	long := make([]int, 200)
	out := Excerpt(long)

	assert.Len(t, out, excerptLimit+len("..."))
	assert.Equal(t, `{"a":1}`, Excerpt(map[string]any{"a": 1}))
}
