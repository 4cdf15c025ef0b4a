package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trace-mapper/internal/diagnostic"
	"trace-mapper/internal/ordered"
)

const definitions = `{
  "$id": "tla-definitions.schema.json",
  "$defs": {
    "node": {"type": "string", "pattern": "^n[0-9]+$"},
    "positive": {"type": "number", "exclusiveMinimum": 0}
  }
}`

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	r, err := NewRegistry("", Document{Name: "tla-definitions.schema.json", Data: []byte(definitions)})
	require.NoError(t, err)

	return r
}

func TestValidator_AmountMustBePositive(t *testing.T) {
	r := newTestRegistry(t)

	s, err := r.Compile([]byte(`{
		"type": "object",
		"required": ["amount"],
		"properties": {"amount": {"type": "number", "exclusiveMinimum": 0}}
	}`))
	require.NoError(t, err)

	args := map[string]any{"amount": -1.0}

	err = Validator{Enabled: true}.Validate(s, args, InputLocation)
	require.Error(t, err)

	var violation *diagnostic.SchemaViolation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, InputLocation, violation.Location)
	assert.Equal(t, args, violation.Instance)
	assert.Contains(t, string(violation.Schema), "exclusiveMinimum")

	assert.NoError(t, Validator{Enabled: false}.Validate(s, args, InputLocation))
	assert.NoError(t, Validator{Enabled: true}.Validate(s, map[string]any{"amount": 3.0}, InputLocation))
}

func TestValidator_NilSchemaPasses(t *testing.T) {
	assert.NoError(t, Validator{Enabled: true}.Validate(nil, "anything", OutputLocation))
}

func TestValidator_OrderedInstances(t *testing.T) {
	r := newTestRegistry(t)

	s, err := r.Compile([]byte(`{"type": "object", "properties": {"n": {"type": "integer"}}}`))
	require.NoError(t, err)

	ok := ordered.Object{{Key: "n", Value: 4}}
	assert.NoError(t, Validator{Enabled: true}.Validate(s, ok, OutputLocation))

	bad := ordered.Object{{Key: "n", Value: "four"}}
	assert.Error(t, Validator{Enabled: true}.Validate(s, bad, OutputLocation))
}

func TestRegistry_ResolvesSharedDefinitions(t *testing.T) {
	r := newTestRegistry(t)
	assert.Equal(t, 1, r.Len())

	s, err := r.Compile([]byte(`{
		"type": "object",
		"properties": {
			"sender": {"$ref": "tla-definitions.schema.json#/$defs/node"},
			"amount": {"$ref": "tla-definitions.schema.json#/$defs/positive"}
		}
	}`))
	require.NoError(t, err)

	v := Validator{Enabled: true}
	assert.NoError(t, v.Validate(s, map[string]any{"sender": "n1", "amount": 2.0}, InputLocation))
	assert.Error(t, v.Validate(s, map[string]any{"sender": "server"}, InputLocation))
	assert.Error(t, v.Validate(s, map[string]any{"amount": 0.0}, InputLocation))
}

func TestRegistry_UnknownReference(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Compile([]byte(`{"$ref": "other.schema.json#/$defs/x"}`))
	require.Error(t, err)
}

func TestRegistry_Errors(t *testing.T) {
	_, err := NewRegistry("relative/base")
	require.Error(t, err)

	_, err = NewRegistry("", Document{Name: "bad", Data: []byte(`{`)})
	require.Error(t, err)

	_, err = NewRegistry("", Document{Data: []byte(`{}`)})
	require.Error(t, err)

	r := newTestRegistry(t)
	_, err = r.Compile([]byte(`not a schema`))
	require.Error(t, err)
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tla-definitions.schema.json")
	require.NoError(t, os.WriteFile(path, []byte(definitions), 0o644))

	r, err := LoadRegistry("", path)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	_, err = LoadRegistry("", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
