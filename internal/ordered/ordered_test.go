package ordered

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON_KeepsOrderAndNumbers(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"z": 1, "a": [1.50, {"k": null}], "m": "x"}`))
	require.NoError(t, err)

	obj, ok := v.(Object)
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())

	z, _ := obj.Get("z")
	assert.Equal(t, json.Number("1"), z)

	out, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":[1.50,{"k":null}],"m":"x"}`, string(out))
}

func TestDecodeJSON_Errors(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"a": 1} {"b": 2}`))
	require.Error(t, err)

	_, err = DecodeJSON([]byte(`{"a": `))
	require.Error(t, err)

	_, err = DecodeJSON(nil)
	require.Error(t, err)
}

func TestDecodeYAML(t *testing.T) {
	doc := `
b: 2
a:
  - x
  - 1.5
  - true
anchor: &ref {k: v}
alias: *ref
`
	v, err := DecodeYAML([]byte(doc))
	require.NoError(t, err)

	obj := v.(Object)
	assert.Equal(t, []string{"b", "a", "anchor", "alias"}, obj.Keys())

	a, _ := obj.Get("a")
	assert.Equal(t, []any{"x", 1.5, true}, a)

	alias, _ := obj.Get("alias")
	assert.Equal(t, Object{{Key: "k", Value: "v"}}, alias)

	empty, err := DecodeYAML([]byte(""))
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestDecodeYAML_TimestampsStayText(t *testing.T) {
	v, err := DecodeYAML([]byte("date: 2024-01-01\nat: 2024-01-01T10:00:00Z\nquoted: \"2024-01-01\"\n"))
	require.NoError(t, err)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"date":"2024-01-01","at":"2024-01-01T10:00:00Z","quoted":"2024-01-01"}`, string(out))
}

func TestPlain(t *testing.T) {
	in := Object{
		{Key: "n", Value: json.Number("3")},
		{Key: "i", Value: 4},
		{Key: "list", Value: []any{Object{{Key: "x", Value: "y"}}}},
	}

	assert.Equal(t, map[string]any{
		"n":    3.0,
		"i":    4.0,
		"list": []any{map[string]any{"x": "y"}},
	}, Plain(in))
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"number kinds", json.Number("1"), 1.0, true},
		{"int and float", 2, 2.0, true},
		{"number vs string", 1.0, "1", false},
		{"strings", "default", "default", true},
		{"nil", nil, nil, true},
		{"nil vs false", nil, false, false},
		{"objects ignore order", Object{{"a", 1}, {"b", 2}}, map[string]any{"b": 2.0, "a": 1.0}, true},
		{"arrays", []any{1, "x"}, []any{1.0, "x"}, true},
		{"arrays length", []any{1}, []any{1, 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}
