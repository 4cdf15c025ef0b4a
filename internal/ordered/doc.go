// Package ordered decodes JSON and YAML documents into generic values that
// keep the declared order of object members.
//
// Decoded values are nil, bool, string, json.Number (JSON) or int/float64
// (YAML; timestamps stay strings), []any and Object. Plain converts such a value into the shapes
// produced by encoding/json (map[string]any, float64) for consumers that do
// not care about order, such as schema validators.
package ordered
