// Package expression evaluates the expressions embedded in mapping
// templates.
//
// An expression is free text holding zero or more path-query tokens:
//
//	{{args.value}} + 1
//	to_upper({{sender}}) + "-" + current.id
//
// Each token is a gjson path run against the JSON encoding of the source
// event. JSONPath-style roots ("$.") and subscripts ("[0]", "['key']") are
// translated; recursive descent ("..") is rejected.
// Tokens are rewritten, right to left, into references to an extracted
// values list (values[0], values[1], ... in textual order) and the rewritten
// text is compiled by expr-lang with every builtin disabled.
//
// The evaluation environment exposes only:
//
//	values   the extracted path-query results
//	current  the element of the innermost foreach (nil outside a loop)
//	index    its position (-1 outside a loop)
//
// plus the allow-listed functions in functions.go. An expression made of a
// single token, or of current alone, returns the value as recorded
// (json.Number, ordered.Object). Everything else computes on plain values.
// Compilation happens once, when the mapping configuration is loaded.
package expression
