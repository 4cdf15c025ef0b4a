// Package template compiles and evaluates argument templates.
//
// A template is a JSON (or YAML) document describing how to build the mapped
// arguments of an event. Compile turns the decoded document into a tree of
// nodes, deciding once what every part is:
//
//	Literal     any scalar, and strings not starting with "@"
//	Expression  "@" followed by expression text, e.g. "@{{args.v}} + 1"
//	Object      members whose keys are literal strings or expressions
//	Array       a sequence of templates
//	Switch      {"@switch(<expr>)": [{"case": 1, "value": ...}, {"case": "default", "value": ...}]}
//	Foreach     {"@foreach(<expr>)": <template applied to every element>}
//	If          {"@if(<expr>)": [<then>, <else>]}
//
// Eval walks the tree against a source event. Objects keep their declared
// member order. Loops evaluate their body in a child expression.Scope, so
// "current" and "index" always refer to the innermost loop.
package template
