// Package diagnostic provides the error taxonomy of the trace mapper and
// structured diagnostics for mapping configuration problems.
//
// Error kinds:
//   - ConfigError: unknown var/op, missing switch default, malformed templates
//   - SchemaViolation: an instance failed its input or output schema
//   - TypeError: a directive received a value of the wrong type
//   - ExprError: a path-query or expression could not be compiled or evaluated
//   - EventError: any of the above, attributed to the event being mapped
//
// Every kind is fatal for the current run. Callers match kinds with errors.As.
package diagnostic
