// Package schema holds the JSON Schema registry and the validator used to
// gate mapped events.
//
// A Registry is built once at startup from the shared definitions documents
// (for example tla-definitions.schema.json) and is read-only afterwards, so
// it can be shared between goroutines without locking. Schemas referenced
// by a mapping configuration are compiled against the registry once, when
// the configuration is loaded, and validated many times.
package schema
