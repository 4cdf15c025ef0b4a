// Package mapper retags trace events: it looks up the mapping of each
// event's var and op, checks the arguments against the optional input
// schema, builds the target arguments from the map_args template and checks
// them against the optional output schema.
//
// Mapping is deterministic and has no side effects. A batch is mapped in
// input order, optionally by a pool of workers, and the first failure
// aborts it.
package mapper
