// Package pipeline chains the trace stages: merge the raw traces, map the
// merged events and convert them to TLA+ records. Every stage's output is
// written to the output directory so that each can be inspected:
//
//	trace-merged.ndjson  raw events of all sources, in source order
//	trace-mapped.ndjson  retagged events, same order
//	trace-tla.ndjson     records read by the trace specification
//
// Watch re-runs the pipeline whenever a source trace changes.
package pipeline
