// Package trace defines the trace Event record and its newline-delimited
// JSON (NDJSON) encoding, and merges several trace files into one stream.
package trace
