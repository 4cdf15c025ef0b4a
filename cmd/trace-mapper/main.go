// Package main provides the CLI entrypoint for trace-mapper.
//
// trace-mapper turns recorded distributed-system traces into the input of a
// TLA+ trace specification:
//   - merge: concatenates NDJSON traces
//   - map: retags events with a declarative mapping configuration
//   - convert: groups mapped events into TLA+ trace records
//   - pipeline: all three, optionally re-running on change
//   - validate: runs TLC on the result
package main

import "trace-mapper/internal/cli"

func main() {
	cli.Execute()
}
