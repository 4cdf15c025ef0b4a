// Package reshape turns a mapped event stream into the records read by a
// TLA+ trace specification.
//
// Consecutive events sharing a clock and a sender form one step. Steps are
// ordered by clock, ties keeping their arrival order. Each step becomes one
// record holding, per var, the list of its operations:
//
//	{"__config": {}}
//	{"log": [{"op": "Append", "args": [...]}], "term": [{"op": "Set", "args": 2}]}
package reshape

import (
	"cmp"
	"slices"

	"trace-mapper/internal/ordered"
	"trace-mapper/internal/trace"
)

// ConfigKey names the header record that precedes the steps.
const ConfigKey = "__config"

// Entry is one operation on a var within a step.
type Entry struct {
	Op   string `json:"op"`
	Path []any  `json:"path,omitempty"`
	Args any    `json:"args"`
}

type step struct {
	clock  int64
	sender string
	events []trace.Event
}

// Convert builds the header record followed by one record per step.
func Convert(events []trace.Event) []ordered.Object {
	steps := group(events)

	slices.SortStableFunc(steps, func(a, b step) int {
		return cmp.Compare(a.clock, b.clock)
	})

	records := make([]ordered.Object, 0, len(steps)+1)
	records = append(records, Header())

	for _, s := range steps {
		records = append(records, record(s.events))
	}

	return records
}

// Header returns the record that opens every converted trace.
func Header() ordered.Object {
	return ordered.Object{{Key: ConfigKey, Value: ordered.Object{}}}
}

// group splits events into runs sharing clock and sender.
func group(events []trace.Event) []step {
	var steps []step

	for _, ev := range events {
		if n := len(steps); n > 0 && steps[n-1].clock == ev.Clock && steps[n-1].sender == ev.Sender {
			steps[n-1].events = append(steps[n-1].events, ev)
			continue
		}

		steps = append(steps, step{clock: ev.Clock, sender: ev.Sender, events: []trace.Event{ev}})
	}

	return steps
}

// record groups the events of one step by var, vars in order of first
// appearance.
func record(events []trace.Event) ordered.Object {
	var (
		rec   ordered.Object
		index = make(map[string]int)
	)

	for _, ev := range events {
		e := Entry{Op: ev.Op, Path: ev.Path, Args: ev.Args}

		i, ok := index[ev.Var]
		if !ok {
			index[ev.Var] = len(rec)
			rec = append(rec, ordered.Member{Key: ev.Var, Value: []Entry{e}})

			continue
		}

		rec[i].Value = append(rec[i].Value.([]Entry), e)
	}

	return rec
}
