package trace

import (
	"encoding/json"
	"fmt"

	"trace-mapper/internal/ordered"
)

// Event is one recorded trace occurrence. Clock orders events, possibly
// across several senders.
type Event struct {
	Clock  int64  `json:"clock"`
	Sender string `json:"sender"`
	Var    string `json:"var"`
	Op     string `json:"op"`
	// Path locates the updated field inside Var, when the instrumentation
	// records one.
	Path []any `json:"path,omitempty"`
	Args any   `json:"args"`
}

// UnmarshalJSON decodes an event keeping args and path exactly as recorded:
// numbers stay json.Number and objects keep their member order.
func (e *Event) UnmarshalJSON(data []byte) error {
	type header Event

	var raw struct {
		header
		Path json.RawMessage `json:"path"`
		Args json.RawMessage `json:"args"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	ev := Event(raw.header)
	ev.Path, ev.Args = nil, nil

	if len(raw.Args) > 0 {
		args, err := ordered.DecodeJSON(raw.Args)
		if err != nil {
			return fmt.Errorf("args: %w", err)
		}

		ev.Args = args
	}

	if len(raw.Path) > 0 {
		p, err := ordered.DecodeJSON(raw.Path)
		if err != nil {
			return fmt.Errorf("path: %w", err)
		}

		switch p := p.(type) {
		case nil:
		case []any:
			ev.Path = p
		default:
			return fmt.Errorf("path: expected array, got %s", string(raw.Path))
		}
	}

	*e = ev

	return nil
}

// Key identifies the var/op pair the event is mapped by.
func (e Event) Key() string {
	return e.Var + "." + e.Op
}
