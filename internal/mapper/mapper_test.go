package mapper

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"trace-mapper/internal/diagnostic"
	"trace-mapper/internal/mapping"
	"trace-mapper/internal/trace"
)

const config = `{
  "x": {
    "name": "X",
    "functions": {
      "set": {"name": "Set", "map_args": {"value": "@{{args.v}}"}},
      "pay": {
        "name": "Pay",
        "map_args": {"amount": "@{{args.amount}}"},
        "input_schema": {
          "type": "object",
          "required": ["amount"],
          "properties": {"amount": {"type": "number", "exclusiveMinimum": 0}}
        },
        "output_schema": {"type": "object", "required": ["amount"]}
      },
      "refund": {
        "name": "Refund",
        "map_args": {"total": "@{{args.amount}}"},
        "output_schema": {"type": "object", "required": ["amount"]}
      },
      "copy": {
        "name": "Copy",
        "map_args": {"id": "@{{args.id}}", "f": "@{{args.f}}", "same": "@{{args}}"}
      },
      "ratio": {"name": "Ratio", "map_args": {"r": "@{{args.v}} / {{args.d}}"}},
      "tag": {"name": "Tag", "map_args": {"@if({{args.flag}})": ["on", "off"]}}
    }
  },
  "log": {
    "name": "Log",
    "functions": {
      "append": {
        "name": "Append",
        "map_args": {"@foreach({{args.entries}})": {"term": "@current.term", "at": "@index + {{clock}}"}}
      }
    }
  }
}`

func newMapper(t *testing.T, opts ...Option) *Mapper {
	t.Helper()

	cfg, _, err := mapping.Parse([]byte(config), mapping.FormatJSON, nil)
	require.NoError(t, err)

	return New(cfg, opts...)
}

func decodeEvent(t *testing.T, line string) trace.Event {
	t.Helper()

	var ev trace.Event
	require.NoError(t, json.Unmarshal([]byte(line), &ev))

	return ev
}

func TestMap_EndToEnd(t *testing.T) {
	m := newMapper(t)

	out, err := m.Map(decodeEvent(t, `{"clock":1,"sender":"A","var":"x","op":"set","args":{"v":5}}`))
	require.NoError(t, err)

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"clock":1,"sender":"A","var":"X","op":"Set","args":{"value":5}}`, string(data))
}

func TestMap_KeepsPath(t *testing.T) {
	m := newMapper(t)

	out, err := m.Map(decodeEvent(t, `{"clock":2,"sender":"B","var":"x","op":"set","path":["a",1],"args":{"v":"s"}}`))
	require.NoError(t, err)
	assert.Equal(t, []any{"a", json.Number("1")}, out.Path)
}

func TestMap_PassThroughKeepsNumbersAndOrder(t *testing.T) {
	m := newMapper(t)

	out, err := m.Map(decodeEvent(t,
		`{"clock":1,"sender":"A","var":"x","op":"copy","args":{"id":9007199254740993,"f":1.0,"list":[{"b":1,"a":2}]}}`))
	require.NoError(t, err)

	data, err := json.Marshal(out.Args)
	require.NoError(t, err)
	assert.Equal(t,
		`{"id":9007199254740993,"f":1.0,"same":{"id":9007199254740993,"f":1.0,"list":[{"b":1,"a":2}]}}`,
		string(data))
}

func TestMap_NonFiniteResultNamesEvent(t *testing.T) {
	_, err := newMapper(t).Map(decodeEvent(t, `{"clock":6,"sender":"B","var":"x","op":"ratio","args":{"v":1,"d":0}}`))
	require.Error(t, err)

	var exprErr *diagnostic.ExprError
	require.ErrorAs(t, err, &exprErr)

	var evErr *diagnostic.EventError
	require.ErrorAs(t, err, &evErr)
	assert.Equal(t, "ratio", evErr.Op)
	assert.Equal(t, int64(6), evErr.Clock)
	assert.Equal(t, "B", evErr.Sender)

	out, err := newMapper(t).Map(decodeEvent(t, `{"clock":6,"sender":"B","var":"x","op":"ratio","args":{"v":1,"d":4}}`))
	require.NoError(t, err)

	data, err := json.Marshal(out.Args)
	require.NoError(t, err)
	assert.Equal(t, `{"r":0.25}`, string(data))
}

func TestMap_ValidationGate(t *testing.T) {
	ev := decodeEvent(t, `{"clock":3,"sender":"A","var":"x","op":"pay","args":{"amount":-1}}`)

	_, err := newMapper(t, WithValidation(true)).Map(ev)
	require.Error(t, err)

	var violation *diagnostic.SchemaViolation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "input_schema", violation.Location)

	var evErr *diagnostic.EventError
	require.ErrorAs(t, err, &evErr)
	assert.Equal(t, int64(3), evErr.Clock)
	assert.Equal(t, "pay", evErr.Op)

	out, err := newMapper(t, WithValidation(false)).Map(ev)
	require.NoError(t, err)
	assert.Equal(t, "Pay", out.Op)

	_, err = newMapper(t, WithValidation(true)).Map(
		decodeEvent(t, `{"clock":3,"sender":"A","var":"x","op":"pay","args":{"amount":2}}`))
	require.NoError(t, err)

	refund := decodeEvent(t, `{"clock":4,"sender":"A","var":"x","op":"refund","args":{"amount":2}}`)

	_, err = newMapper(t, WithValidation(true)).Map(refund)
	require.Error(t, err)

	violation = nil
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "output_schema", violation.Location)
	assert.Equal(t, map[string]any{"total": 2.0}, violation.Instance)

	evErr = nil
	require.ErrorAs(t, err, &evErr)
	assert.Equal(t, "refund", evErr.Op)
	assert.Equal(t, int64(4), evErr.Clock)

	out, err = newMapper(t, WithValidation(false)).Map(refund)
	require.NoError(t, err)
	assert.Equal(t, "Refund", out.Op)
}

func TestMap_UnknownPairIsConfigError(t *testing.T) {
	_, err := newMapper(t).Map(decodeEvent(t, `{"clock":1,"sender":"A","var":"x","op":"sett","args":{}}`))
	require.Error(t, err)

	var cfgErr *diagnostic.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"set"}, cfgErr.Suggestions)
	assert.Contains(t, err.Error(), `var="x" op="sett" clock=1 sender="A"`)
}

func TestMap_TypeErrorNamesEvent(t *testing.T) {
	_, err := newMapper(t).Map(decodeEvent(t, `{"clock":9,"sender":"C","var":"x","op":"tag","args":{"flag":1}}`))
	require.Error(t, err)

	var typeErr *diagnostic.TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Contains(t, err.Error(), "clock=9")
}

func TestMap_DoesNotMutateEvent(t *testing.T) {
	ev := decodeEvent(t, `{"clock":1,"sender":"A","var":"log","op":"append","args":{"entries":[{"term":1},{"term":2}]}}`)
	before, err := json.Marshal(ev)
	require.NoError(t, err)

	out, err := newMapper(t).Map(ev)
	require.NoError(t, err)

	after, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	data, err := json.Marshal(out.Args)
	require.NoError(t, err)
	assert.Equal(t, `[{"term":1,"at":1},{"term":2,"at":2}]`, string(data))
}

func sampleEvents(n int) []trace.Event {
	events := make([]trace.Event, n)

	for i := range events {
		switch i % 3 {
		case 0:
			events[i] = trace.Event{Clock: int64(i), Sender: "A", Var: "x", Op: "set", Args: map[string]any{"v": float64(i)}}
		case 1:
			events[i] = trace.Event{Clock: int64(i), Sender: "B", Var: "x", Op: "tag", Args: map[string]any{"flag": i%2 == 0}}
		default:
			entries := make([]any, i%5)
			for j := range entries {
				entries[j] = map[string]any{"term": float64(j)}
			}

			events[i] = trace.Event{Clock: int64(i), Sender: "C", Var: "log", Op: "append", Args: map[string]any{"entries": entries}}
		}
	}

	return events
}

func TestMapAll_ParallelEqualsSequential(t *testing.T) {
	m := newMapper(t, WithValidation(true))
	events := sampleEvents(200)

	seq, err := m.MapAll(context.Background(), events, 1)
	require.NoError(t, err)
	require.Len(t, seq, len(events))

	par, err := m.MapAll(context.Background(), events, 8)
	require.NoError(t, err)

	seqJSON, err := json.Marshal(seq)
	require.NoError(t, err)

	parJSON, err := json.Marshal(par)
	require.NoError(t, err)

	assert.Equal(t, string(seqJSON), string(parJSON))

	for i, ev := range seq {
		assert.Equal(t, events[i].Clock, ev.Clock)
		assert.Equal(t, events[i].Sender, ev.Sender)
	}
}

func TestMapAll_FirstErrorAborts(t *testing.T) {
	m := newMapper(t)
	events := sampleEvents(50)
	events[17].Op = "missing"

	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			out, err := m.MapAll(context.Background(), events, workers)
			require.Error(t, err)
			assert.Nil(t, out)

			var evErr *diagnostic.EventError
			require.ErrorAs(t, err, &evErr)
			assert.Equal(t, int64(17), evErr.Clock)
		})
	}
}

func TestMapAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		_, err := newMapper(t).MapAll(ctx, sampleEvents(10), workers)
		require.ErrorIs(t, err, context.Canceled)
	}
}

func TestMapAll_Empty(t *testing.T) {
	out, err := newMapper(t).MapAll(context.Background(), nil, 4)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMap_LogsAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := newMapper(t, WithLogger(zap.New(core)))

	_, err := m.MapAll(context.Background(), sampleEvents(3), 1)
	require.NoError(t, err)

	mapped := logs.FilterMessage("mapped event").All()
	require.Len(t, mapped, 3)
	assert.Equal(t, "x.set", mapped[0].ContextMap()["from"])
	assert.Equal(t, "X.Set", mapped[0].ContextMap()["to"])

	summary := logs.FilterMessage("mapped events").All()
	require.Len(t, summary, 1)
	assert.Equal(t, int64(3), summary[0].ContextMap()["count"])
}
