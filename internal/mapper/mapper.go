package mapper

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"trace-mapper/internal/diagnostic"
	"trace-mapper/internal/expression"
	"trace-mapper/internal/mapping"
	"trace-mapper/internal/schema"
	"trace-mapper/internal/template"
	"trace-mapper/internal/trace"
)

// Mapper maps events with a compiled configuration. It holds no mutable
// state and may be shared by goroutines.
type Mapper struct {
	cfg       *mapping.Config
	validator schema.Validator
	log       *zap.Logger
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithValidation turns input and output schema checks on or off. They are
// off by default.
func WithValidation(enabled bool) Option {
	return func(m *Mapper) {
		m.validator.Enabled = enabled
	}
}

// WithLogger sets the logger. Mapped events are logged at debug level.
func WithLogger(log *zap.Logger) Option {
	return func(m *Mapper) {
		if log != nil {
			m.log = log
		}
	}
}

// New returns a Mapper for cfg.
func New(cfg *mapping.Config, opts ...Option) *Mapper {
	m := &Mapper{
		cfg: cfg,
		log: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Map retags one event. Failures are *diagnostic.EventError wrapping the
// cause. ev is not modified.
func (m *Mapper) Map(ev trace.Event) (trace.Event, error) {
	out, err := m.mapEvent(ev)
	if err != nil {
		return trace.Event{}, &diagnostic.EventError{
			Clock:  ev.Clock,
			Sender: ev.Sender,
			Var:    ev.Var,
			Op:     ev.Op,
			Err:    err,
		}
	}

	if ce := m.log.Check(zap.DebugLevel, "mapped event"); ce != nil {
		ce.Write(
			zap.Int64("clock", ev.Clock),
			zap.String("sender", ev.Sender),
			zap.String("from", ev.Key()),
			zap.String("to", out.Key()),
		)
	}

	return out, nil
}

func (m *Mapper) mapEvent(ev trace.Event) (trace.Event, error) {
	v, op, err := m.cfg.Lookup(ev.Var, ev.Op)
	if err != nil {
		return trace.Event{}, err
	}

	if err := m.validator.Validate(op.InputSchema, ev.Args, schema.InputLocation); err != nil {
		return trace.Event{}, err
	}

	source, err := json.Marshal(ev)
	if err != nil {
		return trace.Event{}, fmt.Errorf("encoding event: %w", err)
	}

	args, err := template.Eval(op.MapArgs, expression.NewScope(source))
	if err != nil {
		return trace.Event{}, err
	}

	if err := m.validator.Validate(op.OutputSchema, args, schema.OutputLocation); err != nil {
		return trace.Event{}, err
	}

	return trace.Event{
		Clock:  ev.Clock,
		Sender: ev.Sender,
		Var:    v.Name,
		Op:     op.Name,
		Path:   ev.Path,
		Args:   args,
	}, nil
}

// MapAll maps events in order. With more than one worker, events are
// mapped concurrently; the output order is still the input order. The first
// failure cancels the remaining work and is returned.
func (m *Mapper) MapAll(ctx context.Context, events []trace.Event, workers int) ([]trace.Event, error) {
	out := make([]trace.Event, len(events))

	if workers <= 1 {
		for i, ev := range events {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			mapped, err := m.Map(ev)
			if err != nil {
				return nil, err
			}

			out[i] = mapped
		}

		m.log.Info("mapped events", zap.Int("count", len(out)), zap.Int("workers", 1))

		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range events {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			mapped, err := m.Map(events[i])
			if err != nil {
				return err
			}

			out[i] = mapped

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// cancellation of the parent context is not reported by the group
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.log.Info("mapped events", zap.Int("count", len(out)), zap.Int("workers", workers))

	return out, nil
}
