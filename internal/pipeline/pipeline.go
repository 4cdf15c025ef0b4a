package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"trace-mapper/internal/mapper"
	"trace-mapper/internal/reshape"
	"trace-mapper/internal/trace"
)

// Output file names.
const (
	MergedFile = "trace-merged.ndjson"
	MappedFile = "trace-mapped.ndjson"
	TLAFile    = "trace-tla.ndjson"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Options configures one run.
type Options struct {
	// Sources are trace files or directories of .ndjson files.
	Sources []string
	// OutDir receives the output files. It is created if needed.
	OutDir string
	// Workers is the number of goroutines mapping events.
	Workers int
}

// Result describes a completed run.
type Result struct {
	Sources  []string
	Merged   string
	Mapped   string
	TLA      string
	Events   int
	Records  int
	Duration time.Duration
}

// Pipeline runs merge, map and convert.
type Pipeline struct {
	mapper *mapper.Mapper
	log    *zap.Logger
}

// New returns a pipeline mapping events with m.
func New(m *mapper.Mapper, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}

	return &Pipeline{mapper: m, log: log}
}

// Run executes the three stages. A failing stage stops the run; files of
// earlier stages are left in place.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Result, error) {
	start := time.Now()

	outDir := opts.OutDir
	if outDir == "" {
		outDir = "."
	}

	res := Result{
		Merged: filepath.Join(outDir, MergedFile),
		Mapped: filepath.Join(outDir, MappedFile),
		TLA:    filepath.Join(outDir, TLAFile),
	}

	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return res, fmt.Errorf("creating output directory: %w", err)
	}

	sources, err := p.sources(opts.Sources, res)
	if err != nil {
		return res, err
	}

	res.Sources = sources

	var merged bytes.Buffer

	n, err := trace.Merge(&merged, sources)
	if err != nil {
		return res, fmt.Errorf("merge: %w", err)
	}

	if err := os.WriteFile(res.Merged, merged.Bytes(), filePerm); err != nil {
		return res, fmt.Errorf("writing file %s: %w", res.Merged, err)
	}

	p.log.Debug("merged traces", zap.Strings("sources", sources), zap.Int("records", n))

	events, err := trace.Read(&merged)
	if err != nil {
		return res, fmt.Errorf("reading %s: %w", res.Merged, err)
	}

	mapped, err := p.mapper.MapAll(ctx, events, opts.Workers)
	if err != nil {
		return res, fmt.Errorf("map: %w", err)
	}

	if err := trace.WriteFile(res.Mapped, mapped); err != nil {
		return res, err
	}

	records := reshape.Convert(mapped)

	if err := trace.WriteFile(res.TLA, records); err != nil {
		return res, err
	}

	res.Events = len(mapped)
	res.Records = len(records)
	res.Duration = time.Since(start)

	p.log.Info("pipeline completed",
		zap.Int("events", res.Events),
		zap.Int("records", res.Records),
		zap.String("output", res.TLA),
		zap.Duration("duration", res.Duration),
	)

	return res, nil
}

// sources expands the source list, leaving out the pipeline's own outputs
// so that a source directory may double as the output directory.
func (p *Pipeline) sources(sources []string, res Result) ([]string, error) {
	if len(sources) == 0 {
		return nil, errors.New("no trace source given")
	}

	files, err := trace.ExpandSources(sources)
	if err != nil {
		return nil, err
	}

	outputs := make(map[string]bool, 3)
	for _, f := range []string{res.Merged, res.Mapped, res.TLA} {
		outputs[absPath(f)] = true
	}

	kept := files[:0]

	for _, f := range files {
		if outputs[absPath(f)] {
			continue
		}

		kept = append(kept, f)
	}

	if len(kept) == 0 {
		return nil, fmt.Errorf("no trace file found in %v", sources)
	}

	return kept, nil
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}

	return abs
}
