package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"trace-mapper/internal/trace"
)

// DefaultDebounce is how long Watch waits for writes to settle before
// re-running the pipeline.
const DefaultDebounce = 200 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	Options

	Debounce time.Duration
	// OnRun is called after every run with its outcome.
	OnRun func(Result, error)
}

// Watch runs the pipeline once, then again after every change to a source
// trace. Failed runs are logged and reported to OnRun; watching goes on.
// Blocks until ctx is cancelled.
func (p *Pipeline) Watch(ctx context.Context, opts WatchOptions) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	filter, err := p.watchSources(watcher, opts.Options)
	if err != nil {
		return err
	}

	p.runOnce(ctx, opts)

	// Initialized as stopped; the first relevant event starts it.
	debounceTimer := time.NewTimer(opts.Debounce)
	debounceTimer.Stop()

	defer debounceTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-debounceTimer.C:
			p.runOnce(ctx, opts)

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}

			if !filter.matches(event.Name) {
				continue
			}

			p.log.Debug("trace changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))

			if !debounceTimer.Stop() {
				select {
				case <-debounceTimer.C:
				default:
				}
			}

			debounceTimer.Reset(opts.Debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			p.log.Warn("watch error", zap.Error(err))
		}
	}
}

func (p *Pipeline) runOnce(ctx context.Context, opts WatchOptions) {
	res, err := p.Run(ctx, opts.Options)
	if err != nil {
		p.log.Error("pipeline failed", zap.Error(err))
	}

	if opts.OnRun != nil {
		opts.OnRun(res, err)
	}
}

// sourceFilter tells which file system events concern a source trace.
type sourceFilter struct {
	files   map[string]bool
	dirs    map[string]bool
	outputs map[string]bool
}

func (f sourceFilter) matches(name string) bool {
	abs := absPath(name)

	if f.outputs[abs] {
		return false
	}

	if f.files[abs] {
		return true
	}

	return f.dirs[filepath.Dir(abs)] && isTraceFile(abs)
}

// watchSources registers the directories holding the sources. Files are
// watched through their parent directory so that editors replacing a file
// by renaming are noticed.
func (p *Pipeline) watchSources(w *fsnotify.Watcher, opts Options) (sourceFilter, error) {
	outDir := opts.OutDir
	if outDir == "" {
		outDir = "."
	}

	filter := sourceFilter{
		files:   make(map[string]bool),
		dirs:    make(map[string]bool),
		outputs: make(map[string]bool),
	}

	for _, name := range []string{MergedFile, MappedFile, TLAFile} {
		filter.outputs[absPath(filepath.Join(outDir, name))] = true
	}

	watched := make(map[string]bool)

	for _, src := range opts.Sources {
		abs := absPath(src)

		info, err := os.Stat(abs)
		if err != nil {
			return filter, err
		}

		dir := abs
		if info.IsDir() {
			filter.dirs[abs] = true
		} else {
			filter.files[abs] = true
			dir = filepath.Dir(abs)
		}

		if watched[dir] {
			continue
		}

		if err := w.Add(dir); err != nil {
			return filter, err
		}

		watched[dir] = true

		p.log.Info("watching", zap.String("path", dir))
	}

	return filter, nil
}

func isTraceFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), trace.Ext)
}
