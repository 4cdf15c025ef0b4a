package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trace-mapper/internal/mapper"
	"trace-mapper/internal/mapping"
	"trace-mapper/internal/pipeline"
	"trace-mapper/internal/schema"
)

const definitionsFile = "tla-definitions.schema.json"

// TestExamples runs the pipeline on every directory under examples/ and
// compares its outputs with the files in the example's expected/ directory.
func TestExamples(t *testing.T) {
	t.Parallel()

	root, err := filepath.Abs(filepath.Join("..", "..", "examples"))
	require.NoError(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		dir := filepath.Join(root, e.Name())

		t.Run(e.Name(), func(t *testing.T) {
			t.Parallel()

			out := t.TempDir()

			_, err := exampleRun(t, dir).Run(context.Background(), pipeline.Options{
				Sources: exampleSources(t, dir),
				OutDir:  out,
				Workers: 2,
			})
			require.NoError(t, err)

			expected, err := filepath.Glob(filepath.Join(dir, "expected", "*.ndjson"))
			require.NoError(t, err)
			require.NotEmpty(t, expected)

			for _, want := range expected {
				wantData, err := os.ReadFile(want)
				require.NoError(t, err)

				gotData, err := os.ReadFile(filepath.Join(out, filepath.Base(want)))
				require.NoError(t, err)

				assert.Equal(t, string(wantData), string(gotData), filepath.Base(want))
			}
		})
	}
}

func exampleRun(t *testing.T, dir string) *pipeline.Pipeline {
	t.Helper()

	var defs []string
	if _, err := os.Stat(filepath.Join(dir, definitionsFile)); err == nil {
		defs = append(defs, filepath.Join(dir, definitionsFile))
	}

	reg, err := schema.LoadRegistry("", defs...)
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, "mapping.*"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	cfg, _, err := mapping.LoadFile(matches[0], reg)
	require.NoError(t, err)

	return pipeline.New(mapper.New(cfg, mapper.WithValidation(true)), nil)
}

func exampleSources(t *testing.T, dir string) []string {
	t.Helper()

	if info, err := os.Stat(filepath.Join(dir, "traces")); err == nil && info.IsDir() {
		return []string{filepath.Join(dir, "traces")}
	}

	return []string{filepath.Join(dir, "trace.ndjson")}
}
