package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		level    string
		expected zapcore.Level
	}{
		{Debug, zapcore.DebugLevel},
		{Info, zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{Warning, zapcore.WarnLevel},
		{"WARN", zapcore.WarnLevel},
		{Error, zapcore.ErrorLevel},
	}

	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			got, err := ParseLevel(tc.level)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}

	_, err := ParseLevel("verbose")
	assert.ErrorContains(t, err, `unknown log level "verbose"`)
}

func TestNew_WritesJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "log.json")

	log, err := New(Config{Level: Info, ServiceName: "trace-mapper", OutputPaths: []string{out}})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("mapped events")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))

	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "mapped events", entry["msg"])
	assert.Equal(t, "trace-mapper", entry["service"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)

	_, err = New(Config{Format: "xml"})
	assert.ErrorContains(t, err, `unknown log format "xml"`)

	log, err := New(Config{Format: Console})
	require.NoError(t, err)
	assert.NotNil(t, log)
}
