package tlc

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHelperProcess stands in for java when the runner is pointed at the
// test binary.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("TLC_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}

	fmt.Printf("trace=%s args=%s\n", os.Getenv(TracePathEnv), strings.Join(args, " "))

	if strings.HasSuffix(args[len(args)-1], "Broken.tla") {
		fmt.Fprintln(os.Stderr, "Error: trace is not a behavior of the spec")
		os.Exit(12)
	}

	os.Exit(0)
}

func helperRunner(t *testing.T, stdout, stderr *bytes.Buffer) *Runner {
	t.Helper()
	t.Setenv("TLC_WANT_HELPER_PROCESS", "1")

	return NewRunner(Config{
		Java:      os.Args[0],
		JVMFlags:  []string{"-test.run=TestHelperProcess", "--"},
		MainClass: "tlc2.TLC",
	}, nil, stdout, stderr)
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	require.NoError(t, env.Parse(&cfg))

	assert.Equal(t, "java", cfg.Java)
	assert.Equal(t, []string{"tla2tools.jar", "CommunityModules-deps.jar"}, cfg.Classpath)
	assert.Equal(t, []string{"-XX:+UseParallelGC"}, cfg.JVMFlags)
	assert.Equal(t, "tlc2.TLC", cfg.MainClass)
}

func TestRunner_Args(t *testing.T) {
	r := NewRunner(Config{
		Java:      "java",
		Classpath: []string{"a.jar", "b.jar"},
		JVMFlags:  []string{"-Xmx2g"},
		MainClass: "tlc2.TLC",
		Args:      []string{"-workers", "auto"},
	}, nil, nil, nil)

	want := []string{"-Xmx2g", "-cp", "a.jar" + string(os.PathListSeparator) + "b.jar", "tlc2.TLC", "-workers", "auto", "Trace.tla"}
	assert.Equal(t, want, r.Args("Trace.tla"))

	cmd := r.Command(context.Background(), "Trace.tla", "trace-tla.ndjson")
	assert.Contains(t, cmd.Env, "TRACE_PATH=trace-tla.ndjson")
}

func TestRunner_Run(t *testing.T) {
	var stdout, stderr bytes.Buffer

	r := helperRunner(t, &stdout, &stderr)

	require.NoError(t, r.Run(context.Background(), "Trace.tla", "out/trace-tla.ndjson"))
	assert.Equal(t, "trace=out/trace-tla.ndjson args=tlc2.TLC Trace.tla\n", stdout.String())
}

func TestRunner_RunFailure(t *testing.T) {
	var stdout, stderr bytes.Buffer

	r := helperRunner(t, &stdout, &stderr)

	err := r.Run(context.Background(), "Broken.tla", "")
	require.Error(t, err)

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 12, exitErr.ExitCode())
	assert.Contains(t, stderr.String(), "not a behavior")

	assert.Error(t, r.Run(context.Background(), "", ""))
}
