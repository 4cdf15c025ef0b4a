// Package tlc runs the TLC model checker on a TLA+ trace specification.
// The trace to validate is handed over through the TRACE_PATH environment
// variable, which trace specifications read with IOEnv.
package tlc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// TracePathEnv is the variable trace specifications read the trace from.
const TracePathEnv = "TRACE_PATH"

// Config describes how TLC is launched.
type Config struct {
	Java      string   `env:"TLC_JAVA" envDefault:"java"`
	Classpath []string `env:"TLC_CLASSPATH" envSeparator:":" envDefault:"tla2tools.jar:CommunityModules-deps.jar"`
	JVMFlags  []string `env:"TLC_JVM_FLAGS" envSeparator:" " envDefault:"-XX:+UseParallelGC"`
	MainClass string   `env:"TLC_MAIN_CLASS" envDefault:"tlc2.TLC"`
	// Args are passed to TLC before the specification, e.g. -workers auto.
	Args []string `env:"TLC_ARGS" envSeparator:" "`
}

// Runner launches TLC.
type Runner struct {
	cfg    Config
	log    *zap.Logger
	stdout io.Writer
	stderr io.Writer
}

// NewRunner returns a Runner writing TLC's output to stdout and stderr.
func NewRunner(cfg Config, log *zap.Logger, stdout, stderr io.Writer) *Runner {
	if log == nil {
		log = zap.NewNop()
	}

	return &Runner{cfg: cfg, log: log, stdout: stdout, stderr: stderr}
}

// Args returns the java command line for spec, without the executable.
func (r *Runner) Args(spec string) []string {
	args := append([]string(nil), r.cfg.JVMFlags...)

	if len(r.cfg.Classpath) > 0 {
		args = append(args, "-cp", strings.Join(r.cfg.Classpath, string(os.PathListSeparator)))
	}

	args = append(args, r.cfg.MainClass)
	args = append(args, r.cfg.Args...)

	return append(args, spec)
}

// Command builds the TLC process. tracePath, when set, is exported as
// TRACE_PATH.
func (r *Runner) Command(ctx context.Context, spec, tracePath string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, r.cfg.Java, r.Args(spec)...)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	cmd.Env = os.Environ()

	if tracePath != "" {
		cmd.Env = append(cmd.Env, TracePathEnv+"="+tracePath)
	}

	return cmd
}

// Run validates the trace at tracePath against spec. A trace that does not
// satisfy the specification makes TLC exit non-zero, reported as an error
// wrapping *exec.ExitError.
func (r *Runner) Run(ctx context.Context, spec, tracePath string) error {
	if spec == "" {
		return errors.New("trace specification path is required")
	}

	cmd := r.Command(ctx, spec, tracePath)

	r.log.Info("running TLC",
		zap.String("spec", spec),
		zap.String("trace", tracePath),
		zap.Strings("args", cmd.Args),
	)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("tlc on %s: %w", spec, err)
	}

	r.log.Info("trace validated", zap.String("spec", spec))

	return nil
}
