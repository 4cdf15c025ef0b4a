// Package cli implements the trace-mapper command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trace-mapper/internal/config"
	"trace-mapper/internal/diagnostic"
	"trace-mapper/internal/logging"
)

// Exit codes.
const (
	exitFailure = 1
	exitConfig  = 78 // EX_CONFIG
)

const serviceName = "trace-mapper"

// app is the state shared by the commands of one invocation.
type app struct {
	env config.Config
	log *zap.Logger

	logLevel  string
	logFormat string
}

// NewRootCmd builds the command tree. Defaults come from env; flags
// override them.
func NewRootCmd(env config.Config) *cobra.Command {
	a := &app{env: env, log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "trace-mapper",
		Short: "Map recorded traces to the vocabulary of a TLA+ trace specification",
		Long: "Merges NDJSON trace files, retags every event's var, op and args with a\n" +
			"declarative mapping configuration and converts the result into the records\n" +
			"read by a TLA+ trace specification, optionally validating it with TLC.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(logging.Config{
				Level:       a.logLevel,
				Format:      a.logFormat,
				ServiceName: serviceName,
			})
			if err != nil {
				return &diagnostic.ConfigError{Reason: "invalid logging flags", Err: err}
			}

			a.log = log

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", env.LogLevel, "Log level (debug|info|warning|error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", env.LogFormat, "Log format (console|json)")

	root.AddCommand(
		a.newMapCmd(),
		a.newMergeCmd(),
		a.newConvertCmd(),
		a.newPipelineCmd(),
		a.newValidateCmd(),
		a.newInspectCmd(),
		newVersionCmd(),
	)

	return root
}

// Execute runs the command line and exits non-zero on failure.
// Configuration problems exit with EX_CONFIG.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	env, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitConfig
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd(env)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}

	return 0
}

func exitCode(err error) int {
	var cfgErr *diagnostic.ConfigError
	if errors.As(err, &cfgErr) {
		return exitConfig
	}

	return exitFailure
}
