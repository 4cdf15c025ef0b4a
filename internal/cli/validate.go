package cli

import (
	"github.com/spf13/cobra"

	"trace-mapper/internal/tlc"
)

func (a *app) newValidateCmd() *cobra.Command {
	cfg := a.env.TLC

	cmd := &cobra.Command{
		Use:   "validate <spec.tla> [trace-tla.ndjson]",
		Short: "Check a converted trace against a TLA+ trace specification with TLC",
		Long: "Runs TLC on the trace specification. The trace, when given, is exported as\n" +
			"TRACE_PATH. Fails when TLC reports that the trace is not a behavior of the\n" +
			"specification.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracePath := ""
			if len(args) == 2 {
				tracePath = args[1]
			}

			r := tlc.NewRunner(cfg, a.log, cmd.OutOrStdout(), cmd.ErrOrStderr())

			return r.Run(cmd.Context(), args[0], tracePath)
		},
	}

	cmd.Flags().StringVar(&cfg.Java, "java", cfg.Java, "Java executable")
	cmd.Flags().StringSliceVar(&cfg.Classpath, "classpath", cfg.Classpath, "Jars holding TLC and its community modules")
	cmd.Flags().StringSliceVar(&cfg.JVMFlags, "jvm-flag", cfg.JVMFlags, "JVM flags")
	cmd.Flags().StringSliceVar(&cfg.Args, "tlc-arg", cfg.Args, "Extra TLC arguments")

	return cmd
}
