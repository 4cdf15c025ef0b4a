package cli

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trace-mapper/internal/trace"
)

func (a *app) newMergeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "merge <file|dir>...",
		Short: "Concatenate trace files",
		Long: "Concatenates NDJSON trace files in argument order. A directory stands for\n" +
			"its .ndjson files, sorted by name. Records are neither re-ordered nor\n" +
			"de-duplicated.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOutput(cmd, output, func(w io.Writer) error {
				n, err := trace.Merge(w, args)
				if err != nil {
					return err
				}

				a.log.Info("merged traces", zap.Int("records", n), zap.Strings("sources", args))

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", stdio, "Output file")

	return cmd
}
