package cli

import (
	"io"

	"github.com/spf13/cobra"

	"trace-mapper/internal/reshape"
	"trace-mapper/internal/trace"
)

func (a *app) newConvertCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert <mapped.ndjson|->",
		Short: "Convert mapped events into TLA+ trace records",
		Long: "Groups mapped events by clock and sender, orders the groups by clock and\n" +
			"writes one record per group, keyed by var, after a {\"__config\": {}} header.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			events, err := trace.Read(in)
			if err != nil {
				return err
			}

			return writeOutput(cmd, output, func(w io.Writer) error {
				return trace.Write(w, reshape.Convert(events))
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", stdio, "Output file")

	return cmd
}
