package cli

import (
	"io"

	"github.com/spf13/cobra"

	"trace-mapper/internal/trace"
)

func (a *app) newMapCmd() *cobra.Command {
	var (
		flags  mappingFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "map <trace.ndjson|->",
		Short: "Retag the events of a trace with a mapping configuration",
		Long: "Maps every event of an NDJSON trace through the mapping configuration and\n" +
			"writes the mapped events, one per line, in input order. The first failing\n" +
			"event aborts the run.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadMapper(&flags)
			if err != nil {
				return err
			}

			in, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			events, err := trace.Read(in)
			if err != nil {
				return err
			}

			mapped, err := m.MapAll(cmd.Context(), events, flags.workers)
			if err != nil {
				return err
			}

			return writeOutput(cmd, output, func(w io.Writer) error {
				return trace.Write(w, mapped)
			})
		},
	}

	a.addMappingFlags(cmd, &flags)
	cmd.Flags().StringVarP(&output, "output", "o", stdio, "Output file")

	return cmd
}
