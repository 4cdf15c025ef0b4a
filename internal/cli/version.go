package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"trace-mapper/internal/expression"
	"trace-mapper/internal/template"
)

const version = "0.3.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := map[string]any{
				"name":       serviceName,
				"version":    version,
				"directives": template.Directives(),
				"functions":  expression.FunctionNames(),
			}

			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			return nil
		},
	}
}
