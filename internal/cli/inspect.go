package cli

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"trace-mapper/internal/template"
)

func (a *app) newInspectCmd() *cobra.Command {
	var (
		flags mappingFlags
		dump  bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Check a mapping configuration and list what it maps",
		Long: "Compiles the mapping configuration, reports every problem found and lists the\n" +
			"mapped var/op pairs. With --dump the compiled templates are printed too.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, diags, err := a.loadConfig(&flags)
			if diags != nil {
				for _, d := range diags.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", d)
				}

				for _, d := range diags.Warnings {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", d)
				}
			}

			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			for _, v := range cfg.Vars() {
				for _, op := range v.Functions {
					fmt.Fprintf(out, "%s.%s -> %s.%s (%s", v.Source, op.Source, v.Name, op.Name, op.MapArgs.Kind())

					if op.InputSchema != nil {
						fmt.Fprint(out, ", input_schema")
					}

					if op.OutputSchema != nil {
						fmt.Fprint(out, ", output_schema")
					}

					fmt.Fprintln(out, ")")

					if dump {
						dumpTemplate(cmd, op.MapArgs)
					}
				}
			}

			return nil
		},
	}

	a.addMappingFlags(cmd, &flags)
	cmd.Flags().BoolVar(&dump, "dump", false, "Print the compiled templates")

	return cmd
}

func dumpTemplate(cmd *cobra.Command, n template.Node) {
	cs := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
		MaxDepth:                12,
	}

	cs.Fdump(cmd.OutOrStdout(), n)
}
