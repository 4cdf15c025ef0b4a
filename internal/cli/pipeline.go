package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trace-mapper/internal/pipeline"
)

func (a *app) newPipelineCmd() *cobra.Command {
	var (
		flags    mappingFlags
		outDir   string
		watch    bool
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "pipeline <file|dir>...",
		Short: "Merge, map and convert traces in one go",
		Long: "Runs merge, map and convert, writing trace-merged.ndjson, trace-mapped.ndjson\n" +
			"and trace-tla.ndjson to the output directory. With --watch the pipeline runs\n" +
			"again whenever a source trace changes, until interrupted.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadMapper(&flags)
			if err != nil {
				return err
			}

			p := pipeline.New(m, a.log)
			opts := pipeline.Options{Sources: args, OutDir: outDir, Workers: flags.workers}

			if watch {
				return p.Watch(cmd.Context(), pipeline.WatchOptions{
					Options:  opts,
					Debounce: debounce,
					OnRun: func(res pipeline.Result, err error) {
						if err == nil {
							fmt.Fprintln(cmd.OutOrStdout(), res.TLA)
						}
					},
				})
			}

			res, err := p.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}

			a.log.Debug("pipeline outputs",
				zap.String("merged", res.Merged),
				zap.String("mapped", res.Mapped),
				zap.String("tla", res.TLA),
			)

			fmt.Fprintln(cmd.OutOrStdout(), res.TLA)

			return nil
		},
	}

	a.addMappingFlags(cmd, &flags)
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", a.env.OutDir, "Directory receiving the output traces")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-run when a source trace changes")
	cmd.Flags().DurationVar(&debounce, "debounce", pipeline.DefaultDebounce, "Quiet period before re-running in watch mode")

	return cmd
}
