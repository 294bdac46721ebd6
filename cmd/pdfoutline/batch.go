package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-outline/internal/batch"
	"github.com/thywilljoshua/pdf-outline/internal/metrics"
)

func batchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <in-dir> <out-dir>",
		Short: "Write <name>.json into out-dir for every PDF in in-dir",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := metrics.New()
			conf, closeFn, err := a.convertConfig(cmd.Context(), m)
			if err != nil {
				return err
			}
			defer closeFn()

			rep, err := batch.Process(cmd.Context(), args[0], args[1], batch.Options{
				Workers:     a.cfg.Batch.Workers,
				Timeout:     a.cfg.Batch.Timeout,
				MetricsFile: a.cfg.Metrics.Textfile,
				Convert:     conf,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d written (%d from cache), %d failed\n",
				rep.RunID, rep.Processed, rep.Cached, len(rep.Failed))
			for _, f := range rep.Failed {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %v\n", f.Path, f.Err)
			}
			return nil
		},
	}
	cmd.Flags().Int("workers", 4, "documents processed in parallel")
	cmd.Flags().Duration("timeout", 0, "per-document time limit, 0 for none")
	cmd.Flags().String("metrics-file", "", "write Prometheus text metrics here after the run")
	a.bind("batch.workers", cmd.Flags().Lookup("workers"))
	a.bind("batch.timeout", cmd.Flags().Lookup("timeout"))
	a.bind("metrics.textfile", cmd.Flags().Lookup("metrics-file"))
	return cmd
}
