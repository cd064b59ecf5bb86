package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpggio/calmmind/internal/admin"
	"github.com/rpggio/calmmind/internal/dashboard"
)

func newReportCmd() *cobra.Command {
	var (
		start, end string
		outPath    string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the per-student admin report as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			rng, err := dashboard.ParseRange(start, end, "", a.dashboard.Now())
			if err != nil {
				return err
			}
			rows, err := a.dashboard.Reports(cmd.Context(), rng)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create report: %w", err)
				}
				defer f.Close()
				out = f
			}
			if err := admin.WriteReportsCSV(out, rows); err != nil {
				return err
			}
			a.logger.Info("report written", "rows", len(rows), "start", rng.Start, "end", rng.End)
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "range end (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write to file instead of stdout")
	return cmd
}
