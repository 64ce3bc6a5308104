package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Lists legs by train and per-segment duration statistics",
	RunE:  analyze,
}

var (
	analyzeDir string
	analyzeRun string
	analyzeCSV string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeDir, "dir", "d", "", "Dataset CSV directory")
	analyzeCmd.Flags().StringVarP(&analyzeRun, "run", "r", "", "Scrape run ID (defaults to most recent)")
	analyzeCmd.Flags().StringVarP(&analyzeCSV, "csv", "", "", "Write results to this directory as CSV")
}

func analyze(cmd *cobra.Command, args []string) error {
	analysis, err := loadDataset(analyzeDir, analyzeRun)
	if err != nil {
		return err
	}

	legs := analysis.LegsByTrain()
	stats := analysis.SegmentStats()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "from\tto\tcount\tmin\tmax\tavg")
	for _, stat := range stats {
		fmt.Fprintf(
			w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			stat.FromStation, stat.ToStation, stat.Count,
			formatMin(stat.Min), formatMin(stat.Max), formatMin(stat.Mean),
		)
	}
	w.Flush()

	if analyzeCSV != "" {
		if err := writeReportCSV(filepath.Join(analyzeCSV, "legs_by_train.csv"), &legs); err != nil {
			return err
		}
		if err := writeReportCSV(filepath.Join(analyzeCSV, "segment_stats.csv"), &stats); err != nil {
			return err
		}
	}

	return nil
}

func formatMin(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
