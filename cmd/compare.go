package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	krl "github.com/Sylent-Sys/krl-data-scraper-w-analyze"
	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/parse"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compares per-segment means between two datasets along a route",
	RunE:  compare,
}

var (
	compareDirA string
	compareDirB string
	compareFrom string
)

func init() {
	compareCmd.Flags().StringVarP(&compareDirA, "dir-a", "a", "", "First dataset directory")
	compareCmd.Flags().StringVarP(&compareDirB, "dir-b", "b", "", "Second dataset directory")
	compareCmd.Flags().StringVarP(&compareFrom, "from", "f", "", "Start station")
}

func compare(cmd *cobra.Command, args []string) error {
	if compareDirA == "" || compareDirB == "" {
		return fmt.Errorf("both --dir-a and --dir-b are required")
	}

	dsA, err := parse.LoadDir(compareDirA)
	if err != nil {
		return err
	}
	dsB, err := parse.LoadDir(compareDirB)
	if err != nil {
		return err
	}

	comparisons, err := krl.Compare(compareFrom, krl.NewAnalysis(dsA), krl.NewAnalysis(dsB))
	if err != nil {
		return err
	}

	for _, c := range comparisons {
		fmt.Printf("to %s:\n", c.Destination)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "segment\tavg_a\tavg_b")
		for i, label := range c.Labels {
			fmt.Fprintf(w, "%s\t%s\t%s\n", label, formatMin(c.MeansA[i]), formatMin(c.MeansB[i]))
		}
		w.Flush()
		fmt.Println()
	}

	return nil
}
