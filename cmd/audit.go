package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/model"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Runs data quality checks over a dataset",
	RunE:  audit,
}

var (
	auditDir string
	auditRun string
	auditCSV string
)

func init() {
	auditCmd.Flags().StringVarP(&auditDir, "dir", "d", "", "Dataset CSV directory")
	auditCmd.Flags().StringVarP(&auditRun, "run", "r", "", "Scrape run ID (defaults to most recent)")
	auditCmd.Flags().StringVarP(&auditCSV, "csv", "", "", "Write results to this directory as CSV")
}

func audit(cmd *cobra.Command, args []string) error {
	analysis, err := loadDataset(auditDir, auditRun)
	if err != nil {
		return err
	}

	report := analysis.Audit()

	fmt.Printf("total_legs:     %d\n", report.Summary.TotalLegs)
	fmt.Printf("null_legs:      %d\n", report.Summary.NullLegs)
	fmt.Printf("negative_legs:  %d\n", report.Summary.NegativeLegs)
	fmt.Printf("over60min_legs: %d\n", report.Summary.Over60MinLegs)
	fmt.Printf("outlier_count:  %d\n", report.Summary.OutlierCount)

	for _, outlier := range report.Outliers {
		fmt.Printf("outlier: %s %.2f\n", outlier.Segment, outlier.Value)
	}

	for _, c := range report.Continuity {
		if c.Breaks > 0 {
			fmt.Printf("continuity: %s has %d breaks\n", c.TrainID, c.Breaks)
		}
	}

	if auditCSV != "" {
		summary := []model.AuditSummary{report.Summary}
		if err := writeReportCSV(filepath.Join(auditCSV, "audit.csv"), &summary); err != nil {
			return err
		}
		if err := writeReportCSV(filepath.Join(auditCSV, "outliers.csv"), &report.Outliers); err != nil {
			return err
		}
		if err := writeReportCSV(filepath.Join(auditCSV, "train_continuity.csv"), &report.Continuity); err != nil {
			return err
		}
	}

	return nil
}
