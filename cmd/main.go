package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	krl "github.com/Sylent-Sys/krl-data-scraper-w-analyze"
	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/config"
	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/downloader"
	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/model"
	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/parse"
	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/storage"
)

var rootCmd = &cobra.Command{
	Use:          "krl",
	Short:        "KRL schedule tool",
	Long:         "Scrapes and analyzes KRL commuter rail schedule data",
	SilenceUsage: true,
}

var (
	configPath string
	dbDir      string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml", "Config file")
	rootCmd.PersistentFlags().StringVarP(&dbDir, "db", "", "", "Directory for the scrape archive (blank for in-memory)")

	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(routeCmd)
}

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func openStorage() (storage.Storage, error) {
	if dbDir == "" {
		return storage.NewMemoryStorage(), nil
	}
	return storage.NewSQLiteStorage(storage.SQLiteConfig{OnDisk: true, Directory: dbDir})
}

func newManager(cfg *config.Config) (*krl.Manager, error) {
	s, err := openStorage()
	if err != nil {
		return nil, err
	}

	manager := krl.NewManager(s)
	if dbDir != "" {
		// Persist the HTTP cache next to the archive, so repeated
		// scrapes within the TTL don't refetch.
		d, err := downloader.NewFilesystem(filepath.Join(dbDir, "http_cache.json"))
		if err != nil {
			return nil, err
		}
		manager.Downloader = d
	}
	if cfg.API.BaseURL != "" {
		manager.BaseURL = cfg.API.BaseURL
	}
	manager.Timeout = cfg.API.Timeout()
	manager.Retries = cfg.API.Retries
	manager.Concurrency = cfg.API.Concurrency

	return manager, nil
}

// loadDataset reads a dataset from a CSV directory, or from the
// scrape archive when no directory is given.
func loadDataset(dir string, runID string) (*krl.Analysis, error) {
	ds, err := loadRecords(dir, runID)
	if err != nil {
		return nil, err
	}
	return krl.NewAnalysis(ds), nil
}

func loadRecords(dir string, runID string) (*model.Dataset, error) {
	if dir != "" {
		return parse.LoadDir(dir)
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	manager, err := newManager(cfg)
	if err != nil {
		return nil, err
	}
	return manager.LoadRun(runID)
}

func writeReportCSV(path string, rows interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(rows, f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
