package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	krl "github.com/Sylent-Sys/krl-data-scraper-w-analyze"
	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/parse"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetches schedule data and archives it as a run",
	RunE:  scrape,
}

var (
	scrapeStations []string
	scrapeTimeFrom string
	scrapeTimeTo   string
	scrapeOut      string
)

func init() {
	scrapeCmd.Flags().StringSliceVarP(&scrapeStations, "stations", "s", []string{}, "Stations to query (defaults to config)")
	scrapeCmd.Flags().StringVarP(&scrapeTimeFrom, "time-from", "", "", "Schedule window start (HH:MM)")
	scrapeCmd.Flags().StringVarP(&scrapeTimeTo, "time-to", "", "", "Schedule window end (HH:MM)")
	scrapeCmd.Flags().StringVarP(&scrapeOut, "out", "o", "", "Export the run to this CSV directory")
}

func scrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	manager, err := newManager(cfg)
	if err != nil {
		return err
	}

	req := krl.ScrapeRequest{
		Stations: scrapeStations,
		TimeFrom: scrapeTimeFrom,
		TimeTo:   scrapeTimeTo,
	}
	if len(req.Stations) == 0 {
		req.Stations = cfg.Scrape.Stations
	}
	if req.TimeFrom == "" {
		req.TimeFrom = cfg.Scrape.TimeFrom
	}
	if req.TimeTo == "" {
		req.TimeTo = cfg.Scrape.TimeTo
	}

	metadata, err := manager.Scrape(context.Background(), req)
	if err != nil {
		return err
	}

	log.Printf(
		"run %s: %d stations, %d trains, %d stops",
		metadata.ID, metadata.Stations, metadata.TrainCount, metadata.StopCount,
	)

	if scrapeOut != "" {
		ds, err := manager.LoadRun(metadata.ID)
		if err != nil {
			return err
		}
		if err := parse.WriteDir(scrapeOut, ds); err != nil {
			return err
		}
		log.Printf("exported to %s", scrapeOut)
	}

	return nil
}
