package parse

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/model"
)

// WriteDir exports a dataset to the flat CSV files LoadDir reads.
// Column order matches the CSV structs, so a written directory loads
// back identically.
func WriteDir(dir string, ds *model.Dataset) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	stops := make([]*StopCSV, 0, len(ds.Stops))
	for _, s := range ds.Stops {
		min := ""
		if s.TimeEstMin != nil {
			min = strconv.FormatFloat(*s.TimeEstMin, 'f', -1, 64)
		}
		stops = append(stops, &StopCSV{
			TrainID:        s.TrainID,
			StopIndex:      strconv.Itoa(s.StopIndex),
			StationName:    s.StationName,
			TimeEst:        s.TimeEst,
			TimeEstMin:     min,
			TransitStation: strconv.FormatBool(s.TransitStation),
			TransitColors:  strings.Join(s.TransitColors, "|"),
			KaName:         s.KaName,
			RouteName:      s.RouteName,
			Color:          s.Color,
			QueryStation:   s.QueryStation,
			HeaderStation:  s.HeaderStation,
		})
	}
	if err := writeCSV(filepath.Join(dir, StopsFile), &stops); err != nil {
		return err
	}

	legs := make([]*LegCSV, 0, len(ds.Legs))
	for _, l := range ds.Legs {
		min := ""
		if l.Minutes != nil {
			min = strconv.FormatFloat(*l.Minutes, 'f', -1, 64)
		}
		legs = append(legs, &LegCSV{
			TrainID:     l.TrainID,
			FromIndex:   strconv.Itoa(l.FromIndex),
			FromStation: l.FromStation,
			ToIndex:     strconv.Itoa(l.ToIndex),
			ToStation:   l.ToStation,
			LegMinutes:  min,
			KaName:      l.KaName,
			RouteName:   l.RouteName,
			Color:       l.Color,
		})
	}
	if err := writeCSV(filepath.Join(dir, LegsFile), &legs); err != nil {
		return err
	}

	trainIDs := make([]string, 0, len(ds.Trains))
	for trainID := range ds.Trains {
		trainIDs = append(trainIDs, trainID)
	}
	sort.Strings(trainIDs)

	trains := make([]*TrainCSV, 0, len(trainIDs))
	for _, trainID := range trainIDs {
		t := ds.Trains[trainID]
		trains = append(trains, &TrainCSV{
			QueryStation: t.QueryStation,
			TimeFrom:     t.TimeFrom,
			TimeTo:       t.TimeTo,
			TrainID:      t.TrainID,
			KaName:       t.KaName,
			RouteName:    t.RouteName,
			Dest:         t.Dest,
			Color:        t.Color,
			TimeEst:      t.TimeEst,
			DestTime:     t.DestTime,
		})
	}
	if err := writeCSV(filepath.Join(dir, TrainsFile), &trains); err != nil {
		return err
	}

	return nil
}

func writeCSV(path string, rows interface{}) error {
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
