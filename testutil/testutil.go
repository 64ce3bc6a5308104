package testutil

// Helpers for building datasets in tests.

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/model"
	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/parse"
)

// LoadDataset writes the given CSV file contents into a temp
// directory and loads it through parse.LoadDir. Pass "" to omit a
// file.
func LoadDataset(t testing.TB, stopsCSV, legsCSV, trainsCSV string) *model.Dataset {
	dir := t.TempDir()

	writeFile(t, dir, parse.StopsFile, stopsCSV)
	writeFile(t, dir, parse.LegsFile, legsCSV)
	writeFile(t, dir, parse.TrainsFile, trainsCSV)

	ds, err := parse.LoadDir(dir)
	require.NoError(t, err)

	return ds
}

func writeFile(t testing.TB, dir, name, content string) {
	if content == "" {
		return
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

// Stop builds a stop record with its minute of day filled in from
// the wall clock time.
func Stop(trainID string, idx int, station, timeEst string) model.Stop {
	stop := model.Stop{
		TrainID:     trainID,
		StopIndex:   idx,
		StationName: station,
		StationKey:  model.NormalizeStation(station),
		TimeEst:     timeEst,
	}
	if min, ok := model.MinuteOfDay(timeEst); ok {
		stop.TimeEstMin = &min
	}
	return stop
}

// StopDataset builds a dataset from stop records, deriving legs.
func StopDataset(stops ...model.Stop) *model.Dataset {
	ds := &model.Dataset{
		Stops:  stops,
		Trains: map[string]model.TrainMeta{},
	}
	ds.Legs = parse.DeriveLegs(ds.Stops, ds.Trains)
	return ds
}

// Leg builds a leg record between two stations with the given
// duration. Pass a negative index pair freely; keys are normalized.
func Leg(trainID string, fromIdx int, from, to string, minutes *float64) model.Leg {
	return model.Leg{
		TrainID:     trainID,
		FromIndex:   fromIdx,
		FromStation: from,
		FromKey:     model.NormalizeStation(from),
		ToIndex:     fromIdx + 1,
		ToStation:   to,
		ToKey:       model.NormalizeStation(to),
		Minutes:     minutes,
	}
}

// Minutes is a convenience for pointer durations in test tables.
func Minutes(v float64) *float64 {
	return &v
}
