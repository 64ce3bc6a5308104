package parse

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/spkg/bom"

	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/model"
)

// Dataset file names inside an exported directory.
const (
	StopsFile  = "stops.csv"
	LegsFile   = "legs.csv"
	TrainsFile = "trains.csv"
)

// Returned when a directory holds neither a stop nor a leg dataset.
var ErrDataNotFound = errors.New("no stop or leg dataset found")

// LoadDir reads a dataset directory. A legs file is used as-is when
// present; otherwise legs are derived from consecutive stops of each
// train. The trains file is optional and only contributes display
// metadata.
func LoadDir(dir string) (*model.Dataset, error) {
	// LazyCSVReader required (at least) to survive sloppy use of
	// quotes. The BOM reader strips unicode BOMs if present.
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		return gocsv.LazyCSVReader(bom.NewReader(in))
	})

	ds := &model.Dataset{Trains: map[string]model.TrainMeta{}}

	if f, err := os.Open(filepath.Join(dir, TrainsFile)); err == nil {
		ds.Trains, err = ParseTrains(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", TrainsFile, err)
		}
	}

	haveStops := false
	if f, err := os.Open(filepath.Join(dir, StopsFile)); err == nil {
		ds.Stops, err = ParseStops(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", StopsFile, err)
		}
		haveStops = true
	}

	haveLegs := false
	if f, err := os.Open(filepath.Join(dir, LegsFile)); err == nil {
		ds.Legs, err = ParseLegs(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", LegsFile, err)
		}
		haveLegs = true
	}

	if !haveStops && !haveLegs {
		return nil, errors.Wrapf(ErrDataNotFound, "loading %s", dir)
	}

	if !haveLegs {
		ds.Legs = DeriveLegs(ds.Stops, ds.Trains)
	}

	return ds, nil
}
