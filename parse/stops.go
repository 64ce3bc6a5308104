package parse

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/model"
)

type StopCSV struct {
	TrainID        string `csv:"train_id"`
	StopIndex      string `csv:"stop_index"`
	StationName    string `csv:"station_name"`
	TimeEst        string `csv:"time_est"`
	TimeEstMin     string `csv:"time_est_min"`
	TransitStation string `csv:"transit_station"`
	TransitColors  string `csv:"transit_colors"`
	KaName         string `csv:"ka_name"`
	RouteName      string `csv:"route_name"`
	Color          string `csv:"color"`
	QueryStation   string `csv:"query_station"`
	HeaderStation  string `csv:"header_station"`
}

// ParseStops reads a stops dataset. Malformed numeric fields degrade
// to zero/nil rather than failing the load; a blank train_id is the
// only fatal condition.
func ParseStops(data io.Reader) ([]model.Stop, error) {
	stops := []model.Stop{}

	i := -1
	err := gocsv.UnmarshalToCallbackWithError(data, func(row *StopCSV) error {
		i += 1
		if row.TrainID == "" {
			return fmt.Errorf("missing train_id (row %d)", i+1)
		}

		stop := model.Stop{
			TrainID:       row.TrainID,
			StopIndex:     intOrZero(row.StopIndex),
			StationName:   row.StationName,
			StationKey:    model.NormalizeStation(row.StationName),
			TimeEst:       row.TimeEst,
			KaName:        row.KaName,
			RouteName:     row.RouteName,
			Color:         row.Color,
			QueryStation:  row.QueryStation,
			HeaderStation: row.HeaderStation,
		}

		if b, err := strconv.ParseBool(row.TransitStation); err == nil {
			stop.TransitStation = b
		}
		if row.TransitColors != "" {
			stop.TransitColors = strings.Split(row.TransitColors, "|")
		}

		// Minutes come from the wall clock time when it parses,
		// falling back to the precomputed column. A fallback value
		// outside [0, 1440) is as unknown as an unparsable one.
		if min, ok := model.MinuteOfDay(row.TimeEst); ok {
			stop.TimeEstMin = &min
		} else if min, err := strconv.ParseFloat(row.TimeEstMin, 64); err == nil && min >= 0 && min < 1440 {
			stop.TimeEstMin = &min
		}

		stops = append(stops, stop)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "unmarshaling stops csv")
	}

	return stops, nil
}

func intOrZero(s string) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return i
}

func floatOrNil(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}
