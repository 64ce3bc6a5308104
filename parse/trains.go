package parse

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/model"
)

type TrainCSV struct {
	QueryStation string `csv:"query_station"`
	TimeFrom     string `csv:"time_from"`
	TimeTo       string `csv:"time_to"`
	TrainID      string `csv:"train_id"`
	KaName       string `csv:"ka_name"`
	RouteName    string `csv:"route_name"`
	Dest         string `csv:"dest"`
	Color        string `csv:"color"`
	TimeEst      string `csv:"time_est"`
	DestTime     string `csv:"dest_time"`
}

// ParseTrains reads train display metadata. A train queried from
// several stations appears once per query; the first row wins.
func ParseTrains(data io.Reader) (map[string]model.TrainMeta, error) {
	trains := map[string]model.TrainMeta{}

	i := -1
	err := gocsv.UnmarshalToCallbackWithError(data, func(row *TrainCSV) error {
		i += 1
		if row.TrainID == "" {
			return fmt.Errorf("missing train_id (row %d)", i+1)
		}

		if _, seen := trains[row.TrainID]; seen {
			return nil
		}

		trains[row.TrainID] = model.TrainMeta{
			TrainID:      row.TrainID,
			KaName:       row.KaName,
			RouteName:    row.RouteName,
			Dest:         row.Dest,
			DestKey:      model.NormalizeStation(row.Dest),
			Color:        row.Color,
			TimeEst:      row.TimeEst,
			DestTime:     row.DestTime,
			QueryStation: row.QueryStation,
			TimeFrom:     row.TimeFrom,
			TimeTo:       row.TimeTo,
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "unmarshaling trains csv")
	}

	return trains, nil
}
