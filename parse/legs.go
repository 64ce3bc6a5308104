package parse

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/model"
)

type LegCSV struct {
	TrainID     string `csv:"train_id"`
	FromIndex   string `csv:"from_index"`
	FromStation string `csv:"from_station"`
	ToIndex     string `csv:"to_index"`
	ToStation   string `csv:"to_station"`
	LegMinutes  string `csv:"leg_minutes"`
	KaName      string `csv:"ka_name"`
	RouteName   string `csv:"route_name"`
	Color       string `csv:"color"`
}

// ParseLegs reads a precomputed legs dataset. Blank or malformed
// leg_minutes become nil; downstream statistics exclude them instead
// of treating them as zero.
func ParseLegs(data io.Reader) ([]model.Leg, error) {
	legs := []model.Leg{}

	i := -1
	err := gocsv.UnmarshalToCallbackWithError(data, func(row *LegCSV) error {
		i += 1
		if row.TrainID == "" {
			return fmt.Errorf("missing train_id (row %d)", i+1)
		}

		legs = append(legs, model.Leg{
			TrainID:     row.TrainID,
			FromIndex:   intOrZero(row.FromIndex),
			FromStation: row.FromStation,
			FromKey:     model.NormalizeStation(row.FromStation),
			ToIndex:     intOrZero(row.ToIndex),
			ToStation:   row.ToStation,
			ToKey:       model.NormalizeStation(row.ToStation),
			Minutes:     floatOrNil(row.LegMinutes),
			KaName:      row.KaName,
			RouteName:   row.RouteName,
			Color:       row.Color,
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "unmarshaling legs csv")
	}

	return legs, nil
}
