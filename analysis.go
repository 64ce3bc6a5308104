package krl

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/model"
)

// Returned when an operation is invoked without a required parameter
// (compare without a start station, routing without its datasets).
var ErrMissingParam = errors.New("missing required parameter")

// Analysis wraps one loaded dataset and answers the statistics
// queries over it. All computation is synchronous and in-memory;
// ingestion happens before an Analysis is built.
type Analysis struct {
	ds *model.Dataset
}

func NewAnalysis(ds *model.Dataset) *Analysis {
	return &Analysis{ds: ds}
}

// One row of the legs_by_train listing. Seq is the 0-based position
// of the leg within its train.
type TrainLegRow struct {
	TrainID     string   `csv:"train_id"`
	Seq         int      `csv:"seq"`
	FromStation string   `csv:"from_station"`
	ToStation   string   `csv:"to_station"`
	LegMinutes  *float64 `csv:"leg_minutes"`
	KaName      string   `csv:"ka_name"`
	RouteName   string   `csv:"route_name"`
	Color       string   `csv:"color"`
}

// LegsByTrain lists every leg grouped by train (IDs sorted) and
// ordered by sequence within each train.
func (a *Analysis) LegsByTrain() []TrainLegRow {
	byTrain := a.legsByTrain()

	trainIDs := make([]string, 0, len(byTrain))
	for trainID := range byTrain {
		trainIDs = append(trainIDs, trainID)
	}
	sort.Strings(trainIDs)

	rows := []TrainLegRow{}
	for _, trainID := range trainIDs {
		for seq, leg := range byTrain[trainID] {
			rows = append(rows, TrainLegRow{
				TrainID:     trainID,
				Seq:         seq,
				FromStation: leg.FromStation,
				ToStation:   leg.ToStation,
				LegMinutes:  leg.Minutes,
				KaName:      leg.KaName,
				RouteName:   leg.RouteName,
				Color:       leg.Color,
			})
		}
	}

	return rows
}

// SegmentStats folds all legs into per-(origin, destination)
// statistics. Count, min, max and mean cover only legs with a known
// duration. Rows are ordered by mean descending (nil ordered as 0) so
// the worst segments come first.
func (a *Analysis) SegmentStats() []model.SegmentStat {
	type segment struct {
		from, to string
		samples  []float64
	}

	segments := map[string]*segment{}
	keys := []string{}
	for _, leg := range a.ds.Legs {
		key := leg.FromKey + "||" + leg.ToKey
		seg, ok := segments[key]
		if !ok {
			seg = &segment{from: leg.FromStation, to: leg.ToStation}
			segments[key] = seg
			keys = append(keys, key)
		}
		if leg.Minutes != nil {
			seg.samples = append(seg.samples, *leg.Minutes)
		}
	}
	sort.Strings(keys)

	stats := []model.SegmentStat{}
	for _, key := range keys {
		seg := segments[key]
		stat := model.SegmentStat{
			FromStation: seg.from,
			ToStation:   seg.to,
			Count:       len(seg.samples),
		}
		if len(seg.samples) > 0 {
			min, max, sum := seg.samples[0], seg.samples[0], 0.0
			for _, v := range seg.samples {
				if v < min {
					min = v
				}
				if v > max {
					max = v
				}
				sum += v
			}
			mean := round2(sum / float64(len(seg.samples)))
			stat.Min = &min
			stat.Max = &max
			stat.Mean = &mean
		}
		stats = append(stats, stat)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return meanOrZero(stats[i].Mean) > meanOrZero(stats[j].Mean)
	})

	return stats
}

// legsByTrain groups the dataset's legs by train ID, each group
// ordered by from_index.
func (a *Analysis) legsByTrain() map[string][]model.Leg {
	byTrain := map[string][]model.Leg{}
	for _, leg := range a.ds.Legs {
		byTrain[leg.TrainID] = append(byTrain[leg.TrainID], leg)
	}
	for _, legs := range byTrain {
		legs := legs
		sort.SliceStable(legs, func(i, j int) bool {
			return legs[i].FromIndex < legs[j].FromIndex
		})
	}
	return byTrain
}

func meanOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
