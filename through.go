package krl

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/model"
)

// Parameters for the through/transfer queries. Hub is the
// interchange station; Via and Dest are the boarding and final
// stations. MaxWait < 0 means no wait bound. OrderBy is "wait" or
// "depart". Limit 0 means unlimited.
type RouteQuery struct {
	Hub     string
	Via     string
	Dest    string
	MaxWait int
	OrderBy string
	Desc    bool
	Limit   int
}

const (
	OrderByWait   = "wait"
	OrderByDepart = "depart"
)

func (q RouteQuery) validate() error {
	if q.Via == "" || q.Dest == "" {
		return errors.Wrap(ErrMissingParam, "routing needs via and destination stations")
	}
	if q.Hub == "" {
		return errors.Wrap(ErrMissingParam, "routing needs a hub station")
	}
	return nil
}

// FindThrough returns every train whose stop sequence passes the via
// station, then the hub strictly after it, then the destination
// strictly after the hub, without a change of vehicle. Results are
// ordered by departure time at the via station.
func FindThrough(ds *model.Dataset, q RouteQuery) ([]model.ThroughResult, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	viaKey := model.NormalizeStation(q.Via)
	hubKey := model.NormalizeStation(q.Hub)
	destKey := model.NormalizeStation(q.Dest)

	byTrain := stopsByTrain(ds)

	results := []model.ThroughResult{}
	for _, trainID := range sortedTrainIDs(ds) {
		stops := byTrain[trainID]

		viaIdx := stationIndex(stops, viaKey)
		if viaIdx < 0 {
			continue
		}
		hubIdx := stationIndex(stops, hubKey)
		if hubIdx < 0 || hubIdx <= viaIdx {
			continue
		}
		destIdx := stationIndex(stops, destKey)
		if destIdx <= hubIdx {
			continue
		}

		via, hub := stops[viaIdx], stops[hubIdx]
		result := model.ThroughResult{
			TrainID:       trainID,
			KaName:        via.KaName,
			RouteName:     via.RouteName,
			Color:         via.Color,
			DepartViaTime: via.TimeEst,
			HubTime:       hub.TimeEst,
			HubIndex:      hub.StopIndex,
		}
		fillTrainMeta(&result, ds.Trains[trainID])
		results = append(results, result)
	}

	// Zero-padded HH:MM:SS makes the string order the time order.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].DepartViaTime != results[j].DepartViaTime {
			return results[i].DepartViaTime < results[j].DepartViaTime
		}
		return results[i].TrainID < results[j].TrainID
	})

	if q.Desc {
		for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
			results[i], results[j] = results[j], results[i]
		}
	}
	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}

	return results, nil
}

func fillTrainMeta(r *model.ThroughResult, meta model.TrainMeta) {
	if r.KaName == "" {
		r.KaName = meta.KaName
	}
	if r.RouteName == "" {
		r.RouteName = meta.RouteName
	}
	if r.Color == "" {
		r.Color = meta.Color
	}
}

// stationIndex returns the position of the first stop at the given
// (normalized) station, or -1.
func stationIndex(stops []model.Stop, key string) int {
	for i, s := range stops {
		if s.StationKey == key {
			return i
		}
	}
	return -1
}

func stopsByTrain(ds *model.Dataset) map[string][]model.Stop {
	byTrain := map[string][]model.Stop{}
	for _, s := range ds.Stops {
		byTrain[s.TrainID] = append(byTrain[s.TrainID], s)
	}
	for _, stops := range byTrain {
		stops := stops
		sort.SliceStable(stops, func(i, j int) bool {
			return stops[i].StopIndex < stops[j].StopIndex
		})
	}
	return byTrain
}

func sortedTrainIDs(ds *model.Dataset) []string {
	seen := map[string]bool{}
	ids := []string{}
	for _, s := range ds.Stops {
		if !seen[s.TrainID] {
			seen[s.TrainID] = true
			ids = append(ids, s.TrainID)
		}
	}
	sort.Strings(ids)
	return ids
}
