package krl

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/model"
)

const minutesPerDay = 1440

// A contiguous span of one train's stops touching the hub: either
// via -> hub (inbound) or hub -> dest (outbound).
type hubLeg struct {
	trainID   string
	kaName    string
	routeName string
	color     string

	// Departure time at the span's first station.
	boardTime string

	// Time and minute-of-day at the hub: arrival for inbound
	// legs, departure for outbound legs.
	hubTime string
	hubMin  int

	// Outbound only: time at the destination station.
	destTime string
}

// MatchTransfers pairs every inbound arrival at the hub with its
// nearest feasible outbound departure. It is meant to run only when
// FindThrough came up empty. Waits are computed modulo one day, so a
// late arrival can connect to an early departure the next morning.
//
// Only the nearest same-day departure, its successor and the first
// departure of the day are considered; a sparse outbound set needing
// more than one day of wraparound is not modeled.
func MatchTransfers(pre, post *model.Dataset, q RouteQuery) ([]model.TransferPair, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	if pre == nil || post == nil {
		return nil, errors.Wrap(ErrMissingParam, "transfer matching needs both dataset directories")
	}

	viaKey := model.NormalizeStation(q.Via)
	hubKey := model.NormalizeStation(q.Hub)
	destKey := model.NormalizeStation(q.Dest)

	inbound := inboundLegs(pre, viaKey, hubKey)
	outbound := outboundLegs(post, hubKey, destKey)

	// Build-then-query: the outbound side must be fully sorted
	// before any search runs.
	sort.SliceStable(outbound, func(i, j int) bool {
		if outbound[i].hubMin != outbound[j].hubMin {
			return outbound[i].hubMin < outbound[j].hubMin
		}
		return outbound[i].trainID < outbound[j].trainID
	})

	pairs := []model.TransferPair{}
	for _, in := range inbound {
		out, wait, ok := nearestDeparture(outbound, in.hubMin, q.MaxWait)
		if !ok {
			continue
		}

		pairs = append(pairs, model.TransferPair{
			InboundTrainID:    in.trainID,
			OutboundTrainID:   out.trainID,
			DepartVia:         in.boardTime,
			ArriveHub:         in.hubTime,
			DepartHub:         out.hubTime,
			WaitMin:           wait,
			ArriveDest:        out.destTime,
			InboundKaName:     in.kaName,
			InboundRouteName:  in.routeName,
			InboundColor:      in.color,
			OutboundKaName:    out.kaName,
			OutboundRouteName: out.routeName,
			OutboundColor:     out.color,
		})
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		if q.OrderBy == OrderByDepart {
			if pairs[i].DepartVia != pairs[j].DepartVia {
				return pairs[i].DepartVia < pairs[j].DepartVia
			}
			return pairs[i].WaitMin < pairs[j].WaitMin
		}
		if pairs[i].WaitMin != pairs[j].WaitMin {
			return pairs[i].WaitMin < pairs[j].WaitMin
		}
		return pairs[i].DepartVia < pairs[j].DepartVia
	})

	if q.Desc {
		for i, j := 0, len(pairs)-1; i < j; i, j = i+1, j-1 {
			pairs[i], pairs[j] = pairs[j], pairs[i]
		}
	}
	if q.Limit > 0 && len(pairs) > q.Limit {
		pairs = pairs[:q.Limit]
	}

	return pairs, nil
}

// nearestDeparture picks the feasible departure with minimum wait
// after the given arrival minute. Candidates are the first departure
// at or after arrival, the one following it, and the earliest
// departure of the day (the wraparound case). maxWait < 0 means
// unbounded.
func nearestDeparture(outbound []hubLeg, arrival int, maxWait int) (hubLeg, int, bool) {
	if len(outbound) == 0 {
		return hubLeg{}, 0, false
	}

	floor := sort.Search(len(outbound), func(i int) bool {
		return outbound[i].hubMin >= arrival
	})

	candidates := []int{}
	if floor < len(outbound) {
		candidates = append(candidates, floor)
		if floor+1 < len(outbound) {
			candidates = append(candidates, floor+1)
		}
	}
	candidates = append(candidates, 0)

	best := -1
	bestWait := 0
	for _, c := range candidates {
		wait := circularWait(outbound[c].hubMin, arrival)
		if maxWait >= 0 && wait > maxWait {
			continue
		}
		if best < 0 || wait < bestWait {
			best = c
			bestWait = wait
		}
	}
	if best < 0 {
		return hubLeg{}, 0, false
	}

	return outbound[best], bestWait, true
}

// circularWait treats the day as circular: the wait from arrival to
// departure is (departure - arrival) mod 1440, never negative.
func circularWait(departure, arrival int) int {
	wait := (departure - arrival) % minutesPerDay
	if wait < 0 {
		wait += minutesPerDay
	}
	return wait
}

// inboundLegs extracts, per train of the pre-hub dataset, the span
// from the via stop to the hub stop. Trains whose hub time is
// unknown cannot be matched and are skipped.
func inboundLegs(ds *model.Dataset, viaKey, hubKey string) []hubLeg {
	byTrain := stopsByTrain(ds)

	legs := []hubLeg{}
	for _, trainID := range sortedTrainIDs(ds) {
		stops := byTrain[trainID]

		viaIdx := stationIndex(stops, viaKey)
		hubIdx := stationIndex(stops, hubKey)
		if viaIdx < 0 || hubIdx < 0 || viaIdx >= hubIdx {
			continue
		}

		hub := stops[hubIdx]
		hubMin, ok := hub.Minute()
		if !ok {
			continue
		}

		leg := hubLeg{
			trainID:   trainID,
			boardTime: stops[viaIdx].TimeEst,
			hubTime:   hub.TimeEst,
			hubMin:    int(hubMin),
		}
		fillHubLegMeta(&leg, stops[viaIdx], ds.Trains[trainID])
		legs = append(legs, leg)
	}

	return legs
}

// outboundLegs extracts, per train of the post-hub dataset, the span
// from the hub stop to the destination stop.
func outboundLegs(ds *model.Dataset, hubKey, destKey string) []hubLeg {
	byTrain := stopsByTrain(ds)

	legs := []hubLeg{}
	for _, trainID := range sortedTrainIDs(ds) {
		stops := byTrain[trainID]

		hubIdx := stationIndex(stops, hubKey)
		destIdx := stationIndex(stops, destKey)
		if hubIdx < 0 || destIdx < 0 || hubIdx >= destIdx {
			continue
		}

		hub := stops[hubIdx]
		hubMin, ok := hub.Minute()
		if !ok {
			continue
		}

		leg := hubLeg{
			trainID:   trainID,
			boardTime: hub.TimeEst,
			hubTime:   hub.TimeEst,
			hubMin:    int(hubMin),
			destTime:  stops[destIdx].TimeEst,
		}
		fillHubLegMeta(&leg, hub, ds.Trains[trainID])
		legs = append(legs, leg)
	}

	return legs
}

func fillHubLegMeta(leg *hubLeg, stop model.Stop, meta model.TrainMeta) {
	leg.kaName = stop.KaName
	leg.routeName = stop.RouteName
	leg.color = stop.Color
	if leg.kaName == "" {
		leg.kaName = meta.KaName
	}
	if leg.routeName == "" {
		leg.routeName = meta.RouteName
	}
	if leg.color == "" {
		leg.color = meta.Color
	}
}
