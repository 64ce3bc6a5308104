package parse

import (
	"math"
	"sort"

	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/model"
)

// DeriveLegs builds one leg per adjacent stop pair of each train,
// with stops ordered by stop_index. Durations wrap across midnight:
// (to - from) mod 1440, always in [0, 1439]. A pair with an unknown
// endpoint time yields a nil duration.
func DeriveLegs(stops []model.Stop, trains map[string]model.TrainMeta) []model.Leg {
	byTrain := map[string][]model.Stop{}
	trainIDs := []string{}
	for _, s := range stops {
		if _, seen := byTrain[s.TrainID]; !seen {
			trainIDs = append(trainIDs, s.TrainID)
		}
		byTrain[s.TrainID] = append(byTrain[s.TrainID], s)
	}
	sort.Strings(trainIDs)

	legs := []model.Leg{}
	for _, trainID := range trainIDs {
		seq := byTrain[trainID]
		sort.SliceStable(seq, func(i, j int) bool {
			return seq[i].StopIndex < seq[j].StopIndex
		})

		meta := trains[trainID]

		for i := 0; i+1 < len(seq); i++ {
			from, to := seq[i], seq[i+1]

			leg := model.Leg{
				TrainID:     trainID,
				FromIndex:   from.StopIndex,
				FromStation: from.StationName,
				FromKey:     from.StationKey,
				ToIndex:     to.StopIndex,
				ToStation:   to.StationName,
				ToKey:       to.StationKey,
				KaName:      from.KaName,
				RouteName:   from.RouteName,
				Color:       from.Color,
			}

			if leg.KaName == "" {
				leg.KaName = meta.KaName
			}
			if leg.RouteName == "" {
				leg.RouteName = meta.RouteName
			}
			if leg.Color == "" {
				leg.Color = meta.Color
			}

			if fromMin, ok := from.Minute(); ok {
				if toMin, ok := to.Minute(); ok {
					d := math.Mod(toMin-fromMin, 1440)
					if d < 0 {
						d += 1440
					}
					leg.Minutes = &d
				}
			}

			legs = append(legs, leg)
		}
	}

	return legs
}
