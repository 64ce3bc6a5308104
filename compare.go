package krl

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/model"
)

// Aligned per-segment means for one destination reached from the
// start station in both datasets. MeansA/MeansB are index-aligned to
// Labels; a nil entry means the dataset has no samples for that hop.
type DestinationComparison struct {
	Destination string
	Labels      []string
	MeansA      []*float64
	MeansB      []*float64
}

// Compare extracts, for each train, the path from the start station
// to the train's recorded destination (or its last leg when metadata
// is absent), groups paths by terminal destination, and aligns
// per-hop mean durations between the two datasets. Only destinations
// reached in both datasets are reported.
func Compare(start string, a, b *Analysis) ([]DestinationComparison, error) {
	if start == "" {
		return nil, errors.Wrap(ErrMissingParam, "compare needs a start station")
	}

	startKey := model.NormalizeStation(start)
	pathsA, orderA := a.pathsFrom(startKey)
	pathsB, _ := b.pathsFrom(startKey)

	comparisons := []DestinationComparison{}
	for _, destKey := range orderA {
		groupA := pathsA[destKey]
		groupB, shared := pathsB[destKey]
		if !shared {
			continue
		}

		// Canonical label order: dataset A's first-seen labels,
		// then anything new from dataset B.
		labels := append([]string{}, groupA.labelOrder...)
		seen := map[string]bool{}
		for _, label := range labels {
			seen[label] = true
		}
		for _, label := range groupB.labelOrder {
			if !seen[label] {
				labels = append(labels, label)
				seen[label] = true
			}
		}

		comparisons = append(comparisons, DestinationComparison{
			Destination: groupA.dest,
			Labels:      labels,
			MeansA:      groupA.means(labels),
			MeansB:      groupB.means(labels),
		})
	}

	return comparisons, nil
}

type pathGroup struct {
	dest       string
	labelOrder []string
	samples    map[string][]float64
}

func (g *pathGroup) add(label string, minutes *float64) {
	if _, seen := g.samples[label]; !seen {
		g.labelOrder = append(g.labelOrder, label)
		g.samples[label] = nil
	}
	if minutes != nil {
		g.samples[label] = append(g.samples[label], *minutes)
	}
}

func (g *pathGroup) means(labels []string) []*float64 {
	out := make([]*float64, len(labels))
	for i, label := range labels {
		samples, ok := g.samples[label]
		if !ok || len(samples) == 0 {
			continue
		}
		sum := 0.0
		for _, v := range samples {
			sum += v
		}
		mean := round2(sum / float64(len(samples)))
		out[i] = &mean
	}
	return out
}

// pathsFrom collects per-train paths beginning at the start station,
// grouped by the path's terminal destination. The returned order
// lists destination keys by first appearance (train IDs sorted).
func (a *Analysis) pathsFrom(startKey string) (map[string]*pathGroup, []string) {
	byTrain := a.legsByTrain()

	trainIDs := make([]string, 0, len(byTrain))
	for trainID := range byTrain {
		trainIDs = append(trainIDs, trainID)
	}
	sort.Strings(trainIDs)

	groups := map[string]*pathGroup{}
	order := []string{}

	for _, trainID := range trainIDs {
		legs := byTrain[trainID]

		begin := -1
		for i, leg := range legs {
			if leg.FromKey == startKey {
				begin = i
				break
			}
		}
		if begin < 0 {
			continue
		}

		destKey := a.ds.Trains[trainID].DestKey

		path := []model.Leg{}
		for _, leg := range legs[begin:] {
			path = append(path, leg)
			if destKey != "" && leg.ToKey == destKey {
				break
			}
		}

		terminal := path[len(path)-1]
		group, ok := groups[terminal.ToKey]
		if !ok {
			group = &pathGroup{
				dest:    terminal.ToStation,
				samples: map[string][]float64{},
			}
			groups[terminal.ToKey] = group
			order = append(order, terminal.ToKey)
		}

		for _, leg := range path {
			group.add(leg.FromStation+"->"+leg.ToStation, leg.Minutes)
		}
	}

	return groups, order
}
