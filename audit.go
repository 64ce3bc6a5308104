package krl

import (
	"math"
	"sort"

	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/model"
)

const (
	// Legs longer than this are counted as suspiciously long.
	over60Threshold = 60

	// Outliers are only reported for segments with at least this
	// many known durations.
	outlierMinSamples = 5

	// Absolute z-score at which a duration counts as an outlier.
	outlierZScore = 3
)

// Full result of a quality audit over one dataset.
type AuditReport struct {
	Summary    model.AuditSummary
	Outliers   []model.Outlier
	Continuity []model.TrainContinuity
}

// Audit runs all quality checks in one batch: dataset-wide counters,
// per-segment statistical outliers, and per-train path continuity.
func (a *Analysis) Audit() AuditReport {
	report := AuditReport{}

	type segment struct {
		label   string
		samples []float64
	}
	segments := map[string]*segment{}
	keys := []string{}

	for _, leg := range a.ds.Legs {
		report.Summary.TotalLegs++
		if leg.Minutes == nil {
			report.Summary.NullLegs++
			continue
		}
		if *leg.Minutes < 0 {
			report.Summary.NegativeLegs++
		}
		if *leg.Minutes > over60Threshold {
			report.Summary.Over60MinLegs++
		}

		key := leg.FromKey + "||" + leg.ToKey
		seg, ok := segments[key]
		if !ok {
			seg = &segment{label: leg.FromStation + "->" + leg.ToStation}
			segments[key] = seg
			keys = append(keys, key)
		}
		seg.samples = append(seg.samples, *leg.Minutes)
	}
	sort.Strings(keys)

	report.Outliers = []model.Outlier{}
	for _, key := range keys {
		seg := segments[key]
		if len(seg.samples) < outlierMinSamples {
			// Too few samples for a meaningful z-score.
			continue
		}

		mean, std := populationStats(seg.samples)
		if std == 0 {
			continue
		}

		for _, v := range seg.samples {
			if math.Abs(v-mean)/std >= outlierZScore {
				report.Outliers = append(report.Outliers, model.Outlier{
					Segment: seg.label,
					Value:   round2(v),
				})
			}
		}
	}
	report.Summary.OutlierCount = len(report.Outliers)

	report.Continuity = a.continuity()

	return report
}

// continuity counts, per train, adjacent leg pairs where the path
// does not connect. Trains with one leg or none have zero breaks.
func (a *Analysis) continuity() []model.TrainContinuity {
	byTrain := a.legsByTrain()

	trainIDs := make([]string, 0, len(byTrain))
	for trainID := range byTrain {
		trainIDs = append(trainIDs, trainID)
	}
	sort.Strings(trainIDs)

	continuity := []model.TrainContinuity{}
	for _, trainID := range trainIDs {
		legs := byTrain[trainID]
		breaks := 0
		for i := 0; i+1 < len(legs); i++ {
			if legs[i].ToKey != legs[i+1].FromKey {
				breaks++
			}
		}
		continuity = append(continuity, model.TrainContinuity{
			TrainID: trainID,
			Breaks:  breaks,
		})
	}

	return continuity
}

// populationStats returns the population mean and standard deviation
// of the samples.
func populationStats(samples []float64) (float64, float64) {
	sum := 0.0
	for _, v := range samples {
		sum += v
	}
	mean := sum / float64(len(samples))

	sq := 0.0
	for _, v := range samples {
		d := v - mean
		sq += d * d
	}

	return mean, math.Sqrt(sq / float64(len(samples)))
}
