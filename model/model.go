package model

import (
	"strconv"
	"strings"
)

// Holds all external facing record types for KRL schedule datasets.
//
// All records are values built once per load pass and never mutated
// afterwards.

// A single scheduled stop of a train.
type Stop struct {
	TrainID     string
	StopIndex   int
	StationName string

	// StationName folded to its canonical matching form. All
	// station comparisons in the engine go through this field.
	StationKey string

	// Scheduled wall clock time as HH:MM:SS.
	TimeEst string

	// TimeEst as minutes of day (0-1439). Nil if the time did not
	// parse.
	TimeEstMin *float64

	TransitStation bool
	TransitColors  []string

	KaName    string
	RouteName string
	Color     string

	QueryStation  string
	HeaderStation string
}

// Minute returns the stop's minute of day, if known.
func (s *Stop) Minute() (float64, bool) {
	if s.TimeEstMin == nil {
		return 0, false
	}
	return *s.TimeEstMin, true
}

// One directed hop of a train between two consecutive stops.
type Leg struct {
	TrainID     string
	FromIndex   int
	FromStation string
	FromKey     string
	ToIndex     int
	ToStation   string
	ToKey       string

	// Scheduled duration in minutes. Nil when either endpoint time
	// is unknown, or when the source dataset left it blank.
	Minutes *float64

	KaName    string
	RouteName string
	Color     string
}

// Display metadata for a train, keyed by train ID. Optional: a
// dataset without a trains file simply has no metadata and display
// fields stay empty.
type TrainMeta struct {
	TrainID      string
	KaName       string
	RouteName    string
	Dest         string
	DestKey      string
	Color        string
	TimeEst      string
	DestTime     string
	QueryStation string
	TimeFrom     string
	TimeTo       string
}

// A fully loaded dataset: stops, legs (read or derived) and optional
// train metadata.
type Dataset struct {
	Stops  []Stop
	Legs   []Leg
	Trains map[string]TrainMeta
}

// Aggregated duration statistics for one (origin, destination)
// station pair. Count is the number of legs with a known duration;
// Min/Max/Mean are nil when Count is zero.
type SegmentStat struct {
	FromStation string   `csv:"from_station"`
	ToStation   string   `csv:"to_station"`
	Count       int      `csv:"count"`
	Min         *float64 `csv:"min"`
	Max         *float64 `csv:"max"`
	Mean        *float64 `csv:"avg"`
}

// Dataset-wide quality counters.
type AuditSummary struct {
	TotalLegs     int `csv:"total_legs"`
	NullLegs      int `csv:"null_legs"`
	NegativeLegs  int `csv:"negative_legs"`
	Over60MinLegs int `csv:"over60min_legs"`
	OutlierCount  int `csv:"outlier_count"`
}

// A statistically anomalous leg duration within a segment.
type Outlier struct {
	Segment string  `csv:"segment"`
	Value   float64 `csv:"value"`
}

// Number of path breaks for one train: adjacent legs where the
// destination of one does not match the origin of the next.
type TrainContinuity struct {
	TrainID string `csv:"train_id"`
	Breaks  int    `csv:"breaks"`
}

// A single train passing via -> hub -> destination without a change
// of vehicle.
type ThroughResult struct {
	TrainID       string `csv:"train_id"`
	KaName        string `csv:"ka_name"`
	RouteName     string `csv:"route_name"`
	Color         string `csv:"color"`
	DepartViaTime string `csv:"depart_via_time"`
	HubTime       string `csv:"hub_time"`
	HubIndex      int    `csv:"hub_index"`
}

// A matched inbound/outbound connection across the hub. ArriveDest is
// empty when the outbound dataset has no time at the destination.
type TransferPair struct {
	InboundTrainID  string `csv:"inbound_train_id"`
	OutboundTrainID string `csv:"outbound_train_id"`
	DepartVia       string `csv:"depart_via"`
	ArriveHub       string `csv:"arrive_hub"`
	DepartHub       string `csv:"depart_hub"`
	WaitMin         int    `csv:"wait_min"`
	ArriveDest      string `csv:"arrive_dest"`

	InboundKaName     string `csv:"inbound_ka_name"`
	InboundRouteName  string `csv:"inbound_route_name"`
	InboundColor      string `csv:"inbound_color"`
	OutboundKaName    string `csv:"outbound_ka_name"`
	OutboundRouteName string `csv:"outbound_route_name"`
	OutboundColor     string `csv:"outbound_color"`
}

// NormalizeStation folds a station name to the form used for
// matching: lower case, trimmed, inner whitespace collapsed.
func NormalizeStation(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// MinuteOfDay converts an HH:MM:SS (or HH:MM) wall clock string to
// minutes of day. Seconds are validated but do not contribute.
func MinuteOfDay(hms string) (float64, bool) {
	parts := strings.Split(strings.TrimSpace(hms), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false
	}

	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil {
		return 0, false
	}
	if len(parts) == 3 {
		s, errS := strconv.Atoi(parts[2])
		if errS != nil || s < 0 || s > 59 {
			return 0, false
		}
	}

	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}

	return float64(h*60 + m), true
}
