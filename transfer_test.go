package krl_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	krl "github.com/Sylent-Sys/krl-data-scraper-w-analyze"
	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/model"
	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/testutil"
)

var transferQuery = krl.RouteQuery{
	Hub:     "Tanah Abang",
	Via:     "Palmerah",
	Dest:    "Sudirman",
	MaxWait: -1,
}

// inboundDS arrives at the hub at 07:20.
func inboundDS() *model.Dataset {
	return testutil.StopDataset(
		testutil.Stop("101", 0, "Palmerah", "07:00:00"),
		testutil.Stop("101", 1, "Tanah Abang", "07:20:00"),
	)
}

func outboundDS(trains ...[2]string) *model.Dataset {
	stops := []model.Stop{}
	for _, tr := range trains {
		id := tr[0]
		stops = append(stops,
			testutil.Stop(id, 0, "Tanah Abang", tr[1]),
			testutil.Stop(id, 1, "Sudirman", "23:59:00"),
		)
	}
	return testutil.StopDataset(stops...)
}

func TestMatchTransfersNearestFeasible(t *testing.T) {
	// Departures at 07:10 and 07:45 against an 07:20 arrival: the
	// earlier one would mean a day-long wait, so 07:45 wins.
	pairs, err := krl.MatchTransfers(
		inboundDS(),
		outboundDS([2]string{"201", "07:10:00"}, [2]string{"202", "07:45:00"}),
		transferQuery,
	)
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	assert.Equal(t, "101", pairs[0].InboundTrainID)
	assert.Equal(t, "202", pairs[0].OutboundTrainID)
	assert.Equal(t, "07:20:00", pairs[0].ArriveHub)
	assert.Equal(t, "07:45:00", pairs[0].DepartHub)
	assert.Equal(t, 25, pairs[0].WaitMin)
	assert.Equal(t, "23:59:00", pairs[0].ArriveDest)
}

func TestMatchTransfersWrapsMidnight(t *testing.T) {
	// Arrival 23:50, only departure 00:10 next day: wait is 20.
	pre := testutil.StopDataset(
		testutil.Stop("101", 0, "Palmerah", "23:30:00"),
		testutil.Stop("101", 1, "Tanah Abang", "23:50:00"),
	)

	pairs, err := krl.MatchTransfers(
		pre,
		outboundDS([2]string{"201", "00:10:00"}),
		transferQuery,
	)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, 20, pairs[0].WaitMin)
}

func TestMatchTransfersWaitNeverNegative(t *testing.T) {
	departures := [][2]string{
		{"201", "00:10:00"},
		{"202", "07:10:00"},
		{"203", "07:45:00"},
		{"204", "22:00:00"},
	}
	pairs, err := krl.MatchTransfers(inboundDS(), outboundDS(departures...), transferQuery)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.GreaterOrEqual(t, pairs[0].WaitMin, 0)
}

func TestMatchTransfersMaxWait(t *testing.T) {
	query := transferQuery
	query.MaxWait = 10

	pairs, err := krl.MatchTransfers(
		inboundDS(),
		outboundDS([2]string{"202", "07:45:00"}),
		query,
	)
	require.NoError(t, err)
	assert.Empty(t, pairs)

	query.MaxWait = 30
	pairs, err = krl.MatchTransfers(
		inboundDS(),
		outboundDS([2]string{"202", "07:45:00"}),
		query,
	)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.LessOrEqual(t, pairs[0].WaitMin, 30)
}

func TestMatchTransfersOrdering(t *testing.T) {
	pre := testutil.StopDataset(
		testutil.Stop("101", 0, "Palmerah", "07:00:00"),
		testutil.Stop("101", 1, "Tanah Abang", "07:20:00"),
		testutil.Stop("102", 0, "Palmerah", "07:30:00"),
		testutil.Stop("102", 1, "Tanah Abang", "07:50:00"),
	)
	post := outboundDS([2]string{"201", "07:55:00"}, [2]string{"202", "08:30:00"})

	// Default ordering: wait ascending. 102 waits 5, 101 waits 35.
	pairs, err := krl.MatchTransfers(pre, post, transferQuery)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "102", pairs[0].InboundTrainID)
	assert.Equal(t, 5, pairs[0].WaitMin)
	assert.Equal(t, "101", pairs[1].InboundTrainID)
	assert.Equal(t, 35, pairs[1].WaitMin)

	// Ordering by inbound departure.
	query := transferQuery
	query.OrderBy = krl.OrderByDepart
	pairs, err = krl.MatchTransfers(pre, post, query)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "101", pairs[0].InboundTrainID)
	assert.Equal(t, "102", pairs[1].InboundTrainID)

	// Limit applies after ordering.
	query = transferQuery
	query.Limit = 1
	pairs, err = krl.MatchTransfers(pre, post, query)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "102", pairs[0].InboundTrainID)
}

func TestMatchTransfersSkipsUnmatchable(t *testing.T) {
	// Outbound train never reaches the destination past the hub.
	post := testutil.StopDataset(
		testutil.Stop("201", 0, "Sudirman", "07:30:00"),
		testutil.Stop("201", 1, "Tanah Abang", "07:45:00"),
	)

	pairs, err := krl.MatchTransfers(inboundDS(), post, transferQuery)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestMatchTransfersMissingDatasets(t *testing.T) {
	_, err := krl.MatchTransfers(nil, outboundDS(), transferQuery)
	assert.True(t, errors.Is(err, krl.ErrMissingParam))
}
