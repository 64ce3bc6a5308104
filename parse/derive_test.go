package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/model"
)

func stop(trainID string, idx int, station, timeEst string) model.Stop {
	s := model.Stop{
		TrainID:     trainID,
		StopIndex:   idx,
		StationName: station,
		StationKey:  model.NormalizeStation(station),
		TimeEst:     timeEst,
	}
	if min, ok := model.MinuteOfDay(timeEst); ok {
		s.TimeEstMin = &min
	}
	return s
}

func TestDeriveLegs(t *testing.T) {
	// Stops arrive out of order; derivation sorts by stop index.
	stops := []model.Stop{
		stop("101", 2, "Sudirman", "07:40:00"),
		stop("101", 0, "Palmerah", "07:00:00"),
		stop("101", 1, "Tanah Abang", "07:20:00"),
	}

	legs := DeriveLegs(stops, nil)
	require.Len(t, legs, 2)

	assert.Equal(t, "Palmerah", legs[0].FromStation)
	assert.Equal(t, "Tanah Abang", legs[0].ToStation)
	require.NotNil(t, legs[0].Minutes)
	assert.Equal(t, 20.0, *legs[0].Minutes)

	assert.Equal(t, "Tanah Abang", legs[1].FromStation)
	assert.Equal(t, "Sudirman", legs[1].ToStation)
	require.NotNil(t, legs[1].Minutes)
	assert.Equal(t, 20.0, *legs[1].Minutes)
}

func TestDeriveLegsWrapsMidnight(t *testing.T) {
	stops := []model.Stop{
		stop("900", 0, "Manggarai", "23:50:00"),
		stop("900", 1, "Jakarta Kota", "00:10:00"),
	}

	legs := DeriveLegs(stops, nil)
	require.Len(t, legs, 1)
	require.NotNil(t, legs[0].Minutes)
	assert.Equal(t, 20.0, *legs[0].Minutes)
}

func TestDeriveLegsNullEndpoint(t *testing.T) {
	broken := stop("101", 1, "Tanah Abang", "")
	stops := []model.Stop{
		stop("101", 0, "Palmerah", "07:00:00"),
		broken,
		stop("101", 2, "Sudirman", "07:40:00"),
	}

	legs := DeriveLegs(stops, nil)
	require.Len(t, legs, 2)
	assert.Nil(t, legs[0].Minutes)
	assert.Nil(t, legs[1].Minutes)
}

func TestDeriveLegsMetaFallback(t *testing.T) {
	trains := map[string]model.TrainMeta{
		"101": {TrainID: "101", KaName: "KA 101", RouteName: "Rangkasbitung Line", Color: "#f00"},
	}
	stops := []model.Stop{
		stop("101", 0, "Palmerah", "07:00:00"),
		stop("101", 1, "Tanah Abang", "07:20:00"),
	}

	legs := DeriveLegs(stops, trains)
	require.Len(t, legs, 1)
	assert.Equal(t, "KA 101", legs[0].KaName)
	assert.Equal(t, "Rangkasbitung Line", legs[0].RouteName)
	assert.Equal(t, "#f00", legs[0].Color)
}

func TestDeriveLegsDurationRangeOddMinutes(t *testing.T) {
	// Minute values straying outside a single day still wrap into
	// [0, 1439].
	for _, tc := range []struct {
		from, to float64
		want     float64
	}{
		{420, 5000, 260},
		{5000, 420, 1180},
		{-60, 30, 90},
	} {
		from := stop("x", 0, "A", "")
		to := stop("x", 1, "B", "")
		from.TimeEstMin = &tc.from
		to.TimeEstMin = &tc.to

		legs := DeriveLegs([]model.Stop{from, to}, nil)
		require.Len(t, legs, 1)
		require.NotNil(t, legs[0].Minutes)
		assert.Equal(t, tc.want, *legs[0].Minutes)
		assert.GreaterOrEqual(t, *legs[0].Minutes, 0.0)
		assert.LessOrEqual(t, *legs[0].Minutes, 1439.0)
	}
}

func TestDeriveLegsDurationRange(t *testing.T) {
	// Any pair of valid times must produce a duration in [0, 1439].
	times := []string{"00:00:00", "06:30:00", "12:00:00", "18:45:00", "23:59:00"}
	for _, from := range times {
		for _, to := range times {
			legs := DeriveLegs([]model.Stop{
				stop("x", 0, "A", from),
				stop("x", 1, "B", to),
			}, nil)
			require.Len(t, legs, 1)
			require.NotNil(t, legs[0].Minutes)
			assert.GreaterOrEqual(t, *legs[0].Minutes, 0.0)
			assert.LessOrEqual(t, *legs[0].Minutes, 1439.0)
		}
	}
}
