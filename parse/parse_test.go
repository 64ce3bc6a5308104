package parse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/model"
)

const stopsCSV = `train_id,stop_index,station_name,time_est,time_est_min,transit_station,transit_colors,ka_name,route_name,color,query_station,header_station
101,0,Palmerah,07:00:00,,false,,KA 101,Rangkasbitung Line,#f00,PLM,Rangkasbitung
101,1,Tanah Abang,07:20:00,,true,red,KA 101,Rangkasbitung Line,#f00,PLM,Rangkasbitung
`

const legsCSV = `train_id,from_index,from_station,to_index,to_station,leg_minutes,ka_name,route_name,color
101,0,Palmerah,1,Tanah Abang,99,KA 101,Rangkasbitung Line,#f00
`

const trainsCSV = `query_station,time_from,time_to,train_id,ka_name,route_name,dest,color,time_est,dest_time
PLM,04:00,23:00,101,KA 101,Rangkasbitung Line,Rangkasbitung,#f00,07:00:00,08:30:00
`

func writeDataset(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestLoadDirPrefersLegsFile(t *testing.T) {
	dir := writeDataset(t, map[string]string{
		StopsFile:  stopsCSV,
		LegsFile:   legsCSV,
		TrainsFile: trainsCSV,
	})

	ds, err := LoadDir(dir)
	require.NoError(t, err)

	// The legs file wins over derivation: the 99 minute leg proves
	// legs were not recomputed from the stops.
	require.Len(t, ds.Legs, 1)
	require.NotNil(t, ds.Legs[0].Minutes)
	assert.Equal(t, 99.0, *ds.Legs[0].Minutes)

	assert.Len(t, ds.Stops, 2)
	assert.Equal(t, "rangkasbitung", ds.Trains["101"].DestKey)
}

func TestLoadDirDerivesLegsFromStops(t *testing.T) {
	dir := writeDataset(t, map[string]string{
		StopsFile: stopsCSV,
	})

	ds, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, ds.Legs, 1)
	require.NotNil(t, ds.Legs[0].Minutes)
	assert.Equal(t, 20.0, *ds.Legs[0].Minutes)
}

func TestLoadDirNoData(t *testing.T) {
	dir := writeDataset(t, map[string]string{
		TrainsFile: trainsCSV,
	})

	_, err := LoadDir(dir)
	assert.True(t, errors.Is(err, ErrDataNotFound))
}

func TestWriteDirRoundTrip(t *testing.T) {
	dir := writeDataset(t, map[string]string{
		StopsFile:  stopsCSV,
		LegsFile:   legsCSV,
		TrainsFile: trainsCSV,
	})

	ds, err := LoadDir(dir)
	require.NoError(t, err)

	out := t.TempDir()
	require.NoError(t, WriteDir(out, ds))

	back, err := LoadDir(out)
	require.NoError(t, err)

	assert.Equal(t, ds.Stops, back.Stops)
	assert.Equal(t, ds.Legs, back.Legs)
	assert.Equal(t, ds.Trains, back.Trains)
}

func TestLoadDirStripsBOM(t *testing.T) {
	dir := writeDataset(t, map[string]string{
		StopsFile: "\xef\xbb\xbf" + stopsCSV,
	})

	ds, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, ds.Stops, 2)
	assert.Equal(t, "101", ds.Stops[0].TrainID)
}

func TestLoadDirNormalizesStations(t *testing.T) {
	messy := `train_id,stop_index,station_name,time_est,time_est_min,transit_station,transit_colors,ka_name,route_name,color,query_station,header_station
101,0,  TANAH   Abang ,07:00:00,,,,,,,,
`
	dir := writeDataset(t, map[string]string{StopsFile: messy})

	ds, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, ds.Stops, 1)
	assert.Equal(t, model.NormalizeStation("Tanah Abang"), ds.Stops[0].StationKey)
}
