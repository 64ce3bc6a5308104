package krl_test

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	krl "github.com/Sylent-Sys/krl-data-scraper-w-analyze"
	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/downloader"
	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/storage"
)

// Serves canned API payloads keyed by station and train ID.
type fakeDownloader struct {
	stations map[string]string
	trains   map[string]string
}

func (d *fakeDownloader) Get(
	ctx context.Context,
	rawURL string,
	headers map[string]string,
	options downloader.GetOptions,
) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(u.Path, "/schedule-train") {
		body, ok := d.trains[u.Query().Get("trainid")]
		if !ok {
			return nil, fmt.Errorf("unknown train")
		}
		return []byte(body), nil
	}

	body, ok := d.stations[u.Query().Get("stationid")]
	if !ok {
		return nil, fmt.Errorf("unknown station")
	}
	return []byte(body), nil
}

const plmSchedule = `{
	"status": 200,
	"data": [
		{"train_id": "101", "ka_name": "KA 101", "route_name": "Rangkasbitung Line",
		 "dest": "Sudirman", "time_est": "07:00:00", "color": "#f00", "dest_time": "07:40:00"},
		{"train_id": "102", "ka_name": "KA 102", "route_name": "Rangkasbitung Line",
		 "dest": "Sudirman", "time_est": "08:00:00", "color": "#f00", "dest_time": "08:40:00"}
	]
}`

func trainDetail(offset string) string {
	return fmt.Sprintf(`{
	"status": 200,
	"data": [
		{"train_id": "x", "ka_name": "KA", "route_name": "Rangkasbitung Line",
		 "station_name": "Palmerah", "time_est": "%s:00:00", "transit_station": false, "color": "#f00"},
		{"train_id": "x", "ka_name": "KA", "route_name": "Rangkasbitung Line",
		 "station_name": "Tanah Abang", "time_est": "%s:20:00", "transit_station": true,
		 "color": "#f00", "transit": ["red", "green"]},
		{"train_id": "x", "ka_name": "KA", "route_name": "Rangkasbitung Line",
		 "station_name": "Sudirman", "time_est": "%s:40:00", "transit_station": false, "color": "#f00"}
	]
}`, offset, offset, offset)
}

func newTestManager() (*krl.Manager, *storage.MemoryStorage) {
	s := storage.NewMemoryStorage()
	manager := krl.NewManager(s)
	manager.BaseURL = "http://krl.test"
	manager.Downloader = &fakeDownloader{
		stations: map[string]string{"PLM": plmSchedule},
		trains: map[string]string{
			"101": trainDetail("07"),
			"102": trainDetail("08"),
		},
	}
	return manager, s
}

func TestManagerScrape(t *testing.T) {
	manager, _ := newTestManager()

	metadata, err := manager.Scrape(context.Background(), krl.ScrapeRequest{
		Stations: []string{"PLM"},
		TimeFrom: "04:00",
		TimeTo:   "23:00",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, metadata.Stations)
	assert.Equal(t, 2, metadata.TrainCount)
	assert.Equal(t, 6, metadata.StopCount)
	assert.NotEmpty(t, metadata.ID)
	assert.Equal(t, "04:00", metadata.TimeFrom)
}

func TestManagerScrapeNoStations(t *testing.T) {
	manager, _ := newTestManager()

	_, err := manager.Scrape(context.Background(), krl.ScrapeRequest{})
	assert.ErrorIs(t, err, krl.ErrMissingParam)
}

func TestManagerLoadRun(t *testing.T) {
	manager, _ := newTestManager()

	metadata, err := manager.Scrape(context.Background(), krl.ScrapeRequest{
		Stations: []string{"PLM"},
	})
	require.NoError(t, err)

	// Explicit run ID and "most recent" both resolve.
	for _, id := range []string{metadata.ID, ""} {
		ds, err := manager.LoadRun(id)
		require.NoError(t, err)

		assert.Len(t, ds.Stops, 6)
		assert.Len(t, ds.Trains, 2)
		assert.Equal(t, "Sudirman", ds.Trains["101"].Dest)

		// Legs are derived from the archived stop sequences.
		require.Len(t, ds.Legs, 4)
		require.NotNil(t, ds.Legs[0].Minutes)
		assert.Equal(t, 20.0, *ds.Legs[0].Minutes)
	}

	// The archived run feeds the routing queries directly.
	ds, err := manager.LoadRun(metadata.ID)
	require.NoError(t, err)
	through, err := krl.FindThrough(ds, krl.RouteQuery{
		Hub: "Tanah Abang", Via: "Palmerah", Dest: "Sudirman",
	})
	require.NoError(t, err)
	require.Len(t, through, 2)
	assert.Equal(t, "07:00:00", through[0].DepartViaTime)
}

func TestManagerLoadRunEmpty(t *testing.T) {
	manager := krl.NewManager(storage.NewMemoryStorage())

	_, err := manager.LoadRun("")
	assert.ErrorIs(t, err, krl.ErrNoActiveRun)
}
