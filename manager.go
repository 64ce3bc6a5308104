package krl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/downloader"
	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/model"
	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/parse"
	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/storage"
)

const (
	DefaultBaseURL     = "https://api-partner.krl.co.id/krlweb/v1"
	DefaultTimeout     = 30 * time.Second
	DefaultMaxSize     = 4 << 20 // 4 MB
	DefaultRetries     = 3
	DefaultConcurrency = 4
	DefaultCacheTTL    = 10 * time.Minute
)

var ErrNoActiveRun = errors.New("no scrape run found")

// Manager fetches schedule data from the KRL API and archives it as
// scrape runs. The analysis engine itself never touches the network;
// everything is materialized here first.
type Manager struct {
	BaseURL     string
	Timeout     time.Duration
	MaxSize     int
	Retries     int
	Concurrency int
	CacheTTL    time.Duration
	Downloader  downloader.Downloader

	storage storage.Storage
}

// Creates a new Manager on top of the given storage.
func NewManager(s storage.Storage) *Manager {
	return &Manager{
		BaseURL:     DefaultBaseURL,
		Timeout:     DefaultTimeout,
		MaxSize:     DefaultMaxSize,
		Retries:     DefaultRetries,
		Concurrency: DefaultConcurrency,
		CacheTTL:    DefaultCacheTTL,

		Downloader: downloader.NewMemory(),

		storage: s,
	}
}

// One scrape pass: which stations to query and the schedule window.
type ScrapeRequest struct {
	Stations []string
	TimeFrom string
	TimeTo   string
}

// Wire format of the station schedule endpoint.
type scheduleResponse struct {
	Status int    `json:"status"`
	Data   []struct {
		TrainID   string `json:"train_id"`
		KaName    string `json:"ka_name"`
		RouteName string `json:"route_name"`
		Dest      string `json:"dest"`
		TimeEst   string `json:"time_est"`
		Color     string `json:"color"`
		DestTime  string `json:"dest_time"`
	} `json:"data"`
}

// Wire format of the train detail endpoint.
type trainResponse struct {
	Status int    `json:"status"`
	Data   []struct {
		TrainID        string   `json:"train_id"`
		KaName         string   `json:"ka_name"`
		RouteName      string   `json:"route_name"`
		StationName    string   `json:"station_name"`
		TimeEst        string   `json:"time_est"`
		TransitStation bool     `json:"transit_station"`
		Color          string   `json:"color"`
		Transit        []string `json:"transit"`
	} `json:"data"`
}

// Scrape queries the schedule for every requested station, then the
// stop sequence of every train seen, and archives the rows as a new
// run. Fetches are dispatched over a bounded worker pool; all writes
// happen single-threaded after the fetch phase.
func (m *Manager) Scrape(ctx context.Context, req ScrapeRequest) (*storage.RunMetadata, error) {
	if len(req.Stations) == 0 {
		return nil, fmt.Errorf("%w: no stations to scrape", ErrMissingParam)
	}

	runID := uuid.NewString()

	// Phase one: per-station schedules.
	trains := map[string]model.TrainMeta{}
	trainIDs := []string{}
	for _, result := range m.fetchAll(ctx, scheduleURLs(m.BaseURL, req)) {
		if result.err != nil {
			return nil, fmt.Errorf("fetching schedule for %s: %w", result.key, result.err)
		}

		var resp scheduleResponse
		if err := json.Unmarshal(result.body, &resp); err != nil {
			return nil, fmt.Errorf("decoding schedule for %s: %w", result.key, err)
		}

		for _, row := range resp.Data {
			if _, seen := trains[row.TrainID]; seen {
				continue
			}
			trains[row.TrainID] = model.TrainMeta{
				TrainID:      row.TrainID,
				KaName:       row.KaName,
				RouteName:    row.RouteName,
				Dest:         row.Dest,
				DestKey:      model.NormalizeStation(row.Dest),
				Color:        row.Color,
				TimeEst:      row.TimeEst,
				DestTime:     row.DestTime,
				QueryStation: result.key,
				TimeFrom:     req.TimeFrom,
				TimeTo:       req.TimeTo,
			}
			trainIDs = append(trainIDs, row.TrainID)
		}
	}
	sort.Strings(trainIDs)

	// Phase two: per-train stop sequences.
	urls := map[string]string{}
	for _, trainID := range trainIDs {
		urls[trainID] = fmt.Sprintf("%s/schedule-train?trainid=%s", m.BaseURL, url.QueryEscape(trainID))
	}

	stops := []model.Stop{}
	for _, result := range m.fetchAll(ctx, urls) {
		if result.err != nil {
			return nil, fmt.Errorf("fetching train %s: %w", result.key, result.err)
		}

		var resp trainResponse
		if err := json.Unmarshal(result.body, &resp); err != nil {
			return nil, fmt.Errorf("decoding train %s: %w", result.key, err)
		}

		meta := trains[result.key]
		for i, row := range resp.Data {
			stop := model.Stop{
				TrainID:        result.key,
				StopIndex:      i,
				StationName:    row.StationName,
				StationKey:     model.NormalizeStation(row.StationName),
				TimeEst:        row.TimeEst,
				TransitStation: row.TransitStation,
				TransitColors:  row.Transit,
				KaName:         row.KaName,
				RouteName:      row.RouteName,
				Color:          row.Color,
				QueryStation:   meta.QueryStation,
				HeaderStation:  meta.Dest,
			}
			if min, ok := model.MinuteOfDay(row.TimeEst); ok {
				stop.TimeEstMin = &min
			}
			stops = append(stops, stop)
		}
	}

	// Archive the run.
	writer, err := m.storage.GetWriter(runID)
	if err != nil {
		return nil, fmt.Errorf("getting writer: %w", err)
	}

	for _, trainID := range trainIDs {
		train := trains[trainID]
		if err := writer.WriteTrain(&train); err != nil {
			return nil, fmt.Errorf("writing train: %w", err)
		}
	}

	if err := writer.BeginStops(); err != nil {
		return nil, fmt.Errorf("beginning stops: %w", err)
	}
	for i := range stops {
		if err := writer.WriteStop(&stops[i]); err != nil {
			return nil, fmt.Errorf("writing stop: %w", err)
		}
	}
	if err := writer.EndStops(); err != nil {
		return nil, fmt.Errorf("ending stops: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing run writer: %w", err)
	}

	metadata := &storage.RunMetadata{
		ID:          runID,
		TimeFrom:    req.TimeFrom,
		TimeTo:      req.TimeTo,
		Stations:    len(req.Stations),
		TrainCount:  len(trainIDs),
		StopCount:   len(stops),
		RetrievedAt: time.Now().UTC(),
	}
	if err := m.storage.WriteRunMetadata(metadata); err != nil {
		return nil, fmt.Errorf("writing run metadata: %w", err)
	}

	return metadata, nil
}

// LoadRun materializes a stored run as a dataset, deriving legs from
// its stop sequences. An empty ID loads the most recent run.
func (m *Manager) LoadRun(id string) (*model.Dataset, error) {
	filter := storage.ListRunsFilter{ID: id}
	runs, err := m.storage.ListRuns(filter)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	if len(runs) == 0 {
		return nil, ErrNoActiveRun
	}

	// ListRuns orders most recent first.
	reader, err := m.storage.GetReader(runs[0].ID)
	if err != nil {
		return nil, fmt.Errorf("getting reader: %w", err)
	}

	trains, err := reader.Trains()
	if err != nil {
		return nil, fmt.Errorf("reading trains: %w", err)
	}
	stops, err := reader.Stops()
	if err != nil {
		return nil, fmt.Errorf("reading stops: %w", err)
	}

	ds := &model.Dataset{Trains: map[string]model.TrainMeta{}}
	for _, t := range trains {
		ds.Trains[t.TrainID] = *t
	}
	for _, s := range stops {
		ds.Stops = append(ds.Stops, *s)
	}
	ds.Legs = parse.DeriveLegs(ds.Stops, ds.Trains)

	return ds, nil
}

type fetchResult struct {
	key  string
	body []byte
	err  error
}

// fetchAll downloads the given keyed URLs with at most Concurrency
// requests in flight.
func (m *Manager) fetchAll(ctx context.Context, urls map[string]string) []fetchResult {
	keys := make([]string, 0, len(urls))
	for key := range urls {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	results := make([]fetchResult, len(keys))
	sem := make(chan struct{}, m.Concurrency)
	var wg sync.WaitGroup

	for i, key := range keys {
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			body, err := m.Downloader.Get(ctx, urls[key], nil, downloader.GetOptions{
				Timeout:  m.Timeout,
				MaxSize:  m.MaxSize,
				Retries:  m.Retries,
				Cache:    true,
				CacheTTL: m.CacheTTL,
			})
			results[i] = fetchResult{key: key, body: body, err: err}
		}(i, key)
	}
	wg.Wait()

	return results
}

func scheduleURLs(base string, req ScrapeRequest) map[string]string {
	urls := map[string]string{}
	for _, station := range req.Stations {
		urls[station] = fmt.Sprintf(
			"%s/schedule?stationid=%s&timefrom=%s&timeto=%s",
			base,
			url.QueryEscape(station),
			url.QueryEscape(req.TimeFrom),
			url.QueryEscape(req.TimeTo),
		)
	}
	return urls
}
