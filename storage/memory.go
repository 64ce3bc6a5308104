package storage

import (
	"fmt"
	"sort"

	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/model"
)

// In memory implementation of Storage below

type MemoryStorage struct {
	Runs     map[string]*MemoryStorageRun
	Metadata map[string]*RunMetadata
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		Runs:     map[string]*MemoryStorageRun{},
		Metadata: map[string]*RunMetadata{},
	}
}

func (s *MemoryStorage) ListRuns(filter ListRunsFilter) ([]*RunMetadata, error) {
	runs := []*RunMetadata{}
	for _, metadata := range s.Metadata {
		if filter.ID != "" && metadata.ID != filter.ID {
			continue
		}
		runs = append(runs, metadata)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].RetrievedAt.After(runs[j].RetrievedAt)
	})
	return runs, nil
}

func (s *MemoryStorage) WriteRunMetadata(meta *RunMetadata) error {
	s.Metadata[meta.ID] = meta
	return nil
}

func (s *MemoryStorage) DeleteRun(id string) error {
	if _, found := s.Runs[id]; !found {
		return fmt.Errorf("run not found")
	}
	delete(s.Runs, id)
	delete(s.Metadata, id)
	return nil
}

func (s *MemoryStorage) GetReader(id string) (RunReader, error) {
	run, ok := s.Runs[id]
	if !ok {
		return nil, fmt.Errorf("run not found")
	}
	return run, nil
}

func (s *MemoryStorage) GetWriter(id string) (RunWriter, error) {
	run := &MemoryStorageRun{}
	s.Runs[id] = run
	return run, nil
}

type MemoryStorageRun struct {
	trains []*model.TrainMeta
	stops  []*model.Stop
}

func (r *MemoryStorageRun) WriteTrain(train *model.TrainMeta) error {
	t := *train
	r.trains = append(r.trains, &t)
	return nil
}

func (r *MemoryStorageRun) WriteStop(stop *model.Stop) error {
	s := *stop
	r.stops = append(r.stops, &s)
	return nil
}

func (r *MemoryStorageRun) BeginStops() error {
	return nil
}

func (r *MemoryStorageRun) EndStops() error {
	sort.SliceStable(r.stops, func(i, j int) bool {
		if r.stops[i].TrainID != r.stops[j].TrainID {
			return r.stops[i].TrainID < r.stops[j].TrainID
		}
		return r.stops[i].StopIndex < r.stops[j].StopIndex
	})
	return nil
}

func (r *MemoryStorageRun) Close() error {
	return nil
}

func (r *MemoryStorageRun) Trains() ([]*model.TrainMeta, error) {
	return r.trains, nil
}

func (r *MemoryStorageRun) Stops() ([]*model.Stop, error) {
	return r.stops, nil
}

func (r *MemoryStorageRun) Stations() ([]string, error) {
	seen := map[string]bool{}
	stations := []string{}
	for _, s := range r.stops {
		if !seen[s.StationName] {
			seen[s.StationName] = true
			stations = append(stations, s.StationName)
		}
	}
	sort.Strings(stations)
	return stations, nil
}
