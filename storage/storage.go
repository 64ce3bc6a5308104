package storage

import (
	"time"

	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/model"
)

// Archive of scrape runs. Each run holds the stop and train rows
// fetched in one pass over the API, plus a metadata record.
type Storage interface {
	// Retrieves metadata for all runs matching the filter, most
	// recently retrieved first.
	ListRuns(filter ListRunsFilter) ([]*RunMetadata, error)

	// Writes a RunMetadata record. If a record with the same ID
	// exists, it is updated.
	WriteRunMetadata(meta *RunMetadata) error

	// Removes a run and all its rows.
	DeleteRun(id string) error

	// Gets a reader for the run with the given ID.
	GetReader(id string) (RunReader, error)

	// Gets a writer for the run with the given ID.
	GetWriter(id string) (RunWriter, error)
}

type ListRunsFilter struct {
	// If set, only include the run with this ID.
	ID string
}

// Metadata for one scrape run.
type RunMetadata struct {
	ID          string
	TimeFrom    string
	TimeTo      string
	Stations    int
	TrainCount  int
	StopCount   int
	RetrievedAt time.Time
}

// Writes rows for a single run.
//
// Stop rows tend to dominate, so BeginStops() and EndStops() are
// called before and after all calls to WriteStop(), allowing
// transactions/batching/whathaveyou.
type RunWriter interface {
	WriteTrain(train *model.TrainMeta) error
	WriteStop(stop *model.Stop) error
	BeginStops() error
	EndStops() error
	Close() error
}

type RunReader interface {
	Trains() ([]*model.TrainMeta, error)

	// Stops ordered by train ID, then stop index.
	Stops() ([]*model.Stop, error)

	// Distinct station names seen in the run's stop rows.
	Stations() ([]string, error)
}
