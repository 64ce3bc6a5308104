package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Sylent-Sys/krl-data-scraper-w-analyze/model"
)

type SQLiteConfig struct {
	OnDisk    bool
	Directory string
}

type SQLiteStorage struct {
	SQLiteConfig

	db *sql.DB
}

type SQLiteRunWriter struct {
	db *sql.DB
	id string

	stopInsertQuery *sql.Stmt
	stopInsertTx    *sql.Tx
}

type SQLiteRunReader struct {
	db *sql.DB
	id string
}

func NewSQLiteStorage(cfg ...SQLiteConfig) (*SQLiteStorage, error) {
	onDisk := false
	directory := ""
	if len(cfg) > 0 {
		onDisk = cfg[0].OnDisk
		directory = cfg[0].Directory
	}

	sourceName := ":memory:"
	if onDisk {
		sourceName = directory + "/krl.db"
	}

	db, err := sql.Open("sqlite3", sourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS run (
    id TEXT NOT NULL,
    time_from TEXT NOT NULL,
    time_to TEXT NOT NULL,
    stations INTEGER NOT NULL,
    train_count INTEGER NOT NULL,
    stop_count INTEGER NOT NULL,
    retrieved_at TIMESTAMP NOT NULL,
PRIMARY KEY (id)
);

CREATE TABLE IF NOT EXISTS train (
    run_id TEXT NOT NULL,
    train_id TEXT NOT NULL,
    ka_name TEXT NOT NULL,
    route_name TEXT NOT NULL,
    dest TEXT NOT NULL,
    color TEXT NOT NULL,
    time_est TEXT NOT NULL,
    dest_time TEXT NOT NULL,
    query_station TEXT NOT NULL,
    time_from TEXT NOT NULL,
    time_to TEXT NOT NULL,
PRIMARY KEY (run_id, train_id)
);

CREATE TABLE IF NOT EXISTS stop (
    run_id TEXT NOT NULL,
    train_id TEXT NOT NULL,
    stop_index INTEGER NOT NULL,
    station_name TEXT NOT NULL,
    time_est TEXT NOT NULL,
    time_est_min REAL,
    transit_station INTEGER NOT NULL,
    transit_colors TEXT NOT NULL,
    ka_name TEXT NOT NULL,
    route_name TEXT NOT NULL,
    color TEXT NOT NULL,
    query_station TEXT NOT NULL,
    header_station TEXT NOT NULL,
PRIMARY KEY (run_id, train_id, stop_index)
);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &SQLiteStorage{
		SQLiteConfig: SQLiteConfig{
			OnDisk:    onDisk,
			Directory: directory,
		},
		db: db,
	}, nil
}

func (s *SQLiteStorage) ListRuns(filter ListRunsFilter) ([]*RunMetadata, error) {
	query := `
SELECT
    id,
    time_from,
    time_to,
    stations,
    train_count,
    stop_count,
    retrieved_at
FROM run`

	params := []interface{}{}
	if filter.ID != "" {
		query += " WHERE id = ?"
		params = append(params, filter.ID)
	}
	query += " ORDER BY retrieved_at DESC"

	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*RunMetadata
	for rows.Next() {
		var run RunMetadata
		err := rows.Scan(
			&run.ID,
			&run.TimeFrom,
			&run.TimeTo,
			&run.Stations,
			&run.TrainCount,
			&run.StopCount,
			&run.RetrievedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, &run)
	}

	return runs, nil
}

func (s *SQLiteStorage) WriteRunMetadata(meta *RunMetadata) error {
	_, err := s.db.Exec(`
INSERT INTO run (id, time_from, time_to, stations, train_count, stop_count, retrieved_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    time_from = excluded.time_from,
    time_to = excluded.time_to,
    stations = excluded.stations,
    train_count = excluded.train_count,
    stop_count = excluded.stop_count,
    retrieved_at = excluded.retrieved_at
`,
		meta.ID,
		meta.TimeFrom,
		meta.TimeTo,
		meta.Stations,
		meta.TrainCount,
		meta.StopCount,
		meta.RetrievedAt,
	)
	if err != nil {
		return fmt.Errorf("writing run metadata: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) DeleteRun(id string) error {
	for _, table := range []string{"stop", "train"} {
		_, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE run_id = ?", table), id)
		if err != nil {
			return fmt.Errorf("deleting from %s: %w", table, err)
		}
	}
	_, err := s.db.Exec("DELETE FROM run WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) GetReader(id string) (RunReader, error) {
	return &SQLiteRunReader{db: s.db, id: id}, nil
}

func (s *SQLiteStorage) GetWriter(id string) (RunWriter, error) {
	return &SQLiteRunWriter{db: s.db, id: id}, nil
}

func (w *SQLiteRunWriter) WriteTrain(train *model.TrainMeta) error {
	_, err := w.db.Exec(`
INSERT INTO train (
    run_id, train_id, ka_name, route_name, dest, color,
    time_est, dest_time, query_station, time_from, time_to
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (run_id, train_id) DO NOTHING
`,
		w.id,
		train.TrainID,
		train.KaName,
		train.RouteName,
		train.Dest,
		train.Color,
		train.TimeEst,
		train.DestTime,
		train.QueryStation,
		train.TimeFrom,
		train.TimeTo,
	)
	if err != nil {
		return fmt.Errorf("writing train: %w", err)
	}
	return nil
}

func (w *SQLiteRunWriter) BeginStops() error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
INSERT INTO stop (
    run_id, train_id, stop_index, station_name, time_est, time_est_min,
    transit_station, transit_colors, ka_name, route_name, color,
    query_station, header_station
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (run_id, train_id, stop_index) DO NOTHING
`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing stop insert: %w", err)
	}

	w.stopInsertTx = tx
	w.stopInsertQuery = stmt

	return nil
}

func (w *SQLiteRunWriter) WriteStop(stop *model.Stop) error {
	var min sql.NullFloat64
	if stop.TimeEstMin != nil {
		min = sql.NullFloat64{Float64: *stop.TimeEstMin, Valid: true}
	}

	_, err := w.stopInsertQuery.Exec(
		w.id,
		stop.TrainID,
		stop.StopIndex,
		stop.StationName,
		stop.TimeEst,
		min,
		stop.TransitStation,
		strings.Join(stop.TransitColors, "|"),
		stop.KaName,
		stop.RouteName,
		stop.Color,
		stop.QueryStation,
		stop.HeaderStation,
	)
	if err != nil {
		return fmt.Errorf("writing stop: %w", err)
	}
	return nil
}

func (w *SQLiteRunWriter) EndStops() error {
	err := w.stopInsertQuery.Close()
	if err != nil {
		w.stopInsertTx.Rollback()
		return fmt.Errorf("closing stop insert: %w", err)
	}

	err = w.stopInsertTx.Commit()
	if err != nil {
		return fmt.Errorf("committing stops: %w", err)
	}

	w.stopInsertQuery = nil
	w.stopInsertTx = nil

	return nil
}

func (w *SQLiteRunWriter) Close() error {
	return nil
}

func (r *SQLiteRunReader) Trains() ([]*model.TrainMeta, error) {
	rows, err := r.db.Query(`
SELECT
    train_id, ka_name, route_name, dest, color,
    time_est, dest_time, query_station, time_from, time_to
FROM train
WHERE run_id = ?
ORDER BY train_id`, r.id)
	if err != nil {
		return nil, fmt.Errorf("querying trains: %w", err)
	}
	defer rows.Close()

	var trains []*model.TrainMeta
	for rows.Next() {
		var t model.TrainMeta
		err := rows.Scan(
			&t.TrainID,
			&t.KaName,
			&t.RouteName,
			&t.Dest,
			&t.Color,
			&t.TimeEst,
			&t.DestTime,
			&t.QueryStation,
			&t.TimeFrom,
			&t.TimeTo,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning train: %w", err)
		}
		t.DestKey = model.NormalizeStation(t.Dest)
		trains = append(trains, &t)
	}

	return trains, nil
}

func (r *SQLiteRunReader) Stops() ([]*model.Stop, error) {
	rows, err := r.db.Query(`
SELECT
    train_id, stop_index, station_name, time_est, time_est_min,
    transit_station, transit_colors, ka_name, route_name, color,
    query_station, header_station
FROM stop
WHERE run_id = ?
ORDER BY train_id, stop_index`, r.id)
	if err != nil {
		return nil, fmt.Errorf("querying stops: %w", err)
	}
	defer rows.Close()

	var stops []*model.Stop
	for rows.Next() {
		var s model.Stop
		var min sql.NullFloat64
		var colors string
		err := rows.Scan(
			&s.TrainID,
			&s.StopIndex,
			&s.StationName,
			&s.TimeEst,
			&min,
			&s.TransitStation,
			&colors,
			&s.KaName,
			&s.RouteName,
			&s.Color,
			&s.QueryStation,
			&s.HeaderStation,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning stop: %w", err)
		}
		if min.Valid {
			s.TimeEstMin = &min.Float64
		}
		if colors != "" {
			s.TransitColors = strings.Split(colors, "|")
		}
		s.StationKey = model.NormalizeStation(s.StationName)
		stops = append(stops, &s)
	}

	return stops, nil
}

func (r *SQLiteRunReader) Stations() ([]string, error) {
	rows, err := r.db.Query(`
SELECT DISTINCT station_name
FROM stop
WHERE run_id = ?
ORDER BY station_name`, r.id)
	if err != nil {
		return nil, fmt.Errorf("querying stations: %w", err)
	}
	defer rows.Close()

	var stations []string
	for rows.Next() {
		var station string
		if err := rows.Scan(&station); err != nil {
			return nil, fmt.Errorf("scanning station: %w", err)
		}
		stations = append(stations, station)
	}

	return stations, nil
}
