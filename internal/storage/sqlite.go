package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// SQLite keeps every run in one database file: a runs table with the
// JSON-encoded metadata and a samples table with one row per sample.
type SQLite struct {
	path string
	db   *sql.DB
}

func NewSQLite(path string) *SQLite {
	return &SQLite{path: path}
}

func (s *SQLite) Init() error {
	if s.path == "" {
		return errors.New("storage: sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id       TEXT PRIMARY KEY,
			created  TEXT NOT NULL,
			metadata TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS samples (
			run_id  TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			series  TEXT NOT NULL,
			time    REAL NOT NULL,
			value   REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS samples_run_series
			ON samples(run_id, series, time);
	`)
	if err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLite) getDB() (*sql.DB, error) {
	if s.db == nil {
		return nil, errors.New("storage: sqlite backend not initialized")
	}
	return s.db, nil
}

func (s *SQLite) Save(run Run, traces map[string]Trace) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	metadata, err := json.Marshal(run)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, created, metadata) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created = excluded.created,
			metadata = excluded.metadata
	`, run.ID, run.Created.Format("2006-01-02T15:04:05.999999999Z07:00"), string(metadata))
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM samples WHERE run_id = ?`, run.ID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO samples (run_id, series, time, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for id, trace := range traces {
		for i := range trace.Times {
			if _, err := stmt.Exec(run.ID, id, trace.Times[i], trace.Values[i]); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func (s *SQLite) List() ([]Run, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT metadata FROM runs ORDER BY created`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var metadata string
		if err := rows.Scan(&metadata); err != nil {
			return nil, err
		}
		var run Run
		if err := json.Unmarshal([]byte(metadata), &run); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLite) Load(runID string) (*Run, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	var metadata string
	err = db.QueryRow(`SELECT metadata FROM runs WHERE id = ?`, runID).Scan(&metadata)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("storage: run %q: %w", runID, os.ErrNotExist)
		}
		return nil, err
	}

	var run Run
	if err := json.Unmarshal([]byte(metadata), &run); err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *SQLite) LoadTraces(runID string) (map[string]Trace, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT series, time, value FROM samples
		WHERE run_id = ? ORDER BY series, time
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	traces := make(map[string]Trace)
	for rows.Next() {
		var series string
		var t, v float64
		if err := rows.Scan(&series, &t, &v); err != nil {
			return nil, err
		}
		trace := traces[series]
		trace.Times = append(trace.Times, t)
		trace.Values = append(trace.Values, v)
		traces[series] = trace
	}
	return traces, rows.Err()
}

func (s *SQLite) Delete(runID string) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM samples WHERE run_id = ?`, runID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM runs WHERE id = ?`, runID); err != nil {
		return err
	}
	return tx.Commit()
}
