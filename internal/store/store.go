// Package store keeps a local history of weight syncs in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Sync is one recorded weight fetch.
type Sync struct {
	ID       int64
	TakenAt  time.Time // when the measurement was taken
	WeightKG float64
	Pushed   bool // whether the weight was pushed to Strava
	Created  time.Time
}

// Store wraps the SQLite database holding sync history.
type Store struct {
	db *sql.DB
}

// Open opens (and creates if needed) the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS syncs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		taken_at TEXT NOT NULL,
		weight_kg REAL NOT NULL,
		pushed BOOLEAN NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_syncs_taken_at ON syncs(taken_at);
	`
	_, err := db.Exec(schema)
	return err
}

const timeLayout = "2006-01-02 15:04:05"

// Record inserts a sync row and returns its id.
func (s *Store) Record(takenAt time.Time, weightKG float64, pushed bool) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO syncs (taken_at, weight_kg, pushed, created_at) VALUES (?, ?, ?, ?)",
		takenAt.UTC().Format(timeLayout),
		weightKG,
		pushed,
		time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert sync: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit syncs, newest first. limit <= 0 means all.
func (s *Store) Recent(limit int) ([]Sync, error) {
	query := "SELECT id, taken_at, weight_kg, pushed, created_at FROM syncs ORDER BY id DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query syncs: %w", err)
	}
	defer rows.Close()

	var syncs []Sync
	for rows.Next() {
		var (
			sy       Sync
			takenAt  string
			created  string
			pushedAs int
		)
		if err := rows.Scan(&sy.ID, &takenAt, &sy.WeightKG, &pushedAs, &created); err != nil {
			return nil, fmt.Errorf("scan sync: %w", err)
		}
		sy.TakenAt, _ = time.Parse(timeLayout, takenAt)
		sy.Created, _ = time.Parse(timeLayout, created)
		sy.Pushed = pushedAs == 1
		syncs = append(syncs, sy)
	}
	return syncs, rows.Err()
}
