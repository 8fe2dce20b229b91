package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Storage provides SQLite database access for snapshots and load runs.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := runMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveSnapshot stores or replaces a snapshot
func (s *Storage) SaveSnapshot(snapshot *Snapshot) error {
	if snapshot.SavedAt.IsZero() {
		snapshot.SavedAt = time.Now()
	}

	_, err := s.db.Exec(`
	INSERT OR REPLACE INTO order_snapshots (cache_key, payload, order_count, source, saved_at)
	VALUES (?, ?, ?, ?, ?)
	`, snapshot.Key, snapshot.Payload, snapshot.OrderCount, snapshot.Source, snapshot.SavedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", snapshot.Key, err)
	}
	return nil
}

// GetSnapshot retrieves a snapshot by key
func (s *Storage) GetSnapshot(key string) (*Snapshot, error) {
	snapshot := &Snapshot{}
	err := s.db.QueryRow(`
	SELECT cache_key, payload, order_count, source, saved_at
	FROM order_snapshots WHERE cache_key = ?
	`, key).Scan(
		&snapshot.Key,
		&snapshot.Payload,
		&snapshot.OrderCount,
		&snapshot.Source,
		&snapshot.SavedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot %s: %w", key, err)
	}
	return snapshot, nil
}

// StartLoadRun records the start of a load
func (s *Storage) StartLoadRun(trigger string) (int64, error) {
	result, err := s.db.Exec(`
	INSERT INTO load_runs (trigger_name, started_at, status)
	VALUES (?, ?, ?)
	`, trigger, time.Now().UTC(), LoadStatusRunning)
	if err != nil {
		return 0, fmt.Errorf("failed to start load run: %w", err)
	}
	return result.LastInsertId()
}

// CompleteLoadRun records the outcome of a load
func (s *Storage) CompleteLoadRun(runID int64, result LoadRunResult) error {
	res, err := s.db.Exec(`
	UPDATE load_runs
	SET completed_at = ?, source = ?, order_count = ?, status = ?, error = ?
	WHERE id = ?
	`, time.Now().UTC(), result.Source, result.OrderCount, result.Status, result.Error, runID)
	if err != nil {
		return fmt.Errorf("failed to complete load run %d: %w", runID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLoadRunNotFound
	}
	return nil
}

// ListLoadRuns returns recent load runs, newest first
func (s *Storage) ListLoadRuns(limit int) ([]LoadRun, error) {
	rows, err := s.db.Query(`
	SELECT id, trigger_name, started_at, completed_at, source, order_count, status, error
	FROM load_runs
	ORDER BY id DESC
	LIMIT ?
	`, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list load runs: %w", err)
	}
	defer rows.Close()

	runs := make([]LoadRun, 0)
	for rows.Next() {
		run, err := scanLoadRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetLoadRun retrieves a load run by ID
func (s *Storage) GetLoadRun(runID int64) (*LoadRun, error) {
	row := s.db.QueryRow(`
	SELECT id, trigger_name, started_at, completed_at, source, order_count, status, error
	FROM load_runs WHERE id = ?
	`, runID)

	run, err := scanLoadRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLoadRunNotFound
	}
	return run, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoadRun(row rowScanner) (*LoadRun, error) {
	run := &LoadRun{}
	var completedAt sql.NullTime
	err := row.Scan(
		&run.ID,
		&run.Trigger,
		&run.StartedAt,
		&completedAt,
		&run.Source,
		&run.OrderCount,
		&run.Status,
		&run.Error,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan load run: %w", err)
	}
	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	return run, nil
}
