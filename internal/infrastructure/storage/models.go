package storage

import (
	"errors"
	"time"
)

var (
	// ErrSnapshotNotFound is returned when no snapshot exists for a key.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrLoadRunNotFound is returned for unknown load run IDs.
	ErrLoadRunNotFound = errors.New("load run not found")
)

// Load run statuses
const (
	LoadStatusRunning = "running"
	LoadStatusSuccess = "success"
	LoadStatusCached  = "cached"
	LoadStatusFailed  = "failed"
)

// DefaultListLimit applies when ListLoadRuns gets a non-positive limit.
const DefaultListLimit = 20

// Snapshot is a raw order payload as last received from the source.
type Snapshot struct {
	Key        string    `json:"key"`
	Payload    []byte    `json:"payload"`
	OrderCount int       `json:"order_count"`
	Source     string    `json:"source"`
	SavedAt    time.Time `json:"saved_at"`
}

// LoadRun records one attempt to load orders.
type LoadRun struct {
	ID          int64      `json:"id"`
	Trigger     string     `json:"trigger"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Source      string     `json:"source,omitempty"`
	OrderCount  int        `json:"order_count"`
	Status      string     `json:"status"`
	Error       string     `json:"error,omitempty"`
}

// LoadRunResult is the outcome written by CompleteLoadRun.
type LoadRunResult struct {
	Source     string
	OrderCount int
	Status     string
	Error      string
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
