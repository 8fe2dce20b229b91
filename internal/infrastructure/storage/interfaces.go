package storage

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, BuntDB)
// and makes testing with mocks straightforward.
type Repository interface {
	SnapshotRepository
	LoadRunRepository
	Close() error
}

// SnapshotRepository persists the last good order payload.
type SnapshotRepository interface {
	// SaveSnapshot stores or replaces the snapshot under snapshot.Key
	SaveSnapshot(snapshot *Snapshot) error

	// GetSnapshot returns ErrSnapshotNotFound when nothing is stored
	GetSnapshot(key string) (*Snapshot, error)
}

// LoadRunRepository tracks every load attempt.
type LoadRunRepository interface {
	// StartLoadRun records the start of a load and returns its ID
	StartLoadRun(trigger string) (int64, error)

	// CompleteLoadRun records the outcome of a load
	CompleteLoadRun(runID int64, result LoadRunResult) error

	// ListLoadRuns returns the most recent runs first
	ListLoadRuns(limit int) ([]LoadRun, error)

	// GetLoadRun returns ErrLoadRunNotFound for unknown IDs
	GetLoadRun(runID int64) (*LoadRun, error)
}
