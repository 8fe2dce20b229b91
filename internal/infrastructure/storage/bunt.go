package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tidwall/buntdb"
)

const (
	snapshotKeyPrefix = "snapshot:"
	loadRunKeyPrefix  = "run:"
	loadRunSeqKey     = "seq:run"
)

// BuntStore is a Repository backed by a BuntDB key/value file.
// Snapshots live under "snapshot:<key>" and load runs under "run:<id>"
// with zero-padded IDs so key order matches insertion order.
type BuntStore struct {
	db *buntdb.DB
}

// Compile-time check that BuntStore implements Repository
var _ Repository = (*BuntStore)(nil)

// NewBuntStore opens (or creates) a BuntDB file. ":memory:" keeps data in
// memory only.
func NewBuntStore(path string) (*BuntStore, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bunt store %s: %w", path, err)
	}
	return &BuntStore{db: db}, nil
}

// Close closes the underlying database
func (b *BuntStore) Close() error {
	return b.db.Close()
}

// SaveSnapshot stores or replaces a snapshot
func (b *BuntStore) SaveSnapshot(snapshot *Snapshot) error {
	if snapshot.SavedAt.IsZero() {
		snapshot.SavedAt = time.Now()
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", snapshot.Key, err)
	}

	return b.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(snapshotKeyPrefix+snapshot.Key, string(data), nil)
		return err
	})
}

// GetSnapshot retrieves a snapshot by key
func (b *BuntStore) GetSnapshot(key string) (*Snapshot, error) {
	snapshot := &Snapshot{}
	err := b.db.View(func(tx *buntdb.Tx) error {
		val, err := tx.Get(snapshotKeyPrefix + key)
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(val), snapshot)
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot %s: %w", key, err)
	}
	return snapshot, nil
}

// StartLoadRun records the start of a load
func (b *BuntStore) StartLoadRun(trigger string) (int64, error) {
	var id int64
	err := b.db.Update(func(tx *buntdb.Tx) error {
		seq, err := tx.Get(loadRunSeqKey)
		if err != nil && !errors.Is(err, buntdb.ErrNotFound) {
			return err
		}
		if seq != "" {
			if id, err = strconv.ParseInt(seq, 10, 64); err != nil {
				return fmt.Errorf("corrupt load run sequence %q: %w", seq, err)
			}
		}
		id++

		run := LoadRun{
			ID:        id,
			Trigger:   trigger,
			StartedAt: time.Now().UTC(),
			Status:    LoadStatusRunning,
		}
		data, err := json.Marshal(run)
		if err != nil {
			return err
		}
		if _, _, err := tx.Set(loadRunSeqKey, strconv.FormatInt(id, 10), nil); err != nil {
			return err
		}
		_, _, err = tx.Set(loadRunKey(id), string(data), nil)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to start load run: %w", err)
	}
	return id, nil
}

// CompleteLoadRun records the outcome of a load
func (b *BuntStore) CompleteLoadRun(runID int64, result LoadRunResult) error {
	err := b.db.Update(func(tx *buntdb.Tx) error {
		val, err := tx.Get(loadRunKey(runID))
		if err != nil {
			return err
		}
		var run LoadRun
		if err := json.Unmarshal([]byte(val), &run); err != nil {
			return err
		}

		completed := time.Now().UTC()
		run.CompletedAt = &completed
		run.Source = result.Source
		run.OrderCount = result.OrderCount
		run.Status = result.Status
		run.Error = result.Error

		data, err := json.Marshal(run)
		if err != nil {
			return err
		}
		_, _, err = tx.Set(loadRunKey(runID), string(data), nil)
		return err
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return ErrLoadRunNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to complete load run %d: %w", runID, err)
	}
	return nil
}

// ListLoadRuns returns recent load runs, newest first
func (b *BuntStore) ListLoadRuns(limit int) ([]LoadRun, error) {
	limit = normalizeLimit(limit)
	runs := make([]LoadRun, 0)

	var decodeErr error
	err := b.db.View(func(tx *buntdb.Tx) error {
		return tx.DescendKeys(loadRunKeyPrefix+"*", func(key, value string) bool {
			var run LoadRun
			if err := json.Unmarshal([]byte(value), &run); err != nil {
				decodeErr = fmt.Errorf("failed to decode %s: %w", key, err)
				return false
			}
			runs = append(runs, run)
			return len(runs) < limit
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list load runs: %w", err)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return runs, nil
}

// GetLoadRun retrieves a load run by ID
func (b *BuntStore) GetLoadRun(runID int64) (*LoadRun, error) {
	run := &LoadRun{}
	err := b.db.View(func(tx *buntdb.Tx) error {
		val, err := tx.Get(loadRunKey(runID))
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(val), run)
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return nil, ErrLoadRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get load run %d: %w", runID, err)
	}
	return run, nil
}

func loadRunKey(id int64) string {
	return fmt.Sprintf("%s%020d", loadRunKeyPrefix, id)
}
