package storage

import (
	"sort"
	"sync"
	"time"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps, making tests fast and isolated.
type MockRepository struct {
	mu        sync.Mutex
	snapshots map[string]*Snapshot
	loadRuns  map[int64]*LoadRun
	nextRunID int64

	// Hooks for test assertions
	SaveSnapshotCalls int
	LastSnapshot      *Snapshot
	StartLoadRunCalls int

	// Error injection for testing error paths
	SaveSnapshotErr    error
	GetSnapshotErr     error
	StartLoadRunErr    error
	CompleteLoadRunErr error
	ListLoadRunsErr    error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		snapshots: make(map[string]*Snapshot),
		loadRuns:  make(map[int64]*LoadRun),
		nextRunID: 1,
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

// SaveSnapshot stores a copy of the snapshot
func (m *MockRepository) SaveSnapshot(snapshot *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveSnapshotCalls++
	m.LastSnapshot = snapshot
	if m.SaveSnapshotErr != nil {
		return m.SaveSnapshotErr
	}
	copied := *snapshot
	copied.Payload = append([]byte(nil), snapshot.Payload...)
	if copied.SavedAt.IsZero() {
		copied.SavedAt = time.Now()
	}
	m.snapshots[snapshot.Key] = &copied
	return nil
}

// GetSnapshot returns the stored snapshot or ErrSnapshotNotFound
func (m *MockRepository) GetSnapshot(key string) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetSnapshotErr != nil {
		return nil, m.GetSnapshotErr
	}
	snapshot, ok := m.snapshots[key]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	copied := *snapshot
	return &copied, nil
}

// StartLoadRun allocates a new run ID
func (m *MockRepository) StartLoadRun(trigger string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartLoadRunCalls++
	if m.StartLoadRunErr != nil {
		return 0, m.StartLoadRunErr
	}
	id := m.nextRunID
	m.nextRunID++
	m.loadRuns[id] = &LoadRun{
		ID:        id,
		Trigger:   trigger,
		StartedAt: time.Now(),
		Status:    LoadStatusRunning,
	}
	return id, nil
}

// CompleteLoadRun marks a run as finished
func (m *MockRepository) CompleteLoadRun(runID int64, result LoadRunResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CompleteLoadRunErr != nil {
		return m.CompleteLoadRunErr
	}
	run, ok := m.loadRuns[runID]
	if !ok {
		return ErrLoadRunNotFound
	}
	now := time.Now()
	run.CompletedAt = &now
	run.Source = result.Source
	run.OrderCount = result.OrderCount
	run.Status = result.Status
	run.Error = result.Error
	return nil
}

// ListLoadRuns returns runs newest first
func (m *MockRepository) ListLoadRuns(limit int) ([]LoadRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListLoadRunsErr != nil {
		return nil, m.ListLoadRunsErr
	}
	runs := make([]LoadRun, 0, len(m.loadRuns))
	for _, run := range m.loadRuns {
		runs = append(runs, *run)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].ID > runs[j].ID })

	if limit = normalizeLimit(limit); len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// GetLoadRun returns a run by ID
func (m *MockRepository) GetLoadRun(runID int64) (*LoadRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.loadRuns[runID]
	if !ok {
		return nil, ErrLoadRunNotFound
	}
	copied := *run
	return &copied, nil
}
