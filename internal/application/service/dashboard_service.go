// Package service owns the in-memory order state and serializes refreshes
// of it. HTTP handlers and CLI commands read immutable snapshots.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eshaffer321/order-analytics/internal/application/dashboard"
	"github.com/eshaffer321/order-analytics/internal/application/loader"
	"github.com/eshaffer321/order-analytics/internal/domain/aggregate"
	"github.com/eshaffer321/order-analytics/internal/domain/filter"
	"github.com/eshaffer321/order-analytics/internal/domain/order"
	"github.com/eshaffer321/order-analytics/internal/export"
	"github.com/eshaffer321/order-analytics/internal/infrastructure/metrics"
	"github.com/eshaffer321/order-analytics/internal/infrastructure/storage"
)

var (
	// ErrRefreshInProgress is returned when a refresh is requested while
	// another one is still running.
	ErrRefreshInProgress = errors.New("refresh already in progress")
	// ErrJobNotFound is returned for unknown refresh job IDs.
	ErrJobNotFound = errors.New("refresh job not found")
)

// Refresh triggers recorded with each load run
const (
	TriggerStartup = "startup"
	TriggerManual  = "manual"
	TriggerCLI     = "cli"
)

// Notice texts raised by the service itself
const (
	MsgRefreshed    = "✅ Datos actualizados correctamente"
	MsgExportFailed = "Ocurrió un error al generar el archivo de exportación"
)

// Defaults applied by NewDashboardService for zero Options fields.
const (
	DefaultNoticeTTL      = 7 * time.Second
	DefaultRefreshTimeout = 2 * time.Minute
	DefaultJobRetention   = time.Hour
)

// Loader produces a load result. *loader.Loader satisfies it.
type Loader interface {
	Load(ctx context.Context) *loader.Result
}

// State is an immutable snapshot of the loaded orders.
type State struct {
	Orders   []order.Order
	Today    []order.Order
	LoadedAt time.Time
	Origin   loader.Origin
}

// Loaded reports whether any load has completed.
func (s State) Loaded() bool {
	return !s.LoadedAt.IsZero()
}

// Notice is a dismissible user-facing message.
type Notice struct {
	ID        string             `json:"id"`
	Level     loader.NoticeLevel `json:"level"`
	Message   string             `json:"message"`
	CreatedAt time.Time          `json:"created_at"`
	ExpiresAt time.Time          `json:"expires_at"`
}

// Options tunes a DashboardService.
type Options struct {
	NoticeTTL      time.Duration
	RefreshTimeout time.Duration
	JobRetention   time.Duration
	DefaultPeriod  filter.Period
	Dashboard      dashboard.Options
	Location       *time.Location
	Clock          func() time.Time
}

// DashboardService manages the order state, refresh jobs and notices.
type DashboardService struct {
	loader  Loader
	runs    storage.LoadRunRepository
	metrics *metrics.Registry
	logger  *slog.Logger
	opts    Options

	stateMu sync.RWMutex
	state   State

	// held for the whole duration of a refresh
	refreshMu sync.Mutex

	jobs   map[string]*Job
	jobsMu sync.RWMutex

	notices   []Notice
	noticesMu sync.Mutex

	cleanupStop chan struct{}
	cleanupDone chan struct{}
}

// NewDashboardService creates the service. runs and reg may be nil.
func NewDashboardService(ld Loader, runs storage.LoadRunRepository, reg *metrics.Registry, logger *slog.Logger, opts Options) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.NoticeTTL <= 0 {
		opts.NoticeTTL = DefaultNoticeTTL
	}
	if opts.RefreshTimeout <= 0 {
		opts.RefreshTimeout = DefaultRefreshTimeout
	}
	if opts.JobRetention <= 0 {
		opts.JobRetention = DefaultJobRetention
	}
	if opts.DefaultPeriod == "" {
		opts.DefaultPeriod = filter.DefaultPeriod
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &DashboardService{
		loader:  ld,
		runs:    runs,
		metrics: reg,
		logger:  logger,
		opts:    opts,
		state:   State{Orders: []order.Order{}, Today: []order.Order{}, Origin: loader.OriginNone},
		jobs:    make(map[string]*Job),
	}
}

// Now is the service clock in the configured location.
func (s *DashboardService) Now() time.Time {
	return s.opts.Clock().In(s.opts.Location)
}

// State returns the current snapshot.
func (s *DashboardService) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// Refresh loads orders synchronously. It fails with ErrRefreshInProgress
// when another refresh holds the guard.
func (s *DashboardService) Refresh(ctx context.Context, trigger string) (*loader.Result, error) {
	if !s.refreshMu.TryLock() {
		s.rejectRefresh(trigger)
		return nil, ErrRefreshInProgress
	}
	defer s.refreshMu.Unlock()

	return s.refreshLocked(ctx, trigger), nil
}

func (s *DashboardService) rejectRefresh(trigger string) {
	if s.metrics != nil {
		s.metrics.RefreshRejected.Inc()
	}
	s.logger.Warn("refresh rejected, another refresh is running", "trigger", trigger)
}

// refreshLocked must be called with refreshMu held.
func (s *DashboardService) refreshLocked(ctx context.Context, trigger string) *loader.Result {
	runID := s.startRun(trigger)

	result := s.loader.Load(ctx)
	kept := s.apply(result)

	for _, n := range result.Notices {
		s.addNotice(n.Level, n.Message)
	}
	if result.Origin == loader.OriginNetwork && trigger != TriggerStartup {
		s.addNotice(loader.NoticeSuccess, MsgRefreshed)
	}

	s.observe(result)
	s.completeRun(runID, result)

	s.logger.Info("refresh finished",
		"trigger", trigger,
		"origin", result.Origin,
		"orders", len(result.Orders),
		"kept_previous", kept,
		"duration", result.Duration,
	)
	return result
}

// apply swaps in the new state. A load that produced nothing keeps the
// previous state once one exists; it reports whether that happened.
func (s *DashboardService) apply(result *loader.Result) bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if result.Origin == loader.OriginNone && s.state.Loaded() {
		return true
	}
	s.state = State{
		Orders:   result.Orders,
		Today:    result.Today,
		LoadedAt: result.LoadedAt,
		Origin:   result.Origin,
	}
	return false
}

func (s *DashboardService) observe(result *loader.Result) {
	if s.metrics == nil {
		return
	}
	s.metrics.Loads.WithLabelValues(string(result.Origin)).Inc()
	if result.Err != nil {
		s.metrics.LoadFailures.Inc()
	}
	s.metrics.LoadDuration.Observe(result.Duration.Seconds())
	s.metrics.OrdersLoaded.Set(float64(len(s.State().Orders)))
}

func (s *DashboardService) startRun(trigger string) int64 {
	if s.runs == nil {
		return 0
	}
	id, err := s.runs.StartLoadRun(trigger)
	if err != nil {
		s.logger.Warn("failed to record load run", "error", err)
		return 0
	}
	return id
}

func (s *DashboardService) completeRun(runID int64, result *loader.Result) {
	if s.runs == nil || runID == 0 {
		return
	}
	res := storage.LoadRunResult{
		Source:     string(result.Origin),
		OrderCount: len(result.Orders),
		Status:     runStatus(result.Origin),
	}
	if result.Err != nil {
		res.Error = result.Err.Error()
	}
	if err := s.runs.CompleteLoadRun(runID, res); err != nil {
		s.logger.Warn("failed to complete load run", "run_id", runID, "error", err)
	}
}

func runStatus(origin loader.Origin) string {
	switch origin {
	case loader.OriginNetwork:
		return storage.LoadStatusSuccess
	case loader.OriginCache:
		return storage.LoadStatusCached
	default:
		return storage.LoadStatusFailed
	}
}

// LoadRuns returns the most recent load runs, newest first.
func (s *DashboardService) LoadRuns(limit int) ([]storage.LoadRun, error) {
	if s.runs == nil {
		return []storage.LoadRun{}, nil
	}
	return s.runs.ListLoadRuns(limit)
}

// LoadRun returns one recorded load run.
func (s *DashboardService) LoadRun(id int64) (*storage.LoadRun, error) {
	if s.runs == nil {
		return nil, storage.ErrLoadRunNotFound
	}
	return s.runs.GetLoadRun(id)
}

// Location is the zone used for calendar arithmetic.
func (s *DashboardService) Location() *time.Location {
	return s.opts.Location
}

// Dashboard builds the full view for c against the current state. A
// positive top overrides the configured top-products length.
func (s *DashboardService) Dashboard(c filter.Criteria, top int) dashboard.View {
	return s.DashboardFor(s.State(), c, top)
}

// DashboardFor builds the view from a state snapshot the caller already
// holds, so the view and the snapshot's metadata describe the same load.
func (s *DashboardService) DashboardFor(state State, c filter.Criteria, top int) dashboard.View {
	opts := s.opts.Dashboard
	if top > 0 {
		opts.TopProducts = top
	}
	return dashboard.Build(state.Orders, s.withDefaults(c), opts, s.Now())
}

func (s *DashboardService) withDefaults(c filter.Criteria) filter.Criteria {
	if c.Period == "" {
		c.Period = s.opts.DefaultPeriod
	}
	return c
}

// Orders returns one page of the order list for c and the unpaged count.
func (s *DashboardService) Orders(c filter.Criteria, limit, offset int) ([]order.Order, int) {
	selected := dashboard.Select(s.State().Orders, s.withDefaults(c), s.Now())
	return dashboard.Page(selected, limit, offset), len(selected)
}

// Countries lists the country filter options.
func (s *DashboardService) Countries() []string {
	return filter.Countries(s.State().Orders)
}

// Monthly returns the current-year comparison.
func (s *DashboardService) Monthly() []aggregate.MonthEntry {
	return aggregate.MonthlyComparison(s.State().Orders, s.Now())
}

// DailySummary compares today with yesterday.
func (s *DashboardService) DailySummary() aggregate.DailySummary {
	return aggregate.SummarizeDays(s.State().Orders, s.Now())
}

// Export builds the workbook for the order list selected by c. Failures
// raise an error notice and are returned to the caller.
func (s *DashboardService) Export(c filter.Criteria) (*export.File, error) {
	now := s.Now()
	file, err := export.Workbook(dashboard.Select(s.State().Orders, s.withDefaults(c), now), now)
	if err != nil {
		s.countExport("failure")
		s.addNotice(loader.NoticeError, MsgExportFailed)
		s.logger.Error("export failed", "error", err)
		return nil, fmt.Errorf("export orders: %w", err)
	}
	s.countExport("success")
	s.logger.Info("export generated", "file", file.Name, "bytes", len(file.Data))
	return file, nil
}

func (s *DashboardService) countExport(status string) {
	if s.metrics != nil {
		s.metrics.Exports.WithLabelValues(status).Inc()
	}
}

// Notices returns the notices that have not expired, oldest first.
func (s *DashboardService) Notices() []Notice {
	now := s.opts.Clock()

	s.noticesMu.Lock()
	defer s.noticesMu.Unlock()

	s.pruneNoticesLocked(now)
	return slices.Clone(s.notices)
}

// DismissNotice removes a notice before it expires.
func (s *DashboardService) DismissNotice(id string) bool {
	s.noticesMu.Lock()
	defer s.noticesMu.Unlock()

	for i, n := range s.notices {
		if n.ID == id {
			s.notices = slices.Delete(s.notices, i, i+1)
			return true
		}
	}
	return false
}

func (s *DashboardService) addNotice(level loader.NoticeLevel, message string) {
	now := s.opts.Clock()

	s.noticesMu.Lock()
	defer s.noticesMu.Unlock()

	s.pruneNoticesLocked(now)
	s.notices = append(s.notices, Notice{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(s.opts.NoticeTTL),
	})
}

func (s *DashboardService) pruneNoticesLocked(now time.Time) {
	s.notices = slices.DeleteFunc(s.notices, func(n Notice) bool {
		return !now.Before(n.ExpiresAt)
	})
}
