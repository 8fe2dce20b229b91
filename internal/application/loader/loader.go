// Package loader fetches the order export, normalizes it and falls back to
// the last cached payload when the source is unavailable.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/eshaffer321/order-analytics/internal/adapters/source"
	"github.com/eshaffer321/order-analytics/internal/domain/order"
	"github.com/eshaffer321/order-analytics/internal/infrastructure/storage"
)

// CacheKey is the default snapshot key of the last good payload.
const CacheKey = "cached_orders"

// Origin names where a load result's orders came from.
type Origin string

const (
	OriginNetwork Origin = "network"
	OriginCache   Origin = "cache"
	OriginNone    Origin = "none"
)

// NoticeLevel is the severity of a user-facing notice.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a user-facing message produced during a load.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// User-facing notice texts
const (
	MsgLoadFailed = "Error al cargar los datos. Intente recargar la página."
	MsgUsingCache = "Usando datos almacenados localmente"
)

// DataLoadError reports why the primary source could not supply orders.
type DataLoadError struct {
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("failed to load orders from %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// Result is the outcome of one load. Err is set when the primary source
// failed, even if cached data was recovered.
type Result struct {
	Orders   []order.Order
	Today    []order.Order
	Origin   Origin
	Notices  []Notice
	Err      error
	LoadedAt time.Time
	Duration time.Duration
}

// Loader wires a source, a snapshot cache and a normalizer together.
type Loader struct {
	source     source.OrderSource
	cache      storage.SnapshotRepository
	normalizer *order.Normalizer
	cacheKey   string
	logger     *slog.Logger
	now        func() time.Time
}

// Option customizes a Loader.
type Option func(*Loader)

// WithCacheKey overrides CacheKey.
func WithCacheKey(key string) Option {
	return func(l *Loader) {
		if key != "" {
			l.cacheKey = key
		}
	}
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) { l.now = now }
}

// New creates a loader. cache may be nil to disable caching.
func New(src source.OrderSource, cache storage.SnapshotRepository, normalizer *order.Normalizer, logger *slog.Logger, opts ...Option) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if normalizer == nil {
		normalizer = order.NewNormalizer(nil)
	}
	l := &Loader{
		source:     src,
		cache:      cache,
		normalizer: normalizer,
		cacheKey:   CacheKey,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches and normalizes orders. It never returns nil; failures are
// reported through Result.Err and Result.Notices.
func (l *Loader) Load(ctx context.Context) *Result {
	started := l.now()
	result := l.load(ctx)
	result.LoadedAt = l.now()
	result.Duration = result.LoadedAt.Sub(started)
	result.Today = order.Today(result.Orders, result.LoadedAt.In(l.normalizer.Location()))
	return result
}

func (l *Loader) load(ctx context.Context) *Result {
	raws, payload, err := l.fetch(ctx)
	if err == nil {
		orders := l.normalizer.Normalize(raws)
		l.writeCache(payload, len(orders))
		l.logger.Info("orders loaded",
			slog.String("source", l.source.Name()),
			slog.Int("count", len(orders)),
		)
		return &Result{Orders: orders, Origin: OriginNetwork}
	}

	l.logger.Error("failed to load orders", slog.Any("error", err))
	result := &Result{
		Orders:  []order.Order{},
		Origin:  OriginNone,
		Err:     err,
		Notices: []Notice{{Level: NoticeError, Message: MsgLoadFailed}},
	}

	if orders, ok := l.readCache(); ok {
		result.Orders = orders
		result.Origin = OriginCache
		result.Notices = append(result.Notices, Notice{Level: NoticeWarning, Message: MsgUsingCache})
		l.logger.Warn("using cached orders", slog.Int("count", len(orders)))
	}
	return result
}

func (l *Loader) fetch(ctx context.Context) ([]order.RawOrder, []byte, error) {
	if l.source == nil {
		return nil, nil, &DataLoadError{Source: "unconfigured", Err: source.ErrNoSource}
	}

	payload, err := l.source.Fetch(ctx)
	if err != nil {
		return nil, nil, &DataLoadError{Source: l.source.Name(), Err: err}
	}

	raws, err := order.DecodePayload(payload)
	if err != nil {
		return nil, nil, &DataLoadError{Source: l.source.Name(), Err: err}
	}
	return raws, payload, nil
}

func (l *Loader) writeCache(payload []byte, count int) {
	if l.cache == nil {
		return
	}
	err := l.cache.SaveSnapshot(&storage.Snapshot{
		Key:        l.cacheKey,
		Payload:    payload,
		OrderCount: count,
		Source:     l.source.Name(),
		SavedAt:    l.now(),
	})
	if err != nil {
		l.logger.Warn("failed to write order cache", slog.Any("error", err))
	}
}

// readCache never escalates errors: a missing or unreadable cache simply
// yields no orders.
func (l *Loader) readCache() ([]order.Order, bool) {
	if l.cache == nil {
		return nil, false
	}

	snapshot, err := l.cache.GetSnapshot(l.cacheKey)
	if err != nil {
		if !errors.Is(err, storage.ErrSnapshotNotFound) {
			l.logger.Warn("failed to read order cache", slog.Any("error", err))
		}
		return nil, false
	}

	raws, err := order.DecodePayload(snapshot.Payload)
	if err != nil {
		l.logger.Warn("cached payload is unreadable", slog.Any("error", err))
		return nil, false
	}
	return l.normalizer.Normalize(raws), true
}
