package loader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/order-analytics/internal/domain/order"
	"github.com/eshaffer321/order-analytics/internal/infrastructure/storage"
)

type stubSource struct {
	payload []byte
	err     error
	calls   int
}

func (s *stubSource) Name() string { return "stub://orders" }

func (s *stubSource) Fetch(context.Context) ([]byte, error) {
	s.calls++
	return s.payload, s.err
}

var fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func newTestLoader(src *stubSource, cache storage.SnapshotRepository) *Loader {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(src, cache, order.NewNormalizer(time.UTC), logger,
		WithClock(func() time.Time { return fixedNow }))
}

const payload = `[
	{"nombre_comprador":"Ana","pais":"Spain","fecha_hora_entrada":"2024-03-15 09:00:00","precio_compra_total":"100"},
	{"nombre_comprador":"Luis","pais":"Mexico","fecha_hora_entrada":"2024-03-10 09:00:00","precio_compra_total":50}
]`

func TestLoader_Load_Success(t *testing.T) {
	repo := storage.NewMockRepository()
	src := &stubSource{payload: []byte(payload)}

	result := newTestLoader(src, repo).Load(context.Background())

	require.NoError(t, result.Err)
	assert.Equal(t, OriginNetwork, result.Origin)
	assert.Len(t, result.Orders, 2)
	assert.Len(t, result.Today, 1)
	assert.Empty(t, result.Notices)
	assert.Equal(t, fixedNow, result.LoadedAt)

	snap, err := repo.GetSnapshot(CacheKey)
	require.NoError(t, err)
	assert.Equal(t, payload, string(snap.Payload))
	assert.Equal(t, 2, snap.OrderCount)
	assert.Equal(t, "stub://orders", snap.Source)
}

func TestLoader_Load_FallsBackToCache(t *testing.T) {
	repo := storage.NewMockRepository()
	require.NoError(t, repo.SaveSnapshot(&storage.Snapshot{Key: CacheKey, Payload: []byte(payload)}))

	src := &stubSource{err: errors.New("connection refused")}
	result := newTestLoader(src, repo).Load(context.Background())

	var loadErr *DataLoadError
	require.ErrorAs(t, result.Err, &loadErr)
	assert.Equal(t, "stub://orders", loadErr.Source)
	assert.Equal(t, OriginCache, result.Origin)
	assert.Len(t, result.Orders, 2)
	require.Len(t, result.Notices, 2)
	assert.Equal(t, NoticeError, result.Notices[0].Level)
	assert.Equal(t, MsgLoadFailed, result.Notices[0].Message)
	assert.Equal(t, NoticeWarning, result.Notices[1].Level)
	assert.Equal(t, MsgUsingCache, result.Notices[1].Message)
}

func TestLoader_Load_NoCache(t *testing.T) {
	src := &stubSource{err: errors.New("timeout")}
	result := newTestLoader(src, storage.NewMockRepository()).Load(context.Background())

	assert.Error(t, result.Err)
	assert.Equal(t, OriginNone, result.Origin)
	assert.NotNil(t, result.Orders)
	assert.Empty(t, result.Orders)
	require.Len(t, result.Notices, 1)
	assert.Equal(t, NoticeError, result.Notices[0].Level)
}

func TestLoader_Load_NonArrayPayload(t *testing.T) {
	repo := storage.NewMockRepository()
	src := &stubSource{payload: []byte(`{"orders":[]}`)}

	result := newTestLoader(src, repo).Load(context.Background())

	var loadErr *DataLoadError
	require.ErrorAs(t, result.Err, &loadErr)
	assert.ErrorIs(t, result.Err, order.ErrNotArray)
	assert.Equal(t, 0, repo.SaveSnapshotCalls, "bad payloads are never cached")
}

func TestLoader_Load_CacheErrorsNeverEscalate(t *testing.T) {
	repo := storage.NewMockRepository()
	repo.GetSnapshotErr = errors.New("disk on fire")

	result := newTestLoader(&stubSource{err: errors.New("down")}, repo).Load(context.Background())
	assert.Equal(t, OriginNone, result.Origin)
	assert.Empty(t, result.Orders)

	repo = storage.NewMockRepository()
	repo.SaveSnapshotErr = errors.New("read-only")
	result = newTestLoader(&stubSource{payload: []byte(payload)}, repo).Load(context.Background())
	assert.NoError(t, result.Err)
	assert.Equal(t, OriginNetwork, result.Origin)
}

func TestLoader_Load_CorruptCache(t *testing.T) {
	repo := storage.NewMockRepository()
	require.NoError(t, repo.SaveSnapshot(&storage.Snapshot{Key: CacheKey, Payload: []byte(`not json`)}))

	result := newTestLoader(&stubSource{err: errors.New("down")}, repo).Load(context.Background())
	assert.Equal(t, OriginNone, result.Origin)
	assert.Empty(t, result.Orders)
}

func TestLoader_Load_SuccessOverwritesCache(t *testing.T) {
	repo := storage.NewMockRepository()
	require.NoError(t, repo.SaveSnapshot(&storage.Snapshot{Key: CacheKey, Payload: []byte(`[]`)}))

	newTestLoader(&stubSource{payload: []byte(payload)}, repo).Load(context.Background())

	snap, err := repo.GetSnapshot(CacheKey)
	require.NoError(t, err)
	assert.Equal(t, payload, string(snap.Payload))
}

func TestLoader_CustomCacheKey(t *testing.T) {
	repo := storage.NewMockRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := New(&stubSource{payload: []byte(`[]`)}, repo, nil, logger, WithCacheKey("shop_a"))

	l.Load(context.Background())
	_, err := repo.GetSnapshot("shop_a")
	assert.NoError(t, err)
}

func TestLoader_NilSource(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	result := New(nil, nil, nil, logger).Load(context.Background())
	assert.Error(t, result.Err)
	assert.Equal(t, OriginNone, result.Origin)
}
