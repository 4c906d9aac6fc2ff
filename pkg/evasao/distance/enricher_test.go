package distance

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/evasao/pkg/evasao/dataset"
	"github.com/cognicore/evasao/pkg/evasao/store"
	"github.com/cognicore/evasao/pkg/evasao/store/memstore"
)

type countingProvider struct {
	calls   atomic.Int32
	mu      sync.Mutex
	origins []string
	fail    map[string]bool
}

func (p *countingProvider) Route(ctx context.Context, q Query) (Route, error) {
	p.calls.Add(1)
	p.mu.Lock()
	p.origins = append(p.origins, q.Origin)
	p.mu.Unlock()
	if p.fail[q.Origin] {
		return Route{}, errors.New("ZERO_RESULTS")
	}
	return Route{DistanceMeters: 12345, DurationText: "45 min", Duration: 45 * time.Minute}, nil
}

func fixedClock(h, m int) func() time.Time {
	return func() time.Time { return time.Date(2025, 3, 10, h, m, 0, 0, time.UTC) }
}

func sampleDataset() *dataset.Dataset {
	cols := []string{dataset.ColNeighborhood, dataset.ColCity, dataset.ColState}
	return dataset.New(cols, []dataset.Row{
		{dataset.ColNeighborhood: "tijuca", dataset.ColCity: "rio de janeiro", dataset.ColState: "RJ"},
		{dataset.ColNeighborhood: "tijuca", dataset.ColCity: "rio de janeiro", dataset.ColState: "RJ"},
		{dataset.ColNeighborhood: "URCA", dataset.ColCity: "rio de janeiro", dataset.ColState: "RJ"},
		{dataset.ColNeighborhood: "moema", dataset.ColCity: "são paulo", dataset.ColState: "SP"},
	})
}

func newTestEnricher(p Provider, st store.Store, opts ...Option) *Enricher {
	base := []Option{WithRequestDelay(0), WithClock(fixedClock(9, 0))}
	return NewEnricher(p, st, append(base, opts...)...)
}

func TestEnrichJoinsAllRows(t *testing.T) {
	p := &countingProvider{}
	ds := sampleDataset()

	stats, err := newTestEnricher(p, memstore.New()).Enrich(context.Background(), ds)
	require.NoError(t, err)

	assert.Equal(t, int32(1), p.calls.Load(), "duplicate origins resolve once, Urca needs no call")
	assert.Equal(t, 2, stats.Origins)
	assert.Equal(t, 1, stats.Special)
	assert.Equal(t, 1, stats.Resolved)
	assert.NotEmpty(t, stats.RunID)

	r0 := ds.Row(0)
	assert.Equal(t, 12.35, r0[dataset.ColDistanceKm])
	assert.Equal(t, "45 min", r0[dataset.ColTravelDuration])
	assert.Equal(t, "17:15", r0[dataset.ColDeparture])
	assert.Equal(t, r0[dataset.ColDistanceKm], ds.Row(1)[dataset.ColDistanceKm])

	r2 := ds.Row(2)
	assert.Equal(t, 0.0, r2[dataset.ColDistanceKm])
	assert.Equal(t, "0 min", r2[dataset.ColTravelDuration])
	assert.Equal(t, "18:00", r2[dataset.ColDeparture])

	r3 := ds.Row(3)
	assert.True(t, math.IsNaN(r3.Float(dataset.ColDistanceKm)))
	assert.Nil(t, r3[dataset.ColTravelDuration])
	assert.Nil(t, r3[dataset.ColDeparture])
}

func TestEnrichCacheHitSecondRun(t *testing.T) {
	p := &countingProvider{}
	st := memstore.New()

	_, err := newTestEnricher(p, st).Enrich(context.Background(), sampleDataset())
	require.NoError(t, err)
	require.Equal(t, int32(1), p.calls.Load())

	stats, err := newTestEnricher(p, st).Enrich(context.Background(), sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, int32(1), p.calls.Load(), "second run is served from cache")
	assert.Equal(t, 2, stats.CacheHits)
	assert.Zero(t, stats.Calls())
}

func TestEnrichSpecialCaseNoCall(t *testing.T) {
	p := &countingProvider{}
	ds := dataset.New([]string{dataset.ColNeighborhood, dataset.ColCity, dataset.ColState}, []dataset.Row{
		{dataset.ColNeighborhood: "Úrca", dataset.ColCity: "rio de janeiro", dataset.ColState: "RJ"},
	})
	_, err := newTestEnricher(p, memstore.New()).Enrich(context.Background(), ds)
	require.NoError(t, err)
	assert.Zero(t, p.calls.Load())
	assert.Equal(t, 0.0, ds.Row(0)[dataset.ColDistanceKm])
}

func TestEnrichFailureDegradesAndRetries(t *testing.T) {
	p := &countingProvider{fail: map[string]bool{"tijuca, rio de janeiro, RJ": true}}
	st := memstore.New()

	ds := sampleDataset()
	stats, err := newTestEnricher(p, st).Enrich(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Unresolved)
	assert.True(t, math.IsNaN(ds.Row(0).Float(dataset.ColDistanceKm)))
	assert.Nil(t, ds.Row(0)[dataset.ColTravelDuration])
	assert.Nil(t, ds.Row(0)[dataset.ColDeparture])

	cached, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, cached, 2)

	// the failed origin is retried on the next run
	p.fail = nil
	stats, err = newTestEnricher(p, st).Enrich(context.Background(), sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, 1, stats.CacheHits)
	assert.Equal(t, int32(2), p.calls.Load())
}

func TestEnrichNoHomeStateRows(t *testing.T) {
	p := &countingProvider{}
	st := memstore.New()
	ds := dataset.New([]string{dataset.ColNeighborhood, dataset.ColCity, dataset.ColState}, []dataset.Row{
		{dataset.ColNeighborhood: "moema", dataset.ColCity: "são paulo", dataset.ColState: "SP"},
	})
	before := ds.Columns()

	stats, err := newTestEnricher(p, st).Enrich(context.Background(), ds)
	require.NoError(t, err)
	assert.Zero(t, stats.Origins)
	assert.Equal(t, before, ds.Columns())
	assert.Zero(t, st.Writes())
	assert.Zero(t, p.calls.Load())
}

func TestEnrichNoProvider(t *testing.T) {
	ds := sampleDataset()
	stats, err := newTestEnricher(nil, memstore.New()).Enrich(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Unresolved)
	assert.Equal(t, 1, stats.Special)
	assert.True(t, math.IsNaN(ds.Row(0).Float(dataset.ColDistanceKm)))
}

func TestEnrichConcurrentAtMostOncePerKey(t *testing.T) {
	p := &countingProvider{}
	var rows []dataset.Row
	for _, n := range []string{"a", "b", "c", "d", "e", "a", "b", "c"} {
		rows = append(rows, dataset.Row{dataset.ColNeighborhood: n, dataset.ColCity: "x", dataset.ColState: "RJ"})
	}
	ds := dataset.New([]string{dataset.ColNeighborhood, dataset.ColCity, dataset.ColState}, rows)

	st := memstore.New()
	stats, err := newTestEnricher(p, st, WithConcurrency(4), WithPersistEach(true)).Enrich(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, int32(5), p.calls.Load())
	assert.Equal(t, 5, stats.Resolved)
	assert.ElementsMatch(t, []string{"a, x, RJ", "b, x, RJ", "c, x, RJ", "d, x, RJ", "e, x, RJ"}, p.origins)
	assert.Equal(t, 6, st.Writes(), "five incremental writes and the final overwrite")
}

func TestArrivalTimeRollsOver(t *testing.T) {
	e := NewEnricher(nil, memstore.New(), WithClock(fixedClock(9, 0)))
	assert.Equal(t, time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC), e.ArrivalTime())

	e = NewEnricher(nil, memstore.New(), WithClock(fixedClock(19, 30)))
	assert.Equal(t, time.Date(2025, 3, 11, 18, 0, 0, 0, time.UTC), e.ArrivalTime())

	e = NewEnricher(nil, memstore.New(), WithClock(fixedClock(19, 30)), WithArrival("07:45"))
	assert.Equal(t, time.Date(2025, 3, 11, 7, 45, 0, 0, time.UTC), e.ArrivalTime())
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	p := &countingProvider{fail: map[string]bool{"tijuca, rio de janeiro, RJ": true}}

	_, err := newTestEnricher(p, memstore.New(), WithMetrics(m)).Enrich(context.Background(), sampleDataset())
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderCalls.WithLabelValues("error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ProviderCalls.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SpecialCases))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CacheHits))
}

func TestEnrichStoreFailure(t *testing.T) {
	_, err := newTestEnricher(&countingProvider{}, failingStore{memstore.New()}).Enrich(context.Background(), sampleDataset())
	require.Error(t, err)
}

type failingStore struct{ *memstore.Store }

func (failingStore) Load(ctx context.Context) (map[store.Key]store.Entry, error) {
	return nil, errors.New("disk on fire")
}

// cancelOnProvider cancels the run on call number cancelAt and still answers.
type cancelOnProvider struct {
	calls    atomic.Int32
	cancelAt int32
	cancel   context.CancelFunc
}

func (p *cancelOnProvider) Route(ctx context.Context, q Query) (Route, error) {
	if p.calls.Add(1) == p.cancelAt {
		p.cancel()
	}
	return Route{DistanceMeters: 8000, DurationText: "30 min", Duration: 30 * time.Minute}, nil
}

// ctxStore refuses writes on a done context, as the SQLite store does.
type ctxStore struct{ *memstore.Store }

func (s ctxStore) ReplaceAll(ctx context.Context, entries map[store.Key]store.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.ReplaceAll(ctx, entries)
}

func (s ctxStore) Put(ctx context.Context, k store.Key, e store.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.Put(ctx, k, e)
}

func threeOrigins() *dataset.Dataset {
	cols := []string{dataset.ColNeighborhood, dataset.ColCity, dataset.ColState}
	return dataset.New(cols, []dataset.Row{
		{dataset.ColNeighborhood: "tijuca", dataset.ColCity: "rio de janeiro", dataset.ColState: "RJ"},
		{dataset.ColNeighborhood: "grajaú", dataset.ColCity: "rio de janeiro", dataset.ColState: "RJ"},
		{dataset.ColNeighborhood: "méier", dataset.ColCity: "rio de janeiro", dataset.ColState: "RJ"},
	})
}

func TestEnrichInterruptedKeepsResolved(t *testing.T) {
	for _, persistEach := range []bool{false, true} {
		ctx, cancel := context.WithCancel(context.Background())
		p := &cancelOnProvider{cancelAt: 2, cancel: cancel}
		st := ctxStore{memstore.New()}

		_, err := newTestEnricher(p, st, WithPersistEach(persistEach)).Enrich(ctx, threeOrigins())
		require.ErrorIs(t, err, context.Canceled)
		cancel()

		assert.Equal(t, int32(2), p.calls.Load(), "no call after cancellation (persist each %v)", persistEach)

		cache, err := st.Load(context.Background())
		require.NoError(t, err)
		require.Len(t, cache, 2, "persist each %v", persistEach)
		for k, e := range cache {
			assert.True(t, e.Resolved(), k.String())
			assert.Equal(t, 8.0, e.DistanceKm)
		}
		_, ok := cache[store.Key{Neighborhood: "méier", City: "rio de janeiro", State: "RJ", Mode: DefaultMode}]
		assert.False(t, ok)
	}
}
