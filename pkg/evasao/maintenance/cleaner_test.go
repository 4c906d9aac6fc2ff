package maintenance

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/evasao/pkg/evasao/store"
	"github.com/cognicore/evasao/pkg/evasao/store/memstore"
)

var (
	urca   = store.Key{Neighborhood: "urca", City: "rio de janeiro", State: "RJ", Mode: "transit"}
	tijuca = store.Key{Neighborhood: "tijuca", City: "rio de janeiro", State: "RJ", Mode: "transit"}
	lost   = store.Key{Neighborhood: "tijuka", City: "rio de janeiro", State: "RJ", Mode: "transit"}
)

func seeded(t *testing.T) *memstore.Store {
	t.Helper()
	st := memstore.New()
	ctx := context.Background()
	old := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.Put(ctx, urca, store.Entry{DistanceKm: 0, Duration: "0 min", Departure: "18:00", ResolvedAt: recent}))
	require.NoError(t, st.Put(ctx, tijuca, store.Entry{DistanceKm: 9.1, Duration: "40 min", Departure: "17:20", ResolvedAt: old}))
	require.NoError(t, st.Put(ctx, lost, store.Unresolved("run", recent)))
	return st
}

func TestPruneUnresolved(t *testing.T) {
	st := seeded(t)
	res, err := (&Pruner{Store: st}).Prune(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Scanned)
	assert.Equal(t, 1, res.Removed)
	assert.Equal(t, []store.Key{lost}, res.Keys)

	_, ok, err := st.Get(context.Background(), lost)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPruneStale(t *testing.T) {
	st := seeded(t)
	p := &Pruner{Store: st, Before: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	res, err := p.Prune(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Removed)
	assert.ElementsMatch(t, []store.Key{tijuca, lost}, res.Keys)
}

func TestPruneDryRun(t *testing.T) {
	st := seeded(t)
	writes := st.Writes()
	res, err := (&Pruner{Store: st, DryRun: true}).Prune(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []store.Key{lost}, res.Keys)
	assert.Zero(t, res.Removed)
	assert.Equal(t, writes, st.Writes())

	all, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestPruneInvalid(t *testing.T) {
	_, err := (&Pruner{}).Prune(context.Background())
	assert.Error(t, err)
}

type brokenStore struct{ *memstore.Store }

func (brokenStore) Load(context.Context) (map[store.Key]store.Entry, error) {
	return nil, errors.New("disk gone")
}

func TestPruneLoadError(t *testing.T) {
	_, err := (&Pruner{Store: brokenStore{memstore.New()}}).Prune(context.Background())
	assert.ErrorContains(t, err, "disk gone")
}

func TestList(t *testing.T) {
	st := seeded(t)
	all, err := List(context.Background(), st, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, tijuca, all[0].Key)

	failed, err := List(context.Background(), st, true)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.True(t, math.IsNaN(failed[0].Entry.DistanceKm))
}
