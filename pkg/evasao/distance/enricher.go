package distance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/evasao/pkg/evasao/dataset"
	"github.com/cognicore/evasao/pkg/evasao/store"
	"github.com/cognicore/evasao/pkg/evasao/textnorm"
)

// Defaults for the campus at Urca, Rio de Janeiro.
const (
	DefaultDestination             = "Av. Pasteur 459, Urca, Rio de Janeiro, RJ"
	DefaultDestinationNeighborhood = "Urca"
	DefaultArrival                 = "18:00"
	DefaultMode                    = "transit"
	DefaultHomeState               = "RJ"
	DefaultRequestDelay            = 250 * time.Millisecond
)

// Entry values written for origins in the destination neighborhood.
const zeroDuration = "0 min"

// Enricher adds distance_km, travel_duration_text and
// departure_time_for_18h_arrival to a dataset.
//
// Each distinct (neighborhood, city, state) of the home state is resolved at
// most once per run. Cached entries with a distance are reused; entries that
// failed in an earlier run are retried. The cache is written in full after
// the batch.
type Enricher struct {
	provider Provider
	store    store.Store

	destination      string
	destNeighborhood string
	homeState        string
	mode             string
	arrivalHour      int
	arrivalMinute    int
	delay            time.Duration
	concurrency      int
	persistEach      bool

	now     func() time.Time
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithDestination sets the destination address and its neighborhood.
func WithDestination(address, neighborhood string) Option {
	return func(e *Enricher) {
		if address != "" {
			e.destination = address
		}
		if neighborhood != "" {
			e.destNeighborhood = neighborhood
		}
	}
}

// WithHomeState restricts resolution to rows of state.
func WithHomeState(state string) Option {
	return func(e *Enricher) {
		if s := strings.ToUpper(strings.TrimSpace(state)); s != "" {
			e.homeState = s
		}
	}
}

// WithMode sets the travel mode.
func WithMode(mode string) Option {
	return func(e *Enricher) {
		if mode != "" {
			e.mode = mode
		}
	}
}

// WithArrival sets the target arrival clock time (HH:MM).
func WithArrival(hhmm string) Option {
	return func(e *Enricher) {
		if t, err := time.Parse("15:04", hhmm); err == nil {
			e.arrivalHour, e.arrivalMinute = t.Hour(), t.Minute()
		}
	}
}

// WithRequestDelay sets the minimum interval between provider calls.
func WithRequestDelay(d time.Duration) Option {
	return func(e *Enricher) { e.delay = d }
}

// WithConcurrency bounds in-flight provider calls.
func WithConcurrency(n int) Option {
	return func(e *Enricher) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithPersistEach also writes every resolution as soon as it completes.
func WithPersistEach(on bool) Option {
	return func(e *Enricher) { e.persistEach = on }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Enricher) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Enricher) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *Metrics) Option {
	return func(e *Enricher) { e.metrics = m }
}

// NewEnricher creates an enricher. A nil provider resolves nothing: every
// uncached origin is recorded as unresolved.
func NewEnricher(p Provider, st store.Store, opts ...Option) *Enricher {
	e := &Enricher{
		provider:         p,
		store:            st,
		destination:      DefaultDestination,
		destNeighborhood: DefaultDestinationNeighborhood,
		homeState:        DefaultHomeState,
		mode:             DefaultMode,
		arrivalHour:      18,
		delay:            DefaultRequestDelay,
		concurrency:      1,
		now:              time.Now,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Stats summarizes one Enrich call.
type Stats struct {
	RunID      string
	Origins    int
	CacheHits  int
	Special    int
	Resolved   int
	Unresolved int
}

// Calls is the number of provider calls made.
func (s Stats) Calls() int { return s.Resolved + s.Unresolved }

// ArrivalTime returns today's arrival clock time, or tomorrow's when it has
// already passed.
func (e *Enricher) ArrivalTime() time.Time {
	now := e.now()
	arrival := time.Date(now.Year(), now.Month(), now.Day(), e.arrivalHour, e.arrivalMinute, 0, 0, now.Location())
	if arrival.Before(now) {
		arrival = arrival.AddDate(0, 0, 1)
	}
	return arrival
}

func (e *Enricher) arrivalClock() string {
	return fmt.Sprintf("%02d:%02d", e.arrivalHour, e.arrivalMinute)
}

// Enrich resolves distances for the home-state rows and joins them onto
// every row. Provider failures degrade to nulls for that origin only; an
// error is returned when the cache cannot be read or written, or when ctx is
// done, in which case the entries resolved so far are still persisted.
func (e *Enricher) Enrich(ctx context.Context, ds *dataset.Dataset) (Stats, error) {
	stats := Stats{RunID: ulid.Make().String()}
	log := e.logger.With("run_id", stats.RunID)

	if !ds.Has(dataset.ColState) {
		log.Warn("state column missing, skipping distance resolution")
		return stats, nil
	}

	origins := e.homeOrigins(ds)
	if len(origins) == 0 {
		log.Warn("no rows in home state, skipping distance resolution", "home_state", e.homeState)
		return stats, nil
	}
	stats.Origins = len(origins)

	cache, err := e.store.Load(ctx)
	if err != nil {
		return stats, fmt.Errorf("load distance cache: %w", err)
	}
	if cache == nil {
		cache = make(map[store.Key]store.Entry)
	}

	var pending []store.Key
	for _, k := range origins {
		if c, ok := cache[k]; ok && c.Resolved() {
			stats.CacheHits++
			e.metrics.IncrementCacheHit()
			log.Debug("cache hit", "origin", k.String())
			continue
		}
		if textnorm.Equal(k.Neighborhood, e.destNeighborhood) {
			stats.Special++
			e.metrics.IncrementSpecialCase()
			cache[k] = store.Entry{
				DistanceKm: 0,
				Duration:   zeroDuration,
				Departure:  e.arrivalClock(),
				RunID:      stats.RunID,
				ResolvedAt: e.now(),
			}
			log.Info("origin in destination neighborhood", "origin", k.String())
			continue
		}
		pending = append(pending, k)
	}

	resolved, err := e.resolve(ctx, log, stats.RunID, pending)
	for k, entry := range resolved {
		cache[k] = entry
		if entry.Resolved() {
			stats.Resolved++
		} else {
			stats.Unresolved++
		}
	}

	// Written even after cancellation so resolved entries survive an interrupt.
	if perr := e.store.ReplaceAll(context.WithoutCancel(ctx), cache); perr != nil {
		return stats, fmt.Errorf("persist distance cache: %w", perr)
	}
	if err != nil {
		return stats, err
	}

	e.join(ds, cache)
	log.Info("distance resolution done",
		"origins", stats.Origins, "cache_hits", stats.CacheHits, "special", stats.Special,
		"resolved", stats.Resolved, "unresolved", stats.Unresolved)
	return stats, nil
}

// homeOrigins returns the distinct origins of home-state rows in row order.
func (e *Enricher) homeOrigins(ds *dataset.Dataset) []store.Key {
	seen := make(map[store.Key]bool)
	var out []store.Key
	for _, row := range ds.Rows() {
		k := e.keyFor(row)
		if strings.ToUpper(strings.TrimSpace(k.State)) != e.homeState || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

func (e *Enricher) keyFor(row dataset.Row) store.Key {
	n, _ := row.Str(dataset.ColNeighborhood)
	c, _ := row.Str(dataset.ColCity)
	s, _ := row.Str(dataset.ColState)
	return store.Key{Neighborhood: n, City: c, State: s, Mode: e.mode}
}

// resolve calls the provider for each key, at most concurrency at a time and
// no faster than one call per delay. It returns an error only when ctx is
// done; the entries resolved so far are returned either way.
func (e *Enricher) resolve(ctx context.Context, log *slog.Logger, runID string, keys []store.Key) (map[store.Key]store.Entry, error) {
	out := make(map[store.Key]store.Entry, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	if e.provider == nil {
		log.Warn("no routing provider configured, origins left unresolved", "origins", len(keys))
		for _, k := range keys {
			out[k] = store.Unresolved(runID, e.now())
		}
		return out, nil
	}

	arrival := e.ArrivalTime()
	var (
		mu       sync.Mutex
		throttle <-chan time.Time
	)
	if e.delay > 0 {
		ticker := time.NewTicker(e.delay)
		defer ticker.Stop()
		throttle = ticker.C
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, k := range keys {
		if i > 0 && throttle != nil {
			select {
			case <-throttle:
			case <-gctx.Done():
			}
		}
		if gctx.Err() != nil {
			break
		}
		k := k
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			entry := e.lookup(gctx, log, runID, k, arrival)
			mu.Lock()
			out[k] = entry
			mu.Unlock()
			if e.persistEach {
				if err := e.store.Put(context.WithoutCancel(gctx), k, entry); err != nil {
					log.Warn("incremental cache write failed", "origin", k.String(), "error", err)
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	return out, ctx.Err()
}

func (e *Enricher) lookup(ctx context.Context, log *slog.Logger, runID string, k store.Key, arrival time.Time) store.Entry {
	q := Query{
		Origin:      fmt.Sprintf("%s, %s, %s", k.Neighborhood, k.City, k.State),
		Destination: e.destination,
		Mode:        e.mode,
		ArrivalTime: arrival,
	}
	start := time.Now()
	route, err := e.provider.Route(ctx, q)
	if err != nil {
		e.metrics.ObserveCall("error", time.Since(start))
		log.Warn("route lookup failed", "origin", q.Origin, "mode", q.Mode, "error", err)
		return store.Unresolved(runID, e.now())
	}
	e.metrics.ObserveCall("ok", time.Since(start))
	entry := store.Entry{
		DistanceKm: math.Round(float64(route.DistanceMeters)/10) / 100,
		Duration:   route.DurationText,
		Departure:  arrival.Add(-route.Duration).Format("15:04"),
		RunID:      runID,
		ResolvedAt: e.now(),
	}
	log.Debug("route resolved", "origin", q.Origin, "distance_km", entry.DistanceKm, "duration", entry.Duration)
	return entry
}

// join writes the cached values onto every row. Rows without a cache entry
// get NaN and nulls.
func (e *Enricher) join(ds *dataset.Dataset, cache map[store.Key]store.Entry) {
	ds.Ensure(dataset.ColDistanceKm)
	ds.Ensure(dataset.ColTravelDuration)
	ds.Ensure(dataset.ColDeparture)
	for _, row := range ds.Rows() {
		entry, ok := cache[e.keyFor(row)]
		if !ok {
			row[dataset.ColDistanceKm] = math.NaN()
			row[dataset.ColTravelDuration] = nil
			row[dataset.ColDeparture] = nil
			continue
		}
		row[dataset.ColDistanceKm] = entry.DistanceKm
		row[dataset.ColTravelDuration] = nullIfEmpty(entry.Duration)
		row[dataset.ColDeparture] = nullIfEmpty(entry.Departure)
	}
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
