// Package geo resolves student addresses to canonical places and coarse
// geographic zones of Rio de Janeiro state.
package geo

import (
	"io"
	"log/slog"
	"strings"

	"github.com/cognicore/evasao/pkg/evasao/dataset"
	"github.com/cognicore/evasao/pkg/evasao/lexicon"
	"github.com/cognicore/evasao/pkg/evasao/textnorm"
)

// DefaultHomeState is the state the institution is located in.
const DefaultHomeState = "RJ"

// Resolver applies correction tables, curated overrides and zone lookup.
// A Resolver is read-only after construction and safe for concurrent use.
type Resolver struct {
	neighborhoods *lexicon.Lexicon
	cities        *lexicon.Lexicon
	zones         *ZoneIndex
	overrides     Overrides
	homeState     string
	logger        *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCorrections replaces the neighborhood and city correction tables.
func WithCorrections(neighborhoods, cities *lexicon.Lexicon) Option {
	return func(r *Resolver) {
		if neighborhoods != nil {
			r.neighborhoods = neighborhoods
		}
		if cities != nil {
			r.cities = cities
		}
	}
}

// WithZones replaces the zone index.
func WithZones(z *ZoneIndex) Option {
	return func(r *Resolver) {
		if z != nil {
			r.zones = z
		}
	}
}

// WithOverrides replaces the manual override table.
func WithOverrides(o Overrides) Option {
	return func(r *Resolver) { r.overrides = o }
}

// WithHomeState sets the home state abbreviation.
func WithHomeState(state string) Option {
	return func(r *Resolver) {
		if s := strings.ToUpper(strings.TrimSpace(state)); s != "" {
			r.homeState = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver builds a resolver over the built-in tables unless overridden.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		neighborhoods: lexicon.Neighborhoods(),
		cities:        lexicon.Cities(),
		zones:         DefaultZones(),
		overrides:     DefaultOverrides(),
		homeState:     DefaultHomeState,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HomeState returns the configured home state.
func (r *Resolver) HomeState() string { return r.homeState }

// Neighborhoods returns the neighborhood correction table.
func (r *Resolver) Neighborhoods() *lexicon.Lexicon { return r.neighborhoods }

// Cities returns the city correction table.
func (r *Resolver) Cities() *lexicon.Lexicon { return r.cities }

// NormalizeAndCorrect folds every value of col and replaces known variants
// with their canonical value in a single pass. Null cells stay null.
// It returns the number of cells that changed.
func (r *Resolver) NormalizeAndCorrect(ds *dataset.Dataset, col string, lex *lexicon.Lexicon) int {
	if !ds.Has(col) {
		return 0
	}
	changed := 0
	for _, row := range ds.Rows() {
		if row.IsNull(col) {
			continue
		}
		folded := textnorm.Fold(row[col])
		next := folded
		if c, ok := lex.Lookup(folded); ok {
			next = c
		}
		if prev, isStr := row[col].(string); !isStr || prev != next {
			changed++
		}
		row[col] = next
	}
	r.logger.Debug("corrected column", "column", col, "table", lex.Name(), "changed", changed)
	return changed
}

// ApplyManualOverrides replaces neighborhood, city and state with the
// curated placement for the row's neighborhood, if there is one.
func (r *Resolver) ApplyManualOverrides(row dataset.Row) bool {
	p, ok := r.overrides.Lookup(row[dataset.ColNeighborhood])
	if !ok {
		return false
	}
	row[dataset.ColNeighborhood] = p.Neighborhood
	row[dataset.ColCity] = p.City
	row[dataset.ColState] = p.State
	return true
}

// StandardizeState upper-cases the state abbreviation. Blank values and
// the unknown sentinel become dataset.UnknownValue.
func (r *Resolver) StandardizeState(row dataset.Row) {
	s := strings.ToUpper(textnorm.Fold(row[dataset.ColState]))
	if s == "" || s == "UNKNOWN" {
		row[dataset.ColState] = dataset.UnknownValue
		return
	}
	row[dataset.ColState] = s
}

// EnsureStateDefault sets the home state on rows that have a known city but
// no state.
func (r *Resolver) EnsureStateDefault(row dataset.Row) bool {
	if !isKnown(row[dataset.ColCity]) || isKnown(row[dataset.ColState]) {
		return false
	}
	row[dataset.ColState] = r.homeState
	return true
}

// AssignZone returns the geographic zone for a row. Rows from another state
// are "Other State"; rows without a state are "Unidentified". Within the
// home state a neighborhood match wins over a city match.
func (r *Resolver) AssignZone(row dataset.Row) string {
	if !isKnown(row[dataset.ColState]) {
		return ZoneUnidentified
	}
	state := strings.ToUpper(textnorm.Fold(row[dataset.ColState]))
	if state != r.homeState {
		return ZoneOtherState
	}
	if z, ok := r.zones.ZoneForPlace(textnorm.Fold(row[dataset.ColNeighborhood]), textnorm.Fold(row[dataset.ColCity])); ok {
		return z
	}
	if z, ok := r.zones.ZoneForCity(textnorm.Fold(row[dataset.ColCity])); ok {
		return z
	}
	return ZoneUnidentifiedHome
}

var unknownFolded = textnorm.Fold(dataset.UnknownValue)

func isKnown(v any) bool {
	f := textnorm.Fold(v)
	return f != "" && f != unknownFolded
}
