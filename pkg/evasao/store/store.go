// Package store defines the persistent distance cache.
package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"
)

// Store persists resolved distances keyed by origin and travel mode.
type Store interface {
	Close() error

	// Load returns every entry. An empty store yields an empty map.
	Load(ctx context.Context) (map[Key]Entry, error)
	// ReplaceAll overwrites the whole cache with entries.
	ReplaceAll(ctx context.Context, entries map[Key]Entry) error
	// Put inserts or updates a single entry.
	Put(ctx context.Context, k Key, e Entry) error
	// Get returns one entry.
	Get(ctx context.Context, k Key) (Entry, bool, error)
	// Delete removes entries and reports how many existed.
	Delete(ctx context.Context, keys ...Key) (int, error)
}

// Key identifies an origin and travel mode. Place names are stored as the
// pipeline writes them.
type Key struct {
	Neighborhood string
	City         string
	State        string
	Mode         string
}

func (k Key) String() string {
	return fmt.Sprintf("%s, %s, %s [%s]", k.Neighborhood, k.City, k.State, k.Mode)
}

// Entry is a resolved (or unresolved) distance.
type Entry struct {
	// DistanceKm is NaN when the provider could not resolve the origin.
	DistanceKm float64
	// Duration is the provider's human-readable travel time; empty is null.
	Duration string
	// Departure is the suggested departure time (HH:MM); empty is null.
	Departure  string
	RunID      string
	ResolvedAt time.Time
}

// Unresolved returns an entry recording a failed lookup.
func Unresolved(runID string, at time.Time) Entry {
	return Entry{DistanceKm: math.NaN(), RunID: runID, ResolvedAt: at}
}

// Resolved reports whether the entry carries a distance.
func (e Entry) Resolved() bool {
	return !math.IsNaN(e.DistanceKm)
}

// Record pairs a key with its entry.
type Record struct {
	Key   Key
	Entry Entry
}

// Sorted returns entries ordered by state, city, neighborhood and mode.
func Sorted(entries map[Key]Entry) []Record {
	out := make([]Record, 0, len(entries))
	for k, e := range entries {
		out = append(out, Record{Key: k, Entry: e})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.State != b.State {
			return a.State < b.State
		}
		if a.City != b.City {
			return a.City < b.City
		}
		if a.Neighborhood != b.Neighborhood {
			return a.Neighborhood < b.Neighborhood
		}
		return a.Mode < b.Mode
	})
	return out
}
