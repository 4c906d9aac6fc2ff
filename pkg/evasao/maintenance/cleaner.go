// Package maintenance holds offline jobs over the distance cache and the
// correction tables.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cognicore/evasao/pkg/evasao/store"
)

// Pruner removes cache entries that should be looked up again.
type Pruner struct {
	Store store.Store
	// Before, when set, also prunes resolved entries older than it.
	Before time.Time
	// DryRun reports what would be removed without deleting.
	DryRun bool
}

// Result summarizes a prune run.
type Result struct {
	Scanned int
	Removed int
	Keys    []store.Key
}

// Prune deletes unresolved entries, plus stale ones when Before is set.
func (p *Pruner) Prune(ctx context.Context) (Result, error) {
	var res Result
	if p.Store == nil {
		return res, errors.New("pruner: invalid configuration")
	}
	entries, err := p.Store.Load(ctx)
	if err != nil {
		return res, fmt.Errorf("pruner: load: %w", err)
	}
	res.Scanned = len(entries)

	for _, rec := range store.Sorted(entries) {
		if p.prunable(rec.Entry) {
			res.Keys = append(res.Keys, rec.Key)
		}
	}
	if p.DryRun || len(res.Keys) == 0 {
		return res, nil
	}
	res.Removed, err = p.Store.Delete(ctx, res.Keys...)
	if err != nil {
		return res, fmt.Errorf("pruner: delete: %w", err)
	}
	return res, nil
}

func (p *Pruner) prunable(e store.Entry) bool {
	if !e.Resolved() {
		return true
	}
	return !p.Before.IsZero() && !e.ResolvedAt.IsZero() && e.ResolvedAt.Before(p.Before)
}

// List returns the cache ordered by place. onlyUnresolved keeps failed
// lookups only.
func List(ctx context.Context, st store.Store, onlyUnresolved bool) ([]store.Record, error) {
	entries, err := st.Load(ctx)
	if err != nil {
		return nil, err
	}
	recs := store.Sorted(entries)
	if !onlyUnresolved {
		return recs, nil
	}
	out := recs[:0]
	for _, r := range recs {
		if !r.Entry.Resolved() {
			out = append(out, r)
		}
	}
	return out, nil
}
