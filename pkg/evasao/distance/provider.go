// Package distance resolves commute distance and travel time from each
// student's neighborhood to the campus, backed by a persistent cache.
package distance

import (
	"context"
	"time"
)

// Query is one routing request.
type Query struct {
	Origin      string
	Destination string
	Mode        string
	ArrivalTime time.Time
}

// Route is a provider answer.
type Route struct {
	DistanceMeters int
	DurationText   string
	Duration       time.Duration
}

// Provider resolves routes. Implementations return an error for network
// failures and non-OK statuses; the enricher degrades those to nulls.
type Provider interface {
	Route(ctx context.Context, q Query) (Route, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, q Query) (Route, error)

// Route calls f.
func (f ProviderFunc) Route(ctx context.Context, q Query) (Route, error) {
	return f(ctx, q)
}
