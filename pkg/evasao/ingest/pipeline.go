// Package ingest validates a raw enrollment dataset and runs the cleaning
// and enrichment stages over it in a fixed order.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cognicore/evasao/pkg/evasao/dataset"
	"github.com/cognicore/evasao/pkg/evasao/distance"
	"github.com/cognicore/evasao/pkg/evasao/geo"
	"github.com/cognicore/evasao/pkg/evasao/taxonomy"
)

// Pipeline orchestrates the full cleaning flow:
// validation → location cleanup → derived fields → categories → distances
type Pipeline struct {
	env     Env
	stages  []Stage
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithResolver sets the location resolver.
func WithResolver(r *geo.Resolver) Option {
	return func(p *Pipeline) { p.env.Resolver = r }
}

// WithClassifiers sets the admission and dropout classifiers.
func WithClassifiers(a *taxonomy.Admission, d *taxonomy.DropoutClassifier) Option {
	return func(p *Pipeline) {
		if a != nil {
			p.env.Admission = a
		}
		if d != nil {
			p.env.Dropout = d
		}
	}
}

// WithEnricher enables the distance stage.
func WithEnricher(e *distance.Enricher) Option {
	return func(p *Pipeline) { p.env.Enricher = e }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// NewPipeline creates a pipeline over the built-in tables and classifiers.
// Without WithEnricher the distance stage is skipped.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		stages: Stages(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.env.Resolver == nil {
		p.env.Resolver = geo.NewResolver(geo.WithLogger(p.logger))
	}
	if p.env.Admission == nil {
		p.env.Admission = taxonomy.NewAdmission(taxonomy.DefaultPolicyChangeYear)
	}
	if p.env.Dropout == nil {
		p.env.Dropout = taxonomy.NewDropout()
	}
	p.env.Logger = p.logger
	return p
}

// StageReport records one executed stage.
type StageReport struct {
	Name     string
	Rows     int
	Duration time.Duration
}

// Report summarizes a run.
type Report struct {
	Stages     []StageReport
	Distance   distance.Stats
	Unresolved []geo.UnresolvedPlace
}

// Run validates ds and mutates it through every stage. Missing required
// columns fail with a *ValidationError before any stage runs.
func (p *Pipeline) Run(ctx context.Context, ds *dataset.Dataset) (Report, error) {
	var rep Report
	if err := Validate(ds); err != nil {
		return rep, err
	}
	p.logger.Info("starting cleaning", "rows", ds.Len(), "columns", len(ds.Columns()))

	env := p.env
	for _, st := range p.stages {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		start := time.Now()
		if err := st.Run(ctx, &env, ds); err != nil {
			return rep, fmt.Errorf("stage %s: %w", st.Name, err)
		}
		elapsed := time.Since(start)
		p.metrics.ObserveStage(st.Name, elapsed)
		rep.Stages = append(rep.Stages, StageReport{Name: st.Name, Rows: ds.Len(), Duration: elapsed})
		p.logger.Info("stage done", "stage", st.Name, "rows", ds.Len())
	}

	rep.Distance = env.distanceStats
	rep.Unresolved = env.Resolver.Unresolved(ds)
	p.metrics.AddRows(ds.Len())
	return rep, nil
}
