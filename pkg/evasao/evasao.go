// Package evasao cleans and enriches student enrollment spreadsheets for
// dropout analysis.
package evasao

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cognicore/evasao/pkg/evasao/analytics"
	"github.com/cognicore/evasao/pkg/evasao/config"
	"github.com/cognicore/evasao/pkg/evasao/dataset"
	"github.com/cognicore/evasao/pkg/evasao/distance"
	"github.com/cognicore/evasao/pkg/evasao/ingest"
	"github.com/cognicore/evasao/pkg/evasao/sheet"
	"github.com/cognicore/evasao/pkg/evasao/store"
)

// Evasao is the main cleaning engine facade
type Evasao struct {
	store    store.Store
	pipeline *ingest.Pipeline
	logger   *slog.Logger
}

// Options configures an Evasao instance
type Options struct {
	// Components come from config.Loader. Nil uses the built-in defaults.
	Components *config.Components
	// Store enables distance enrichment. Nil skips the distance stage.
	Store store.Store
	// Provider overrides the routing provider from Components.
	Provider distance.Provider
	// Registry receives pipeline and distance metrics when set.
	Registry prometheus.Registerer
	Logger   *slog.Logger
}

// New creates an Evasao instance with the given dependencies
func New(opts Options) (*Evasao, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	comp := opts.Components
	if comp == nil {
		var err error
		comp, err = (&config.Loader{Logger: logger}).Load()
		if err != nil {
			return nil, err
		}
	}

	popts := []ingest.Option{
		ingest.WithResolver(comp.Resolver),
		ingest.WithClassifiers(comp.Admission, comp.Dropout),
		ingest.WithLogger(logger),
	}
	if opts.Registry != nil {
		popts = append(popts, ingest.WithMetrics(ingest.NewMetrics(opts.Registry)))
	}
	if opts.Store != nil {
		provider := opts.Provider
		if provider == nil {
			provider = comp.Provider()
		}
		popts = append(popts, ingest.WithEnricher(comp.NewEnricher(provider, opts.Store, opts.Registry)))
	}

	return &Evasao{
		store:    opts.Store,
		pipeline: ingest.NewPipeline(popts...),
		logger:   logger,
	}, nil
}

// Close cleanly shuts down the instance
func (e *Evasao) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Result is the outcome of a cleaning run.
type Result struct {
	Report  ingest.Report
	Summary analytics.Summary
}

// Clean runs the pipeline over ds in place and summarizes the result.
func (e *Evasao) Clean(ctx context.Context, ds *dataset.Dataset) (Result, error) {
	rep, err := e.pipeline.Run(ctx, ds)
	if err != nil {
		return Result{Report: rep}, err
	}
	for _, u := range rep.Unresolved {
		e.logger.Info("unresolved place",
			"neighborhood", u.Neighborhood, "city", u.City, "rows", u.Rows, "suggestions", u.Suggestions)
	}
	return Result{Report: rep, Summary: analytics.Summarize(ds)}, nil
}

// CleanFile reads input, cleans it and writes the result to output.
func (e *Evasao) CleanFile(ctx context.Context, input, output string) (Result, error) {
	ds, err := sheet.Read(input)
	if err != nil {
		return Result{}, err
	}
	e.logger.Info("input loaded", "path", input, "rows", ds.Len())

	res, err := e.Clean(ctx, ds)
	if err != nil {
		return res, fmt.Errorf("clean %s: %w", input, err)
	}
	if err := sheet.Write(output, ds); err != nil {
		return res, err
	}
	e.logger.Info("output written", "path", output, "rows", ds.Len(), "columns", len(ds.Columns()))
	return res, nil
}
