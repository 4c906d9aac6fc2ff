package ingest

import (
	"context"
	"log/slog"

	"github.com/cognicore/evasao/pkg/evasao/clean"
	"github.com/cognicore/evasao/pkg/evasao/dataset"
	"github.com/cognicore/evasao/pkg/evasao/distance"
	"github.com/cognicore/evasao/pkg/evasao/geo"
	"github.com/cognicore/evasao/pkg/evasao/taxonomy"
)

// Env carries the components stages run with.
type Env struct {
	Resolver  *geo.Resolver
	Admission *taxonomy.Admission
	Dropout   *taxonomy.DropoutClassifier
	// Enricher may be nil; the distance stage is then skipped.
	Enricher *distance.Enricher
	Logger   *slog.Logger

	distanceStats distance.Stats
}

// Stage is one step of the pipeline with its column contract.
type Stage struct {
	Name   string
	Reads  []string
	Writes []string
	Drops  []string
	Run    func(ctx context.Context, env *Env, ds *dataset.Dataset) error
}

var (
	location   = []string{dataset.ColNeighborhood, dataset.ColCity, dataset.ColState}
	yearsTerms = []string{
		dataset.ColAdmissionYear, dataset.ColAdmissionSemester,
		dataset.ColDropoutYear, dataset.ColDropoutSemester,
	}
)

// Stages returns the pipeline stages in execution order.
func Stages() []Stage {
	return []Stage{
		{
			Name:   "extract_address",
			Reads:  []string{dataset.ColAddress, dataset.ColNeighborhood, dataset.ColCity, dataset.ColState},
			Writes: location,
			Run: func(_ context.Context, env *Env, ds *dataset.Dataset) error {
				if n := ExtractAddresses(ds); n > 0 {
					env.Logger.Info("location parsed from address", "rows", n)
				}
				return nil
			},
		},
		{
			Name:  "drop_columns",
			Drops: clean.DroppedColumns,
			Run: func(_ context.Context, _ *Env, ds *dataset.Dataset) error {
				clean.DropColumns(ds, clean.DroppedColumns)
				return nil
			},
		},
		{
			Name:   "fill_nulls",
			Reads:  location,
			Writes: location,
			Run: func(_ context.Context, _ *Env, ds *dataset.Dataset) error {
				clean.FillNulls(ds, location...)
				return nil
			},
		},
		{
			Name:   "parse_dates",
			Reads:  []string{dataset.ColBirthDate},
			Writes: []string{dataset.ColBirthDate},
			Run: func(_ context.Context, env *Env, ds *dataset.Dataset) error {
				if n := clean.ParseDates(ds, dataset.ColBirthDate); n > 0 {
					env.Logger.Debug("unparseable birth dates set to null", "rows", n)
				}
				return nil
			},
		},
		{
			Name:   "parse_periods",
			Reads:  []string{dataset.ColAdmissionPeriod, dataset.ColDropoutPeriod, dataset.ColAdmissionYear, dataset.ColDropoutYear},
			Writes: yearsTerms,
			Drops:  []string{dataset.ColAdmissionPeriod, dataset.ColDropoutPeriod},
			Run: func(_ context.Context, _ *Env, ds *dataset.Dataset) error {
				clean.ParsePeriods(ds)
				return nil
			},
		},
		{
			Name:   "coerce_numeric",
			Reads:  clean.NumericColumns,
			Writes: clean.NumericColumns,
			Run: func(_ context.Context, env *Env, ds *dataset.Dataset) error {
				if n := clean.CoerceNumeric(ds, clean.NumericColumns...); n > 0 {
					env.Logger.Debug("non-numeric values set to NaN", "cells", n)
				}
				return nil
			},
		},
		{
			Name:   "correct_neighborhood",
			Reads:  []string{dataset.ColNeighborhood},
			Writes: []string{dataset.ColNeighborhood},
			Run: func(_ context.Context, env *Env, ds *dataset.Dataset) error {
				env.Resolver.NormalizeAndCorrect(ds, dataset.ColNeighborhood, env.Resolver.Neighborhoods())
				return nil
			},
		},
		{
			Name:   "correct_city",
			Reads:  []string{dataset.ColCity},
			Writes: []string{dataset.ColCity},
			Run: func(_ context.Context, env *Env, ds *dataset.Dataset) error {
				env.Resolver.NormalizeAndCorrect(ds, dataset.ColCity, env.Resolver.Cities())
				return nil
			},
		},
		{
			Name:   "manual_overrides",
			Reads:  []string{dataset.ColNeighborhood},
			Writes: location,
			Run: func(_ context.Context, env *Env, ds *dataset.Dataset) error {
				if !ds.Has(dataset.ColNeighborhood) {
					return nil
				}
				n := 0
				for _, row := range ds.Rows() {
					if env.Resolver.ApplyManualOverrides(row) {
						n++
					}
				}
				env.Logger.Debug("manual overrides applied", "rows", n)
				return nil
			},
		},
		{
			Name:   "standardize_location",
			Reads:  []string{dataset.ColNeighborhood, dataset.ColCity},
			Writes: []string{dataset.ColNeighborhood, dataset.ColCity},
			Run: func(_ context.Context, env *Env, ds *dataset.Dataset) error {
				env.Resolver.NormalizeAndCorrect(ds, dataset.ColNeighborhood, env.Resolver.Neighborhoods())
				env.Resolver.NormalizeAndCorrect(ds, dataset.ColCity, env.Resolver.Cities())
				return nil
			},
		},
		{
			Name:   "default_state",
			Reads:  []string{dataset.ColCity, dataset.ColState},
			Writes: []string{dataset.ColState},
			Run: func(_ context.Context, env *Env, ds *dataset.Dataset) error {
				if !ds.Has(dataset.ColCity) && !ds.Has(dataset.ColState) {
					return nil
				}
				ds.Ensure(dataset.ColState)
				for _, row := range ds.Rows() {
					env.Resolver.StandardizeState(row)
					env.Resolver.EnsureStateDefault(row)
				}
				return nil
			},
		},
		{
			Name:   "assign_zone",
			Reads:  location,
			Writes: []string{dataset.ColZone},
			Run: func(_ context.Context, env *Env, ds *dataset.Dataset) error {
				ds.Ensure(dataset.ColZone)
				for _, row := range ds.Rows() {
					row[dataset.ColZone] = env.Resolver.AssignZone(row)
				}
				return nil
			},
		},
		{
			Name:   "age_bracket",
			Reads:  []string{dataset.ColBirthDate, dataset.ColAdmissionYear, dataset.ColAdmissionSemester},
			Writes: []string{dataset.ColAgeAtAdmission, dataset.ColAgeBracket},
			Run: func(_ context.Context, _ *Env, ds *dataset.Dataset) error {
				clean.AgeAtAdmission(ds)
				return nil
			},
		},
		{
			Name:   "gpa_bucket",
			Reads:  []string{dataset.ColGPA},
			Writes: []string{dataset.ColGPABucket},
			Run: func(_ context.Context, _ *Env, ds *dataset.Dataset) error {
				clean.GPABuckets(ds)
				return nil
			},
		},
		{
			Name:   "course_duration",
			Reads:  yearsTerms,
			Writes: []string{dataset.ColCourseDuration},
			Run: func(_ context.Context, _ *Env, ds *dataset.Dataset) error {
				clean.CourseDurations(ds)
				return nil
			},
		},
		{
			Name:   "admission_category",
			Reads:  []string{dataset.ColAdmissionRaw, dataset.ColAdmissionYear},
			Writes: []string{dataset.ColAdmissionCategory},
			Run: func(_ context.Context, env *Env, ds *dataset.Dataset) error {
				env.Admission.Apply(ds)
				return nil
			},
		},
		{
			Name:   "dropout_category",
			Reads:  []string{dataset.ColDropoutRaw},
			Writes: []string{dataset.ColDropoutCategory, dataset.ColDropoutReason},
			Run: func(_ context.Context, env *Env, ds *dataset.Dataset) error {
				env.Dropout.Apply(ds)
				return nil
			},
		},
		{
			Name:   "distance",
			Reads:  location,
			Writes: []string{dataset.ColDistanceKm, dataset.ColTravelDuration, dataset.ColDeparture},
			Run: func(ctx context.Context, env *Env, ds *dataset.Dataset) error {
				if env.Enricher == nil {
					env.Logger.Info("distance enrichment disabled")
					return nil
				}
				stats, err := env.Enricher.Enrich(ctx, ds)
				env.distanceStats = stats
				return err
			},
		},
	}
}
