package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cognicore/evasao/internal/maps"
	"github.com/cognicore/evasao/pkg/evasao/distance"
	"github.com/cognicore/evasao/pkg/evasao/geo"
	"github.com/cognicore/evasao/pkg/evasao/lexicon"
	"github.com/cognicore/evasao/pkg/evasao/store"
	"github.com/cognicore/evasao/pkg/evasao/store/sqlite"
	"github.com/cognicore/evasao/pkg/evasao/taxonomy"
)

// Loader loads the configuration and constructs the pipeline components.
type Loader struct {
	ConfigPath string
	// EnvFile is loaded into the environment when it exists. Variables
	// already set win.
	EnvFile string
	Logger  *slog.Logger
}

// Components holds everything a pipeline run is built from.
type Components struct {
	Config    Config
	Resolver  *geo.Resolver
	Admission *taxonomy.Admission
	Dropout   *taxonomy.DropoutClassifier
	logger    *slog.Logger
}

// Load reads the env file and config, validates them and builds the
// resolver and classifiers.
func (l *Loader) Load() (*Components, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if l.EnvFile != "" {
		if err := godotenv.Load(l.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	cfg, err := Load(l.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	neighborhoods, err := withExtra(lexicon.Neighborhoods(), cfg.Corrections.Neighborhoods)
	if err != nil {
		return nil, fmt.Errorf("load neighborhood corrections: %w", err)
	}
	cities, err := withExtra(lexicon.Cities(), cfg.Corrections.Cities)
	if err != nil {
		return nil, fmt.Errorf("load city corrections: %w", err)
	}

	return &Components{
		Config: cfg,
		Resolver: geo.NewResolver(
			geo.WithCorrections(neighborhoods, cities),
			geo.WithHomeState(cfg.HomeState),
			geo.WithLogger(logger),
		),
		Admission: taxonomy.NewAdmission(cfg.PolicyChangeYear),
		Dropout:   taxonomy.NewDropout(),
		logger:    logger,
	}, nil
}

// withExtra returns base, or a copy of base with the groups of the YAML file
// at path merged in.
func withExtra(base *lexicon.Lexicon, path string) (*lexicon.Lexicon, error) {
	if path == "" {
		return base, nil
	}
	extra, err := lexicon.LoadFromYAML(base.Name(), path)
	if err != nil {
		return nil, err
	}
	merged := base.Clone()
	if err := merged.Merge(extra); err != nil {
		return nil, err
	}
	return merged, nil
}

// OpenStore opens the SQLite distance cache at the configured path,
// creating its directory.
func (c *Components) OpenStore(ctx context.Context) (store.Store, error) {
	if dir := filepath.Dir(c.Config.CachePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}
	return sqlite.OpenSQLite(ctx, c.Config.CachePath)
}

// Provider returns the Distance Matrix client, or nil without an API key.
func (c *Components) Provider() distance.Provider {
	if c.Config.APIKey == "" {
		return nil
	}
	return &maps.Client{APIKey: c.Config.APIKey, Language: c.Config.Language}
}

// NewEnricher builds the distance enricher over p and st. p is usually
// Provider(); reg may be nil.
func (c *Components) NewEnricher(p distance.Provider, st store.Store, reg prometheus.Registerer) *distance.Enricher {
	opts := []distance.Option{
		distance.WithDestination(c.Config.Destination.Address, c.Config.Destination.Neighborhood),
		distance.WithHomeState(c.Config.HomeState),
		distance.WithMode(c.Config.TravelMode),
		distance.WithArrival(c.Config.ArrivalTime),
		distance.WithRequestDelay(c.Config.RequestDelay),
		distance.WithConcurrency(c.Config.Concurrency),
		distance.WithPersistEach(c.Config.PersistEach),
		distance.WithLogger(c.logger),
	}
	if reg != nil {
		opts = append(opts, distance.WithMetrics(distance.NewMetrics(reg)))
	}
	if p == nil {
		c.logger.Warn("no API key set, distances will not be resolved", "env", EnvAPIKey)
	}
	return distance.NewEnricher(p, st, opts...)
}

// Logger returns the logger components were built with.
func (c *Components) Logger() *slog.Logger { return c.logger }
