package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cognicore/evasao/pkg/evasao"
	"github.com/cognicore/evasao/pkg/evasao/config"
	"github.com/cognicore/evasao/pkg/evasao/maintenance"
)

type options struct {
	input       string
	output      string
	configPath  string
	envFile     string
	cachePath   string
	noDistance  bool
	metricsFile string
	suggestions string
	summary     bool
	logLevel    string
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "input", "", "Input spreadsheet, .xlsx or .csv (required)")
	flag.StringVar(&opts.output, "output", "", "Output spreadsheet, .xlsx or .csv (required)")
	flag.StringVar(&opts.configPath, "config", "", "YAML config file (optional)")
	flag.StringVar(&opts.envFile, "env-file", ".env", "Env file with GOOGLE_MAPS_API_KEY")
	flag.StringVar(&opts.cachePath, "cache", "", "Distance cache path (overrides config)")
	flag.BoolVar(&opts.noDistance, "no-distance", false, "Skip distance enrichment")
	flag.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	flag.StringVar(&opts.suggestions, "suggestions", "", "Write a corrections draft for unresolved places")
	flag.BoolVar(&opts.summary, "summary", false, "Print a summary of the cleaned dataset")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	if opts.input == "" {
		log.Fatal("--input required")
	}
	if opts.output == "" {
		log.Fatal("--output required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, opts options) error {
	logger := newLogger(opts.logLevel)
	reg := prometheus.NewRegistry()

	engine, cleanup, err := buildEngine(ctx, opts, logger, reg)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := engine.CleanFile(ctx, opts.input, opts.output)
	if err != nil {
		return err
	}

	if opts.suggestions != "" {
		n, err := (&maintenance.CorrectionExporter{Writer: maintenance.FileDraft(opts.suggestions)}).
			Export(ctx, res.Report.Unresolved)
		if err != nil {
			return fmt.Errorf("write suggestions: %w", err)
		}
		logger.Info("corrections draft written", "path", opts.suggestions, "candidates", n)
	}
	if opts.metricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.metricsFile, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	if opts.summary {
		return res.Summary.WriteText(os.Stdout)
	}
	return nil
}

// buildEngine loads the configuration and opens the distance cache unless
// distances are disabled.
func buildEngine(ctx context.Context, opts options, logger *slog.Logger, reg prometheus.Registerer) (*evasao.Evasao, func(), error) {
	loader := config.Loader{ConfigPath: opts.configPath, EnvFile: opts.envFile, Logger: logger}
	comp, err := loader.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if opts.cachePath != "" {
		comp.Config.CachePath = opts.cachePath
	}

	eopts := evasao.Options{Components: comp, Registry: reg, Logger: logger}
	if !opts.noDistance {
		st, err := comp.OpenStore(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("open distance cache: %w", err)
		}
		eopts.Store = st
	}

	engine, err := evasao.New(eopts)
	if err != nil {
		if eopts.Store != nil {
			eopts.Store.Close()
		}
		return nil, nil, err
	}
	return engine, func() { engine.Close() }, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
