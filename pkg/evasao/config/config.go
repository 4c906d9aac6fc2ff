// Package config loads the pipeline settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/evasao/pkg/evasao/distance"
	"github.com/cognicore/evasao/pkg/evasao/internalerr"
	"github.com/cognicore/evasao/pkg/evasao/taxonomy"
)

// Environment variables read by Load.
const (
	EnvAPIKey    = "GOOGLE_MAPS_API_KEY"
	EnvCachePath = "EVASAO_CACHE_PATH"
)

// DefaultCachePath is where the distance cache lives unless configured.
const DefaultCachePath = "data/distances.db"

// Destination is the campus every commute is routed to.
type Destination struct {
	Address      string `yaml:"address"`
	Neighborhood string `yaml:"neighborhood"`
}

// Corrections points at optional YAML files of extra correction entries.
type Corrections struct {
	Neighborhoods string `yaml:"neighborhoods"`
	Cities        string `yaml:"cities"`
}

// Config holds every tunable of a pipeline run.
type Config struct {
	HomeState        string        `yaml:"home_state"`
	PolicyChangeYear int           `yaml:"policy_change_year"`
	Destination      Destination   `yaml:"destination"`
	ArrivalTime      string        `yaml:"arrival_time"`
	TravelMode       string        `yaml:"travel_mode"`
	Language         string        `yaml:"language"`
	CachePath        string        `yaml:"cache_path"`
	RequestDelay     time.Duration `yaml:"request_delay"`
	Concurrency      int           `yaml:"concurrency"`
	PersistEach      bool          `yaml:"persist_each"`
	Corrections      Corrections   `yaml:"corrections"`

	// APIKey comes from the environment only.
	APIKey string `yaml:"-"`
}

// Default returns the settings for the Urca campus.
func Default() Config {
	return Config{
		HomeState:        distance.DefaultHomeState,
		PolicyChangeYear: taxonomy.DefaultPolicyChangeYear,
		Destination: Destination{
			Address:      distance.DefaultDestination,
			Neighborhood: distance.DefaultDestinationNeighborhood,
		},
		ArrivalTime:  distance.DefaultArrival,
		TravelMode:   distance.DefaultMode,
		Language:     "pt-BR",
		CachePath:    DefaultCachePath,
		RequestDelay: distance.DefaultRequestDelay,
		Concurrency:  1,
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
// Environment overrides are applied afterwards.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %v: %w", path, err, internalerr.ErrInvalidConfig)
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv copies the API key and cache path override from the environment.
func (c *Config) ApplyEnv() {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		c.APIKey = key
	}
	if p := strings.TrimSpace(os.Getenv(EnvCachePath)); p != "" {
		c.CachePath = p
	}
}

// Validate rejects settings the pipeline cannot run with. All problems are
// reported together.
func (c Config) Validate() error {
	var errs []error
	if len(strings.TrimSpace(c.HomeState)) != 2 {
		errs = append(errs, fmt.Errorf("home_state must be a two-letter code, got %q", c.HomeState))
	}
	if c.PolicyChangeYear < 1900 || c.PolicyChangeYear > 2100 {
		errs = append(errs, fmt.Errorf("policy_change_year out of range: %d", c.PolicyChangeYear))
	}
	if strings.TrimSpace(c.Destination.Address) == "" {
		errs = append(errs, errors.New("destination.address is required"))
	}
	if _, err := time.Parse("15:04", c.ArrivalTime); err != nil {
		errs = append(errs, fmt.Errorf("arrival_time must be HH:MM, got %q", c.ArrivalTime))
	}
	switch c.TravelMode {
	case "transit", "driving", "walking", "bicycling":
	default:
		errs = append(errs, fmt.Errorf("unsupported travel_mode %q", c.TravelMode))
	}
	if c.RequestDelay < 0 {
		errs = append(errs, errors.New("request_delay must not be negative"))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if strings.TrimSpace(c.CachePath) == "" {
		errs = append(errs, errors.New("cache_path is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", internalerr.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
