// Package config loads the viewer configuration: built-in defaults, then an
// optional YAML file, then GLOBE_ environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/sudorandom/route-globe/pkg/dataset"
	"github.com/sudorandom/route-globe/pkg/logging"
	"github.com/sudorandom/route-globe/pkg/sources"
)

const (
	EnvPrefix     = "GLOBE_"
	PathEnvVar    = "GLOBE_CONFIG"
	sectionMarker = "__"
)

type Config struct {
	Render  Render         `koanf:"render"`
	Data    Data           `koanf:"data"`
	Camera  Camera         `koanf:"camera"`
	Scene   Scene          `koanf:"scene"`
	Flights Flights        `koanf:"flights"`
	Filter  Filter         `koanf:"filter"`
	Logging logging.Config `koanf:"logging"`
}

type Render struct {
	Width    int    `koanf:"width" validate:"gt=0"`
	Height   int    `koanf:"height" validate:"gt=0"`
	TPS      int    `koanf:"tps" validate:"gt=0"`
	Title    string `koanf:"title"`
	Headless bool   `koanf:"headless"`
	// CaptureDir enables PNG frame capture when set.
	CaptureDir   string `koanf:"capture_dir"`
	CaptureEvery int    `koanf:"capture_every" validate:"gte=1"`
}

type Data struct {
	Land         string `koanf:"land" validate:"required"`
	CountryNames string `koanf:"country_names"`
	Cities       string `koanf:"cities" validate:"required"`
	CacheDir     string `koanf:"cache_dir"`
	HomeID       string `koanf:"home_id" validate:"required"`
	FocusCountry string `koanf:"focus_country"`
}

type Camera struct {
	Scale         float64       `koanf:"scale" validate:"gt=0"`
	Sensitivity   float64       `koanf:"sensitivity" validate:"gt=0"`
	FocusScale    float64       `koanf:"focus_scale" validate:"gt=0"`
	FocusDuration time.Duration `koanf:"focus_duration" validate:"gte=0"`
}

type Scene struct {
	MarkerRadius  float64       `koanf:"marker_radius" validate:"gt=0"`
	EnterDuration time.Duration `koanf:"enter_duration" validate:"gt=0"`
	ExitDuration  time.Duration `koanf:"exit_duration" validate:"gt=0"`
}

type Flights struct {
	SpawnMin      time.Duration `koanf:"spawn_min" validate:"gt=0"`
	SpawnMax      time.Duration `koanf:"spawn_max" validate:"gtefield=SpawnMin"`
	PerUnit       time.Duration `koanf:"per_unit" validate:"gt=0"`
	MaxInFlight   int           `koanf:"max_in_flight" validate:"gte=0"`
	ResetOnFilter bool          `koanf:"reset_on_filter"`
	// Seed fixes the route choice sequence; 0 seeds from the clock.
	Seed int64 `koanf:"seed"`
}

// Filter sets the starting ranges. When disabled both ranges start at the
// full dataset bounds.
type Filter struct {
	Enabled     bool                `koanf:"enabled"`
	Temperature dataset.FilterRange `koanf:"temperature"`
	Duration    dataset.FilterRange `koanf:"duration"`
}

func Default() *Config {
	return &Config{
		Render: Render{
			Width:        960,
			Height:       600,
			TPS:          60,
			Title:        "Route Globe",
			CaptureEvery: 1,
		},
		Data: Data{
			Land:         sources.LandURL,
			CountryNames: sources.CountryNamesURL,
			Cities:       sources.CitiesURL,
			CacheDir:     "data/cache",
			HomeID:       sources.HomeID,
			FocusCountry: sources.FocusCountry,
		},
		Camera: Camera{
			Scale:         220,
			Sensitivity:   0.1,
			FocusScale:    500,
			FocusDuration: 2500 * time.Millisecond,
		},
		Scene: Scene{
			MarkerRadius:  3,
			EnterDuration: 750 * time.Millisecond,
			ExitDuration:  500 * time.Millisecond,
		},
		Flights: Flights{
			SpawnMin:    2 * time.Second,
			SpawnMax:    2 * time.Second,
			PerUnit:     100 * time.Millisecond,
			MaxInFlight: 250,
		},
		Logging: logging.Config{Level: "info", Format: "console"},
	}
}

// Load builds the configuration. path may be empty, in which case
// GLOBE_CONFIG is consulted; with neither set only defaults and the
// environment apply.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(PathEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// envKey maps GLOBE_FLIGHTS__SPAWN_MIN to flights.spawn_min.
func envKey(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), sectionMarker, ".")
}

func (c *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}
