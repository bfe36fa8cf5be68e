package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sudorandom/route-globe/pkg/dataset"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "globe.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(PathEnvVar, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Default()
	if cfg.Camera != want.Camera {
		t.Errorf("Camera = %+v; want %+v", cfg.Camera, want.Camera)
	}
	if cfg.Flights != want.Flights {
		t.Errorf("Flights = %+v; want %+v", cfg.Flights, want.Flights)
	}
	if cfg.Data.HomeID != "Bratislava" || cfg.Data.FocusCountry != "Slovakia" {
		t.Errorf("Data = %+v", cfg.Data)
	}
}

func TestLoadLayers(t *testing.T) {
	path := writeConfig(t, `
render:
  width: 1280
  height: 720
flights:
  spawn_min: 2s
  spawn_max: 4s
  max_in_flight: 10
filter:
  enabled: true
  temperature:
    min: 0
    max: 15
  duration:
    min: 0
    max: 600
`)
	t.Setenv("GLOBE_RENDER__WIDTH", "800")
	t.Setenv("GLOBE_CAMERA__FOCUS_DURATION", "1s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	tests := []struct {
		name string
		got  any
		want any
	}{
		{"env beats file", cfg.Render.Width, 800},
		{"file beats default", cfg.Render.Height, 720},
		{"default survives", cfg.Render.TPS, 60},
		{"file duration", cfg.Flights.SpawnMax, 4 * time.Second},
		{"env duration", cfg.Camera.FocusDuration, time.Second},
		{"file int", cfg.Flights.MaxInFlight, 10},
		{"nested range", cfg.Filter.Temperature, dataset.FilterRange{Min: 0, Max: 15}},
		{"flag", cfg.Filter.Enabled, true},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v; want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadFromEnvPath(t *testing.T) {
	t.Setenv(PathEnvVar, writeConfig(t, "scene:\n  marker_radius: 6\n"))
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scene.MarkerRadius != 6 {
		t.Errorf("MarkerRadius = %v; want 6", cfg.Scene.MarkerRadius)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"spawn window reversed", "flights:\n  spawn_min: 4s\n  spawn_max: 2s\n", "SpawnMax"},
		{"zero width", "render:\n  width: 0\n", "Width"},
		{"bad log format", "logging:\n  format: xml\n", "Format"},
		{"no home", "data:\n  home_id: \"\"\n", "HomeID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(PathEnvVar, "")
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v; want mention of %s", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() with a missing file returned nil error")
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct{ in, want string }{
		{"GLOBE_FLIGHTS__SPAWN_MIN", "flights.spawn_min"},
		{"GLOBE_LOGGING__LEVEL", "logging.level"},
		{"GLOBE_FILTER__TEMPERATURE__MAX", "filter.temperature.max"},
	}
	for _, tt := range tests {
		if got := envKey(tt.in); got != tt.want {
			t.Errorf("envKey(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
