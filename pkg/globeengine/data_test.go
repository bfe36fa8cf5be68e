package globeengine

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sudorandom/route-globe/pkg/config"
	"github.com/sudorandom/route-globe/pkg/dataset"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadData(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Data{
		Land: writeFile(t, dir, "land.geojson", `{"type":"FeatureCollection","features":[
			{"type":"Feature","id":703,"properties":{},"geometry":{"type":"Polygon","coordinates":[[[17,47.7],[22,47.7],[22,49.6],[17,49.6],[17,47.7]]]}}]}`),
		CountryNames: writeFile(t, dir, "names.tsv", "id\tname\n703\tSlovakia\n"),
		Cities: writeFile(t, dir, "cities.geojson", `{"type":"FeatureCollection","features":[
			{"type":"Feature","id":"Bratislava","geometry":{"type":"Point","coordinates":[17.11,48.15]},"properties":{}},
			{"type":"Feature","id":"Paris","geometry":{"type":"Point","coordinates":[2.35,48.86]},"properties":{"temperature":12,"flightDuration":120}},
			{"type":"Feature","id":"Broken","geometry":{"type":"Point","coordinates":[0,0]},"properties":{"temperature":"warm"}}]}`),
		HomeID: "Bratislava",
	}

	data, err := LoadData(cfg)
	if err != nil {
		t.Fatalf("LoadData() error = %v", err)
	}
	if data.Home.ID != "Bratislava" || len(data.Destinations) != 1 {
		t.Errorf("Home = %q, destinations = %d; want Bratislava, 1", data.Home.ID, len(data.Destinations))
	}
	if _, err := data.Countries.ByName("Slovakia"); err != nil {
		t.Errorf("ByName(Slovakia) error = %v", err)
	}

	cfg.CountryNames = filepath.Join(dir, "missing.tsv")
	if _, err := LoadData(cfg); err != nil {
		t.Errorf("LoadData() without names error = %v; want nil", err)
	}

	cities := cfg.Cities
	cfg.Cities = filepath.Join(dir, "citiesfilter.json")
	_, err = LoadData(cfg)
	if !errors.Is(err, fs.ErrNotExist) || !strings.Contains(err.Error(), "data.cities") {
		t.Errorf("LoadData() with missing cities error = %v; want not-exist naming data.cities", err)
	}
	cfg.Cities = cities

	cfg.HomeID = "Vienna"
	if _, err := LoadData(cfg); !errors.Is(err, dataset.ErrMissingField) {
		t.Errorf("LoadData() without home error = %v; want %v", err, dataset.ErrMissingField)
	}
}
