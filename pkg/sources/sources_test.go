package sources

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sudorandom/route-globe/pkg/dataset"
)

const citiesJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": "Paris",
     "geometry": {"type": "Point", "coordinates": [2.35, 48.86]},
     "properties": {"temperature": 12, "flightDuration": 120, "city": "Paris", "company": "Acme", "link": "https://acme.example"}},
    {"type": "Feature", "id": "Bratislava",
     "geometry": {"type": "Point", "coordinates": [17.11, 48.15]},
     "properties": {}},
    {"type": "Feature", "id": "Nowhere",
     "geometry": {"type": "Point", "coordinates": [0, 0]},
     "properties": {"flightDuration": 60}},
    {"type": "Feature",
     "geometry": {"type": "Point", "coordinates": [-0.13, 51.51]},
     "properties": {"id": "London", "temperature": 9, "flightDuration": 150, "company": {"name": "Foo", "link": "https://foo.example"}}}
  ]
}`

func TestLoadCities(t *testing.T) {
	c, err := LoadCities(strings.NewReader(citiesJSON), "Bratislava")
	if err != nil {
		t.Fatalf("LoadCities() error = %v", err)
	}
	if c.Home.ID != "Bratislava" {
		t.Errorf("Home.ID = %q; want Bratislava", c.Home.ID)
	}
	if len(c.Destinations) != 2 || c.Destinations[0].ID != "Paris" || c.Destinations[1].ID != "London" {
		t.Fatalf("Destinations = %+v; want [Paris London]", c.Destinations)
	}
	paris := c.Destinations[0]
	if paris.Properties.Company.Name != "Acme" || paris.Properties.City != "Paris" {
		t.Errorf("Paris properties = %+v", paris.Properties)
	}
	if london := c.Destinations[1]; london.Properties.Company.Link != "https://foo.example" {
		t.Errorf("London company = %+v", london.Properties.Company)
	}

	if len(c.Skipped) != 1 {
		t.Fatalf("Skipped = %v; want one error", c.Skipped)
	}
	var shape *dataset.DataShapeError
	if !errors.As(c.Skipped[0], &shape) || shape.ID != "Nowhere" || shape.Field != "Temperature" {
		t.Errorf("Skipped[0] = %v; want missing Temperature on Nowhere", c.Skipped[0])
	}
}

func TestLoadCitiesWithoutHome(t *testing.T) {
	_, err := LoadCities(strings.NewReader(citiesJSON), "Vienna")
	if !errors.Is(err, dataset.ErrMissingField) {
		t.Errorf("LoadCities() error = %v; want %v", err, dataset.ErrMissingField)
	}
	if _, err := LoadCities(strings.NewReader("{"), "Vienna"); err == nil {
		t.Error("LoadCities() on broken json returned nil error")
	}
}

const landJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": 703, "properties": {},
     "geometry": {"type": "Polygon", "coordinates": [[[17,48],[21,48],[21,52],[17,52],[17,48]]]}},
    {"type": "Feature", "properties": {"ADMIN": "France", "ISO_A3": "FRA"},
     "geometry": {"type": "MultiPolygon", "coordinates": [[[[0,44],[4,44],[4,48],[0,48],[0,44]]]]}},
    {"type": "Feature", "id": "X", "properties": {},
     "geometry": {"type": "Point", "coordinates": [0, 0]}}
  ]
}`

func TestLoadCountries(t *testing.T) {
	list, err := LoadCountries(strings.NewReader(landJSON))
	if err != nil {
		t.Fatalf("LoadCountries() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d; want 2", len(list))
	}
	if list[0].ID != "703" || len(list[0].Polygons) != 1 {
		t.Errorf("list[0] = %+v", list[0])
	}
	if list[1].ID != "FRA" || list[1].Name != "France" {
		t.Errorf("list[1] = %+v", list[1])
	}

	names, err := LoadCountryNames(strings.NewReader("id\tname\n703\tSlovakia\n-99\tNorthern Cyprus\n"))
	if err != nil {
		t.Fatalf("LoadCountryNames() error = %v", err)
	}
	idx := dataset.NewCountryIndex(list, names)
	for _, name := range []string{"Slovakia", "France"} {
		if _, err := idx.ByName(name); err != nil {
			t.Errorf("ByName(%q) error = %v", name, err)
		}
	}
}

func TestLoadCountryNames(t *testing.T) {
	names, err := LoadCountryNames(strings.NewReader("name\tid\nSlovakia\t703\n\t5\nAustria\t040\n"))
	if err != nil {
		t.Fatalf("LoadCountryNames() error = %v", err)
	}
	want := map[string]string{"Slovakia": "703", "Austria": "040"}
	if len(names) != len(want) {
		t.Fatalf("names = %v; want %v", names, want)
	}
	for k, v := range want {
		if names[k] != v {
			t.Errorf("names[%q] = %q; want %q", k, names[k], v)
		}
	}
}

func TestRouteCollection(t *testing.T) {
	home := dataset.GeoFeature{ID: "Bratislava", Geometry: dataset.Geometry{Type: "Point", Coordinates: []float64{17.11, 48.15}}}
	dests := []dataset.GeoFeature{
		{ID: "Paris", Geometry: dataset.Geometry{Type: "Point", Coordinates: []float64{2.35, 48.86}}},
	}
	fc := RouteCollection(home, dests)
	if len(fc.Features) != 1 {
		t.Fatalf("features = %d; want 1", len(fc.Features))
	}
	b, err := json.Marshal(fc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"LineString"`) || !strings.Contains(string(b), `[17.11,48.15]`) {
		t.Errorf("marshalled = %s", b)
	}
}
