package sources

import (
	"fmt"
	"io"

	geojson "github.com/paulmach/go.geojson"
	"github.com/sudorandom/route-globe/pkg/dataset"
)

// Cities is the parsed city collection: the home city and every other
// city that passed validation.
type Cities struct {
	Home         dataset.GeoFeature
	Destinations []dataset.GeoFeature
	// Skipped holds one *dataset.DataShapeError per rejected feature.
	Skipped []error
}

// LoadCities reads a FeatureCollection of point features. The feature
// whose id is homeID becomes Home and is left out of Destinations.
func LoadCities(r io.Reader, homeID string) (*Cities, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse cities: %w", err)
	}

	c := &Cities{Destinations: make([]dataset.GeoFeature, 0, len(fc.Features))}
	foundHome := false
	for _, f := range fc.Features {
		rec := cityRecord(f)
		if rec.ID == homeID && !foundHome {
			home, err := rec.Place("cities")
			if err != nil {
				return nil, err
			}
			c.Home, foundHome = home, true
			continue
		}
		dest, err := rec.Destination("cities")
		if err != nil {
			c.Skipped = append(c.Skipped, err)
			continue
		}
		c.Destinations = append(c.Destinations, dest)
	}
	if !foundHome {
		return nil, &dataset.DataShapeError{Dataset: "cities", ID: homeID, Field: "id", Err: dataset.ErrMissingField}
	}
	return c, nil
}

func cityRecord(f *geojson.Feature) dataset.Record {
	rec := dataset.Record{
		ID:          featureID(f),
		City:        f.PropertyMustString("city", ""),
		CompanyName: f.PropertyMustString("company", ""),
		CompanyLink: f.PropertyMustString("link", ""),
	}
	if rec.ID == "" {
		rec.ID = f.PropertyMustString("id", "")
	}
	if company, ok := f.Properties["company"].(map[string]interface{}); ok {
		rec.CompanyName, _ = company["name"].(string)
		rec.CompanyLink, _ = company["link"].(string)
	}
	if f.Geometry != nil {
		rec.GeometryType = string(f.Geometry.Type)
		rec.Coordinates = f.Geometry.Point
	}
	if v, err := f.PropertyFloat64("temperature"); err == nil {
		rec.Temperature = &v
	}
	if v, err := f.PropertyFloat64("flightDuration"); err == nil {
		rec.FlightDuration = &v
	}
	return rec
}

// RouteCollection exports home -> destination routes as LineString
// features, one per destination.
func RouteCollection(home dataset.GeoFeature, dests []dataset.GeoFeature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	from := home.Geometry.Coordinates
	for _, d := range dests {
		line := geojson.NewLineStringFeature([][]float64{from, d.Geometry.Coordinates})
		line.ID = d.ID
		line.SetProperty("temperature", d.Properties.Temperature)
		line.SetProperty("flightDuration", d.Properties.FlightDuration)
		fc.AddFeature(line)
	}
	return fc
}
