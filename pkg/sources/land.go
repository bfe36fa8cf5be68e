package sources

import (
	"fmt"
	"io"
	"strconv"

	geojson "github.com/paulmach/go.geojson"
	"github.com/sudorandom/route-globe/pkg/dataset"
)

// LoadCountries reads a FeatureCollection of country boundaries. Features
// that are not polygons are skipped.
func LoadCountries(r io.Reader) ([]dataset.Country, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse land: %w", err)
	}

	out := make([]dataset.Country, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		var polys [][][][]float64
		switch f.Geometry.Type {
		case geojson.GeometryPolygon:
			polys = [][][][]float64{f.Geometry.Polygon}
		case geojson.GeometryMultiPolygon:
			polys = f.Geometry.MultiPolygon
		default:
			continue
		}
		out = append(out, dataset.Country{
			ID:       countryID(f),
			Name:     firstString(f, "name", "ADMIN", "admin"),
			Polygons: polys,
		})
	}
	return out, nil
}

func countryID(f *geojson.Feature) string {
	if id := featureID(f); id != "" {
		return id
	}
	return firstString(f, "ISO_A3", "iso_a3", "id")
}

func featureID(f *geojson.Feature) string {
	switch v := f.ID.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

func firstString(f *geojson.Feature, keys ...string) string {
	for _, k := range keys {
		if s, err := f.PropertyString(k); err == nil && s != "" {
			return s
		}
	}
	return ""
}
