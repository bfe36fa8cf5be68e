package dataset

import (
	"strconv"
	"strings"

	"github.com/biter777/countries"
	"github.com/sudorandom/route-globe/pkg/geo"
)

// Country is a land boundary. Polygons follow the GeoJSON MultiPolygon
// layout.
type Country struct {
	ID       string
	Name     string
	Polygons [][][][]float64
}

func (c Country) Centroid() (geo.LonLat, bool) {
	return geo.Centroid(c.Polygons)
}

// CountryIndex resolves country names to boundaries.
type CountryIndex struct {
	countries []Country
	byID      map[string]int
	names     map[string]string
}

// NewCountryIndex indexes countries by id. names maps a country name to
// its id, as in the world-country-names table; it may be nil.
func NewCountryIndex(list []Country, names map[string]string) *CountryIndex {
	x := &CountryIndex{
		countries: list,
		byID:      make(map[string]int, len(list)),
		names:     make(map[string]string, len(names)+len(list)),
	}
	for i, c := range list {
		if c.ID != "" {
			x.byID[NormalizeID(c.ID)] = i
		}
		if c.Name != "" {
			x.names[strings.ToLower(c.Name)] = c.ID
		}
	}
	for name, id := range names {
		x.names[strings.ToLower(strings.TrimSpace(name))] = id
	}
	return x
}

func (x *CountryIndex) Len() int { return len(x.countries) }

func (x *CountryIndex) All() []Country { return x.countries }

func (x *CountryIndex) ByID(id string) (Country, bool) {
	i, ok := x.byID[NormalizeID(id)]
	if !ok {
		return Country{}, false
	}
	return x.countries[i], true
}

// ByName looks name up in the names table first and then tries the ISO
// numeric, alpha-2 and alpha-3 codes of the matching ISO country.
func (x *CountryIndex) ByName(name string) (Country, error) {
	if id, ok := x.names[strings.ToLower(strings.TrimSpace(name))]; ok {
		if c, ok := x.ByID(id); ok {
			return c, nil
		}
	}
	code := countries.ByName(name)
	if code != countries.Unknown {
		for _, id := range []string{strconv.Itoa(int(code)), code.Alpha2(), code.Alpha3()} {
			if c, ok := x.ByID(id); ok {
				return c, nil
			}
		}
	}
	return Country{}, &DataShapeError{Dataset: "countries", ID: name, Field: "name", Err: ErrUnknownCountry}
}

// NormalizeID strips leading zeros from numeric ids so "032" and 32 match.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if n, err := strconv.Atoi(id); err == nil {
		return strconv.Itoa(n)
	}
	return strings.ToUpper(id)
}
