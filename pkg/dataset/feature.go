// Package dataset defines the validated destination model, the range filter
// applied to it and the country lookup used to aim the camera.
package dataset

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/sudorandom/route-globe/pkg/geo"
)

var (
	ErrMissingField   = errors.New("missing field")
	ErrInvalidField   = errors.New("invalid field")
	ErrUnknownCountry = errors.New("unknown country")
)

// DataShapeError reports a dataset entry that does not have the shape the
// globe needs. It only ever aborts the operation that hit it.
type DataShapeError struct {
	Dataset string
	ID      string
	Field   string
	Err     error
}

func (e *DataShapeError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s: %v", e.Dataset, e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %s: %v", e.Dataset, e.ID, e.Field, e.Err)
}

func (e *DataShapeError) Unwrap() error { return e.Err }

type Company struct {
	Name string
	Link string
}

type Properties struct {
	Temperature    float64
	FlightDuration float64
	City           string
	Company        Company
}

type Geometry struct {
	Type        string
	Coordinates []float64
}

// GeoFeature is a city on the globe. Identity is ID; features are never
// mutated after loading.
type GeoFeature struct {
	ID         string
	Geometry   Geometry
	Properties Properties
}

// Position is the feature's point geometry.
func (f GeoFeature) Position() geo.LonLat {
	ll, _ := geo.FromCoordinates(f.Geometry.Coordinates)
	return ll
}

// Record is a city as read from a dataset, before validation. Numeric
// properties are pointers so a missing value can be told apart from zero.
type Record struct {
	ID             string    `validate:"required"`
	GeometryType   string    `validate:"eq=Point"`
	Coordinates    []float64 `validate:"len=2"`
	Lon            float64   `validate:"longitude"`
	Lat            float64   `validate:"latitude"`
	Temperature    *float64  `validate:"required"`
	FlightDuration *float64  `validate:"required,gte=0"`
	City           string
	CompanyName    string
	CompanyLink    string    `validate:"omitempty,url"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Destination validates a record that must carry both filter attributes.
func (r Record) Destination(dataset string) (GeoFeature, error) {
	return r.check(dataset)
}

// Place validates a record that only needs an id and a position, such as
// the home city.
func (r Record) Place(dataset string) (GeoFeature, error) {
	return r.check(dataset, "Temperature", "FlightDuration")
}

func (r Record) check(dataset string, except ...string) (GeoFeature, error) {
	r = r.withPosition()
	err := getValidator().StructExcept(r, except...)
	if onlyField(err, "CompanyLink") {
		// a bad link is dropped, not fatal to the city
		r.CompanyLink = ""
		err = getValidator().StructExcept(r, except...)
	}
	if err != nil {
		return GeoFeature{}, shapeError(dataset, r.ID, err)
	}
	return r.feature(), nil
}

func onlyField(err error, field string) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return false
	}
	for _, fe := range verrs {
		if fe.Field() != field {
			return false
		}
	}
	return true
}

func (r Record) withPosition() Record {
	if ll, ok := geo.FromCoordinates(r.Coordinates); ok {
		r.Lon, r.Lat = ll.Lon, ll.Lat
	}
	return r
}

func (r Record) feature() GeoFeature {
	f := GeoFeature{
		ID:       r.ID,
		Geometry: Geometry{Type: r.GeometryType, Coordinates: []float64{r.Lon, r.Lat}},
		Properties: Properties{
			City:    r.City,
			Company: Company{Name: r.CompanyName, Link: r.CompanyLink},
		},
	}
	if r.Temperature != nil {
		f.Properties.Temperature = *r.Temperature
	}
	if r.FlightDuration != nil {
		f.Properties.FlightDuration = *r.FlightDuration
	}
	return f
}

func shapeError(dataset, id string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &DataShapeError{Dataset: dataset, ID: id, Field: "unknown", Err: err}
	}
	fe := verrs[0]
	cause := ErrInvalidField
	if fe.Tag() == "required" {
		cause = ErrMissingField
	}
	return &DataShapeError{Dataset: dataset, ID: id, Field: fe.Field(), Err: cause}
}
