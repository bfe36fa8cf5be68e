package dataset

import "math"

// FilterRange is an inclusive numeric interval.
type FilterRange struct {
	Min float64 `koanf:"min"`
	Max float64 `koanf:"max"`
}

func (r FilterRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp limits r to bounds. A reversed range is swapped first.
func (r FilterRange) Clamp(bounds FilterRange) FilterRange {
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	r.Min = math.Min(math.Max(r.Min, bounds.Min), bounds.Max)
	r.Max = math.Max(math.Min(r.Max, bounds.Max), bounds.Min)
	return r
}

// BoundsOf returns the smallest range holding value(f) for every feature.
// An empty set yields the zero range.
func BoundsOf(all []GeoFeature, value func(GeoFeature) float64) FilterRange {
	if len(all) == 0 {
		return FilterRange{}
	}
	r := FilterRange{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, f := range all {
		v := value(f)
		r.Min = math.Min(r.Min, v)
		r.Max = math.Max(r.Max, v)
	}
	return r
}

func temperatureOf(f GeoFeature) float64 { return f.Properties.Temperature }
func durationOf(f GeoFeature) float64    { return f.Properties.FlightDuration }

func TemperatureBounds(all []GeoFeature) FilterRange { return BoundsOf(all, temperatureOf) }
func DurationBounds(all []GeoFeature) FilterRange    { return BoundsOf(all, durationOf) }

// FilterDestinations keeps the features whose temperature and flight
// duration both fall inside their ranges, in input order.
func FilterDestinations(all []GeoFeature, temperature, duration FilterRange) []GeoFeature {
	out := make([]GeoFeature, 0, len(all))
	for _, f := range all {
		if temperature.Contains(f.Properties.Temperature) && duration.Contains(f.Properties.FlightDuration) {
			out = append(out, f)
		}
	}
	return out
}

// Filters holds the user's current ranges together with the bounds they
// are clamped into.
type Filters struct {
	Temperature       FilterRange
	Duration          FilterRange
	TemperatureBounds FilterRange
	DurationBounds    FilterRange
}

// NewFilters starts with both ranges spanning the whole dataset.
func NewFilters(all []GeoFeature) Filters {
	t, d := TemperatureBounds(all), DurationBounds(all)
	return Filters{Temperature: t, Duration: d, TemperatureBounds: t, DurationBounds: d}
}

func (f Filters) WithTemperature(r FilterRange) Filters {
	f.Temperature = r.Clamp(f.TemperatureBounds)
	return f
}

func (f Filters) WithDuration(r FilterRange) Filters {
	f.Duration = r.Clamp(f.DurationBounds)
	return f
}

func (f Filters) Apply(all []GeoFeature) []GeoFeature {
	return FilterDestinations(all, f.Temperature, f.Duration)
}
