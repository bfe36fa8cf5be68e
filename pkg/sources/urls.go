package sources

// CitiesURL is a path relative to the working directory. The destinations
// file is not bundled: point data.cities (or GLOBE_DATA__CITIES) at a
// FeatureCollection of Point features with temperature and flightDuration
// properties.

const (
	LandURL         = "https://raw.githubusercontent.com/datasets/geo-countries/master/data/countries.geojson"
	CountryNamesURL = "https://gist.githubusercontent.com/mbostock/4090846/raw/world-country-names.tsv"
	CitiesURL       = "data/citiesfilter.json"

	HomeID       = "Bratislava"
	FocusCountry = "Slovakia"
)
