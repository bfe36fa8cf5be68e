package globeengine

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/sudorandom/route-globe/pkg/assets"
	"github.com/sudorandom/route-globe/pkg/config"
	"github.com/sudorandom/route-globe/pkg/dataset"
	"github.com/sudorandom/route-globe/pkg/logging"
	"github.com/sudorandom/route-globe/pkg/sources"
)

// LoadData reads the land, country name and city datasets. The names table
// is optional; cities that fail validation are logged and left out.
func LoadData(cfg config.Data) (Data, error) {
	log := logging.With("data")

	var list []dataset.Country
	if err := withSource(cfg.Land, cfg.CacheDir, func(r io.Reader) (err error) {
		list, err = sources.LoadCountries(r)
		return err
	}); err != nil {
		return Data{}, fmt.Errorf("land: %w", err)
	}

	var names map[string]string
	if cfg.CountryNames != "" {
		if err := withSource(cfg.CountryNames, cfg.CacheDir, func(r io.Reader) (err error) {
			names, err = sources.LoadCountryNames(r)
			return err
		}); err != nil {
			log.Warn().Err(err).Msg("country names unavailable, using ISO lookup only")
		}
	}

	var cities *sources.Cities
	if err := withSource(cfg.Cities, cfg.CacheDir, func(r io.Reader) (err error) {
		cities, err = sources.LoadCities(r, cfg.HomeID)
		return err
	}); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Data{}, fmt.Errorf("cities: %w (set data.cities or GLOBE_DATA__CITIES to a destinations GeoJSON)", err)
		}
		return Data{}, fmt.Errorf("cities: %w", err)
	}
	for _, err := range cities.Skipped {
		log.Warn().Err(err).Msg("skipping city")
	}

	log.Info().
		Int("countries", len(list)).
		Int("names", len(names)).
		Int("destinations", len(cities.Destinations)).
		Int("skipped", len(cities.Skipped)).
		Str("home", cities.Home.ID).
		Msg("datasets loaded")

	return Data{
		Home:         cities.Home,
		Destinations: cities.Destinations,
		Countries:    dataset.NewCountryIndex(list, names),
	}, nil
}

func withSource(src, cacheDir string, fn func(io.Reader) error) error {
	rc, err := assets.Open(src, cacheDir)
	if err != nil {
		return err
	}
	defer rc.Close()
	return fn(rc)
}
