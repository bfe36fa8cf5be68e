package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/sudorandom/route-globe/pkg/config"
	"github.com/sudorandom/route-globe/pkg/dataset"
	"github.com/sudorandom/route-globe/pkg/geo"
	"github.com/sudorandom/route-globe/pkg/globeengine"
	"github.com/sudorandom/route-globe/pkg/logging"
	"github.com/sudorandom/route-globe/pkg/scene"
	"github.com/sudorandom/route-globe/pkg/sources"
)

const earthRadiusKm = 6371.0

// rangeFlag parses "min:max". Either side may be empty to keep the
// dataset bound.
type rangeFlag struct {
	min, max       float64
	hasMin, hasMax bool
}

func (r *rangeFlag) Decode(ctx *kong.DecodeContext) error {
	var s string
	if err := ctx.Scan.PopValueInto("range", &s); err != nil {
		return err
	}
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return fmt.Errorf("range %q: want min:max", s)
	}
	var err error
	if lo != "" {
		if r.min, err = strconv.ParseFloat(lo, 64); err != nil {
			return fmt.Errorf("range %q: %w", s, err)
		}
		r.hasMin = true
	}
	if hi != "" {
		if r.max, err = strconv.ParseFloat(hi, 64); err != nil {
			return fmt.Errorf("range %q: %w", s, err)
		}
		r.hasMax = true
	}
	return nil
}

func (r rangeFlag) within(bounds dataset.FilterRange) dataset.FilterRange {
	out := bounds
	if r.hasMin {
		out.Min = r.min
	}
	if r.hasMax {
		out.Max = r.max
	}
	return out
}

type Globals struct {
	Config   string `help:"YAML config file." type:"path" env:"GLOBE_CONFIG"`
	LogLevel string `help:"Log level." default:"warn"`
}

func (g *Globals) load() (*config.Config, globeengine.Data, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, globeengine.Data{}, err
	}
	cfg.Logging.Level = g.LogLevel
	logging.Init(cfg.Logging)
	data, err := globeengine.LoadData(cfg.Data)
	return cfg, data, err
}

type routesCmd struct {
	Temperature rangeFlag `help:"Temperature range, min:max." placeholder:"MIN:MAX"`
	Duration    rangeFlag `help:"Flight duration range in minutes, min:max." placeholder:"MIN:MAX"`
	GeoJSON     string    `name:"geojson" help:"Write the filtered routes as LineString features to this file ('-' for stdout)."`
}

func (c *routesCmd) Run(g *Globals) error {
	_, data, err := g.load()
	if err != nil {
		return err
	}
	filters := dataset.NewFilters(data.Destinations)
	filters = filters.
		WithTemperature(c.Temperature.within(filters.TemperatureBounds)).
		WithDuration(c.Duration.within(filters.DurationBounds))
	filtered := filters.Apply(data.Destinations)

	if c.GeoJSON != "" {
		return writeGeoJSON(c.GeoJSON, data.Home, filtered)
	}

	all := make([]string, 0, len(data.Destinations))
	for _, f := range data.Destinations {
		all = append(all, f.ID)
	}
	d := scene.ComputeDiff(all, filtered)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tCITY\tTEMP\tDURATION\tDISTANCE KM\n")
	home := data.Home.Position()
	for _, f := range filtered {
		km := geo.Distance(home, f.Position()) * earthRadiusKm
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%.0f\t%.0f\n", f.ID, f.Properties.City, f.Properties.Temperature, f.Properties.FlightDuration, km)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ntemperature %.1f..%.1f  duration %.0f..%.0f  kept %d  dropped %d\n",
		filters.Temperature.Min, filters.Temperature.Max,
		filters.Duration.Min, filters.Duration.Max,
		len(d.Update), len(d.Exit))
	return nil
}

func writeGeoJSON(path string, home dataset.GeoFeature, filtered []dataset.GeoFeature) (err error) {
	var out io.Writer = os.Stdout
	if path != "-" {
		f, cerr := os.Create(path)
		if cerr != nil {
			return cerr
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		out = f
	}
	return encodeRoutes(out, home, filtered)
}

func encodeRoutes(w io.Writer, home dataset.GeoFeature, filtered []dataset.GeoFeature) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sources.RouteCollection(home, filtered))
}

type countryCmd struct {
	Name string `arg:"" help:"Country name, e.g. Slovakia."`
}

func (c *countryCmd) Run(g *Globals) error {
	_, data, err := g.load()
	if err != nil {
		return err
	}
	country, err := data.Countries.ByName(c.Name)
	if err != nil {
		return err
	}
	centre, ok := country.Centroid()
	if !ok {
		return fmt.Errorf("%s has no area", c.Name)
	}
	fmt.Printf("%s\tid=%s\tpolygons=%d\tcentroid=%.4f,%.4f\n", c.Name, country.ID, len(country.Polygons), centre.Lon, centre.Lat)
	return nil
}

var cli struct {
	Globals

	Routes  routesCmd  `cmd:"" help:"List routes that pass the filters."`
	Country countryCmd `cmd:"" help:"Look up a country and its centroid."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("route-inspect"),
		kong.Description("Inspect the globe datasets without opening a window."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}
