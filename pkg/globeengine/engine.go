// Package globeengine runs the globe as an ebiten game: camera, scene and
// planes share one timeline that advances once per Update.
package globeengine

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rs/zerolog"
	"github.com/sudorandom/route-globe/pkg/camera"
	"github.com/sudorandom/route-globe/pkg/config"
	"github.com/sudorandom/route-globe/pkg/dataset"
	"github.com/sudorandom/route-globe/pkg/flights"
	"github.com/sudorandom/route-globe/pkg/logging"
	"github.com/sudorandom/route-globe/pkg/scene"
	"github.com/sudorandom/route-globe/pkg/timeline"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	ColorBackground = color.RGBA{8, 10, 15, 255}
	ColorWater      = color.RGBA{14, 32, 54, 255}
	ColorLand       = color.RGBA{26, 29, 35, 255}
	ColorOutline    = color.RGBA{36, 42, 53, 255}
	ColorRoute      = color.RGBA{0, 191, 255, 255}   // Sky Blue
	ColorCity       = color.RGBA{173, 255, 47, 255}  // Lime Green
	ColorHome       = color.RGBA{255, 255, 0, 255}   // Yellow
	ColorPlane      = color.RGBA{255, 255, 255, 255} // White
)

// Data is everything loaded at startup.
type Data struct {
	Home         dataset.GeoFeature
	Destinations []dataset.GeoFeature
	Countries    *dataset.CountryIndex
}

// HoverHandler is told when the pointer moves onto or off a city marker.
type HoverHandler interface {
	HoverEnter(f dataset.GeoFeature)
	HoverLeave(f dataset.GeoFeature)
}

type Engine struct {
	Width, Height   int
	FrameCaptureDir string
	CaptureEvery    int

	cfg     *config.Config
	log     zerolog.Logger
	tl      *timeline.Timeline
	camera  *camera.Camera
	scene   *scene.Reconciler
	flights *flights.Scheduler
	data    Data
	filters dataset.Filters

	hover   HoverHandler
	hovered *scene.Element

	dragging     bool
	lastX, lastY int

	land       *raster
	landDirty  bool
	landImage  *ebiten.Image
	fontSource *text.GoTextFaceSource
	frame      uint64
}

// NewEngine wires the engine and draws the first reconciliation. A nil
// clock means wall time.
func NewEngine(cfg *config.Config, data Data, clock timeline.Clock) *Engine {
	s, _ := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))

	tl := timeline.New(clock)
	e := &Engine{
		Width:           cfg.Render.Width,
		Height:          cfg.Render.Height,
		FrameCaptureDir: cfg.Render.CaptureDir,
		CaptureEvery:    cfg.Render.CaptureEvery,
		cfg:             cfg,
		log:             logging.With("engine"),
		tl:              tl,
		data:            data,
		landDirty:       true,
		fontSource:      s,
	}
	if e.CaptureEvery < 1 {
		e.CaptureEvery = 1
	}

	e.camera = camera.New(tl, camera.Options{
		Width:       e.Width,
		Height:      e.Height,
		Scale:       cfg.Camera.Scale,
		Sensitivity: cfg.Camera.Sensitivity,
	})
	e.scene = scene.New(tl, e.camera, data.Home.Position(), scene.Options{
		MarkerRadius:  cfg.Scene.MarkerRadius,
		EnterDuration: cfg.Scene.EnterDuration,
		ExitDuration:  cfg.Scene.ExitDuration,
	})

	seed := cfg.Flights.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e.flights = flights.New(tl, e.scene, flights.Options{
		SpawnMin:      cfg.Flights.SpawnMin,
		SpawnMax:      cfg.Flights.SpawnMax,
		PerUnit:       cfg.Flights.PerUnit,
		MaxInFlight:   cfg.Flights.MaxInFlight,
		ResetOnFilter: cfg.Flights.ResetOnFilter,
		Rand:          rand.New(rand.NewSource(seed)),
	})

	e.camera.OnChange(func(camera.State) {
		e.scene.Refresh()
		e.flights.Refresh()
		e.landDirty = true
	})
	e.scene.OnRemoved(func(el *scene.Element) {
		if el == e.hovered {
			e.setHovered(nil)
		}
	})

	e.filters = dataset.NewFilters(data.Destinations)
	if cfg.Filter.Enabled {
		e.filters = e.filters.WithTemperature(cfg.Filter.Temperature).WithDuration(cfg.Filter.Duration)
	}
	e.applyFilters()
	e.flights.Start()
	return e
}

// SetHoverHandler replaces the hover listener. nil disables it.
func (e *Engine) SetHoverHandler(h HoverHandler) { e.hover = h }

func (e *Engine) Camera() *camera.Camera       { return e.camera }
func (e *Engine) Scene() *scene.Reconciler     { return e.scene }
func (e *Engine) Flights() *flights.Scheduler  { return e.flights }
func (e *Engine) Timeline() *timeline.Timeline { return e.tl }
func (e *Engine) Filters() dataset.Filters     { return e.filters }

// SetFilters is the filter change event: both ranges are clamped to the
// dataset bounds, the scene is reconciled and planes on vanished routes
// are dropped.
func (e *Engine) SetFilters(temperature, duration dataset.FilterRange) {
	e.filters = e.filters.WithTemperature(temperature).WithDuration(duration)
	e.applyFilters()
}

func (e *Engine) applyFilters() {
	filtered := e.filters.Apply(e.data.Destinations)
	d := e.scene.Reconcile(filtered)
	e.flights.RoutesChanged()
	e.log.Info().
		Float64("temp_min", e.filters.Temperature.Min).
		Float64("temp_max", e.filters.Temperature.Max).
		Float64("duration_min", e.filters.Duration.Min).
		Float64("duration_max", e.filters.Duration.Max).
		Int("routes", len(filtered)).
		Int("entered", len(d.Enter)).
		Int("exited", len(d.Exit)).
		Msg("filters applied")
}

// FlyToCountry centres the camera on a country's centroid.
func (e *Engine) FlyToCountry(name string) error {
	if e.data.Countries == nil {
		return &dataset.DataShapeError{Dataset: "countries", ID: name, Field: "name", Err: dataset.ErrUnknownCountry}
	}
	c, err := e.data.Countries.ByName(name)
	if err != nil {
		return err
	}
	centre, ok := c.Centroid()
	if !ok {
		return &dataset.DataShapeError{Dataset: "countries", ID: name, Field: "geometry", Err: dataset.ErrInvalidField}
	}
	e.camera.FlyTo(centre, e.cfg.Camera.FocusScale, e.cfg.Camera.FocusDuration, func() {
		e.log.Debug().Str("country", name).Msg("fly-to finished")
	})
	return nil
}

// Focus flies to the configured country. Failure only skips the flight.
func (e *Engine) Focus() {
	name := e.cfg.Data.FocusCountry
	if name == "" {
		return
	}
	if err := e.FlyToCountry(name); err != nil {
		e.log.Warn().Err(err).Str("country", name).Msg("skipping initial fly-to")
	}
}

func (e *Engine) Update() error {
	x, y := ebiten.CursorPosition()
	e.handleKeys()
	e.pointer(x, y, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	e.tl.Step()
	e.hoverAt(float64(x), float64(y))
	return nil
}

// pointer turns pointer samples into a drag session on the camera.
func (e *Engine) pointer(x, y int, pressed bool) {
	switch {
	case pressed && !e.dragging:
		e.dragging = true
		e.lastX, e.lastY = x, y
		e.camera.BeginDrag()
	case pressed:
		dx, dy := x-e.lastX, y-e.lastY
		if dx != 0 || dy != 0 {
			e.camera.RotateBy(float64(dx), float64(dy))
		}
		e.lastX, e.lastY = x, y
	default:
		e.dragging = false
	}
}

func (e *Engine) hoverAt(x, y float64) {
	if e.dragging {
		return
	}
	el, _ := e.scene.MarkerAt(x, y)
	if el != e.hovered {
		e.setHovered(el)
	}
}

func (e *Engine) setHovered(el *scene.Element) {
	if e.hovered != nil && e.hover != nil {
		e.hover.HoverLeave(e.hovered.Feature)
	}
	e.hovered = el
	if el != nil && e.hover != nil {
		e.hover.HoverEnter(el.Feature)
	}
}

func (e *Engine) Layout(w, h int) (int, int) { return e.Width, e.Height }

// RunHeadless advances the timeline at the configured tick rate without a
// window until ctx is done, logging a summary every few seconds.
func (e *Engine) RunHeadless(ctx context.Context) error {
	tps := e.cfg.Render.TPS
	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()
	report := time.NewTicker(5 * time.Second)
	defer report.Stop()

	e.log.Info().Int("tps", tps).Msg("running headless")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			e.tl.Step()
		case <-report.C:
			st := e.camera.State()
			e.log.Info().
				Int("routes", len(e.scene.LiveRoutes())).
				Int("planes", e.flights.Len()).
				Floats64("rotation", st.Rotation[:]).
				Float64("scale", st.Scale).
				Msg("status")
		}
	}
}

func (e *Engine) landRaster() *image.RGBA {
	if e.land == nil {
		e.land = newRaster(e.Width, e.Height)
	}
	if e.landDirty {
		e.renderLand()
		e.landDirty = false
	}
	return e.land.img
}
