package globeengine

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sudorandom/route-globe/pkg/dataset"
)

const (
	temperatureStep = 1.0
	durationStep    = 30.0
)

// handleKeys offers keyboard nudges of the filter ranges for demos.
// Up/Down move the temperature ceiling, Left/Right the flight time ceiling,
// R restores full ranges, F repeats the fly-to and Space pauses spawning.
func (e *Engine) handleKeys() {
	t, d := e.filters.Temperature, e.filters.Duration
	changed := false
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		t.Max += temperatureStep
		changed = true
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		t.Max -= temperatureStep
		changed = true
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		d.Max += durationStep
		changed = true
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		d.Max -= durationStep
		changed = true
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		t, d = e.filters.TemperatureBounds, e.filters.DurationBounds
		changed = true
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		e.Focus()
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		e.toggleSpawning()
	}
	if changed {
		e.SetFilters(nudge(t, e.filters.TemperatureBounds), nudge(d, e.filters.DurationBounds))
	}
}

// nudge keeps a keyboard-edited range from collapsing below its minimum.
func nudge(r, bounds dataset.FilterRange) dataset.FilterRange {
	if r.Max < r.Min {
		r.Max = r.Min
	}
	return r.Clamp(bounds)
}

func (e *Engine) toggleSpawning() {
	if e.flights.Running() {
		e.flights.Stop()
		e.log.Info().Msg("spawning paused")
		return
	}
	e.flights.Start()
	e.log.Info().Msg("spawning resumed")
}
