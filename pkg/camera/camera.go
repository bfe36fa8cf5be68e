// Package camera owns the globe's rotation and zoom. It projects geographic
// positions to the screen, applies pointer drags and runs scripted fly-to
// transitions on the shared timeline.
package camera

import (
	"time"

	"github.com/sudorandom/route-globe/pkg/geo"
	"github.com/sudorandom/route-globe/pkg/timeline"
)

// DefaultSensitivity turns 10 screen units of drag into one degree.
const DefaultSensitivity = 0.1

// routeStep is the maximum spacing in degrees between route samples.
const routeStep = 2.0

// State is the complete camera model. Scale is always positive.
type State struct {
	Rotation geo.Rotation
	Scale    float64
}

type Options struct {
	Width, Height int
	Scale         float64
	Sensitivity   float64
	// Ease shapes fly-to transitions. Defaults to cubic in-out.
	Ease timeline.Ease
}

type Camera struct {
	tl          *timeline.Timeline
	state       State
	cx, cy      float64
	sensitivity float64
	ease        timeline.Ease

	flight    *timeline.Handle
	version   uint64
	listeners []func(State)
}

func New(tl *timeline.Timeline, opts Options) *Camera {
	if opts.Scale <= 0 {
		opts.Scale = 220
	}
	if opts.Sensitivity == 0 {
		opts.Sensitivity = DefaultSensitivity
	}
	if opts.Ease == nil {
		opts.Ease = timeline.CubicInOut
	}
	return &Camera{
		tl:          tl,
		state:       State{Scale: opts.Scale},
		cx:          float64(opts.Width) / 2,
		cy:          float64(opts.Height) / 2,
		sensitivity: opts.Sensitivity,
		ease:        opts.Ease,
	}
}

func (c *Camera) State() State { return c.state }

// Version increases on every mutation. Cached geometry tagged with an older
// version is stale.
func (c *Camera) Version() uint64 { return c.version }

// OnChange registers fn to run after every mutation, once the new state is
// fully applied.
func (c *Camera) OnChange(fn func(State)) {
	c.listeners = append(c.listeners, fn)
}

// SetState replaces the camera state. A non-positive scale keeps the
// current one.
func (c *Camera) SetState(s State) {
	if s.Scale <= 0 {
		s.Scale = c.state.Scale
	}
	c.apply(s)
}

func (c *Camera) apply(s State) {
	c.state = s
	c.version++
	for _, fn := range c.listeners {
		fn(s)
	}
}

// Centre is the screen position of the globe's centre.
func (c *Camera) Centre() geo.Point { return geo.Point{X: c.cx, Y: c.cy} }

// Radius is the globe's radius on screen.
func (c *Camera) Radius() float64 { return c.state.Scale }

// Project maps a position to the screen. visible is false for positions on
// the far side of the globe.
func (c *Camera) Project(p geo.LonLat) (geo.Point, bool) {
	x, y, visible := geo.Orthographic(c.state.Rotation.Apply(p))
	return geo.Point{X: c.cx + x*c.state.Scale, Y: c.cy - y*c.state.Scale}, visible
}

// Route is the visible part of the great-circle arc between two positions.
func (c *Camera) Route(from, to geo.LonLat) geo.Path {
	return geo.NewPath(geo.ClipProject(geo.GreatCircle(from, to, routeStep), c.Project))
}

// Outline projects a GeoJSON ring, split where it passes behind the globe.
func (c *Camera) Outline(ring [][]float64) [][]geo.Point {
	line := make([]geo.LonLat, 0, len(ring))
	for _, pos := range ring {
		if ll, ok := geo.FromCoordinates(pos); ok {
			line = append(line, ll)
		}
	}
	return geo.ClipProject(line, c.Project)
}

// RotateBy applies a pointer drag delta. Roll is left untouched.
func (c *Camera) RotateBy(dx, dy float64) {
	s := c.state
	s.Rotation[0] += dx * c.sensitivity
	s.Rotation[1] -= dy * c.sensitivity
	c.apply(s)
}

// BeginDrag starts a drag session, cancelling any fly-to in progress.
func (c *Camera) BeginDrag() {
	c.flight.Cancel()
	c.flight = nil
}

// Flying reports whether a fly-to transition is running.
func (c *Camera) Flying() bool { return c.flight.Active() }

// FlyTo turns the globe so target sits in the centre and zooms to scale
// over d. Rotation moves along the shortest arc between the two
// orientations. Any earlier transition is cancelled and its done callback
// never runs. When the transition completes the state equals the target
// exactly and done runs once. A non-positive scale keeps the current zoom.
func (c *Camera) FlyTo(target geo.LonLat, scale float64, d time.Duration, done func()) *timeline.Handle {
	c.flight.Cancel()

	from := c.state
	to := State{
		Rotation: geo.Rotation{-target.Lon, -target.Lat, from.Rotation[2]},
		Scale:    scale,
	}
	if to.Scale <= 0 {
		to.Scale = from.Scale
	}
	q0, q1 := geo.VersorOf(from.Rotation), geo.VersorOf(to.Rotation)

	var h *timeline.Handle
	h = c.tl.Tween(d, c.ease, func(t float64) {
		if t >= 1 {
			return
		}
		s := from.Scale + (to.Scale-from.Scale)*t
		if s <= 0 {
			s = c.state.Scale
		}
		c.apply(State{Rotation: geo.Slerp(q0, q1, t).Rotation(), Scale: s})
	}, func() {
		c.apply(to)
		if c.flight == h {
			c.flight = nil
		}
		if done != nil {
			done()
		}
	})
	c.flight = h
	return h
}
