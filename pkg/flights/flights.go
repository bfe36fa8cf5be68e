// Package flights spawns planes on live routes and moves them along the
// routes' current geometry until they arrive or their route disappears.
package flights

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/sudorandom/route-globe/pkg/geo"
	"github.com/sudorandom/route-globe/pkg/logging"
	"github.com/sudorandom/route-globe/pkg/scene"
	"github.com/sudorandom/route-globe/pkg/timeline"
)

type State int

const (
	Spawned State = iota
	Traveling
	Arrived
	Orphaned
)

func (s State) String() string {
	switch s {
	case Spawned:
		return "spawned"
	case Traveling:
		return "traveling"
	case Arrived:
		return "arrived"
	default:
		return "orphaned"
	}
}

// Plane is a moving marker. It holds its route by reference only.
type Plane struct {
	ID        uint64
	Route     scene.RouteRef
	SpawnTime time.Time
	Duration  time.Duration
	Progress  float64
	X, Y      float64
	Heading   float64
	State     State
	// Visible is false while the route is entirely behind the globe. X, Y
	// and Heading then hold the last visible placement.
	Visible   bool

	tween *timeline.Handle
}

// Done reports whether the plane has been retired.
func (p *Plane) Done() bool { return p.State == Arrived || p.State == Orphaned }

// Routes is the live route geometry planes fly on.
type Routes interface {
	LiveRoutes() []scene.RouteRef
	RoutePath(ref scene.RouteRef) (geo.Path, bool)
}

type Options struct {
	// Spawn intervals are drawn uniformly from [SpawnMin, SpawnMax].
	SpawnMin time.Duration
	SpawnMax time.Duration
	// PerUnit is the flight time per unit of projected path length.
	PerUnit     time.Duration
	MaxInFlight int
	// ResetOnFilter retires every plane on a route change instead of
	// only those whose route went away.
	ResetOnFilter bool
	Rand          *rand.Rand
}

func (o Options) withDefaults() Options {
	if o.SpawnMin <= 0 {
		o.SpawnMin = 2 * time.Second
	}
	if o.SpawnMax < o.SpawnMin {
		o.SpawnMax = o.SpawnMin
	}
	if o.PerUnit <= 0 {
		o.PerUnit = 100 * time.Millisecond
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}

type Scheduler struct {
	tl     *timeline.Timeline
	routes Routes
	opts   Options
	log    zerolog.Logger

	planes    []*Plane
	nextID    uint64
	timer     *timeline.Handle
	onRetired []func(*Plane)
}

func New(tl *timeline.Timeline, routes Routes, opts Options) *Scheduler {
	return &Scheduler{
		tl:     tl,
		routes: routes,
		opts:   opts.withDefaults(),
		log:    logging.With("flights"),
	}
}

// OnRetired registers fn to run when a plane arrives or is orphaned.
func (s *Scheduler) OnRetired(fn func(*Plane)) { s.onRetired = append(s.onRetired, fn) }

// Start begins spawning on the timeline. It is a no-op when running.
func (s *Scheduler) Start() {
	if s.timer.Active() {
		return
	}
	s.timer = s.tl.Every(s.interval, func() { s.Spawn() })
}

// Stop halts spawning. Planes in flight keep moving.
func (s *Scheduler) Stop() {
	s.timer.Cancel()
	s.timer = nil
}

func (s *Scheduler) Running() bool { return s.timer.Active() }

func (s *Scheduler) interval() time.Duration {
	spread := s.opts.SpawnMax - s.opts.SpawnMin
	if spread <= 0 {
		return s.opts.SpawnMin
	}
	return s.opts.SpawnMin + time.Duration(s.opts.Rand.Int63n(int64(spread)+1))
}

// Spawn launches a plane on a random live route. It reports false when
// there are no live routes or the cap is reached. A route that is entirely
// behind the globe still gets a plane: it is hidden and arrives on the next
// step.
func (s *Scheduler) Spawn() (*Plane, bool) {
	if s.opts.MaxInFlight > 0 && len(s.planes) >= s.opts.MaxInFlight {
		s.log.Debug().Int("in_flight", len(s.planes)).Msg("spawn skipped: at capacity")
		return nil, false
	}

	var candidates []scene.RouteRef
	for _, ref := range s.routes.LiveRoutes() {
		if _, ok := s.routes.RoutePath(ref); ok {
			candidates = append(candidates, ref)
		}
	}
	if len(candidates) == 0 {
		s.log.Debug().Msg("spawn skipped: no live routes")
		return nil, false
	}

	ref := candidates[s.opts.Rand.Intn(len(candidates))]
	path, _ := s.routes.RoutePath(ref)

	s.nextID++
	p := &Plane{
		ID:        s.nextID,
		Route:     ref,
		SpawnTime: s.tl.Now(),
		Duration:  time.Duration(path.Len() * float64(s.opts.PerUnit)),
		State:     Spawned,
	}
	place(p, path)

	p.tween = s.tl.Tween(p.Duration, timeline.QuadInOut,
		func(t float64) { s.advance(p, t) },
		func() { s.retire(p, Arrived) })
	s.planes = append(s.planes, p)

	s.log.Debug().Uint64("plane", p.ID).Str("route", ref.Key).Dur("duration", p.Duration).Msg("spawned")
	return p, true
}

func (s *Scheduler) advance(p *Plane, t float64) {
	path, ok := s.routes.RoutePath(p.Route)
	if !ok {
		s.retire(p, Orphaned)
		return
	}
	p.State = Traveling
	p.Progress = t
	place(p, path)
}

// place puts p at its progress along path.
func place(p *Plane, path geo.Path) {
	if path.Empty() {
		p.Visible = false
		return
	}
	pt := path.PointAt(p.Progress * path.Len())
	p.X, p.Y = pt.X, pt.Y
	p.Heading = path.Heading()
	p.Visible = true
}

// Refresh re-places every plane on its route's current geometry without
// moving its progress. Call it whenever the camera changes.
func (s *Scheduler) Refresh() {
	for _, p := range s.planes {
		if path, ok := s.routes.RoutePath(p.Route); ok {
			place(p, path)
		}
	}
}

func (s *Scheduler) retire(p *Plane, state State) {
	if p.Done() {
		return
	}
	p.State = state
	p.tween.Cancel()
	for i, q := range s.planes {
		if q == p {
			s.planes = append(s.planes[:i], s.planes[i+1:]...)
			break
		}
	}
	s.log.Debug().Uint64("plane", p.ID).Stringer("state", state).Msg("retired")
	for _, fn := range s.onRetired {
		fn(p)
	}
}

// RoutesChanged drops every plane whose route is no longer live and
// keeps the rest flying. Call it after each reconciliation.
func (s *Scheduler) RoutesChanged() {
	for _, p := range append([]*Plane(nil), s.planes...) {
		if s.opts.ResetOnFilter {
			s.retire(p, Orphaned)
			continue
		}
		if _, ok := s.routes.RoutePath(p.Route); !ok {
			s.retire(p, Orphaned)
		}
	}
}

// Planes returns the planes in flight, oldest first.
func (s *Scheduler) Planes() []*Plane {
	out := make([]*Plane, len(s.planes))
	copy(out, s.planes)
	return out
}

func (s *Scheduler) Len() int { return len(s.planes) }
