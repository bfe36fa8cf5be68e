package scene

import (
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/sudorandom/route-globe/pkg/dataset"
	"github.com/sudorandom/route-globe/pkg/geo"
	"github.com/sudorandom/route-globe/pkg/logging"
	"github.com/sudorandom/route-globe/pkg/timeline"
)

// Projector turns geographic positions into screen geometry for the
// current camera.
type Projector interface {
	Project(p geo.LonLat) (geo.Point, bool)
	Route(from, to geo.LonLat) geo.Path
}

type Options struct {
	MarkerRadius  float64
	EnterDuration time.Duration
	ExitDuration  time.Duration
	// HitSlop widens the marker hover target, in pixels.
	HitSlop float64
}

func (o Options) withDefaults() Options {
	if o.MarkerRadius <= 0 {
		o.MarkerRadius = 3
	}
	if o.EnterDuration <= 0 {
		o.EnterDuration = 750 * time.Millisecond
	}
	if o.ExitDuration <= 0 {
		o.ExitDuration = 500 * time.Millisecond
	}
	if o.HitSlop < 0 {
		o.HitSlop = 0
	}
	return o
}

type Reconciler struct {
	tl   *timeline.Timeline
	proj Projector
	home geo.LonLat
	opts Options
	log  zerolog.Logger

	routes  map[string]*Element
	markers map[string]*Element
	tweens  map[*Element]*timeline.Handle
	order   []string
	gen     uint64

	onAdded   []func(*Element)
	onRemoved []func(*Element)
}

// New creates an empty scene whose routes all start at home.
func New(tl *timeline.Timeline, proj Projector, home geo.LonLat, opts Options) *Reconciler {
	return &Reconciler{
		tl:      tl,
		proj:    proj,
		home:    home,
		opts:    opts.withDefaults(),
		log:     logging.With("scene"),
		routes:  make(map[string]*Element),
		markers: make(map[string]*Element),
		tweens:  make(map[*Element]*timeline.Handle),
	}
}

// OnAdded registers fn to run for every created element.
func (r *Reconciler) OnAdded(fn func(*Element)) { r.onAdded = append(r.onAdded, fn) }

// OnRemoved registers fn to run when an element is destroyed.
func (r *Reconciler) OnRemoved(fn func(*Element)) { r.onRemoved = append(r.onRemoved, fn) }

// Reconcile makes the scene match filtered. Leaving keys animate out,
// staying keys get fresh geometry and new keys animate in. Calling it
// twice with the same set changes nothing the second time.
func (r *Reconciler) Reconcile(filtered []dataset.GeoFeature) Diff {
	d := ComputeDiff(r.order, filtered)

	for _, key := range d.Exit {
		r.exit(r.routes[key])
		r.exit(r.markers[key])
	}

	order := make([]string, 0, len(filtered))
	seen := make(map[string]bool, len(filtered))
	for _, f := range filtered {
		if seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		order = append(order, f.ID)

		route, marker := r.routes[f.ID], r.markers[f.ID]
		if route != nil && route.Live() && marker != nil && marker.Live() {
			route.Feature, marker.Feature = f, f
			r.layout(route)
			r.layout(marker)
			continue
		}
		// still fading out from an earlier reconciliation
		r.destroy(route)
		r.destroy(marker)
		r.enter(f)
	}
	r.order = order

	r.log.Debug().
		Int("enter", len(d.Enter)).
		Int("update", len(d.Update)).
		Int("exit", len(d.Exit)).
		Msg("reconciled")
	return d
}

// Refresh recomputes the geometry of every element, exiting ones included.
// Call it after each camera change.
func (r *Reconciler) Refresh() {
	for _, el := range r.routes {
		r.layout(el)
	}
	for _, el := range r.markers {
		r.layout(el)
	}
}

// SetHome moves the origin of every route.
func (r *Reconciler) SetHome(home geo.LonLat) {
	r.home = home
	for _, el := range r.routes {
		r.layout(el)
	}
}

func (r *Reconciler) enter(f dataset.GeoFeature) {
	r.gen++
	for _, el := range []*Element{
		{Key: f.ID, Category: Route, Phase: Entering, Generation: r.gen, Feature: f},
		{Key: f.ID, Category: Marker, Phase: Entering, Generation: r.gen, Feature: f},
	} {
		el := el
		r.elements(el.Category)[el.Key] = el
		r.layout(el)
		r.setLevel(el, 0)
		r.tweens[el] = r.tl.Tween(r.opts.EnterDuration, timeline.BackOut,
			func(t float64) { r.setLevel(el, t) },
			func() {
				delete(r.tweens, el)
				el.Phase = Steady
			})
		for _, fn := range r.onAdded {
			fn(el)
		}
	}
}

func (r *Reconciler) exit(el *Element) {
	if el == nil || !el.Live() {
		return
	}
	r.tweens[el].Cancel()
	el.Phase = Exiting
	from := el.Level
	r.tweens[el] = r.tl.Tween(r.opts.ExitDuration, timeline.Linear,
		func(t float64) { r.setLevel(el, from*(1-t)) },
		func() { r.destroy(el) })
}

func (r *Reconciler) destroy(el *Element) {
	if el == nil {
		return
	}
	r.tweens[el].Cancel()
	delete(r.tweens, el)
	m := r.elements(el.Category)
	if m[el.Key] != el {
		return
	}
	delete(m, el.Key)
	for _, fn := range r.onRemoved {
		fn(el)
	}
}

func (r *Reconciler) elements(c Category) map[string]*Element {
	if c == Marker {
		return r.markers
	}
	return r.routes
}

func (r *Reconciler) setLevel(el *Element, v float64) {
	el.Level = v
	el.Radius = math.Max(0, v*r.opts.MarkerRadius)
	el.Opacity = math.Min(1, math.Max(0, v))
}

func (r *Reconciler) layout(el *Element) {
	switch el.Category {
	case Route:
		el.Path = r.proj.Route(r.home, el.Feature.Position())
	case Marker:
		el.Pos, el.Visible = r.proj.Project(el.Feature.Position())
	}
}

// Keys returns the ids of the last reconciled set, in order.
func (r *Reconciler) Keys() []string {
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// Elements returns every element of a category: live ones in key order,
// then exiting ones sorted by key.
func (r *Reconciler) Elements(c Category) []*Element {
	m := r.elements(c)
	out := make([]*Element, 0, len(m))
	for _, key := range r.order {
		if el, ok := m[key]; ok && el.Live() {
			out = append(out, el)
		}
	}
	var exiting []*Element
	for _, el := range m {
		if !el.Live() {
			exiting = append(exiting, el)
		}
	}
	sort.Slice(exiting, func(i, j int) bool { return exiting[i].Key < exiting[j].Key })
	return append(out, exiting...)
}

// LiveRoutes lists references to every route that is not exiting.
func (r *Reconciler) LiveRoutes() []RouteRef {
	out := make([]RouteRef, 0, len(r.order))
	for _, key := range r.order {
		if el, ok := r.routes[key]; ok && el.Live() {
			out = append(out, RouteRef{Key: key, Generation: el.Generation})
		}
	}
	return out
}

// RoutePath returns the current geometry of a live route. A stale
// reference reports false.
func (r *Reconciler) RoutePath(ref RouteRef) (geo.Path, bool) {
	el, ok := r.routes[ref.Key]
	if !ok || el.Generation != ref.Generation || !el.Live() {
		return geo.Path{}, false
	}
	return el.Path, true
}

// MarkerAt returns the topmost visible live marker under (x, y).
func (r *Reconciler) MarkerAt(x, y float64) (*Element, bool) {
	var hit *Element
	for _, key := range r.order {
		el, ok := r.markers[key]
		if !ok || !el.Live() || !el.Visible {
			continue
		}
		reach := math.Max(el.Radius, r.opts.MarkerRadius) + r.opts.HitSlop
		if math.Hypot(el.Pos.X-x, el.Pos.Y-y) <= reach {
			hit = el
		}
	}
	return hit, hit != nil
}
