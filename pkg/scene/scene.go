// Package scene keeps the drawn routes and city markers in step with the
// filtered destination set. Elements are keyed by destination id; a key
// never maps to more than one element per category.
package scene

import (
	"github.com/sudorandom/route-globe/pkg/dataset"
	"github.com/sudorandom/route-globe/pkg/geo"
)

type Category int

const (
	Route Category = iota
	Marker
)

func (c Category) String() string {
	if c == Marker {
		return "marker"
	}
	return "route"
}

type Phase int

const (
	Entering Phase = iota
	Steady
	Exiting
)

func (p Phase) String() string {
	switch p {
	case Entering:
		return "entering"
	case Steady:
		return "steady"
	default:
		return "exiting"
	}
}

// Element is one drawn route or marker.
type Element struct {
	Key        string
	Category   Category
	Phase      Phase
	Generation uint64
	Feature    dataset.GeoFeature

	// Path is set for routes.
	Path geo.Path
	// Pos and Visible are set for markers.
	Pos     geo.Point
	Visible bool

	// Level runs 0 -> 1 on entry (overshooting with back-out easing) and
	// back to 0 on exit.
	Level   float64
	Radius  float64
	Opacity float64
}

func (e *Element) Live() bool { return e.Phase != Exiting }

// RouteRef points at a route without owning it. It goes stale once the
// route exits or its key is re-entered.
type RouteRef struct {
	Key        string
	Generation uint64
}

// Diff classifies keys between two reconciliations. Enter and Update follow
// the order of the new set, Exit the order of the old one.
type Diff struct {
	Enter  []string
	Update []string
	Exit   []string
}

func (d Diff) Empty() bool {
	return len(d.Enter) == 0 && len(d.Exit) == 0
}

// ComputeDiff compares the previous key list with the next feature set.
// Duplicate ids in next count once.
func ComputeDiff(prev []string, next []dataset.GeoFeature) Diff {
	old := make(map[string]bool, len(prev))
	for _, k := range prev {
		old[k] = true
	}
	var d Diff
	seen := make(map[string]bool, len(next))
	for _, f := range next {
		if seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		if old[f.ID] {
			d.Update = append(d.Update, f.ID)
		} else {
			d.Enter = append(d.Enter, f.ID)
		}
	}
	for _, k := range prev {
		if !seen[k] {
			d.Exit = append(d.Exit, k)
		}
	}
	return d
}
