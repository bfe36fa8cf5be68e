package geo

import (
	"math"
	"strconv"
	"strings"
)

// Point is a screen-space position.
type Point struct {
	X, Y float64
}

// Path is projected geometry: one or more polylines, split wherever the
// source line passed behind the globe.
type Path struct {
	Subpaths [][]Point
	length   float64
}

// NewPath drops empty subpaths and measures the rest.
func NewPath(subpaths [][]Point) Path {
	p := Path{}
	for _, sp := range subpaths {
		if len(sp) == 0 {
			continue
		}
		p.Subpaths = append(p.Subpaths, sp)
		for i := 1; i < len(sp); i++ {
			p.length += math.Hypot(sp[i].X-sp[i-1].X, sp[i].Y-sp[i-1].Y)
		}
	}
	return p
}

// Len is the rendered length in screen units. Jumps between subpaths do not
// count.
func (p Path) Len() float64 { return p.length }

func (p Path) Empty() bool { return len(p.Subpaths) == 0 }

func (p Path) Start() (Point, bool) {
	if p.Empty() {
		return Point{}, false
	}
	return p.Subpaths[0][0], true
}

func (p Path) End() (Point, bool) {
	if p.Empty() {
		return Point{}, false
	}
	last := p.Subpaths[len(p.Subpaths)-1]
	return last[len(last)-1], true
}

// PointAt walks d screen units along the path. d is clamped to [0, Len()].
func (p Path) PointAt(d float64) Point {
	start, ok := p.Start()
	if !ok {
		return Point{}
	}
	if d <= 0 {
		return start
	}
	for _, sp := range p.Subpaths {
		for i := 1; i < len(sp); i++ {
			a, b := sp[i-1], sp[i]
			seg := math.Hypot(b.X-a.X, b.Y-a.Y)
			if seg == 0 {
				continue
			}
			if d <= seg {
				f := d / seg
				return Point{X: a.X + (b.X-a.X)*f, Y: a.Y + (b.Y-a.Y)*f}
			}
			d -= seg
		}
	}
	end, _ := p.End()
	return end
}

// Heading is the direction from the path's first point to its last, in
// degrees, turned by 90 so an upward-pointing glyph faces along the route.
// It ignores the curvature in between.
func (p Path) Heading() float64 {
	start, ok := p.Start()
	if !ok {
		return 0
	}
	end, _ := p.End()
	return math.Atan2(end.Y-start.Y, end.X-start.X)*degrees + 90
}

// String renders the path as SVG path data ("M x,y L x,y ...").
func (p Path) String() string {
	var b strings.Builder
	buf := make([]byte, 0, 32)
	for _, sp := range p.Subpaths {
		for i, pt := range sp {
			if i == 0 {
				b.WriteByte('M')
			} else {
				b.WriteByte('L')
			}
			buf = strconv.AppendFloat(buf[:0], pt.X, 'f', 2, 64)
			buf = append(buf, ',')
			buf = strconv.AppendFloat(buf, pt.Y, 'f', 2, 64)
			b.Write(buf)
		}
	}
	return b.String()
}

// ProjectFunc projects a position to the screen and reports visibility.
type ProjectFunc func(LonLat) (Point, bool)

// horizonSteps bounds the bisection that locates where an edge crosses the
// horizon.
const horizonSteps = 16

// ClipProject projects a polyline, splitting it where it leaves the visible
// hemisphere. Edges are treated as great-circle arcs and cut exactly at the
// horizon so clipped lines reach the globe's limb.
func ClipProject(line []LonLat, project ProjectFunc) [][]Point {
	var out [][]Point
	var cur []Point
	var prev LonLat
	prevVisible := false

	for i, ll := range line {
		pt, visible := project(ll)
		switch {
		case i == 0:
			if visible {
				cur = append(cur, pt)
			}
		case visible && !prevVisible:
			if edge, ok := horizon(ll, prev, project); ok {
				cur = append(cur, edge)
			}
			cur = append(cur, pt)
		case !visible && prevVisible:
			if edge, ok := horizon(prev, ll, project); ok {
				cur = append(cur, edge)
			}
			out = append(out, cur)
			cur = nil
		case visible:
			cur = append(cur, pt)
		}
		prev, prevVisible = ll, visible
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// horizon finds the last visible point on the arc from the visible position
// in towards the hidden position out.
func horizon(in, out LonLat, project ProjectFunc) (Point, bool) {
	at := Interpolate(in, out)
	lo, hi := 0.0, 1.0
	best, found := project(in)
	for i := 0; i < horizonSteps; i++ {
		mid := (lo + hi) / 2
		if pt, ok := project(at(mid)); ok {
			best, found = pt, true
			lo = mid
		} else {
			hi = mid
		}
	}
	return best, found
}
