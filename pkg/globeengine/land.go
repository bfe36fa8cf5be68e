package globeengine

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/sudorandom/route-globe/pkg/geo"
)

// raster is a CPU canvas for the land layer. It is redrawn only after the
// camera moves.
type raster struct {
	img  *image.RGBA
	w, h int
}

func newRaster(w, h int) *raster {
	return &raster{img: image.NewRGBA(image.Rect(0, 0, w, h)), w: w, h: h}
}

func (r *raster) clear() {
	for i := range r.img.Pix {
		r.img.Pix[i] = 0
	}
}

func (r *raster) set(x, y int, c color.RGBA) {
	if x < 0 || x >= r.w || y < 0 || y >= r.h {
		return
	}
	off := y*r.img.Stride + x*4
	r.img.Pix[off], r.img.Pix[off+1], r.img.Pix[off+2], r.img.Pix[off+3] = c.R, c.G, c.B, c.A
}

// fill paints the even-odd interior of rings, so holes stay empty.
func (r *raster) fill(rings [][]geo.Point, c color.RGBA) {
	if len(rings) == 0 {
		return
	}
	minY, maxY := float64(r.h), 0.0
	for _, ring := range rings {
		for _, p := range ring {
			minY = math.Min(minY, p.Y)
			maxY = math.Max(maxY, p.Y)
		}
	}
	for y := int(math.Max(minY, 0)); y <= int(math.Min(maxY, float64(r.h-1))); y++ {
		var nodes []int
		fy := float64(y) + 0.5
		for _, ring := range rings {
			for i := 0; i < len(ring); i++ {
				a, b := ring[i], ring[(i+1)%len(ring)]
				if (a.Y < fy && b.Y >= fy) || (b.Y < fy && a.Y >= fy) {
					nodes = append(nodes, int(a.X+(fy-a.Y)/(b.Y-a.Y)*(b.X-a.X)))
				}
			}
		}
		sort.Ints(nodes)
		for i := 0; i+1 < len(nodes); i += 2 {
			xs, xe := max(nodes[i], 0), min(nodes[i+1], r.w-1)
			for x := xs; x < xe; x++ {
				r.set(x, y, c)
			}
		}
	}
}

func (r *raster) stroke(pts []geo.Point, c color.RGBA) {
	for i := 1; i < len(pts); i++ {
		r.line(int(pts[i-1].X), int(pts[i-1].Y), int(pts[i].X), int(pts[i].Y), c)
	}
}

func (r *raster) line(x1, y1, x2, y2 int, c color.RGBA) {
	dx, dy := abs(x2-x1), abs(y2-y1)
	sx, sy := -1, -1
	if x1 < x2 {
		sx = 1
	}
	if y1 < y2 {
		sy = 1
	}
	err := dx - dy
	for {
		r.set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// closeOnLimb joins the visible pieces of a clipped ring into one closed
// outline, walking the globe's limb between the point where the ring left
// the visible side and where it came back.
func closeOnLimb(subpaths [][]geo.Point, centre geo.Point, radius float64) []geo.Point {
	if len(subpaths) == 0 {
		return nil
	}
	if len(subpaths) == 1 {
		return subpaths[0]
	}
	var out []geo.Point
	for i, sp := range subpaths {
		out = append(out, sp...)
		next := subpaths[(i+1)%len(subpaths)]
		out = append(out, limbArc(sp[len(sp)-1], next[0], centre, radius)...)
	}
	return out
}

// limbArc returns points on the limb strictly between from and to, going
// the short way round.
func limbArc(from, to, centre geo.Point, radius float64) []geo.Point {
	a0 := math.Atan2(from.Y-centre.Y, from.X-centre.X)
	a1 := math.Atan2(to.Y-centre.Y, to.X-centre.X)
	delta := math.Remainder(a1-a0, 2*math.Pi)
	steps := int(math.Abs(delta) / (4 * math.Pi / 180))
	pts := make([]geo.Point, 0, steps)
	for i := 1; i < steps; i++ {
		a := a0 + delta*float64(i)/float64(steps)
		pts = append(pts, geo.Point{X: centre.X + radius*math.Cos(a), Y: centre.Y + radius*math.Sin(a)})
	}
	return pts
}

// renderLand redraws every country for the current camera.
func (e *Engine) renderLand() {
	e.land.clear()
	if e.data.Countries == nil {
		return
	}
	centre, radius := e.camera.Centre(), e.camera.Radius()
	for _, c := range e.data.Countries.All() {
		for _, poly := range c.Polygons {
			var rings [][]geo.Point
			var edges [][]geo.Point
			for _, ring := range poly {
				subs := e.camera.Outline(ring)
				if closed := closeOnLimb(subs, centre, radius); len(closed) > 2 {
					rings = append(rings, closed)
				}
				edges = append(edges, subs...)
			}
			e.land.fill(rings, ColorLand)
			for _, sp := range edges {
				e.land.stroke(sp, ColorOutline)
			}
		}
	}
}
