// Package geo holds the spherical math behind the globe: d3-style rotations,
// the orthographic projection, quaternion interpolation of rotations, great
// circle sampling and the projected screen paths built from them.
package geo

import "math"

const (
	radians = math.Pi / 180
	degrees = 180 / math.Pi
	epsilon = 1e-9
)

// LonLat is a geographic position in degrees.
type LonLat struct {
	Lon, Lat float64
}

// FromCoordinates reads a GeoJSON [lon, lat] pair. Short slices yield the
// zero position and false.
func FromCoordinates(c []float64) (LonLat, bool) {
	if len(c) < 2 {
		return LonLat{}, false
	}
	return LonLat{Lon: c[0], Lat: c[1]}, true
}

// Rotation is a d3 projection rotation [lambda, phi, gamma] in degrees:
// a longitude shift followed by a tilt (phi) and a roll (gamma).
type Rotation [3]float64

// Apply rotates a geographic position into the camera frame.
func (r Rotation) Apply(p LonLat) LonLat {
	lambda := wrapRadians((p.Lon + r[0]) * radians)
	phi := p.Lat * radians

	dPhi, dGamma := r[1]*radians, r[2]*radians
	cosDPhi, sinDPhi := math.Cos(dPhi), math.Sin(dPhi)
	cosDGamma, sinDGamma := math.Cos(dGamma), math.Sin(dGamma)

	cosPhi := math.Cos(phi)
	x := math.Cos(lambda) * cosPhi
	y := math.Sin(lambda) * cosPhi
	z := math.Sin(phi)
	k := z*cosDPhi + x*sinDPhi

	return LonLat{
		Lon: math.Atan2(y*cosDGamma-k*sinDGamma, x*cosDPhi-z*sinDPhi) * degrees,
		Lat: asin(k*cosDGamma+y*sinDGamma) * degrees,
	}
}

// Orthographic is the raw orthographic projection on the unit sphere of an
// already rotated position. visible is false on the far hemisphere
// (clip angle of 90 degrees).
func Orthographic(p LonLat) (x, y float64, visible bool) {
	lambda, phi := p.Lon*radians, p.Lat*radians
	cosPhi := math.Cos(phi)
	return cosPhi * math.Sin(lambda), math.Sin(phi), cosPhi*math.Cos(lambda) > 0
}

// Distance is the great-circle angle between two positions, in radians.
func Distance(a, b LonLat) float64 {
	phi0, phi1 := a.Lat*radians, b.Lat*radians
	h := haversin(phi1-phi0) + math.Cos(phi0)*math.Cos(phi1)*haversin((b.Lon-a.Lon)*radians)
	return 2 * asin(math.Sqrt(h))
}

// Interpolate returns the point at fraction t along the great circle from a
// to b.
func Interpolate(a, b LonLat) func(t float64) LonLat {
	x0, y0 := a.Lon*radians, a.Lat*radians
	x1, y1 := b.Lon*radians, b.Lat*radians
	cy0, sy0 := math.Cos(y0), math.Sin(y0)
	cy1, sy1 := math.Cos(y1), math.Sin(y1)
	kx0, ky0 := cy0*math.Cos(x0), cy0*math.Sin(x0)
	kx1, ky1 := cy1*math.Cos(x1), cy1*math.Sin(x1)

	d := Distance(a, b)
	k := math.Sin(d)
	if d < epsilon || k < epsilon {
		// Identical or antipodal endpoints have no unique great circle.
		return func(t float64) LonLat {
			return LonLat{Lon: a.Lon + (b.Lon-a.Lon)*t, Lat: a.Lat + (b.Lat-a.Lat)*t}
		}
	}
	return func(t float64) LonLat {
		td := t * d
		B := math.Sin(td) / k
		A := math.Sin(d-td) / k
		x := A*kx0 + B*kx1
		y := A*ky0 + B*ky1
		z := A*sy0 + B*sy1
		return LonLat{
			Lon: math.Atan2(y, x) * degrees,
			Lat: math.Atan2(z, math.Sqrt(x*x+y*y)) * degrees,
		}
	}
}

// GreatCircle samples the arc from a to b so that consecutive samples are
// at most maxStep degrees apart. Both endpoints are always included.
func GreatCircle(a, b LonLat, maxStep float64) []LonLat {
	if maxStep <= 0 {
		maxStep = 2
	}
	n := int(math.Ceil(Distance(a, b) * degrees / maxStep))
	if n < 1 {
		n = 1
	}
	at := Interpolate(a, b)
	out := make([]LonLat, 0, n+1)
	out = append(out, a)
	for i := 1; i < n; i++ {
		out = append(out, at(float64(i)/float64(n)))
	}
	return append(out, b)
}

// Centroid is the spherical centroid of the outer rings of a set of
// polygons (GeoJSON nesting: polygon -> ring -> position), weighting each
// edge midpoint by the edge's arc length. ok is false when the rings are
// empty or degenerate.
func Centroid(polygons [][][][]float64) (LonLat, bool) {
	var sx, sy, sz float64
	for _, poly := range polygons {
		if len(poly) == 0 {
			continue
		}
		ring := poly[0]
		for i := 0; i+1 < len(ring); i++ {
			a, okA := FromCoordinates(ring[i])
			b, okB := FromCoordinates(ring[i+1])
			if !okA || !okB {
				continue
			}
			w := Distance(a, b)
			if w == 0 {
				continue
			}
			ax, ay, az := cartesian(a)
			bx, by, bz := cartesian(b)
			sx += w * (ax + bx)
			sy += w * (ay + by)
			sz += w * (az + bz)
		}
	}
	n := math.Sqrt(sx*sx + sy*sy + sz*sz)
	if n < epsilon {
		return LonLat{}, false
	}
	return LonLat{
		Lon: math.Atan2(sy, sx) * degrees,
		Lat: asin(sz/n) * degrees,
	}, true
}

func cartesian(p LonLat) (x, y, z float64) {
	lambda, phi := p.Lon*radians, p.Lat*radians
	cosPhi := math.Cos(phi)
	return cosPhi * math.Cos(lambda), cosPhi * math.Sin(lambda), math.Sin(phi)
}

func haversin(x float64) float64 {
	s := math.Sin(x / 2)
	return s * s
}

func asin(x float64) float64 {
	return math.Asin(math.Max(-1, math.Min(1, x)))
}

func wrapRadians(a float64) float64 {
	return math.Remainder(a, 2*math.Pi)
}
