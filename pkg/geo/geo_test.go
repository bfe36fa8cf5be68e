package geo

import (
	"math"
	"testing"
)

func almost(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func unitProject(p LonLat) (Point, bool) {
	x, y, ok := Orthographic(p)
	return Point{X: 100 * x, Y: -100 * y}, ok
}

func TestOrthographicVisibility(t *testing.T) {
	tests := []struct {
		p       LonLat
		visible bool
	}{
		{LonLat{0, 0}, true},
		{LonLat{89, 0}, true},
		{LonLat{91, 0}, false},
		{LonLat{180, 0}, false},
		{LonLat{0, 89}, true},
		{LonLat{-120, 10}, false},
	}
	for _, tt := range tests {
		if _, _, got := Orthographic(tt.p); got != tt.visible {
			t.Errorf("Orthographic(%v) visible = %v; want %v", tt.p, got, tt.visible)
		}
	}
}

func TestRotationCentresTarget(t *testing.T) {
	target := LonLat{Lon: 17.1, Lat: 48.1}
	r := Rotation{-target.Lon, -target.Lat, 0}
	got := r.Apply(target)
	if !almost(got.Lon, 0, 1e-9) || !almost(got.Lat, 0, 1e-9) {
		t.Errorf("Apply(%v) = %v; want origin", target, got)
	}
}

func TestRotationWrapsLargeLongitude(t *testing.T) {
	p := LonLat{Lon: 10, Lat: 5}
	a := Rotation{20, 0, 0}.Apply(p)
	b := Rotation{20 + 720, 0, 0}.Apply(p)
	if !almost(a.Lon, b.Lon, 1e-9) || !almost(a.Lat, b.Lat, 1e-9) {
		t.Errorf("rotation by 740 = %v; want %v", b, a)
	}
}

func TestVersorRoundTrip(t *testing.T) {
	rotations := []Rotation{
		{0, 0, 0},
		{-17, -48, 0},
		{120, 30, 0},
		{-170, -80, 15},
		{45, 60, -30},
	}
	for _, r := range rotations {
		got := VersorOf(r).Rotation()
		for i := range r {
			if !almost(got[i], r[i], 1e-9) {
				t.Errorf("VersorOf(%v).Rotation() = %v", r, got)
				break
			}
		}
	}
}

func TestSlerpEndpoints(t *testing.T) {
	a, b := Rotation{10, 20, 0}, Rotation{-40, -50, 0}
	qa, qb := VersorOf(a), VersorOf(b)
	for _, tc := range []struct {
		t    float64
		want Rotation
	}{{0, a}, {1, b}} {
		got := Slerp(qa, qb, tc.t).Rotation()
		for i := range got {
			if !almost(got[i], tc.want[i], 1e-6) {
				t.Errorf("Slerp(t=%v) = %v; want %v", tc.t, got, tc.want)
				break
			}
		}
	}
}

func TestSlerpStaysUnit(t *testing.T) {
	qa, qb := VersorOf(Rotation{0, 0, 0}), VersorOf(Rotation{179, 80, 0})
	for i := 0; i <= 10; i++ {
		q := Slerp(qa, qb, float64(i)/10)
		n := q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]
		if !almost(n, 1, 1e-9) {
			t.Errorf("|Slerp(%d/10)|^2 = %f; want 1", i, n)
		}
	}
}

func TestDistanceAndInterpolate(t *testing.T) {
	a, b := LonLat{0, 0}, LonLat{90, 0}
	if d := Distance(a, b); !almost(d, math.Pi/2, 1e-12) {
		t.Errorf("Distance = %f; want pi/2", d)
	}
	mid := Interpolate(a, b)(0.5)
	if !almost(mid.Lon, 45, 1e-9) || !almost(mid.Lat, 0, 1e-9) {
		t.Errorf("midpoint = %v; want (45, 0)", mid)
	}
	same := Interpolate(a, a)(0.3)
	if same != a {
		t.Errorf("Interpolate(a, a) = %v; want %v", same, a)
	}
}

func TestGreatCircleSampling(t *testing.T) {
	pts := GreatCircle(LonLat{0, 0}, LonLat{10, 0}, 2)
	if len(pts) != 6 {
		t.Fatalf("len = %d; want 6", len(pts))
	}
	if pts[0] != (LonLat{0, 0}) || pts[5] != (LonLat{10, 0}) {
		t.Errorf("endpoints = %v, %v", pts[0], pts[5])
	}
	if one := GreatCircle(LonLat{5, 5}, LonLat{5, 5}, 2); len(one) != 2 {
		t.Errorf("degenerate arc has %d samples; want 2", len(one))
	}
}

func TestCentroid(t *testing.T) {
	square := [][][][]float64{{{
		{9, 9}, {11, 9}, {11, 11}, {9, 11}, {9, 9},
	}}}
	c, ok := Centroid(square)
	if !ok {
		t.Fatal("Centroid reported no result")
	}
	if !almost(c.Lon, 10, 0.05) || !almost(c.Lat, 10, 0.05) {
		t.Errorf("Centroid = %v; want about (10, 10)", c)
	}
	if _, ok := Centroid(nil); ok {
		t.Error("Centroid(nil) reported a result")
	}
}

func TestPathMeasurement(t *testing.T) {
	p := NewPath([][]Point{{{0, 0}, {3, 4}}, {}, {{10, 0}, {10, 10}}})
	if len(p.Subpaths) != 2 {
		t.Fatalf("subpaths = %d; want 2", len(p.Subpaths))
	}
	if p.Len() != 15 {
		t.Errorf("Len() = %f; want 15", p.Len())
	}

	tests := []struct {
		d    float64
		want Point
	}{
		{-1, Point{0, 0}},
		{2.5, Point{1.5, 2}},
		{5, Point{3, 4}},
		{10, Point{10, 5}},
		{99, Point{10, 10}},
	}
	for _, tt := range tests {
		got := p.PointAt(tt.d)
		if !almost(got.X, tt.want.X, 1e-9) || !almost(got.Y, tt.want.Y, 1e-9) {
			t.Errorf("PointAt(%v) = %v; want %v", tt.d, got, tt.want)
		}
	}

	if got := p.String(); got != "M0.00,0.00L3.00,4.00M10.00,0.00L10.00,10.00" {
		t.Errorf("String() = %q", got)
	}
}

func TestPathHeading(t *testing.T) {
	tests := []struct {
		end  Point
		want float64
	}{
		{Point{10, 0}, 90},
		{Point{0, 10}, 180},
		{Point{0, -10}, 0},
	}
	for _, tt := range tests {
		p := NewPath([][]Point{{{0, 0}, {5, 5}, tt.end}})
		if got := p.Heading(); !almost(got, tt.want, 1e-9) {
			t.Errorf("Heading to %v = %f; want %f", tt.end, got, tt.want)
		}
	}
	if got := (Path{}).Heading(); got != 0 {
		t.Errorf("empty Heading = %f; want 0", got)
	}
}

func TestClipProjectStopsAtHorizon(t *testing.T) {
	line := GreatCircle(LonLat{0, 0}, LonLat{150, 0}, 2)
	sub := ClipProject(line, unitProject)
	if len(sub) != 1 {
		t.Fatalf("subpaths = %d; want 1", len(sub))
	}
	last := sub[0][len(sub[0])-1]
	if !almost(last.X, 100, 0.01) {
		t.Errorf("clipped end x = %f; want the limb at 100", last.X)
	}
}

func TestClipProjectReentersAfterHorizon(t *testing.T) {
	line := []LonLat{{60, 0}, {120, 0}, {-120, 0}, {-60, 0}}
	sub := ClipProject(line, unitProject)
	if len(sub) != 2 {
		t.Fatalf("subpaths = %d; want 2", len(sub))
	}
	if first := sub[1][0]; !almost(first.X, -100, 0.01) {
		t.Errorf("re-entry x = %f; want the limb at -100", first.X)
	}
}

func TestClipProjectHiddenLine(t *testing.T) {
	line := []LonLat{{150, 0}, {170, 0}}
	if sub := ClipProject(line, unitProject); len(sub) != 0 {
		t.Errorf("hidden line produced %d subpaths", len(sub))
	}
}
