package geo

import "math"

// Versor is a unit quaternion [w, x, y, z] equivalent to a Rotation.
// Interpolating versors moves the globe along the shortest arc instead of
// lerping each Euler angle on its own.
type Versor [4]float64

// VersorOf converts a rotation to a versor.
func VersorOf(r Rotation) Versor {
	l, p, g := r[0]/2*radians, r[1]/2*radians, r[2]/2*radians
	sl, cl := math.Sin(l), math.Cos(l)
	sp, cp := math.Sin(p), math.Cos(p)
	sg, cg := math.Sin(g), math.Cos(g)
	return Versor{
		cl*cp*cg + sl*sp*sg,
		sl*cp*cg - cl*sp*sg,
		cl*sp*cg + sl*cp*sg,
		cl*cp*sg - sl*sp*cg,
	}
}

// Rotation converts back to [lambda, phi, gamma] with lambda and gamma in
// (-180, 180] and phi in [-90, 90].
func (q Versor) Rotation() Rotation {
	return Rotation{
		math.Atan2(2*(q[0]*q[1]+q[2]*q[3]), 1-2*(q[1]*q[1]+q[2]*q[2])) * degrees,
		asin(2*(q[0]*q[2]-q[3]*q[1])) * degrees,
		math.Atan2(2*(q[0]*q[3]+q[1]*q[2]), 1-2*(q[2]*q[2]+q[3]*q[3])) * degrees,
	}
}

// Slerp interpolates between two versors along the shortest arc.
func Slerp(a, b Versor, t float64) Versor {
	dot := a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
	if dot < 0 {
		dot = -dot
		b = Versor{-b[0], -b[1], -b[2], -b[3]}
	}
	if dot > 0.9995 {
		var out Versor
		for i := range out {
			out[i] = a[i] + (b[i]-a[i])*t
		}
		return out.normalize()
	}
	theta := math.Acos(math.Min(1, dot))
	s := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / s
	wb := math.Sin(t*theta) / s
	return Versor{
		wa*a[0] + wb*b[0],
		wa*a[1] + wb*b[1],
		wa*a[2] + wb*b[2],
		wa*a[3] + wb*b[3],
	}
}

func (q Versor) normalize() Versor {
	n := math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if n == 0 {
		return Versor{1, 0, 0, 0}
	}
	return Versor{q[0] / n, q[1] / n, q[2] / n, q[3] / n}
}
