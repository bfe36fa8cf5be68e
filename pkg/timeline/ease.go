package timeline

import "math"

// Ease maps linear progress in [0,1] to eased progress. Every curve here
// returns exactly 0 at 0 and exactly 1 at 1.
type Ease func(t float64) float64

func Linear(t float64) float64 { return t }

func QuadIn(t float64) float64 { return t * t }

// QuadInOut accelerates quadratically and then decelerates.
func QuadInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

func CubicIn(t float64) float64 { return t * t * t }

func CubicInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// backOvershoot is the classic Penner constant (about 10% overshoot).
const backOvershoot = 1.70158

// BackOut overshoots the target and settles back onto it.
func BackOut(t float64) float64 {
	c3 := backOvershoot + 1
	u := t - 1
	return 1 + c3*u*u*u + backOvershoot*u*u
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
