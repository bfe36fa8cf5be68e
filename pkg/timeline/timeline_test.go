package timeline

import (
	"math"
	"testing"
	"time"
)

var epoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestTweenReachesEndAndCallsDoneOnce(t *testing.T) {
	clock := NewManualClock(epoch)
	tl := New(clock)

	var frames []float64
	done := 0
	tl.Tween(100*time.Millisecond, Linear, func(p float64) { frames = append(frames, p) }, func() { done++ })

	for i := 0; i < 5; i++ {
		clock.Advance(40 * time.Millisecond)
		tl.Step()
	}

	want := []float64{0.4, 0.8, 1}
	if len(frames) != len(want) {
		t.Fatalf("got %d frames (%v), want %d", len(frames), frames, len(want))
	}
	for i := range want {
		if math.Abs(frames[i]-want[i]) > 1e-9 {
			t.Errorf("frame %d = %f; want %f", i, frames[i], want[i])
		}
	}
	if done != 1 {
		t.Errorf("done called %d times; want 1", done)
	}
	if tl.Len() != 0 {
		t.Errorf("Len() = %d; want 0", tl.Len())
	}
}

func TestZeroDurationTweenFinishesOnFirstStep(t *testing.T) {
	tl := New(NewManualClock(epoch))
	var last float64
	done := false
	tl.Tween(0, CubicInOut, func(p float64) { last = p }, func() { done = true })
	tl.Step()
	if last != 1 || !done {
		t.Errorf("last = %f, done = %v; want 1, true", last, done)
	}
}

func TestCancelledTweenNeverCompletes(t *testing.T) {
	clock := NewManualClock(epoch)
	tl := New(clock)

	done := false
	h := tl.Tween(time.Second, nil, nil, func() { done = true })
	clock.Advance(500 * time.Millisecond)
	tl.Step()
	h.Cancel()
	clock.Advance(time.Second)
	tl.Step()

	if done {
		t.Error("done ran for a cancelled tween")
	}
	if h.Active() {
		t.Error("cancelled handle still active")
	}
}

func TestCancelFromInsideFrame(t *testing.T) {
	clock := NewManualClock(epoch)
	tl := New(clock)

	var h *Handle
	frames, done := 0, 0
	h = tl.Tween(time.Second, Linear, func(float64) {
		frames++
		h.Cancel()
	}, func() { done++ })

	clock.Advance(2 * time.Second)
	tl.Step()
	tl.Step()

	if frames != 1 || done != 0 {
		t.Errorf("frames = %d, done = %d; want 1, 0", frames, done)
	}
}

func TestAfterFiresOnce(t *testing.T) {
	clock := NewManualClock(epoch)
	tl := New(clock)

	fired := 0
	tl.After(time.Second, func() { fired++ })

	clock.Advance(999 * time.Millisecond)
	tl.Step()
	if fired != 0 {
		t.Fatalf("fired early")
	}
	clock.Advance(time.Millisecond)
	tl.Step()
	clock.Advance(time.Second)
	tl.Step()
	if fired != 1 {
		t.Errorf("fired = %d; want 1", fired)
	}
}

func TestEveryUsesFreshInterval(t *testing.T) {
	clock := NewManualClock(epoch)
	tl := New(clock)

	intervals := []time.Duration{time.Second, 3 * time.Second, time.Second}
	calls := 0
	next := func() time.Duration {
		d := intervals[calls%len(intervals)]
		return d
	}
	fired := 0
	h := tl.Every(next, func() {
		fired++
		calls++
	})

	steps := []struct {
		advance time.Duration
		want    int
	}{
		{time.Second, 1},
		{time.Second, 1},
		{2 * time.Second, 2},
		{time.Second, 3},
	}
	for i, s := range steps {
		clock.Advance(s.advance)
		tl.Step()
		if fired != s.want {
			t.Errorf("step %d: fired = %d; want %d", i, fired, s.want)
		}
	}

	h.Cancel()
	clock.Advance(time.Hour)
	tl.Step()
	if fired != 3 {
		t.Errorf("fired after cancel = %d; want 3", fired)
	}
}

func TestTasksAddedDuringStepRunNextStep(t *testing.T) {
	clock := NewManualClock(epoch)
	tl := New(clock)

	inner := 0
	tl.After(0, func() {
		tl.After(0, func() { inner++ })
	})
	tl.Step()
	if inner != 0 {
		t.Fatalf("inner ran in the same step")
	}
	tl.Step()
	if inner != 1 {
		t.Errorf("inner = %d; want 1", inner)
	}
}

func TestHandleIDsIncrease(t *testing.T) {
	tl := New(NewManualClock(epoch))
	a := tl.After(time.Second, func() {})
	b := tl.After(time.Second, func() {})
	if b.ID() <= a.ID() {
		t.Errorf("ids not increasing: %d then %d", a.ID(), b.ID())
	}
	var nilHandle *Handle
	nilHandle.Cancel()
	if nilHandle.Active() {
		t.Error("nil handle reported active")
	}
}

func TestEaseEndpoints(t *testing.T) {
	eases := map[string]Ease{
		"Linear":     Linear,
		"QuadIn":     QuadIn,
		"QuadInOut":  QuadInOut,
		"CubicIn":    CubicIn,
		"CubicInOut": CubicInOut,
		"BackOut":    BackOut,
	}
	for name, e := range eases {
		if got := e(0); math.Abs(got) > 1e-12 {
			t.Errorf("%s(0) = %f; want 0", name, got)
		}
		if got := e(1); math.Abs(got-1) > 1e-12 {
			t.Errorf("%s(1) = %f; want 1", name, got)
		}
	}
}

func TestBackOutOvershoots(t *testing.T) {
	peak := 0.0
	for i := 0; i <= 100; i++ {
		peak = math.Max(peak, BackOut(float64(i)/100))
	}
	if peak <= 1 {
		t.Errorf("BackOut peak = %f; want > 1", peak)
	}
}
