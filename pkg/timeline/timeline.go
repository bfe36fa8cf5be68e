// Package timeline is the single cooperative timeline every animation of the
// globe runs on. Tweens, one-shot timers and repeating timers are plain tasks
// that run when Step is called; nothing here spawns goroutines or takes locks.
package timeline

import "time"

// Handle controls one scheduled task. A nil Handle is valid and inactive.
type Handle struct {
	id        uint64
	cancelled bool
	finished  bool
}

// Cancel stops the task. A cancelled tween never runs its done callback.
// Cancelling from inside the task's own callback is allowed.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	h.cancelled = true
}

// Active reports whether the task will still run.
func (h *Handle) Active() bool {
	return h != nil && !h.cancelled && !h.finished
}

// ID is unique per timeline and increases with creation order.
func (h *Handle) ID() uint64 {
	if h == nil {
		return 0
	}
	return h.id
}

type taskKind int

const (
	kindTween taskKind = iota
	kindAfter
	kindEvery
)

type task struct {
	kind   taskKind
	handle *Handle

	// tween
	start    time.Time
	duration time.Duration
	ease     Ease
	frame    func(t float64)
	done     func()

	// timers
	due      time.Time
	fire     func()
	interval func() time.Duration
}

type Timeline struct {
	clock  Clock
	tasks  []*task
	nextID uint64
}

func New(clock Clock) *Timeline {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Timeline{clock: clock}
}

func (tl *Timeline) Now() time.Time { return tl.clock.Now() }

// Len is the number of tasks that are still scheduled.
func (tl *Timeline) Len() int {
	n := 0
	for _, t := range tl.tasks {
		if t.handle.Active() {
			n++
		}
	}
	return n
}

func (tl *Timeline) add(t *task) *Handle {
	tl.nextID++
	t.handle = &Handle{id: tl.nextID}
	tl.tasks = append(tl.tasks, t)
	return t.handle
}

// Tween starts now and calls frame with eased progress on every Step until
// the duration has elapsed. The last frame always receives ease(1), then done
// runs exactly once. A nil ease means Linear.
func (tl *Timeline) Tween(d time.Duration, ease Ease, frame func(t float64), done func()) *Handle {
	if ease == nil {
		ease = Linear
	}
	return tl.add(&task{
		kind:     kindTween,
		start:    tl.clock.Now(),
		duration: d,
		ease:     ease,
		frame:    frame,
		done:     done,
	})
}

// After runs fn once on the first Step at or past now+d.
func (tl *Timeline) After(d time.Duration, fn func()) *Handle {
	return tl.add(&task{kind: kindAfter, due: tl.clock.Now().Add(d), fire: fn})
}

// Every runs fn repeatedly. interval is consulted before each wait, so it
// may return a different (for example jittered) value every time. Missed
// ticks are not replayed: the next wait is measured from the step that fired.
func (tl *Timeline) Every(interval func() time.Duration, fn func()) *Handle {
	return tl.add(&task{
		kind:     kindEvery,
		due:      tl.clock.Now().Add(interval()),
		fire:     fn,
		interval: interval,
	})
}

// Step runs every due task once, in creation order, against a single
// reading of the clock. Tasks created during the step first run on the
// next one.
func (tl *Timeline) Step() {
	now := tl.clock.Now()
	pending := tl.tasks[:len(tl.tasks):len(tl.tasks)]

	for _, t := range pending {
		if !t.handle.Active() {
			continue
		}
		switch t.kind {
		case kindTween:
			p := 1.0
			if t.duration > 0 {
				p = clamp01(float64(now.Sub(t.start)) / float64(t.duration))
			}
			if t.frame != nil {
				t.frame(t.ease(p))
			}
			if p >= 1 && t.handle.Active() {
				t.handle.finished = true
				if t.done != nil {
					t.done()
				}
			}
		case kindAfter:
			if !now.Before(t.due) {
				t.handle.finished = true
				t.fire()
			}
		case kindEvery:
			if !now.Before(t.due) {
				t.fire()
				t.due = now.Add(t.interval())
			}
		}
	}

	kept := tl.tasks[:0]
	for _, t := range tl.tasks {
		if t.handle.Active() {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(tl.tasks); i++ {
		tl.tasks[i] = nil
	}
	tl.tasks = kept
}
