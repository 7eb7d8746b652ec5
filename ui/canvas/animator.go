package canvas

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"

	"zoomview/internal/animation"
)

// Animator drives animation.Values with fyne animations. Animate and Stop
// only record intent; the fyne animations are started and stopped by Flush,
// which the owner calls once it has released its own lock. Ticks are routed
// through exec so they serialize with the owner's other work.
type Animator struct {
	mu      sync.Mutex
	running map[*animation.Value]*fyne.Animation
	starts  []*fyne.Animation
	stops   []*fyne.Animation
	exec    func(func())
}

var _ animation.Animator = (*Animator)(nil)

// NewAnimator creates an animator whose ticks run via exec. A nil exec runs
// ticks directly.
func NewAnimator(exec func(func())) *Animator {
	if exec == nil {
		exec = func(f func()) { f() }
	}
	return &Animator{
		running: make(map[*animation.Value]*fyne.Animation),
		exec:    exec,
	}
}

// Animate implements animation.Animator.
func (a *Animator) Animate(v *animation.Value, target float64, d time.Duration, ease animation.Easing, done func()) {
	a.cancel(v)
	if d <= 0 {
		v.Set(target)
		if done != nil {
			done()
		}
		return
	}
	if ease == nil {
		ease = animation.Linear
	}

	from := v.Get()
	var anim *fyne.Animation
	anim = fyne.NewAnimation(d, func(f float32) {
		a.exec(func() {
			if !a.current(v, anim) {
				return
			}
			if f >= 1 {
				v.Set(target)
				a.finish(v, anim)
				if done != nil {
					done()
				}
				return
			}
			v.Set(animation.Lerp(from, target, ease(float64(f))))
		})
	})
	anim.Curve = fyne.AnimationLinear

	a.mu.Lock()
	a.running[v] = anim
	a.starts = append(a.starts, anim)
	a.mu.Unlock()
}

// Stop implements animation.Animator.
func (a *Animator) Stop(v *animation.Value, stopped func(current float64)) {
	a.cancel(v)
	if stopped != nil {
		stopped(v.Get())
	}
}

// Flush starts and stops the fyne animations requested since the last call.
func (a *Animator) Flush() {
	a.mu.Lock()
	stops, starts := a.stops, a.starts
	a.stops, a.starts = nil, nil
	a.mu.Unlock()

	for _, anim := range stops {
		anim.Stop()
	}
	for _, anim := range starts {
		if a.live(anim) {
			anim.Start()
		}
	}
}

// Running reports how many values are animating.
func (a *Animator) Running() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.running)
}

func (a *Animator) cancel(v *animation.Value) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if anim, ok := a.running[v]; ok {
		delete(a.running, v)
		a.stops = append(a.stops, anim)
	}
}

func (a *Animator) current(v *animation.Value, anim *fyne.Animation) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running[v] == anim
}

func (a *Animator) finish(v *animation.Value, anim *fyne.Animation) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running[v] == anim {
		delete(a.running, v)
	}
}

func (a *Animator) live(anim *fyne.Animation) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, r := range a.running {
		if r == anim {
			return true
		}
	}
	return false
}
