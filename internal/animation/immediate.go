package animation

import "time"

// Immediate jumps straight to the target and completes synchronously. It is
// useful for headless hosts and for tests that only care about end states.
type Immediate struct{}

// Animate sets v to target and runs done.
func (Immediate) Animate(v *Value, target float64, _ time.Duration, _ Easing, done func()) {
	v.Set(target)
	if done != nil {
		done()
	}
}

// Stop has nothing to cancel.
func (Immediate) Stop(v *Value, stopped func(current float64)) {
	if stopped != nil {
		stopped(v.Get())
	}
}
