// Package animation provides animatable values and the animator contract
// used to interpolate them over time.
package animation

import (
	"math"
	"sync/atomic"
	"time"
)

// Value is a single animatable float. Reads are safe from any goroutine so a
// render loop can sample it while animations tick elsewhere.
type Value struct {
	bits atomic.Uint64
}

// NewValue creates a Value holding v.
func NewValue(v float64) *Value {
	val := &Value{}
	val.Set(v)
	return val
}

// Get returns the current value.
func (v *Value) Get() float64 {
	return math.Float64frombits(v.bits.Load())
}

// Set stores a new value immediately.
func (v *Value) Set(f float64) {
	v.bits.Store(math.Float64bits(f))
}

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

// Linear is the identity easing curve.
func Linear(t float64) float64 { return t }

// EaseOut decelerates towards the end.
func EaseOut(t float64) float64 { return 1 - (1-t)*(1-t) }

// Lerp interpolates between from and to by t.
func Lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}

// Animator interpolates Values towards targets. Implementations must keep at
// most one in-flight animation per Value.
type Animator interface {
	// Animate moves v to target over d. done, if non-nil, runs once the
	// value has reached the target. It does not run if the animation is
	// stopped first.
	Animate(v *Value, target float64, d time.Duration, ease Easing, done func())

	// Stop cancels any animation on v and then calls stopped with the value
	// it was left at.
	Stop(v *Value, stopped func(current float64))
}
