package zoom

import (
	"math"
	"time"
)

// minSwipeVelocity is the speed below which the dismiss duration is capped
// instead of derived from the release velocity.
const minSwipeVelocity = 1e-6

// SwipeOutcome is where a dismissed surface travels and how long it takes.
type SwipeOutcome struct {
	Target   float64
	Duration time.Duration
}

// ClassifySwipe computes the dismiss animation for a swipe released at
// displacement with the given velocity (points per second). The target lies
// distance away in the direction of the displacement. The duration is the
// time needed to cover the remaining distance at the release velocity,
// capped at maxDuration.
func ClassifySwipe(displacement, velocity, distance float64, maxDuration time.Duration) SwipeOutcome {
	sign := 1.0
	if displacement < 0 {
		sign = -1
	}
	out := SwipeOutcome{Target: sign * math.Abs(distance), Duration: maxDuration}
	if math.Abs(velocity) < minSwipeVelocity || math.IsNaN(velocity) || math.IsInf(velocity, 0) {
		return out
	}
	ms := math.Abs((displacement - out.Target) * 1000 / velocity)
	if math.IsNaN(ms) || ms >= float64(maxDuration)/float64(time.Millisecond) {
		return out
	}
	out.Duration = time.Duration(ms * float64(time.Millisecond))
	return out
}
