package gesture

import (
	"time"

	"zoomview/pkg/geometry"
)

const (
	// DefaultMaxTapDistance is how far apart the taps of a double tap may be.
	DefaultMaxTapDistance = 25
	// DefaultMaxTapInterval is the longest pause between taps.
	DefaultMaxTapInterval = 300 * time.Millisecond
)

// TapRecognizer detects double taps from single taps. The second tap must
// land within MaxDistance of the first and within MaxInterval of it.
type TapRecognizer struct {
	MaxDistance float64
	MaxInterval time.Duration

	count int
	first geometry.Point2D
	last  time.Time
}

// NewTapRecognizer creates a double-tap recognizer.
func NewTapRecognizer(maxDistance float64) *TapRecognizer {
	if maxDistance <= 0 {
		maxDistance = DefaultMaxTapDistance
	}
	return &TapRecognizer{
		MaxDistance: maxDistance,
		MaxInterval: DefaultMaxTapInterval,
	}
}

// Tap feeds a single tap. It returns an Active TapEvent and true when the tap
// completes a double tap.
func (r *TapRecognizer) Tap(pos geometry.Point2D, at time.Time) (TapEvent, bool) {
	if r.count == 1 &&
		at.Sub(r.last) <= r.MaxInterval &&
		pos.Distance(r.first) <= r.MaxDistance {
		r.Reset()
		return TapEvent{X: pos.X, Y: pos.Y, Phase: Active}, true
	}
	r.count = 1
	r.first = pos
	r.last = at
	return TapEvent{}, false
}

// Reset forgets any pending first tap.
func (r *TapRecognizer) Reset() {
	r.count = 0
}
