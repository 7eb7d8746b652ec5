// Package gesture defines the gesture snapshots consumed by the zoom
// controller, plus small recognizers for hosts whose toolkit reports raw
// pointer motion only.
package gesture

// Phase is the lifecycle state of a gesture stream.
type Phase int

const (
	Undetermined Phase = iota
	Began
	Active
	End
	Cancelled
)

func (p Phase) String() string {
	switch p {
	case Began:
		return "began"
	case Active:
		return "active"
	case End:
		return "end"
	case Cancelled:
		return "cancelled"
	default:
		return "undetermined"
	}
}

// Finished reports whether the phase terminates the stream.
func (p Phase) Finished() bool {
	return p == End || p == Cancelled
}

// PinchEvent is one frame of a two-finger scale gesture. Scale is relative to
// the start of the gesture; the focal point is in surface coordinates.
type PinchEvent struct {
	Scale  float64
	FocalX float64
	FocalY float64
	Phase  Phase
}

// PanEvent is one frame of a drag. Translation is the total displacement
// since the gesture began; velocity is in points per second.
type PanEvent struct {
	TranslationX float64
	TranslationY float64
	VelocityX    float64
	VelocityY    float64
	Phase        Phase
}

// TapEvent is a recognized multi-tap at X, Y.
type TapEvent struct {
	X     float64
	Y     float64
	Phase Phase
}
