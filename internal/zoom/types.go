// Package zoom maps pinch, pan and double-tap gestures onto the scale and
// translation of a single rectangular surface.
//
// A Controller is not safe for concurrent use. Feed it gesture frames from
// the input thread; animations run through the injected animation.Animator
// and finish through completion callbacks.
package zoom

import (
	"zoomview/pkg/geometry"
)

// Geometry is the laid-out size of the surface. It is zero until the host
// reports the first layout.
type Geometry = geometry.Size

// Axis is the direction a rest-scale pan is locked to.
type Axis int

const (
	AxisNone Axis = iota
	AxisX
	AxisY
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return ""
	}
}

// TransformState is the composed transform the host renders. Content is
// scaled about the surface center, then translated by
// (TranslateX, TranslateY) in scaled units.
type TransformState struct {
	Scale      float64
	TranslateX float64
	TranslateY float64
}

// Identity is the rest transform.
var Identity = TransformState{Scale: 1}

// Affine returns the transform as a matrix mapping content coordinates to
// surface coordinates.
func (ts TransformState) Affine(surface Geometry) geometry.AffineTransform {
	return geometry.ScaleAbout(ts.Scale, surface.Center()).
		Compose(geometry.Translation(ts.TranslateX, ts.TranslateY))
}

// Frame returns where a content rectangle filling the surface ends up.
func (ts TransformState) Frame(surface Geometry) geometry.Rect {
	return ts.Affine(surface).ApplyRect(geometry.NewRect(0, 0, surface.Width, surface.Height))
}

// SwipeEvent describes a completed swipe-to-dismiss. Translate and Scale are
// read once the dismiss animation has finished; Translation and Velocity are
// the pan values at release.
type SwipeEvent struct {
	TranslateX   float64
	TranslateY   float64
	Scale        float64
	TranslationX float64
	TranslationY float64
	VelocityX    float64
	VelocityY    float64
	Direction    Axis
}

// BackEvent is passed to Options.BackHandler when a back press reaches an
// unzoomed controller.
type BackEvent struct {
	TranslateX float64
	TranslateY float64
	Scale      float64
}

// BackDispatcher delivers hardware back presses. Handlers return true to
// consume the press. Subscribe returns a function that removes the handler.
type BackDispatcher interface {
	Subscribe(handler func() bool) (remove func())
}
