package zoom

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"zoomview/internal/animation"
	"zoomview/internal/gesture"
	"zoomview/pkg/geometry"
)

// Controller turns gesture frames into a TransformState.
type Controller struct {
	opts Options
	anim animation.Animator
	log  *slog.Logger

	// Rendered values. Only the controller writes them.
	pinchScale *animation.Value
	baseScale  *animation.Value
	translateX *animation.Value
	translateY *animation.Value

	// Gesture bookkeeping.
	pinchScaleValue float64
	lastScale       float64
	lastTranslate   geometry.Point2D
	focal           geometry.Point2D
	panTranslation  geometry.Point2D
	panning         bool
	direction       Axis
	pinched         bool

	surface Geometry

	removeBack func()
}

// New creates a controller that animates through anim.
func New(anim animation.Animator, opts Options) (*Controller, error) {
	if anim == nil {
		return nil, fmt.Errorf("zoom: nil animator")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("zoom: %w", err)
	}
	opts = opts.withDefaults()
	return &Controller{
		opts:            opts,
		anim:            anim,
		log:             opts.Logger.With("component", "zoom"),
		pinchScale:      animation.NewValue(1),
		baseScale:       animation.NewValue(1),
		translateX:      animation.NewValue(0),
		translateY:      animation.NewValue(0),
		pinchScaleValue: 1,
		lastScale:       1,
	}, nil
}

// Options returns the effective options, defaults applied.
func (c *Controller) Options() Options {
	return c.opts
}

// Mode returns the interaction mode fixed at construction.
func (c *Controller) Mode() Mode {
	return c.opts.Mode
}

// SetGeometry records the laid-out surface size. A resize while zoomed
// re-clamps the committed translation to the new borders.
func (c *Controller) SetGeometry(width, height float64) {
	next := Geometry{Width: math.Max(width, 0), Height: math.Max(height, 0)}
	if next == c.surface {
		return
	}
	c.surface = next
	if !c.atRest() {
		c.enforceBorders(0, 0)
	}
}

// Geometry returns the last reported surface size.
func (c *Controller) Geometry() Geometry {
	return c.surface
}

// Transform returns the transform to render right now, including any
// in-flight animation. In ModeTwoFingerPinch the base scale stays at 1
// unless a double tap zoomed in, so the pinch layer alone drives the scale.
func (c *Controller) Transform() TransformState {
	return TransformState{
		Scale:      c.baseScale.Get() * c.pinchScale.Get(),
		TranslateX: c.translateX.Get(),
		TranslateY: c.translateY.Get(),
	}
}

// LastScale returns the committed scale, ignoring any pinch in progress.
func (c *Controller) LastScale() float64 {
	return c.lastScale
}

// LastTranslate returns the committed translation.
func (c *Controller) LastTranslate() geometry.Point2D {
	return c.lastTranslate
}

// Direction returns the axis the current pan is locked to.
func (c *Controller) Direction() Axis {
	return c.direction
}

// IsPinched reports whether the content is zoomed or on its way back from a
// zoom.
func (c *Controller) IsPinched() bool {
	return c.pinched
}

// OverlayOpacity returns the backdrop opacity for the current vertical
// offset. It is 1 while pinched or when the overlay is disabled.
func (c *Controller) OverlayOpacity() float64 {
	if !c.opts.Overlay.Enabled || c.pinched {
		return 1
	}
	return clamp01(interpolate(c.translateY.Get(), c.opts.Overlay.Input, c.opts.Overlay.Output))
}

// Mount subscribes to hardware back presses when the options ask for it.
// Calling Mount again replaces the previous subscription.
func (c *Controller) Mount(d BackDispatcher) {
	c.Unmount()
	if d == nil || (c.opts.BackHandler == nil && !c.opts.DismissOnBack) {
		return
	}
	c.removeBack = d.Subscribe(c.HandleBack)
}

// Unmount releases the back subscription. It is safe to call repeatedly.
func (c *Controller) Unmount() {
	if c.removeBack != nil {
		c.removeBack()
		c.removeBack = nil
	}
}

// HandleBack reacts to a hardware back press and reports whether it was
// consumed. A zoomed controller returns to default; one at rest either
// dismisses (DismissOnBack) or forwards to BackHandler.
func (c *Controller) HandleBack() bool {
	if c.pinchScaleValue != 1 || c.lastScale != 1 {
		c.ReturnToDefault()
		return true
	}
	if c.opts.DismissOnBack {
		c.dismiss(AxisY, gesture.PanEvent{})
		return true
	}
	if c.opts.BackHandler != nil {
		ts := c.Transform()
		c.opts.BackHandler(BackEvent{
			TranslateX: ts.TranslateX,
			TranslateY: ts.TranslateY,
			Scale:      ts.Scale,
		})
	}
	return false
}

// ReturnToDefault resets the bookkeeping to identity and animates every
// value back to rest.
func (c *Controller) ReturnToDefault() {
	c.direction = AxisNone
	c.pinchScaleValue = 1
	c.lastScale = 1
	c.lastTranslate = geometry.Point2D{}
	c.log.Debug("return to default")

	d := c.opts.AnimationTiming
	c.animate(c.pinchScale, 1, d, nil)
	c.animate(c.baseScale, 1, d, nil)
	c.animate(c.translateX, 0, d, nil)
	c.animate(c.translateY, 0, d, func() {
		c.pinched = false
	})
}

func (c *Controller) atRest() bool {
	return c.lastScale == 1
}

func (c *Controller) shouldReset() bool {
	return c.opts.BackToDefault || c.lastScale <= resetScale
}

// animate stops whatever is driving v and only then starts the new
// animation, so a value never has two animations.
func (c *Controller) animate(v *animation.Value, target float64, d time.Duration, done func()) {
	c.anim.Stop(v, func(float64) {
		c.anim.Animate(v, target, d, animation.Linear, done)
	})
}

// focalTranslate is the translation that keeps the focal point stationary
// when the committed scale is multiplied by s.
func (c *Controller) focalTranslate(s float64) geometry.Point2D {
	center := c.surface.Center()
	k := (1 - s) / (c.lastScale * s)
	return geometry.Point2D{
		X: k*(c.focal.X-center.X) + c.lastTranslate.X,
		Y: k*(c.focal.Y-center.Y) + c.lastTranslate.Y,
	}
}

// enforceBorders commits a pan of (dx, dy) and snaps any axis that left its
// border back inside.
func (c *Controller) enforceBorders(dx, dy float64) {
	b := EnforceBorders(c.lastTranslate, geometry.Point2D{X: dx, Y: dy}, c.lastScale, c.surface)
	c.lastTranslate = b.Translate
	if b.SnappedX {
		c.animate(c.translateX, b.Translate.X, c.opts.AnimationTiming, nil)
	}
	if b.SnappedY {
		c.animate(c.translateY, b.Translate.Y, c.opts.AnimationTiming, nil)
	}
	if b.SnappedX || b.SnappedY {
		c.log.Debug("snap to border", "x", b.Translate.X, "y", b.Translate.Y, "scale", c.lastScale)
	}
}

func sanitizeScale(s float64) float64 {
	if math.IsNaN(s) || math.IsInf(s, 0) || s < minPinchScale {
		return minPinchScale
	}
	return s
}

// interpolate maps x through the piecewise-linear curve in→out, extending
// the end segments beyond the input range.
func interpolate(x float64, in, out [3]float64) float64 {
	seg := 0
	if x > in[1] {
		seg = 1
	}
	x0, x1 := in[seg], in[seg+1]
	y0, y1 := out[seg], out[seg+1]
	if x1 == x0 {
		return y0
	}
	return y0 + (x-x0)*(y1-y0)/(x1-x0)
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
