package zoom

import (
	"math"

	"zoomview/internal/gesture"
	"zoomview/pkg/geometry"
)

// HandlePan consumes one frame of a pan stream.
func (c *Controller) HandlePan(ev gesture.PanEvent) {
	switch ev.Phase {
	case gesture.Began:
		c.panning = true
		c.panTranslation = geometry.Point2D{}
	case gesture.Active:
		c.panning = true
		c.panTranslation = geometry.Point2D{X: ev.TranslationX, Y: ev.TranslationY}
		c.panActive(ev.TranslationX, ev.TranslationY)
	case gesture.End:
		c.panEnded(ev, true)
	case gesture.Cancelled:
		c.panEnded(ev, false)
	}
}

func (c *Controller) panActive(dx, dy float64) {
	if c.opts.Mode == ModeTwoFingerPinch {
		c.applyTwoFinger()
		return
	}

	if !c.atRest() {
		c.translateX.Set(dx/c.lastScale + c.lastTranslate.X)
		c.translateY.Set(dy/c.lastScale + c.lastTranslate.Y)
		return
	}

	if c.direction == AxisNone && dx != 0 && dy != 0 {
		if math.Abs(dx) > math.Abs(dy) {
			c.direction = AxisX
		} else {
			c.direction = AxisY
		}
	}
	switch c.direction {
	case AxisX:
		c.translateX.Set(dx/c.lastScale + c.lastTranslate.X)
	case AxisY:
		c.translateY.Set(dy/c.lastScale + c.lastTranslate.Y)
	}
}

func (c *Controller) panEnded(ev gesture.PanEvent, completed bool) {
	c.panning = false
	c.panTranslation = geometry.Point2D{}

	if axis, ok := c.swipeAxis(ev); completed && ok {
		c.dismiss(axis, ev)
		return
	}

	c.direction = AxisNone
	c.enforceBorders(ev.TranslationX, ev.TranslationY)
	if c.shouldReset() {
		c.ReturnToDefault()
		return
	}
	if c.opts.Mode == ModeTwoFingerPinch && c.pinchScaleValue != 1 {
		c.releasePinchLayer()
	}
}

// swipeAxis reports the locked axis when the released pan qualifies as a
// swipe-to-dismiss.
func (c *Controller) swipeAxis(ev gesture.PanEvent) (Axis, bool) {
	if !c.atRest() || !c.opts.SwipeDirection.Allows(c.direction) {
		return AxisNone, false
	}
	d := ev.TranslationY
	if c.direction == AxisX {
		d = ev.TranslationX
	}
	return c.direction, math.Abs(d) > c.opts.SwipeThreshold
}

// dismiss animates the content off the surface along axis and then reports
// the swipe. Without OnSwipeComplete the content comes back instead.
func (c *Controller) dismiss(axis Axis, ev gesture.PanEvent) {
	value, displacement, velocity, size := c.translateY, ev.TranslationY, ev.VelocityY, c.surface.Height
	if axis == AxisX {
		value, displacement, velocity, size = c.translateX, ev.TranslationX, ev.VelocityX, c.surface.Width
	}

	distance := c.opts.DismissDistance
	if distance == 0 {
		// Half the surface to reach the edge plus half the content to
		// clear it.
		distance = size
	}
	if distance == 0 {
		distance = c.opts.SwipeThreshold
	}

	out := ClassifySwipe(displacement, velocity, distance, c.opts.SwipeDurationCap)
	c.direction = AxisNone
	c.log.Debug("swipe complete",
		"axis", axis.String(),
		"displacement", displacement,
		"velocity", velocity,
		"target", out.Target,
		"duration", out.Duration)

	c.animate(value, out.Target, out.Duration, func() {
		if c.opts.OnSwipeComplete == nil {
			c.ReturnToDefault()
			return
		}
		ts := c.Transform()
		c.opts.OnSwipeComplete(SwipeEvent{
			TranslateX:   ts.TranslateX,
			TranslateY:   ts.TranslateY,
			Scale:        ts.Scale,
			TranslationX: ev.TranslationX,
			TranslationY: ev.TranslationY,
			VelocityX:    ev.VelocityX,
			VelocityY:    ev.VelocityY,
			Direction:    axis,
		})
	})
}
