package zoom

import (
	"zoomview/internal/gesture"
)

// HandlePinch consumes one frame of a pinch stream.
func (c *Controller) HandlePinch(ev gesture.PinchEvent) {
	switch ev.Phase {
	case gesture.Began:
		c.focal.X = ev.FocalX
		c.focal.Y = ev.FocalY
	case gesture.Active:
		c.pinchActive(sanitizeScale(ev.Scale))
	case gesture.End, gesture.Cancelled:
		c.pinchEnded(sanitizeScale(ev.Scale))
	}
}

func (c *Controller) pinchActive(s float64) {
	c.pinched = true
	c.pinchScaleValue = s
	if c.opts.Mode == ModeTwoFingerPinch {
		c.applyTwoFinger()
		return
	}
	c.pinchScale.Set(s)
	t := c.focalTranslate(s)
	c.translateX.Set(t.X)
	c.translateY.Set(t.Y)
}

func (c *Controller) pinchEnded(s float64) {
	if c.opts.Mode == ModeTwoFingerPinch {
		// The pan stream ends the gesture; only reset here if there is none.
		if !c.panning {
			c.ReturnToDefault()
		}
		return
	}

	if c.lastScale*s >= c.opts.MaxScale {
		c.commitScale(c.opts.MaxScale / c.lastScale)
		c.log.Debug("pinch over max scale", "scale", c.lastScale)
		d := c.opts.AnimationTiming
		c.animate(c.baseScale, c.lastScale, d, nil)
		c.animate(c.pinchScale, 1, d, nil)
		c.animate(c.translateX, c.lastTranslate.X, d, nil)
		c.animate(c.translateY, c.lastTranslate.Y, d, nil)
	} else {
		c.commitScale(s)
		c.baseScale.Set(c.lastScale)
		c.pinchScale.Set(1)
	}
	c.pinchScaleValue = 1

	c.enforceBorders(0, 0)
	if c.shouldReset() {
		c.ReturnToDefault()
	}
}

// commitScale folds a finished pinch factor into the committed scale and
// translation.
func (c *Controller) commitScale(s float64) {
	t := c.focalTranslate(s)
	c.lastScale *= s
	c.lastTranslate = t
}

// applyTwoFinger renders the transient pinch layer together with the pan
// translation of the same two-finger gesture. The pan is divided by the full
// rendered scale, matching what enforceBorders commits at pan end.
func (c *Controller) applyTwoFinger() {
	p := c.pinchScaleValue
	c.pinchScale.Set(p)
	t := c.focalTranslate(p)
	k := c.lastScale * p
	c.translateX.Set(t.X + c.panTranslation.X/k)
	c.translateY.Set(t.Y + c.panTranslation.Y/k)
}

// releasePinchLayer drops a transient two-finger pinch and settles the
// rendered translation on the committed one.
func (c *Controller) releasePinchLayer() {
	c.pinchScaleValue = 1
	d := c.opts.AnimationTiming
	c.animate(c.pinchScale, 1, d, nil)
	c.animate(c.translateX, c.lastTranslate.X, d, nil)
	c.animate(c.translateY, c.lastTranslate.Y, d, nil)
}
