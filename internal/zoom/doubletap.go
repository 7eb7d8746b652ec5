package zoom

import "zoomview/internal/gesture"

// HandleDoubleTap consumes a recognized double tap. At rest it zooms to
// DoubleTapScale around the tap; when zoomed it returns to default.
func (c *Controller) HandleDoubleTap(ev gesture.TapEvent) {
	if ev.Phase != gesture.Active || !c.opts.DoubleTap {
		return
	}
	c.focal.X = ev.X
	c.focal.Y = ev.Y
	if c.lastScale > 1 {
		c.ReturnToDefault()
		return
	}

	c.commitScale(c.opts.DoubleTapScale / c.lastScale)
	c.pinched = true
	c.log.Debug("double tap zoom", "scale", c.lastScale, "x", ev.X, "y", ev.Y)

	d := c.opts.AnimationTiming
	c.animate(c.baseScale, c.lastScale, d, nil)
	c.animate(c.pinchScale, 1, d, nil)
	c.animate(c.translateX, c.lastTranslate.X, d, nil)
	c.animate(c.translateY, c.lastTranslate.Y, d, nil)
}
