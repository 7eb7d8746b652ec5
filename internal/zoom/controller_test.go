package zoom

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoomview/internal/animation"
	"zoomview/internal/gesture"
)

func newTestController(t *testing.T, anim animation.Animator, opts Options) *Controller {
	t.Helper()
	c, err := New(anim, opts)
	require.NoError(t, err)
	return c
}

func swipeOptions() Options {
	o := BoxOptions()
	o.BackToDefault = false
	return o
}

func pinch(c *Controller, fx, fy float64, scales ...float64) {
	c.HandlePinch(gesture.PinchEvent{Scale: 1, FocalX: fx, FocalY: fy, Phase: gesture.Began})
	for _, s := range scales {
		c.HandlePinch(gesture.PinchEvent{Scale: s, FocalX: fx, FocalY: fy, Phase: gesture.Active})
	}
}

func endPinch(c *Controller, s float64) {
	c.HandlePinch(gesture.PinchEvent{Scale: s, Phase: gesture.End})
}

func pan(c *Controller, dx, dy float64) {
	c.HandlePan(gesture.PanEvent{TranslationX: dx, TranslationY: dy, Phase: gesture.Active})
}

func endPan(c *Controller, dx, dy, vx, vy float64) {
	c.HandlePan(gesture.PanEvent{TranslationX: dx, TranslationY: dy, VelocityX: vx, VelocityY: vy, Phase: gesture.End})
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(nil, DefaultOptions())
	assert.Error(t, err)

	o := DefaultOptions()
	o.MaxScale = 0.5
	_, err = New(animation.Immediate{}, o)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidOptions))
}

func TestModeFollowsBackToDefault(t *testing.T) {
	box := newTestController(t, animation.Immediate{}, BoxOptions())
	assert.Equal(t, ModeTwoFingerPinch, box.Mode())

	single := newTestController(t, animation.Immediate{}, swipeOptions())
	assert.Equal(t, ModeSingleTouchSwipe, single.Mode())

	img := newTestController(t, animation.Immediate{}, ImageOptions())
	assert.Equal(t, ModeSingleTouchSwipe, img.Mode())
}

// Pinch from (50,50) by 2 on a 200x200 surface keeps the focal point still.
func TestPinchKeepsFocalPoint(t *testing.T) {
	c := newTestController(t, animation.Immediate{}, swipeOptions())
	c.SetGeometry(200, 200)

	pinch(c, 50, 50, 2)
	ts := c.Transform()
	assert.InDelta(t, 2, ts.Scale, 1e-9)
	assert.InDelta(t, 25, ts.TranslateX, 1e-9)
	assert.InDelta(t, 25, ts.TranslateY, 1e-9)
	assert.True(t, c.IsPinched())

	p := ts.Affine(c.Geometry()).Apply(c.focal)
	assert.InDelta(t, 50, p.X, 1e-9)
	assert.InDelta(t, 50, p.Y, 1e-9)

	endPinch(c, 2)
	assert.Equal(t, 2.0, c.LastScale())
	assert.InDelta(t, 25, c.LastTranslate().X, 1e-9)
	assert.InDelta(t, 2, c.Transform().Scale, 1e-9)
}

func TestPinchOverMaxSnapsToMax(t *testing.T) {
	c := newTestController(t, animation.Immediate{}, swipeOptions())
	c.SetGeometry(200, 200)

	pinch(c, 50, 50, 3, 6)
	endPinch(c, 6)

	assert.Equal(t, DefaultMaxScale*1.0, c.LastScale())
	ts := c.Transform()
	assert.InDelta(t, 4, ts.Scale, 1e-9)
	assert.InDelta(t, 37.5, ts.TranslateX, 1e-9)
	assert.InDelta(t, 37.5, ts.TranslateY, 1e-9)
}

func TestSmallPinchReturnsToDefault(t *testing.T) {
	c := newTestController(t, animation.Immediate{}, swipeOptions())
	c.SetGeometry(200, 200)

	pinch(c, 20, 180, 1.1)
	endPinch(c, 1.1)

	assert.Equal(t, Identity, c.Transform())
	assert.Equal(t, 1.0, c.LastScale())
	assert.False(t, c.IsPinched())
}

func TestMalformedPinchStaysFinite(t *testing.T) {
	c := newTestController(t, animation.Immediate{}, swipeOptions())
	c.SetGeometry(200, 200)

	pinch(c, 50, 50, 0)
	ts := c.Transform()
	assert.InDelta(t, minPinchScale, ts.Scale, 1e-9)
	assert.False(t, isNaN(ts.TranslateX))

	endPinch(c, -3)
	assert.Equal(t, Identity, c.Transform())
}

// The first frame with motion on both axes picks the dominant one.
func TestPanLocksDirection(t *testing.T) {
	c := newTestController(t, animation.Immediate{}, swipeOptions())
	c.SetGeometry(400, 800)

	pan(c, 150, 10)
	assert.Equal(t, AxisX, c.Direction())
	ts := c.Transform()
	assert.Equal(t, 150.0, ts.TranslateX)
	assert.Equal(t, 0.0, ts.TranslateY)
}

func TestPanDirectionLockIsStable(t *testing.T) {
	frames := [][2]float64{{3, 40}, {90, 41}, {300, 2}, {-500, 10}, {0, 0}, {1, -900}}
	c := newTestController(t, animation.Immediate{}, swipeOptions())
	c.SetGeometry(400, 800)

	pan(c, 0, 25)
	assert.Equal(t, AxisNone, c.Direction(), "single-axis motion does not lock")
	for _, f := range frames {
		pan(c, f[0], f[1])
		assert.Equal(t, AxisY, c.Direction())
		assert.Equal(t, 0.0, c.Transform().TranslateX)
		assert.Equal(t, f[1], c.Transform().TranslateY)
	}

	endPan(c, 0, 20, 0, 0)
	assert.Equal(t, AxisNone, c.Direction())
}

func TestPanCancelResetsLockWithoutSwipe(t *testing.T) {
	swiped := false
	o := swipeOptions()
	o.OnSwipeComplete = func(SwipeEvent) { swiped = true }
	c := newTestController(t, animation.Immediate{}, o)
	c.SetGeometry(400, 800)

	pan(c, 5, 300)
	c.HandlePan(gesture.PanEvent{TranslationY: 300, VelocityY: 2000, Phase: gesture.Cancelled})
	assert.False(t, swiped)
	assert.Equal(t, AxisNone, c.Direction())
	assert.Equal(t, Identity, c.Transform())
}

// A vertical swipe past the threshold dismisses without border snapping.
func TestSwipeCompletesAlongLockedAxis(t *testing.T) {
	tl := animation.NewTimeline()
	var got *SwipeEvent
	o := swipeOptions()
	o.OnSwipeComplete = func(ev SwipeEvent) { got = &ev }
	c := newTestController(t, tl, o)
	c.SetGeometry(400, 800)

	pan(c, 10, 150)
	require.Equal(t, AxisY, c.Direction())
	endPan(c, 10, 150, 0, 1500)

	assert.Equal(t, 1, tl.Len(), "only the dismiss animation runs")
	assert.True(t, tl.Running(c.translateY))
	assert.Nil(t, got)

	tl.Advance(DefaultSwipeDurationCap)
	require.NotNil(t, got)
	assert.Equal(t, AxisY, got.Direction)
	assert.Equal(t, 800.0, got.TranslateY)
	assert.Equal(t, 150.0, got.TranslationY)
	assert.Equal(t, 1500.0, got.VelocityY)
	assert.Equal(t, 1.0, got.Scale)
	assert.Equal(t, AxisNone, c.Direction())
}

func TestSwipeUpGoesNegative(t *testing.T) {
	var got SwipeEvent
	o := swipeOptions()
	o.DismissDistance = 500
	o.OnSwipeComplete = func(ev SwipeEvent) { got = ev }
	c := newTestController(t, animation.Immediate{}, o)
	c.SetGeometry(400, 800)

	pan(c, -1, -120)
	endPan(c, -1, -120, 0, -3000)
	assert.Equal(t, -500.0, got.TranslateY)
}

func TestSwipeDirectionGating(t *testing.T) {
	tests := []struct {
		name   string
		allow  SwipeDirection
		dx, dy float64
		want   bool
	}{
		{"y allowed", SwipeY, 5, 150, true},
		{"x blocked by y", SwipeY, 150, 5, false},
		{"x allowed", SwipeX, 150, 5, true},
		{"y blocked by x", SwipeX, 5, 150, false},
		{"both x", SwipeBoth, 150, 5, true},
		{"both y", SwipeBoth, 5, 150, true},
		{"none", SwipeNone, 5, 150, false},
		{"under threshold", SwipeBoth, 5, 90, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			swiped := false
			o := swipeOptions()
			o.SwipeDirection = tt.allow
			o.OnSwipeComplete = func(SwipeEvent) { swiped = true }
			c := newTestController(t, animation.Immediate{}, o)
			c.SetGeometry(400, 800)

			pan(c, tt.dx, tt.dy)
			endPan(c, tt.dx, tt.dy, 100, 100)
			assert.Equal(t, tt.want, swiped)
			if !tt.want {
				assert.Equal(t, Identity, c.Transform(), "rubber-band back to rest")
			}
		})
	}
}

func TestSwipeWithoutCallbackReturnsToDefault(t *testing.T) {
	tl := animation.NewTimeline()
	c := newTestController(t, tl, swipeOptions())
	c.SetGeometry(400, 800)

	pan(c, 1, 200)
	endPan(c, 1, 200, 0, 800)
	tl.Settle(10*time.Millisecond, 100)
	assert.Equal(t, Identity, c.Transform())
}

func TestDoubleTapTogglesZoom(t *testing.T) {
	o := BoxOptions()
	o.DoubleTap = true
	c := newTestController(t, animation.Immediate{}, o)
	c.SetGeometry(200, 200)

	c.HandleDoubleTap(gesture.TapEvent{X: 100, Y: 100, Phase: gesture.Active})
	assert.Equal(t, 4.0, c.LastScale())
	assert.InDelta(t, 4, c.Transform().Scale, 1e-9)
	assert.True(t, c.IsPinched())

	c.HandleDoubleTap(gesture.TapEvent{X: 10, Y: 10, Phase: gesture.Active})
	assert.Equal(t, 1.0, c.LastScale())
	assert.Equal(t, Identity, c.Transform())
	assert.False(t, c.IsPinched())
}

func TestDoubleTapAnchorsOnTapPoint(t *testing.T) {
	o := swipeOptions()
	o.DoubleTap = true
	o.DoubleTapScale = 2
	c := newTestController(t, animation.Immediate{}, o)
	c.SetGeometry(200, 200)

	c.HandleDoubleTap(gesture.TapEvent{X: 50, Y: 150, Phase: gesture.Active})
	ts := c.Transform()
	assert.InDelta(t, 25, ts.TranslateX, 1e-9)
	assert.InDelta(t, -25, ts.TranslateY, 1e-9)
}

func TestDoubleTapIgnoredWhenDisabledOrInactive(t *testing.T) {
	c := newTestController(t, animation.Immediate{}, BoxOptions())
	c.SetGeometry(200, 200)
	c.HandleDoubleTap(gesture.TapEvent{X: 100, Y: 100, Phase: gesture.Active})
	assert.Equal(t, 1.0, c.LastScale())

	o := BoxOptions()
	o.DoubleTap = true
	c = newTestController(t, animation.Immediate{}, o)
	c.HandleDoubleTap(gesture.TapEvent{X: 100, Y: 100, Phase: gesture.Began})
	assert.Equal(t, 1.0, c.LastScale())
}

func TestZoomedPanMovesBothAxesScaled(t *testing.T) {
	o := swipeOptions()
	o.DoubleTap = true
	c := newTestController(t, animation.Immediate{}, o)
	c.SetGeometry(200, 200)
	c.HandleDoubleTap(gesture.TapEvent{X: 100, Y: 100, Phase: gesture.Active})

	pan(c, 40, -20)
	ts := c.Transform()
	assert.InDelta(t, 10, ts.TranslateX, 1e-9)
	assert.InDelta(t, -5, ts.TranslateY, 1e-9)
	assert.Equal(t, AxisNone, c.Direction())

	endPan(c, 40, -20, 0, 0)
	assert.InDelta(t, 10, c.LastTranslate().X, 1e-9)
	assert.Equal(t, 4.0, c.LastScale(), "zoom survives when auto reset is off")
}

func TestZoomedPanSnapsToBorder(t *testing.T) {
	o := swipeOptions()
	o.DoubleTap = true
	o.DoubleTapScale = 2
	c := newTestController(t, animation.Immediate{}, o)
	c.SetGeometry(200, 200)
	c.HandleDoubleTap(gesture.TapEvent{X: 100, Y: 100, Phase: gesture.Active})

	pan(c, 400, 0)
	endPan(c, 400, 0, 0, 0)
	assert.Equal(t, 50.0, c.LastTranslate().X)
	assert.Equal(t, 50.0, c.Transform().TranslateX)
	assert.True(t, c.Transform().Frame(c.Geometry()).Covers(frameOf(c.Geometry())))
}

func TestNoGeometryLeavesPanUnclamped(t *testing.T) {
	o := swipeOptions()
	o.DoubleTap = true
	c := newTestController(t, animation.Immediate{}, o)
	c.HandleDoubleTap(gesture.TapEvent{Phase: gesture.Active})

	pan(c, 100, 0)
	endPan(c, 100, 0, 0, 0)
	assert.InDelta(t, 25, c.LastTranslate().X, 1e-9)

	c.SetGeometry(200, 200)
	assert.InDelta(t, 25, c.LastTranslate().X, 1e-9, "still within 75 at scale 4")
	c.SetGeometry(40, 40)
	assert.InDelta(t, 15, c.LastTranslate().X, 1e-9, "resize re-clamps")
}

func TestTwoFingerPinchIsTransient(t *testing.T) {
	c := newTestController(t, animation.Immediate{}, BoxOptions())
	c.SetGeometry(200, 200)

	c.HandlePan(gesture.PanEvent{Phase: gesture.Began})
	pinch(c, 50, 50, 2)
	pan(c, 10, 0)
	ts := c.Transform()
	assert.InDelta(t, 2, ts.Scale, 1e-9)
	assert.InDelta(t, 30, ts.TranslateX, 1e-9)
	assert.InDelta(t, 25, ts.TranslateY, 1e-9)
	assert.Equal(t, AxisNone, c.Direction(), "two-finger pans never lock")

	endPinch(c, 2)
	assert.InDelta(t, 2, c.Transform().Scale, 1e-9, "pan end owns the reset")

	endPan(c, 10, 0, 0, 0)
	assert.Equal(t, Identity, c.Transform())
}

func TestTwoFingerPinchWithoutPanResets(t *testing.T) {
	c := newTestController(t, animation.Immediate{}, BoxOptions())
	c.SetGeometry(200, 200)
	pinch(c, 50, 50, 3)
	endPinch(c, 3)
	assert.Equal(t, Identity, c.Transform())
}

// Without auto reset, a two-finger pan over a double-tap zoom must end where
// it was drawn, so the next gesture starts without a jump.
func TestTwoFingerPanAfterDoubleTapCommitsRenderedPosition(t *testing.T) {
	o := BoxOptions()
	o.Mode = ModeTwoFingerPinch
	o.BackToDefault = false
	o.DoubleTap = true
	c := newTestController(t, animation.Immediate{}, o)
	c.SetGeometry(200, 200)
	c.HandleDoubleTap(gesture.TapEvent{X: 100, Y: 100, Phase: gesture.Active})
	require.Equal(t, 4.0, c.LastScale())

	c.HandlePan(gesture.PanEvent{Phase: gesture.Began})
	pan(c, 40, -20)
	assert.InDelta(t, 10, c.Transform().TranslateX, 1e-9)
	assert.InDelta(t, -5, c.Transform().TranslateY, 1e-9)

	endPan(c, 40, -20, 0, 0)
	assert.InDelta(t, 10, c.LastTranslate().X, 1e-9)
	assert.InDelta(t, c.LastTranslate().X, c.Transform().TranslateX, 1e-9)
	assert.InDelta(t, c.LastTranslate().Y, c.Transform().TranslateY, 1e-9)
	assert.Equal(t, 4.0, c.LastScale())

	c.HandlePan(gesture.PanEvent{Phase: gesture.Began})
	pan(c, 40, 0)
	assert.InDelta(t, 20, c.Transform().TranslateX, 1e-9)
}

func TestTwoFingerPinchReleasedAtPanEnd(t *testing.T) {
	o := BoxOptions()
	o.Mode = ModeTwoFingerPinch
	o.BackToDefault = false
	o.DoubleTap = true
	c := newTestController(t, animation.Immediate{}, o)
	c.SetGeometry(200, 200)
	c.HandleDoubleTap(gesture.TapEvent{X: 100, Y: 100, Phase: gesture.Active})

	c.HandlePan(gesture.PanEvent{Phase: gesture.Began})
	pinch(c, 100, 100, 2)
	pan(c, 40, 0)
	assert.InDelta(t, 8, c.Transform().Scale, 1e-9)
	assert.InDelta(t, 5, c.Transform().TranslateX, 1e-9)

	endPinch(c, 2)
	endPan(c, 40, 0, 0, 0)
	ts := c.Transform()
	assert.InDelta(t, 4, ts.Scale, 1e-9)
	assert.InDelta(t, 10, ts.TranslateX, 1e-9)
	assert.InDelta(t, c.LastTranslate().X, ts.TranslateX, 1e-9)
}

// Before the first layout the dismiss distance is the swipe threshold and
// the animation is bounded by the duration cap.
func TestSwipeWithoutGeometryUsesThreshold(t *testing.T) {
	for _, tt := range []struct {
		name string
		dy   float64
		want float64
	}{
		{"down", 150, DefaultSwipeThreshold},
		{"up", -150, -DefaultSwipeThreshold},
	} {
		t.Run(tt.name, func(t *testing.T) {
			tl := animation.NewTimeline()
			var got *SwipeEvent
			o := swipeOptions()
			o.OnSwipeComplete = func(ev SwipeEvent) { got = &ev }
			c := newTestController(t, tl, o)

			pan(c, 1, tt.dy)
			endPan(c, 1, tt.dy, 0, 0)
			tl.Advance(c.Options().SwipeDurationCap - time.Millisecond)
			assert.Nil(t, got)
			tl.Advance(time.Millisecond)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.TranslateY)
		})
	}
}

func TestReturnToDefaultFromAnyState(t *testing.T) {
	o := swipeOptions()
	o.DoubleTap = true
	setups := map[string]func(c *Controller){
		"pinching": func(c *Controller) { pinch(c, 30, 170, 2.5) },
		"zoomed":   func(c *Controller) { pinch(c, 30, 170, 2.5); endPinch(c, 2.5) },
		"panning":  func(c *Controller) { pan(c, 7, 60) },
		"double tap": func(c *Controller) {
			c.HandleDoubleTap(gesture.TapEvent{X: 10, Y: 190, Phase: gesture.Active})
		},
		"zoomed pan": func(c *Controller) {
			c.HandleDoubleTap(gesture.TapEvent{X: 10, Y: 190, Phase: gesture.Active})
			pan(c, -30, 80)
		},
	}
	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			tl := animation.NewTimeline()
			c := newTestController(t, tl, o)
			c.SetGeometry(200, 200)
			setup(c)
			tl.Settle(50*time.Millisecond, 20)

			c.ReturnToDefault()
			assert.Equal(t, 1.0, c.LastScale())
			assert.Equal(t, AxisNone, c.Direction())
			tl.Settle(50*time.Millisecond, 20)
			assert.Equal(t, Identity, c.Transform())
			assert.False(t, c.IsPinched())
		})
	}
}

func TestReturnToDefaultCancelsRunningAnimations(t *testing.T) {
	tl := animation.NewTimeline()
	o := BoxOptions()
	o.DoubleTap = true
	c := newTestController(t, tl, o)
	c.SetGeometry(200, 200)

	c.HandleDoubleTap(gesture.TapEvent{X: 0, Y: 0, Phase: gesture.Active})
	tl.Advance(DefaultAnimationTiming / 2)
	mid := c.Transform()
	assert.InDelta(t, 2.5, mid.Scale, 1e-9)

	c.HandleDoubleTap(gesture.TapEvent{X: 0, Y: 0, Phase: gesture.Active})
	assert.Equal(t, 4, tl.Len(), "one animation per value")
	assert.True(t, c.IsPinched(), "pinched until the reset lands")

	tl.Advance(DefaultAnimationTiming)
	assert.Equal(t, Identity, c.Transform())
	assert.False(t, c.IsPinched())
}

func TestOverlayOpacity(t *testing.T) {
	c := newTestController(t, animation.Immediate{}, ImageOptions())
	c.SetGeometry(400, 800)
	assert.Equal(t, 1.0, c.OverlayOpacity())

	for _, tt := range []struct{ dy, want float64 }{
		{50, 0.7},
		{100, 0.4},
		{-50, 0.7},
		{300, 0},
	} {
		pan(c, 1, tt.dy)
		assert.InDelta(t, tt.want, c.OverlayOpacity(), 1e-9, "dy=%v", tt.dy)
	}

	disabled := newTestController(t, animation.Immediate{}, swipeOptions())
	pan(disabled, 1, 100)
	assert.Equal(t, 1.0, disabled.OverlayOpacity())
}

func TestOverlayOpaqueWhilePinched(t *testing.T) {
	c := newTestController(t, animation.Immediate{}, ImageOptions())
	c.SetGeometry(400, 800)
	pinch(c, 200, 700, 1.5)
	assert.Equal(t, 1.0, c.OverlayOpacity())
}

func isNaN(f float64) bool { return f != f }
