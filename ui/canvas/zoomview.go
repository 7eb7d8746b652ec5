// Package canvas provides a fyne widget that pans, zooms and swipes its
// content under a zoom.Controller.
package canvas

import (
	"image"
	"math"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"zoomview/internal/animation"
	"zoomview/internal/gesture"
	"zoomview/internal/zoom"
	"zoomview/pkg/geometry"
)

// wheelStep is the scale factor applied per 10 units of wheel travel.
const wheelStep = 1.1

// ZoomView hosts a single piece of content and feeds pointer input to a
// zoom.Controller. Mouse drags pan, the wheel pinches around the pointer and
// two quick taps double-tap.
type ZoomView struct {
	widget.BaseWidget

	mu   sync.Mutex
	ctrl *zoom.Controller
	anim animation.Animator

	// Content: either an arbitrary object positioned by the transform, or
	// an image rasterized through it.
	content fyne.CanvasObject
	img     image.Image
	raster  *fynecanvas.Raster

	backdrop *fynecanvas.Rectangle

	// Interaction state
	pan  gesture.PanTracker
	taps *gesture.TapRecognizer
	now  func() time.Time

	// Callbacks deferred until the lock is released
	pending []func()

	// Last rendered output for sampling
	lastOutput *image.RGBA

	onTransform func(zoom.TransformState)
}

// NewZoomView wraps content. Callbacks in opts run on the goroutine that
// produced the event, after the widget has released its state.
func NewZoomView(content fyne.CanvasObject, opts zoom.Options) (*ZoomView, error) {
	zv := &ZoomView{content: content}
	if err := zv.init(opts, nil); err != nil {
		return nil, err
	}
	return zv, nil
}

// NewImageView displays img fitted to the widget and rasterized through the
// current transform.
func NewImageView(img image.Image, opts zoom.Options) (*ZoomView, error) {
	zv := &ZoomView{img: img}
	zv.raster = fynecanvas.NewRaster(zv.draw)
	zv.raster.ScaleMode = fynecanvas.ImageScalePixels
	zv.content = zv.raster
	if err := zv.init(opts, nil); err != nil {
		return nil, err
	}
	return zv, nil
}

// NewZoomViewWithAnimator is NewZoomView with an explicit animator, for hosts
// that drive time themselves.
func NewZoomViewWithAnimator(content fyne.CanvasObject, opts zoom.Options, anim animation.Animator) (*ZoomView, error) {
	zv := &ZoomView{content: content}
	if err := zv.init(opts, anim); err != nil {
		return nil, err
	}
	return zv, nil
}

func (zv *ZoomView) init(opts zoom.Options, anim animation.Animator) error {
	if cb := opts.OnSwipeComplete; cb != nil {
		opts.OnSwipeComplete = func(ev zoom.SwipeEvent) {
			zv.pending = append(zv.pending, func() { cb(ev) })
		}
	}
	if cb := opts.BackHandler; cb != nil {
		opts.BackHandler = func(ev zoom.BackEvent) {
			zv.pending = append(zv.pending, func() { cb(ev) })
		}
	}
	if anim == nil {
		anim = NewAnimator(zv.do)
	}

	ctrl, err := zoom.New(anim, opts)
	if err != nil {
		return err
	}
	zv.ctrl = ctrl
	zv.anim = anim
	zv.taps = gesture.NewTapRecognizer(ctrl.Options().MaxDoubleTapDistance)
	zv.now = time.Now
	zv.backdrop = fynecanvas.NewRectangle(theme.Color(theme.ColorNameBackground))
	zv.ExtendBaseWidget(zv)
	return nil
}

// Controller exposes the underlying controller. Callers must not use it
// concurrently with input; prefer the widget methods.
func (zv *ZoomView) Controller() *zoom.Controller {
	return zv.ctrl
}

// Transform returns the transform currently rendered.
func (zv *ZoomView) Transform() zoom.TransformState {
	return zv.ctrl.Transform()
}

// OnTransformChange sets a callback invoked after each refresh whose
// transform differs from the previous one.
func (zv *ZoomView) OnTransformChange(callback func(zoom.TransformState)) {
	zv.onTransform = callback
}

// SetImage replaces the image of an image view.
func (zv *ZoomView) SetImage(img image.Image) {
	zv.mu.Lock()
	zv.img = img
	zv.mu.Unlock()
	zv.Refresh()
}

// GetRenderedOutput returns the last rasterized frame of an image view.
func (zv *ZoomView) GetRenderedOutput() *image.RGBA {
	zv.mu.Lock()
	defer zv.mu.Unlock()
	return zv.lastOutput
}

// Reset returns the content to its rest transform.
func (zv *ZoomView) Reset() {
	zv.do(zv.ctrl.ReturnToDefault)
}

// Back delivers a hardware back press directly and reports whether the view
// consumed it.
func (zv *ZoomView) Back() bool {
	var consumed bool
	zv.do(func() { consumed = zv.ctrl.HandleBack() })
	return consumed
}

// Mount subscribes the view to back presses from d.
func (zv *ZoomView) Mount(d zoom.BackDispatcher) {
	if d == nil {
		zv.Unmount()
		return
	}
	zv.do(func() { zv.ctrl.Mount(lockedDispatcher{d: d, zv: zv}) })
}

// Unmount releases the back subscription.
func (zv *ZoomView) Unmount() {
	zv.do(zv.ctrl.Unmount)
}

// Dragged implements fyne.Draggable.
func (zv *ZoomView) Dragged(ev *fyne.DragEvent) {
	pos := geometry.NewPoint2D(float64(ev.Position.X), float64(ev.Position.Y))
	at := zv.now()
	zv.do(func() {
		if !zv.pan.Active() {
			start := pos.Sub(geometry.NewPoint2D(float64(ev.Dragged.DX), float64(ev.Dragged.DY)))
			zv.ctrl.HandlePan(zv.pan.Begin(start, at))
		}
		zv.ctrl.HandlePan(zv.pan.Move(pos, at))
	})
}

// DragEnd implements fyne.Draggable.
func (zv *ZoomView) DragEnd() {
	zv.do(func() {
		if zv.pan.Active() {
			zv.ctrl.HandlePan(zv.pan.End())
		}
	})
}

// Scrolled turns one wheel tick into a complete pinch around the pointer.
func (zv *ZoomView) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY == 0 {
		return
	}
	factor := math.Pow(wheelStep, float64(ev.Scrolled.DY)/10)
	x, y := float64(ev.Position.X), float64(ev.Position.Y)
	zv.do(func() {
		zv.ctrl.HandlePinch(gesture.PinchEvent{Scale: 1, FocalX: x, FocalY: y, Phase: gesture.Began})
		zv.ctrl.HandlePinch(gesture.PinchEvent{Scale: factor, FocalX: x, FocalY: y, Phase: gesture.Active})
		zv.ctrl.HandlePinch(gesture.PinchEvent{Scale: factor, FocalX: x, FocalY: y, Phase: gesture.End})
	})
}

// Tapped feeds the double-tap recognizer.
func (zv *ZoomView) Tapped(ev *fyne.PointEvent) {
	pos := geometry.NewPoint2D(float64(ev.Position.X), float64(ev.Position.Y))
	at := zv.now()
	zv.do(func() {
		if tap, ok := zv.taps.Tap(pos, at); ok {
			zv.ctrl.HandleDoubleTap(tap)
		}
	})
}

// do runs f with exclusive access to the controller, then starts any
// animations it requested, runs deferred callbacks and refreshes.
func (zv *ZoomView) do(f func()) {
	zv.mu.Lock()
	f()
	pending := zv.pending
	zv.pending = nil
	zv.mu.Unlock()

	if fl, ok := zv.anim.(interface{ Flush() }); ok {
		fl.Flush()
	}
	for _, cb := range pending {
		cb()
	}
	zv.Refresh()
}

func (zv *ZoomView) snapshot() (zoom.TransformState, float64, zoom.Geometry) {
	zv.mu.Lock()
	defer zv.mu.Unlock()
	return zv.ctrl.Transform(), zv.ctrl.OverlayOpacity(), zv.ctrl.Geometry()
}

// draw is the raster drawing function for image views.
func (zv *ZoomView) draw(w, h int) image.Image {
	ts, _, surface := zv.snapshot()

	zv.mu.Lock()
	img := zv.img
	zv.mu.Unlock()

	output := Rasterize(img, w, h, PixelTransform(ts, surface, w, h))

	zv.mu.Lock()
	zv.lastOutput = output
	zv.mu.Unlock()
	return output
}

// CreateRenderer implements fyne.Widget.
func (zv *ZoomView) CreateRenderer() fyne.WidgetRenderer {
	return &zoomViewRenderer{view: zv, last: zoom.Identity}
}

type zoomViewRenderer struct {
	view *ZoomView
	last zoom.TransformState
}

func (r *zoomViewRenderer) Layout(size fyne.Size) {
	zv := r.view
	zv.mu.Lock()
	zv.ctrl.SetGeometry(float64(size.Width), float64(size.Height))
	zv.mu.Unlock()
	if fl, ok := zv.anim.(interface{ Flush() }); ok {
		fl.Flush()
	}
	r.apply(size)
}

func (r *zoomViewRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *zoomViewRenderer) Refresh() {
	r.apply(r.view.Size())
}

// apply positions the backdrop and content for the current transform.
func (r *zoomViewRenderer) apply(size fyne.Size) {
	zv := r.view
	ts, opacity, surface := zv.snapshot()

	r.view.backdrop.FillColor = withAlpha(theme.Color(theme.ColorNameBackground), opacity)
	r.view.backdrop.Move(fyne.NewPos(0, 0))
	r.view.backdrop.Resize(size)
	r.view.backdrop.Refresh()

	if zv.raster != nil {
		// Image views rasterize the transform themselves.
		zv.raster.Move(fyne.NewPos(0, 0))
		zv.raster.Resize(size)
		zv.raster.Refresh()
	} else if zv.content != nil {
		frame := ts.Frame(surface)
		zv.content.Move(fyne.NewPos(float32(frame.X), float32(frame.Y)))
		zv.content.Resize(fyne.NewSize(float32(frame.Width), float32(frame.Height)))
		zv.content.Refresh()
	}

	if ts != r.last {
		r.last = ts
		if zv.onTransform != nil {
			zv.onTransform(ts)
		}
	}
}

func (r *zoomViewRenderer) Objects() []fyne.CanvasObject {
	if r.view.content == nil {
		return []fyne.CanvasObject{r.view.backdrop}
	}
	return []fyne.CanvasObject{r.view.backdrop, r.view.content}
}

func (r *zoomViewRenderer) Destroy() {
	r.view.mu.Lock()
	r.view.ctrl.Unmount()
	r.view.mu.Unlock()
}

// lockedDispatcher routes back presses through the view's lock.
type lockedDispatcher struct {
	d  zoom.BackDispatcher
	zv *ZoomView
}

func (l lockedDispatcher) Subscribe(handler func() bool) func() {
	return l.d.Subscribe(func() bool {
		var consumed bool
		l.zv.do(func() { consumed = handler() })
		return consumed
	})
}
