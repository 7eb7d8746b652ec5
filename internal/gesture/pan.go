package gesture

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"zoomview/pkg/geometry"
)

const (
	// velocityWindow is how far back samples count towards release velocity.
	velocityWindow = 100 * time.Millisecond
	maxSamples     = 20
)

type panSample struct {
	at  time.Time
	pos geometry.Point2D
}

// PanTracker turns raw pointer positions into PanEvents, estimating the
// release velocity from the most recent motion.
type PanTracker struct {
	active  bool
	start   geometry.Point2D
	last    geometry.Point2D
	samples []panSample
}

// Active reports whether a pan is in progress.
func (pt *PanTracker) Active() bool {
	return pt.active
}

// Begin starts a new stream at pos.
func (pt *PanTracker) Begin(pos geometry.Point2D, at time.Time) PanEvent {
	pt.active = true
	pt.start = pos
	pt.last = pos
	pt.samples = pt.samples[:0]
	pt.record(pos, at)
	return PanEvent{Phase: Began}
}

// Move records a new position and returns the Active frame for it.
func (pt *PanTracker) Move(pos geometry.Point2D, at time.Time) PanEvent {
	if !pt.active {
		pt.Begin(pos, at)
	}
	pt.last = pos
	pt.record(pos, at)
	return pt.event(Active)
}

// End finishes the stream and reports the release velocity.
func (pt *PanTracker) End() PanEvent {
	ev := pt.event(End)
	pt.active = false
	return ev
}

// Cancel aborts the stream.
func (pt *PanTracker) Cancel() PanEvent {
	ev := pt.event(Cancelled)
	pt.active = false
	return ev
}

func (pt *PanTracker) event(phase Phase) PanEvent {
	d := pt.last.Sub(pt.start)
	vx, vy := pt.velocity()
	return PanEvent{
		TranslationX: d.X,
		TranslationY: d.Y,
		VelocityX:    vx,
		VelocityY:    vy,
		Phase:        phase,
	}
}

func (pt *PanTracker) record(pos geometry.Point2D, at time.Time) {
	pt.samples = append(pt.samples, panSample{at: at, pos: pos})
	if len(pt.samples) > maxSamples {
		pt.samples = pt.samples[len(pt.samples)-maxSamples:]
	}
}

// velocity fits a line through the recent samples on each axis; the slope is
// the velocity in points per second.
func (pt *PanTracker) velocity() (vx, vy float64) {
	if len(pt.samples) < 2 {
		return 0, 0
	}
	newest := pt.samples[len(pt.samples)-1].at
	var ts, xs, ys []float64
	for _, s := range pt.samples {
		age := newest.Sub(s.at)
		if age > velocityWindow {
			continue
		}
		ts = append(ts, -age.Seconds())
		xs = append(xs, s.pos.X)
		ys = append(ys, s.pos.Y)
	}
	if len(ts) < 2 || stat.Variance(ts, nil) == 0 {
		return 0, 0
	}
	_, vx = stat.LinearRegression(ts, xs, nil, false)
	_, vy = stat.LinearRegression(ts, ys, nil, false)
	if math.IsNaN(vx) || math.IsInf(vx, 0) {
		vx = 0
	}
	if math.IsNaN(vy) || math.IsInf(vy, 0) {
		vy = 0
	}
	return vx, vy
}
