package animation

import (
	"sort"
	"time"
)

type track struct {
	seq      int
	from, to float64
	elapsed  time.Duration
	duration time.Duration
	ease     Easing
	done     func()
}

// Timeline is an Animator driven by an explicit clock. Nothing moves until
// Advance is called, which makes animation timing deterministic.
type Timeline struct {
	tracks map[*Value]*track
	seq    int
}

// NewTimeline creates an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{tracks: make(map[*Value]*track)}
}

// Animate starts (or replaces) the animation on v.
func (tl *Timeline) Animate(v *Value, target float64, d time.Duration, ease Easing, done func()) {
	if ease == nil {
		ease = Linear
	}
	tl.seq++
	tl.tracks[v] = &track{
		seq:      tl.seq,
		from:     v.Get(),
		to:       target,
		duration: d,
		ease:     ease,
		done:     done,
	}
	if d <= 0 {
		tl.finish(v)
	}
}

// Stop drops the animation on v, leaving it at its current value.
func (tl *Timeline) Stop(v *Value, stopped func(current float64)) {
	delete(tl.tracks, v)
	if stopped != nil {
		stopped(v.Get())
	}
}

// Running reports whether v has an in-flight animation.
func (tl *Timeline) Running(v *Value) bool {
	_, ok := tl.tracks[v]
	return ok
}

// Len returns the number of in-flight animations.
func (tl *Timeline) Len() int {
	return len(tl.tracks)
}

// Advance moves every animation forward by dt. Completion callbacks run in
// the order the animations were started.
func (tl *Timeline) Advance(dt time.Duration) {
	type ended struct {
		v  *Value
		tr *track
	}
	var finished []ended
	for v, tr := range tl.tracks {
		tr.elapsed += dt
		if tr.elapsed >= tr.duration {
			finished = append(finished, ended{v, tr})
			continue
		}
		t := float64(tr.elapsed) / float64(tr.duration)
		v.Set(Lerp(tr.from, tr.to, tr.ease(t)))
	}
	sort.Slice(finished, func(i, j int) bool {
		return finished[i].tr.seq < finished[j].tr.seq
	})
	for _, f := range finished {
		// A callback that ran earlier in this loop may have replaced the track.
		if tl.tracks[f.v] != f.tr {
			continue
		}
		tl.finish(f.v)
	}
}

// Settle advances until no animation is left, including ones started by
// completion callbacks. It gives up after limit steps.
func (tl *Timeline) Settle(step time.Duration, limit int) {
	for i := 0; i < limit && len(tl.tracks) > 0; i++ {
		tl.Advance(step)
	}
}

func (tl *Timeline) finish(v *Value) {
	tr, ok := tl.tracks[v]
	if !ok {
		return
	}
	delete(tl.tracks, v)
	v.Set(tr.to)
	if tr.done != nil {
		tr.done()
	}
}
