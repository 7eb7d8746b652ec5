// Package replay drives a zoom.Controller from a scripted gesture sequence on
// a deterministic clock, for reproducing interactions without a display.
package replay

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"zoomview/internal/animation"
	"zoomview/internal/app"
	"zoomview/internal/config"
	"zoomview/internal/gesture"
	"zoomview/internal/zoom"
)

// frameStep is the clock granularity used to settle animations.
const frameStep = 16 * time.Millisecond

// Script is a replayable gesture sequence.
type Script struct {
	Preset string  `yaml:"preset"`
	Config string  `yaml:"config"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Steps  []Step  `yaml:"steps"`
}

// Step is one gesture. Exactly one field should be set.
type Step struct {
	Pinch     *PinchStep `yaml:"pinch"`
	Pan       *PanStep   `yaml:"pan"`
	DoubleTap *TapStep   `yaml:"double_tap"`
	Back      bool       `yaml:"back"`
	Reset     bool       `yaml:"reset"`
	Resize    *SizeStep  `yaml:"resize"`
}

// PinchStep pinches around (X, Y) through Scales and releases at the last
// one.
type PinchStep struct {
	X      float64   `yaml:"x"`
	Y      float64   `yaml:"y"`
	Scales []float64 `yaml:"scales"`
	Cancel bool      `yaml:"cancel"`
}

// PanStep drags by (DX, DY) in Frames equal moves and releases with the
// given velocity.
type PanStep struct {
	DX     float64 `yaml:"dx"`
	DY     float64 `yaml:"dy"`
	VX     float64 `yaml:"vx"`
	VY     float64 `yaml:"vy"`
	Frames int     `yaml:"frames"`
	Cancel bool    `yaml:"cancel"`
}

// TapStep is a double tap at (X, Y).
type TapStep struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// SizeStep changes the surface size.
type SizeStep struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Frame is the settled state after a step.
type Frame struct {
	Step      int
	Label     string
	Transform zoom.TransformState
	Opacity   float64
	Consumed  bool
	Swipe     *zoom.SwipeEvent
}

// Load reads a YAML script.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("replay: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML script.
func Parse(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("replay: parse: %w", err)
	}
	if s.Width == 0 && s.Height == 0 {
		s.Width, s.Height = 400, 300
	}
	return s, nil
}

// Options resolves the controller options for the script.
func (s Script) Options() (zoom.Options, error) {
	base, err := app.PresetOptions(s.Preset)
	if err != nil {
		return zoom.Options{}, fmt.Errorf("replay: %w", err)
	}
	settings, err := config.Load(s.Config, base)
	if err != nil {
		return zoom.Options{}, err
	}
	return settings.Apply(base)
}

// Run plays the script and returns one frame per step. When w is non-nil a
// line per frame is written to it.
func Run(s Script, w io.Writer) ([]Frame, error) {
	opts, err := s.Options()
	if err != nil {
		return nil, err
	}

	var swipe *zoom.SwipeEvent
	opts.OnSwipeComplete = func(ev zoom.SwipeEvent) { swipe = &ev }

	clock := animation.NewTimeline()
	ctrl, err := zoom.New(clock, opts)
	if err != nil {
		return nil, err
	}
	ctrl.SetGeometry(s.Width, s.Height)

	frames := make([]Frame, 0, len(s.Steps))
	for i, step := range s.Steps {
		swipe = nil
		label, consumed, err := apply(ctrl, step)
		if err != nil {
			return frames, fmt.Errorf("replay: step %d: %w", i+1, err)
		}
		clock.Settle(frameStep, 1000)

		f := Frame{
			Step:      i + 1,
			Label:     label,
			Transform: ctrl.Transform(),
			Opacity:   ctrl.OverlayOpacity(),
			Consumed:  consumed,
			Swipe:     swipe,
		}
		frames = append(frames, f)
		if w != nil {
			writeFrame(w, f)
		}
	}
	return frames, nil
}

func apply(ctrl *zoom.Controller, step Step) (string, bool, error) {
	switch {
	case step.Pinch != nil:
		p := step.Pinch
		if len(p.Scales) == 0 {
			return "", false, fmt.Errorf("pinch without scales")
		}
		ctrl.HandlePinch(gesture.PinchEvent{Scale: 1, FocalX: p.X, FocalY: p.Y, Phase: gesture.Began})
		for _, sc := range p.Scales {
			ctrl.HandlePinch(gesture.PinchEvent{Scale: sc, FocalX: p.X, FocalY: p.Y, Phase: gesture.Active})
		}
		phase := gesture.End
		if p.Cancel {
			phase = gesture.Cancelled
		}
		ctrl.HandlePinch(gesture.PinchEvent{Scale: p.Scales[len(p.Scales)-1], FocalX: p.X, FocalY: p.Y, Phase: phase})
		return "pinch", false, nil

	case step.Pan != nil:
		p := step.Pan
		n := p.Frames
		if n <= 0 {
			n = 1
		}
		ctrl.HandlePan(gesture.PanEvent{Phase: gesture.Began})
		for k := 1; k <= n; k++ {
			f := float64(k) / float64(n)
			ctrl.HandlePan(gesture.PanEvent{TranslationX: p.DX * f, TranslationY: p.DY * f, Phase: gesture.Active})
		}
		phase := gesture.End
		if p.Cancel {
			phase = gesture.Cancelled
		}
		ctrl.HandlePan(gesture.PanEvent{TranslationX: p.DX, TranslationY: p.DY, VelocityX: p.VX, VelocityY: p.VY, Phase: phase})
		return "pan", false, nil

	case step.DoubleTap != nil:
		ctrl.HandleDoubleTap(gesture.TapEvent{X: step.DoubleTap.X, Y: step.DoubleTap.Y, Phase: gesture.Active})
		return "double-tap", false, nil

	case step.Back:
		return "back", ctrl.HandleBack(), nil

	case step.Reset:
		ctrl.ReturnToDefault()
		return "reset", false, nil

	case step.Resize != nil:
		ctrl.SetGeometry(step.Resize.Width, step.Resize.Height)
		return "resize", false, nil
	}
	return "", false, fmt.Errorf("empty step")
}

func writeFrame(w io.Writer, f Frame) {
	fmt.Fprintf(w, "%3d %-10s scale=%.3f translate=(%.2f, %.2f) opacity=%.2f",
		f.Step, f.Label, f.Transform.Scale, f.Transform.TranslateX, f.Transform.TranslateY, f.Opacity)
	if f.Label == "back" {
		fmt.Fprintf(w, " consumed=%t", f.Consumed)
	}
	if f.Swipe != nil {
		fmt.Fprintf(w, " swipe=%s", f.Swipe.Direction)
	}
	fmt.Fprintln(w)
}
