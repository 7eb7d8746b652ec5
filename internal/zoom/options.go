package zoom

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Defaults shared by both presets.
const (
	DefaultSwipeThreshold       = 100
	DefaultDoubleTapScale       = 4
	DefaultMaxScale             = 4
	DefaultAnimationTiming      = 250 * time.Millisecond
	DefaultMaxDoubleTapDistance = 25
	DefaultSwipeDurationCap     = 200 * time.Millisecond

	// resetScale is the committed scale at or below which a finished
	// gesture always springs back to identity.
	resetScale = 1.2
	// minPinchScale bounds malformed pinch input away from zero.
	minPinchScale = 0.05
)

var defaultOverlayOutput = [3]float64{0.4, 1, 0.4}

// ErrInvalidOptions is wrapped by Options.Validate failures.
var ErrInvalidOptions = errors.New("invalid options")

// Mode selects how pan and pinch gestures combine.
type Mode int

const (
	// ModeAuto picks ModeSingleTouchSwipe when BackToDefault is off and
	// ModeTwoFingerPinch otherwise.
	ModeAuto Mode = iota
	// ModeSingleTouchSwipe pans with one finger and keeps pinch zoom after
	// the fingers lift.
	ModeSingleTouchSwipe
	// ModeTwoFingerPinch only reacts while two fingers are down; the pinch
	// scale is a transient layer on top of the content.
	ModeTwoFingerPinch
)

func (m Mode) String() string {
	switch m {
	case ModeSingleTouchSwipe:
		return "single"
	case ModeTwoFingerPinch:
		return "double"
	default:
		return "auto"
	}
}

// ParseMode accepts "auto", "single" or "double".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "single":
		return ModeSingleTouchSwipe, nil
	case "double":
		return ModeTwoFingerPinch, nil
	}
	return ModeAuto, fmt.Errorf("unknown mode %q", s)
}

// SwipeDirection restricts which axes may complete a swipe. The zero value
// is SwipeY.
type SwipeDirection int

const (
	SwipeY SwipeDirection = iota
	SwipeX
	SwipeBoth
	SwipeNone
)

func (d SwipeDirection) String() string {
	switch d {
	case SwipeX:
		return "x"
	case SwipeBoth:
		return "both"
	case SwipeNone:
		return "none"
	default:
		return "y"
	}
}

// Allows reports whether a swipe locked to axis may complete.
func (d SwipeDirection) Allows(axis Axis) bool {
	switch axis {
	case AxisX:
		return d == SwipeX || d == SwipeBoth
	case AxisY:
		return d == SwipeY || d == SwipeBoth
	}
	return false
}

// ParseSwipeDirection accepts "x", "y", "both" or "none".
func ParseSwipeDirection(s string) (SwipeDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "y":
		return SwipeY, nil
	case "x":
		return SwipeX, nil
	case "both":
		return SwipeBoth, nil
	case "none":
		return SwipeNone, nil
	}
	return SwipeY, fmt.Errorf("unknown swipe direction %q", s)
}

// Overlay configures the backdrop that fades out as content is swiped away.
// Output is indexed by Input: the opacity at Input[i] is Output[i], linearly
// interpolated and extrapolated beyond the ends.
type Overlay struct {
	Enabled bool
	// Input defaults to [-SwipeThreshold, 0, SwipeThreshold].
	Input [3]float64
	// Output defaults to [0.4, 1, 0.4].
	Output [3]float64
}

// Options configures a Controller. Start from DefaultOptions, BoxOptions or
// ImageOptions; zero numeric fields fall back to the defaults.
type Options struct {
	BackToDefault        bool
	SwipeDirection       SwipeDirection
	SwipeThreshold       float64
	DoubleTap            bool
	DoubleTapScale       float64
	MaxScale             float64
	AnimationTiming      time.Duration
	MaxDoubleTapDistance float64
	SwipeDurationCap     time.Duration
	// DismissDistance is how far a completed swipe travels. Zero means the
	// surface size along the swiped axis.
	DismissDistance float64
	Mode            Mode
	Overlay         Overlay
	// DismissOnBack makes a back press at rest dismiss the content instead
	// of calling BackHandler.
	DismissOnBack bool

	OnSwipeComplete func(SwipeEvent)
	BackHandler     func(BackEvent)

	Logger *slog.Logger
}

// DefaultOptions returns the box preset.
func DefaultOptions() Options {
	return BoxOptions()
}

// BoxOptions is the general-purpose preset: swipes along y, snap back after
// every gesture, double tap disabled.
func BoxOptions() Options {
	return Options{
		BackToDefault:        true,
		SwipeDirection:       SwipeY,
		SwipeThreshold:       DefaultSwipeThreshold,
		DoubleTapScale:       DefaultDoubleTapScale,
		MaxScale:             DefaultMaxScale,
		AnimationTiming:      DefaultAnimationTiming,
		MaxDoubleTapDistance: DefaultMaxDoubleTapDistance,
		SwipeDurationCap:     DefaultSwipeDurationCap,
	}
}

// ImageOptions is the photo-viewer preset: one-finger pan that keeps zoom,
// vertical swipe to dismiss with a fading backdrop, double tap to max scale
// and back press dismisses at rest.
func ImageOptions() Options {
	o := BoxOptions()
	o.BackToDefault = false
	o.Mode = ModeSingleTouchSwipe
	o.SwipeDirection = SwipeY
	o.DoubleTap = true
	o.DoubleTapScale = o.MaxScale
	o.Overlay.Enabled = true
	o.DismissOnBack = true
	return o
}

// Validate reports options that cannot produce a sensible transform.
func (o Options) Validate() error {
	var errs []error
	if o.MaxScale != 0 && o.MaxScale < 1 {
		errs = append(errs, fmt.Errorf("max scale %v is below 1", o.MaxScale))
	}
	if o.DoubleTapScale != 0 && o.DoubleTapScale < 1 {
		errs = append(errs, fmt.Errorf("double tap scale %v is below 1", o.DoubleTapScale))
	}
	if o.SwipeThreshold < 0 {
		errs = append(errs, fmt.Errorf("swipe threshold %v is negative", o.SwipeThreshold))
	}
	if o.AnimationTiming < 0 || o.SwipeDurationCap < 0 {
		errs = append(errs, errors.New("animation durations must not be negative"))
	}
	if o.DismissDistance < 0 {
		errs = append(errs, fmt.Errorf("dismiss distance %v is negative", o.DismissDistance))
	}
	if o.SwipeDirection < SwipeY || o.SwipeDirection > SwipeNone {
		errs = append(errs, fmt.Errorf("unknown swipe direction %d", o.SwipeDirection))
	}
	if in := o.Overlay.Input; in[0] > in[1] || in[1] > in[2] {
		errs = append(errs, fmt.Errorf("overlay input %v is not ascending", in))
	}
	for _, v := range o.Overlay.Output {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("overlay output %v is outside [0, 1]", o.Overlay.Output))
			break
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, errors.Join(errs...))
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.SwipeThreshold == 0 {
		o.SwipeThreshold = DefaultSwipeThreshold
	}
	if o.DoubleTapScale == 0 {
		o.DoubleTapScale = DefaultDoubleTapScale
	}
	if o.MaxScale == 0 {
		o.MaxScale = DefaultMaxScale
	}
	if o.AnimationTiming == 0 {
		o.AnimationTiming = DefaultAnimationTiming
	}
	if o.MaxDoubleTapDistance == 0 {
		o.MaxDoubleTapDistance = DefaultMaxDoubleTapDistance
	}
	if o.SwipeDurationCap == 0 {
		o.SwipeDurationCap = DefaultSwipeDurationCap
	}
	if o.Overlay.Input == [3]float64{} {
		o.Overlay.Input = [3]float64{-o.SwipeThreshold, 0, o.SwipeThreshold}
	}
	if o.Overlay.Output == [3]float64{} {
		o.Overlay.Output = defaultOverlayOutput
	}
	if o.Mode == ModeAuto {
		if o.BackToDefault {
			o.Mode = ModeTwoFingerPinch
		} else {
			o.Mode = ModeSingleTouchSwipe
		}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
