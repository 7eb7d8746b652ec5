// Package config loads zoom controller settings from a file and the
// environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"zoomview/internal/zoom"
)

// EnvPrefix is prepended to every environment override. Field names are
// split on word boundaries, e.g. ZOOMVIEW_SWIPE_THRESHOLD.
const EnvPrefix = "ZOOMVIEW"

// Settings is the serializable subset of zoom.Options.
type Settings struct {
	BackToDefault        bool    `toml:"back_to_default" yaml:"back_to_default" json:"back_to_default" split_words:"true"`
	Mode                 string  `toml:"mode" yaml:"mode" json:"mode" split_words:"true"`
	SwipeDirection       string  `toml:"swipe_direction" yaml:"swipe_direction" json:"swipe_direction" split_words:"true"`
	SwipeThreshold       float64 `toml:"swipe_threshold" yaml:"swipe_threshold" json:"swipe_threshold" split_words:"true"`
	DoubleTap            bool    `toml:"double_tap" yaml:"double_tap" json:"double_tap" split_words:"true"`
	DoubleTapScale       float64 `toml:"double_tap_scale" yaml:"double_tap_scale" json:"double_tap_scale" split_words:"true"`
	MaxScale             float64 `toml:"max_scale" yaml:"max_scale" json:"max_scale" split_words:"true"`
	AnimationTimingMs    int     `toml:"animation_timing_ms" yaml:"animation_timing_ms" json:"animation_timing_ms" split_words:"true"`
	MaxDoubleTapDistance float64 `toml:"max_double_tap_distance" yaml:"max_double_tap_distance" json:"max_double_tap_distance" split_words:"true"`
	SwipeDurationCapMs   int     `toml:"swipe_duration_cap_ms" yaml:"swipe_duration_cap_ms" json:"swipe_duration_cap_ms" split_words:"true"`
	DismissDistance      float64 `toml:"dismiss_distance" yaml:"dismiss_distance" json:"dismiss_distance" split_words:"true"`
	Overlay              bool    `toml:"overlay" yaml:"overlay" json:"overlay" split_words:"true"`
	DismissOnBack        bool    `toml:"dismiss_on_back" yaml:"dismiss_on_back" json:"dismiss_on_back" split_words:"true"`

	// OverlayInput and OverlayOutput hold three points of the backdrop
	// opacity curve. Empty keeps the default curve.
	OverlayInput  []float64 `toml:"overlay_input,omitempty" yaml:"overlay_input,omitempty" json:"overlay_input,omitempty" split_words:"true"`
	OverlayOutput []float64 `toml:"overlay_output,omitempty" yaml:"overlay_output,omitempty" json:"overlay_output,omitempty" split_words:"true"`
}

// DefaultPath returns the per-user settings file,
// ~/.config/zoomview/zoomview.toml on Linux.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "zoomview", "zoomview.toml")
}

// FromOptions captures the serializable fields of o.
func FromOptions(o zoom.Options) Settings {
	return Settings{
		BackToDefault:        o.BackToDefault,
		Mode:                 o.Mode.String(),
		SwipeDirection:       o.SwipeDirection.String(),
		SwipeThreshold:       o.SwipeThreshold,
		DoubleTap:            o.DoubleTap,
		DoubleTapScale:       o.DoubleTapScale,
		MaxScale:             o.MaxScale,
		AnimationTimingMs:    int(o.AnimationTiming / time.Millisecond),
		MaxDoubleTapDistance: o.MaxDoubleTapDistance,
		SwipeDurationCapMs:   int(o.SwipeDurationCap / time.Millisecond),
		DismissDistance:      o.DismissDistance,
		Overlay:              o.Overlay.Enabled,
		DismissOnBack:        o.DismissOnBack,
		OverlayInput:         curvePoints(o.Overlay.Input),
		OverlayOutput:        curvePoints(o.Overlay.Output),
	}
}

func curvePoints(p [3]float64) []float64 {
	if p == [3]float64{} {
		return nil
	}
	return p[:]
}

func setCurve(dst *[3]float64, name string, p []float64) error {
	switch len(p) {
	case 0:
		*dst = [3]float64{}
	case 3:
		copy(dst[:], p)
	default:
		return fmt.Errorf("config: %s needs 3 points, got %d", name, len(p))
	}
	return nil
}

// Load starts from base, applies the file at path (if any) and then the
// environment. The format is chosen by extension: .toml, .yaml/.yml or
// .json.
func Load(path string, base zoom.Options) (Settings, error) {
	s := FromOptions(base)
	if path != "" {
		if err := s.readFile(path); err != nil {
			return Settings{}, err
		}
	}
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return Settings{}, fmt.Errorf("config: environment: %w", err)
	}
	return s, nil
}

func (s *Settings) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, s)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, s)
	case ".json":
		err = json.Unmarshal(data, s)
	default:
		return fmt.Errorf("config: %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// Apply copies the settings onto base, keeping its callbacks and logger.
func (s Settings) Apply(base zoom.Options) (zoom.Options, error) {
	mode, err := zoom.ParseMode(s.Mode)
	if err != nil {
		return base, fmt.Errorf("config: %w", err)
	}
	dir, err := zoom.ParseSwipeDirection(s.SwipeDirection)
	if err != nil {
		return base, fmt.Errorf("config: %w", err)
	}

	o := base
	o.BackToDefault = s.BackToDefault
	o.Mode = mode
	o.SwipeDirection = dir
	o.SwipeThreshold = s.SwipeThreshold
	o.DoubleTap = s.DoubleTap
	o.DoubleTapScale = s.DoubleTapScale
	o.MaxScale = s.MaxScale
	o.AnimationTiming = time.Duration(s.AnimationTimingMs) * time.Millisecond
	o.MaxDoubleTapDistance = s.MaxDoubleTapDistance
	o.SwipeDurationCap = time.Duration(s.SwipeDurationCapMs) * time.Millisecond
	o.DismissDistance = s.DismissDistance
	o.Overlay.Enabled = s.Overlay
	o.DismissOnBack = s.DismissOnBack
	if err := setCurve(&o.Overlay.Input, "overlay_input", s.OverlayInput); err != nil {
		return base, err
	}
	if err := setCurve(&o.Overlay.Output, "overlay_output", s.OverlayOutput); err != nil {
		return base, err
	}

	if err := o.Validate(); err != nil {
		return base, fmt.Errorf("config: %w", err)
	}
	return o, nil
}

// Save writes the settings to path in the format implied by its extension.
func (s Settings) Save(path string) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		data, err = toml.Marshal(s)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(s)
	case ".json":
		data, err = json.MarshalIndent(s, "", "  ")
	default:
		return fmt.Errorf("config: %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return fmt.Errorf("config: encode %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
