// Package app provides application lifecycle management, configuration, and events.
package app

import (
	"fmt"
	"log"
	"sync"

	"zoomview/internal/config"
	"zoomview/internal/zoom"
)

// State holds the application state: the active options and the most recent
// gesture outcomes.
type State struct {
	mu sync.RWMutex

	// Configuration
	Preset     string
	ConfigPath string
	Settings   config.Settings

	// Last outcomes reported by the zoom controller
	LastSwipe  *zoom.SwipeEvent
	LastBack   *zoom.BackEvent
	Transform  zoom.TransformState
	SwipeCount int

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventSettingsChanged EventType = iota
	EventSwipeComplete
	EventBackUnhandled
	EventTransformChanged
	EventReset
)

func (e EventType) String() string {
	switch e {
	case EventSettingsChanged:
		return "settings-changed"
	case EventSwipeComplete:
		return "swipe-complete"
	case EventBackUnhandled:
		return "back-unhandled"
	case EventTransformChanged:
		return "transform-changed"
	case EventReset:
		return "reset"
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state.
func NewState() *State {
	return &State{
		Preset:    "box",
		Settings:  config.FromOptions(zoom.BoxOptions()),
		Transform: zoom.Identity,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// PresetOptions returns the options for a named preset.
func PresetOptions(name string) (zoom.Options, error) {
	switch name {
	case "", "box":
		return zoom.BoxOptions(), nil
	case "image":
		return zoom.ImageOptions(), nil
	}
	return zoom.Options{}, fmt.Errorf("unknown preset %q", name)
}

// LoadSettings resolves the preset, overlays the config file at path and the
// environment, and emits EventSettingsChanged.
func (s *State) LoadSettings(preset, path string) error {
	base, err := PresetOptions(preset)
	if err != nil {
		return err
	}
	settings, err := config.Load(path, base)
	if err != nil {
		return err
	}
	if _, err := settings.Apply(base); err != nil {
		return err
	}

	s.mu.Lock()
	s.Preset = preset
	s.ConfigPath = path
	s.Settings = settings
	s.mu.Unlock()

	log.Printf("Settings loaded: preset=%s config=%q mode=%s swipe=%s", preset, path, settings.Mode, settings.SwipeDirection)
	s.Emit(EventSettingsChanged, settings)
	return nil
}

// Reload re-reads the current config file.
func (s *State) Reload() error {
	s.mu.RLock()
	preset, path := s.Preset, s.ConfigPath
	s.mu.RUnlock()
	return s.LoadSettings(preset, path)
}

// CurrentSettings returns the settings last loaded. The config watcher
// replaces them from its own goroutine.
func (s *State) CurrentSettings() config.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Settings
}

// Source returns the preset and config file the settings came from.
func (s *State) Source() (preset, path string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Preset, s.ConfigPath
}

// Options builds controller options from the current settings, wiring the
// controller callbacks into the event bus.
func (s *State) Options() (zoom.Options, error) {
	s.mu.RLock()
	preset, settings := s.Preset, s.Settings
	s.mu.RUnlock()

	base, err := PresetOptions(preset)
	if err != nil {
		return zoom.Options{}, err
	}
	base.OnSwipeComplete = s.RecordSwipe
	base.BackHandler = s.RecordBack
	return settings.Apply(base)
}

// RecordSwipe stores a completed swipe and emits EventSwipeComplete.
func (s *State) RecordSwipe(ev zoom.SwipeEvent) {
	s.mu.Lock()
	s.LastSwipe = &ev
	s.SwipeCount++
	s.mu.Unlock()

	log.Printf("Swipe complete: dir=%s translate=(%.1f, %.1f) velocity=(%.1f, %.1f)",
		ev.Direction, ev.TranslateX, ev.TranslateY, ev.VelocityX, ev.VelocityY)
	s.Emit(EventSwipeComplete, ev)
}

// RecordBack stores an unconsumed back press and emits EventBackUnhandled.
func (s *State) RecordBack(ev zoom.BackEvent) {
	s.mu.Lock()
	s.LastBack = &ev
	s.mu.Unlock()
	s.Emit(EventBackUnhandled, ev)
}

// SetTransform records the rendered transform and emits
// EventTransformChanged when it differs from the previous one.
func (s *State) SetTransform(ts zoom.TransformState) {
	s.mu.Lock()
	changed := ts != s.Transform
	s.Transform = ts
	s.mu.Unlock()

	if changed {
		s.Emit(EventTransformChanged, ts)
	}
}
