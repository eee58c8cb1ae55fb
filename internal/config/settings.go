// Package config persists user preferences as a flat JSON object. Missing,
// malformed, or unknown keys are tolerated per key: defaults fill any gap and
// loading is never fatal.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pomodial/internal/core/model"
)

const settingsFileName = "settings.json"

// DefaultFinishSound is the legacy single finish-sound key.
const DefaultFinishSound = "cuckoo"

// Settings holds all persisted user preferences.
type Settings struct {
	WindowX          int
	WindowY          int
	AlwaysOnTop      bool
	SoundOn          bool
	BgOpacity        int
	FinishSound      string
	FocusFinishSound string
	BreakFinishSound string
	SoundVolume      float64
	PresetFocus      int
	PresetShort      int
	PresetLong       int
	SetsBeforeLong   int
	LastMode         model.Mode
	ThemeName        string
}

// DefaultSettings returns the documented defaults.
func DefaultSettings() Settings {
	return Settings{
		WindowX:        100,
		WindowY:        100,
		AlwaysOnTop:    true,
		SoundOn:        true,
		BgOpacity:      210,
		FinishSound:    DefaultFinishSound,
		SoundVolume:    0.7,
		PresetFocus:    model.DefaultFocusMinutes,
		PresetShort:    model.DefaultShortBreakMinutes,
		PresetLong:     model.DefaultLongBreakMinutes,
		SetsBeforeLong: model.DefaultSetsBeforeLong,
		LastMode:       model.ModeFocus,
		ThemeName:      "midnight_gold",
	}
}

// Store owns the settings file and serializes access to it.
type Store struct {
	mu       sync.Mutex
	path     string
	settings Settings
}

// NewStore loads settings from <UserConfigDir>/<appName>/settings.json.
// A missing or unreadable file yields defaults, never an error.
func NewStore(appName string) (*Store, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user config dir: %w", err)
	}
	path := filepath.Join(configDir, appName, settingsFileName)
	return NewStoreAt(path), nil
}

// NewStoreAt loads settings from an explicit path.
func NewStoreAt(path string) *Store {
	store := &Store{path: path, settings: DefaultSettings()}
	store.load()
	return store
}

func (s *Store) load() {
	rawData, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	var fileData map[string]json.RawMessage
	if err := json.Unmarshal(rawData, &fileData); err != nil {
		return
	}

	applyInt(fileData, "window_x", &s.settings.WindowX)
	applyInt(fileData, "window_y", &s.settings.WindowY)
	applyBool(fileData, "always_on_top", &s.settings.AlwaysOnTop)
	applyBool(fileData, "sound_on", &s.settings.SoundOn)
	applyInt(fileData, "bg_opacity", &s.settings.BgOpacity)
	applyString(fileData, "finish_sound", &s.settings.FinishSound)
	applyString(fileData, "focus_finish_sound", &s.settings.FocusFinishSound)
	applyString(fileData, "break_finish_sound", &s.settings.BreakFinishSound)
	applyFloat(fileData, "sound_volume", &s.settings.SoundVolume)
	applyInt(fileData, "preset_work", &s.settings.PresetFocus)
	applyInt(fileData, "preset_short", &s.settings.PresetShort)
	applyInt(fileData, "preset_long", &s.settings.PresetLong)
	applyInt(fileData, "sets_before_long", &s.settings.SetsBeforeLong)

	var lastMode string
	applyString(fileData, "last_mode", &lastMode)
	if mode := model.Mode(lastMode); mode.Valid() {
		s.settings.LastMode = mode
	}
	applyString(fileData, "theme_name", &s.settings.ThemeName)

	s.settings.BgOpacity = clampInt(s.settings.BgOpacity, 0, 255)
	s.settings.SoundVolume = clampFloat(s.settings.SoundVolume, 0, 1)
	if s.settings.PresetFocus <= 0 {
		s.settings.PresetFocus = model.DefaultFocusMinutes
	}
	if s.settings.PresetShort <= 0 {
		s.settings.PresetShort = model.DefaultShortBreakMinutes
	}
	if s.settings.PresetLong <= 0 {
		s.settings.PresetLong = model.DefaultLongBreakMinutes
	}
	if s.settings.SetsBeforeLong <= 0 {
		s.settings.SetsBeforeLong = model.DefaultSetsBeforeLong
	}
}

// Save writes the settings file atomically (temp file + rename). Callers
// treat failures as best-effort: log and move on.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	fileData := map[string]any{
		"window_x":           s.settings.WindowX,
		"window_y":           s.settings.WindowY,
		"always_on_top":      s.settings.AlwaysOnTop,
		"sound_on":           s.settings.SoundOn,
		"bg_opacity":         s.settings.BgOpacity,
		"finish_sound":       s.settings.FinishSound,
		"focus_finish_sound": s.settings.FocusFinishSound,
		"break_finish_sound": s.settings.BreakFinishSound,
		"sound_volume":       s.settings.SoundVolume,
		"preset_work":        s.settings.PresetFocus,
		"preset_short":       s.settings.PresetShort,
		"preset_long":        s.settings.PresetLong,
		"sets_before_long":   s.settings.SetsBeforeLong,
		"last_mode":          string(s.settings.LastMode),
		"theme_name":         s.settings.ThemeName,
	}

	serialized, err := json.MarshalIndent(fileData, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings json: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}

// Settings returns a copy of the current values.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Update mutates settings under the store lock and persists best-effort.
func (s *Store) Update(mutate func(*Settings)) {
	s.mu.Lock()
	mutate(&s.settings)
	s.settings.BgOpacity = clampInt(s.settings.BgOpacity, 0, 255)
	s.settings.SoundVolume = clampFloat(s.settings.SoundVolume, 0, 1)
	_ = s.saveLocked()
	s.mu.Unlock()
}

// PresetMinutes implements engine.ConfigStore.
func (s *Store) PresetMinutes(mode model.Mode) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch mode {
	case model.ModeShortBreak:
		return s.settings.PresetShort
	case model.ModeLongBreak:
		return s.settings.PresetLong
	default:
		return s.settings.PresetFocus
	}
}

// SetsBeforeLong implements engine.ConfigStore.
func (s *Store) SetsBeforeLong() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.SetsBeforeLong
}

// LastMode implements engine.ConfigStore.
func (s *Store) LastMode() model.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.LastMode
}

// SetLastMode implements engine.ConfigStore. The write is best-effort.
func (s *Store) SetLastMode(mode model.Mode) {
	s.mu.Lock()
	s.settings.LastMode = mode
	_ = s.saveLocked()
	s.mu.Unlock()
}

// FocusFinishSound returns the focus completion sound key, falling back to
// the legacy single key and finally to the default sound.
func (s *Store) FocusFinishSound() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fallbackSound(s.settings.FocusFinishSound, s.settings.FinishSound)
}

// BreakFinishSound returns the break completion sound key with the same
// fallback chain as FocusFinishSound.
func (s *Store) BreakFinishSound() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fallbackSound(s.settings.BreakFinishSound, s.settings.FinishSound)
}

func fallbackSound(key, legacy string) string {
	if key != "" {
		return key
	}
	if legacy != "" {
		return legacy
	}
	return DefaultFinishSound
}

func applyInt(fileData map[string]json.RawMessage, key string, target *int) {
	raw, ok := fileData[key]
	if !ok {
		return
	}
	var value int
	if err := json.Unmarshal(raw, &value); err == nil {
		*target = value
	}
}

func applyBool(fileData map[string]json.RawMessage, key string, target *bool) {
	raw, ok := fileData[key]
	if !ok {
		return
	}
	var value bool
	if err := json.Unmarshal(raw, &value); err == nil {
		*target = value
	}
}

func applyString(fileData map[string]json.RawMessage, key string, target *string) {
	raw, ok := fileData[key]
	if !ok {
		return
	}
	var value string
	if err := json.Unmarshal(raw, &value); err == nil {
		*target = value
	}
}

func applyFloat(fileData map[string]json.RawMessage, key string, target *float64) {
	raw, ok := fileData[key]
	if !ok {
		return
	}
	var value float64
	if err := json.Unmarshal(raw, &value); err == nil {
		*target = value
	}
}

func clampInt(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

func clampFloat(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
