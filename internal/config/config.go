// Package config loads the overmouse YAML configuration file and turns it
// into a validated settings snapshot. Environment variables override the
// logging fields.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/phinze/overmouse/internal/settings"
)

// ErrInvalid is returned for a configuration file that parses but cannot be
// used, or that names unknown buttons, click types or actions.
var ErrInvalid = errors.New("invalid configuration")

// Value ranges enforced on load.
const (
	MaxSpeed = 10.0
)

// File is the on-disk layout of config.yaml.
type File struct {
	Enabled  bool                     `yaml:"enabled"`
	Log      LogConfig                `yaml:"log"`
	Buttons  []settings.ButtonMapping `yaml:"buttons"`
	Scroll   settings.ScrollSettings  `yaml:"scroll"`
	Gestures settings.GestureSettings `yaml:"gestures"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the loaded configuration.
type Config struct {
	Path     string
	Log      LogConfig
	Settings *settings.Snapshot
	// Warnings lists values that were adjusted rather than rejected.
	Warnings []string
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "overmouse")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	// Allow override via environment variable (used by nix-generated config)
	if p := os.Getenv("OVERMOUSE_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// DefaultFile returns the file contents equivalent to settings.Defaults.
func DefaultFile() *File {
	return FromSnapshot(settings.Defaults())
}

// FromSnapshot converts a snapshot back into its file layout.
func FromSnapshot(s *settings.Snapshot) *File {
	return &File{
		Enabled:  s.Enabled,
		Log:      LogConfig{Level: "info", Format: "text"},
		Buttons:  append([]settings.ButtonMapping(nil), s.Mappings...),
		Scroll:   s.Scroll,
		Gestures: s.Gestures,
	}
}

// Load reads the file at DefaultConfigPath.
func Load() (*Config, error) {
	return LoadFile(DefaultConfigPath())
}

// LoadFile reads the file at path. A missing file yields the defaults.
// Environment variables always take precedence for the logging fields.
func LoadFile(path string) (*Config, error) {
	f := DefaultFile()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, f); err != nil {
			return nil, fmt.Errorf("parsing %s: %w: %w", path, ErrInvalid, err)
		}
	}

	if v := os.Getenv("OVERMOUSE_LOG_LEVEL"); v != "" {
		f.Log.Level = v
	}
	if v := os.Getenv("OVERMOUSE_LOG_FORMAT"); v != "" {
		f.Log.Format = v
	}

	snap, warnings, err := f.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Config{Path: path, Log: f.Log, Settings: snap, Warnings: warnings}, nil
}

// Snapshot validates f and builds the settings snapshot it describes.
// Out-of-range gesture thresholds are clamped and reported as warnings;
// everything else that is out of range is an ErrInvalid.
func (f *File) Snapshot() (*settings.Snapshot, []string, error) {
	var warnings []string

	sc := f.Scroll
	if !inRange(sc.Speed, 0, MaxSpeed) {
		return nil, nil, fmt.Errorf("%w: scroll speed %v outside [0, %v]", ErrInvalid, sc.Speed, MaxSpeed)
	}
	if !inRange(sc.Inertia, 0, 1) {
		return nil, nil, fmt.Errorf("%w: scroll inertia %v outside [0, 1]", ErrInvalid, sc.Inertia)
	}

	g := f.Gestures
	if !g.Trigger.Known() {
		return nil, nil, fmt.Errorf("%w: gesture trigger %v", ErrInvalid, g.Trigger)
	}
	if math.IsNaN(g.Threshold) {
		return nil, nil, fmt.Errorf("%w: gesture threshold is not a number", ErrInvalid)
	}
	if t := clamp(g.Threshold, settings.MinThreshold, settings.MaxThreshold); t != g.Threshold {
		warnings = append(warnings, fmt.Sprintf("gesture threshold %v clamped to %v", g.Threshold, t))
		g.Threshold = t
	}

	for i, m := range f.Buttons {
		if !m.Button.Known() {
			return nil, nil, fmt.Errorf("%w: buttons[%d]: unknown button %v", ErrInvalid, i, m.Button)
		}
		for _, prev := range f.Buttons[:i] {
			if prev.Button == m.Button && prev.Click == m.Click {
				warnings = append(warnings, fmt.Sprintf("buttons[%d]: duplicate %v %v ignored", i, m.Button, m.Click))
				break
			}
		}
	}

	snap := &settings.Snapshot{
		Enabled:  f.Enabled,
		Mappings: append([]settings.ButtonMapping(nil), f.Buttons...),
		Scroll:   sc,
		Gestures: g,
	}
	return snap, warnings, nil
}

// WriteConfigFile writes f to DefaultConfigPath.
func WriteConfigFile(f *File) error {
	return WriteFile(DefaultConfigPath(), f)
}

// WriteFile writes f to path, creating parent directories.
func WriteFile(path string, f *File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
