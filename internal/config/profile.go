// Package config loads click profiles from YAML and command-line flags and
// turns them into clicker settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stigoleg/autoclick/internal/clicker"
	"github.com/stigoleg/autoclick/internal/jitter"
	"github.com/stigoleg/autoclick/internal/util"
)

// Position is a screen coordinate.
type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Randomization mirrors clicker.Randomization. Leaving both delay bounds at
// zero keeps the configured interval.
type Randomization struct {
	DelayMinMs int `yaml:"delay_min_ms,omitempty"`
	DelayMaxMs int `yaml:"delay_max_ms,omitempty"`
	RangeX     int `yaml:"range_x"`
	RangeY     int `yaml:"range_y"`
}

// Humanization mirrors clicker.Humanization.
type Humanization struct {
	Variation float64 `yaml:"variation"`
}

// Action is one recorded sequence step.
type Action struct {
	X            int    `yaml:"x"`
	Y            int    `yaml:"y"`
	Button       string `yaml:"button"`
	DelayAfterMs int    `yaml:"delay_after_ms"`
	HoldMs       int    `yaml:"hold_ms"`
}

// Profile is the on-disk configuration.
type Profile struct {
	Backend string `yaml:"backend,omitempty"`
	URL     string `yaml:"url,omitempty"`

	IntervalMs int    `yaml:"interval_ms"`
	Count      int    `yaml:"count"`
	Infinite   bool   `yaml:"infinite"`
	Button     string `yaml:"button"`
	Style      string `yaml:"style"`
	HoldMs     int    `yaml:"hold_ms"`
	// Target is nil to click wherever the cursor is.
	Target *Position `yaml:"target,omitempty"`

	Randomization *Randomization `yaml:"randomization,omitempty"`
	Humanization  *Humanization  `yaml:"humanization,omitempty"`

	// MaxRuntime accepts minutes ("30") or a duration ("1h30m").
	MaxRuntime string `yaml:"max_runtime,omitempty"`

	Sequence       []Action `yaml:"sequence,omitempty"`
	SequenceRepeat int      `yaml:"sequence_repeat"`
}

// Default returns the profile used when no file exists.
func Default() *Profile {
	return &Profile{
		IntervalMs:     1000,
		Infinite:       true,
		Button:         "left",
		Style:          "single",
		HoldMs:         clicker.DefaultHoldMs,
		SequenceRepeat: 1,
	}
}

// DefaultPath returns the per-user profile location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "autoclick", "profile.yaml"), nil
}

// Load reads a profile. Fields missing from the file keep their defaults.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("profile not found: %s", path)
		}
		return nil, fmt.Errorf("read profile: %w", err)
	}

	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// LoadOrDefault reads path, or returns Default when the file does not exist.
func LoadOrDefault(path string) (*Profile, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// Save writes the profile as YAML, creating parent directories.
func (p *Profile) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// Validate checks the fields that cannot be clamped. Inverted delay ranges
// are swapped rather than rejected.
func (p *Profile) Validate() error {
	if _, err := clicker.ParseButton(p.Button); err != nil {
		return &clicker.ConfigError{Field: "button", Reason: err.Error()}
	}
	if _, err := clicker.ParseStyle(p.Style); err != nil {
		return &clicker.ConfigError{Field: "style", Reason: err.Error()}
	}
	if !p.Infinite && p.Count <= 0 && len(p.Sequence) == 0 {
		return &clicker.ConfigError{Field: "count", Reason: "must be positive unless infinite"}
	}
	if r := p.Randomization; r != nil && r.DelayMinMs > r.DelayMaxMs {
		r.DelayMinMs, r.DelayMaxMs = r.DelayMaxMs, r.DelayMinMs
	}
	if h := p.Humanization; h != nil && (h.Variation < 0 || h.Variation > 1) {
		return &clicker.ConfigError{Field: "humanization.variation", Reason: "must be between 0 and 1"}
	}
	if _, err := p.maxRuntime(); err != nil {
		return &clicker.ConfigError{Field: "max_runtime", Reason: err.Error()}
	}
	for i, a := range p.Sequence {
		if _, err := clicker.ParseButton(a.Button); err != nil {
			return &clicker.ConfigError{Field: fmt.Sprintf("sequence[%d].button", i), Reason: err.Error()}
		}
	}
	return nil
}

func (p *Profile) maxRuntime() (time.Duration, error) {
	if p.MaxRuntime == "" {
		return 0, nil
	}
	return util.ParseDuration(p.MaxRuntime)
}

// Settings converts the profile into a run configuration.
func (p *Profile) Settings() (clicker.ClickSettings, error) {
	if err := p.Validate(); err != nil {
		return clicker.ClickSettings{}, err
	}

	s := clicker.DefaultSettings()
	s.IntervalMs = p.IntervalMs
	s.HoldDurationMs = p.HoldMs
	s.SequenceRepeat = max(1, p.SequenceRepeat)
	s.Button, _ = clicker.ParseButton(p.Button)
	s.Style, _ = clicker.ParseStyle(p.Style)
	s.MaxRuntime, _ = p.maxRuntime()

	if p.Infinite {
		s.Repeat = clicker.Infinite()
	} else {
		s.Repeat = clicker.FixedCount(p.Count)
	}
	if p.Target != nil {
		s.Target = clicker.FixedTarget(clicker.Point{X: p.Target.X, Y: p.Target.Y})
	}
	if r := p.Randomization; r != nil {
		s.Randomization = &clicker.Randomization{RangeX: r.RangeX, RangeY: r.RangeY}
		if r.DelayMinMs != 0 || r.DelayMaxMs != 0 {
			s.Randomization.Delay = &jitter.Range{Min: r.DelayMinMs, Max: r.DelayMaxMs}
		}
	}
	if h := p.Humanization; h != nil {
		s.Humanization = &clicker.Humanization{Variation: h.Variation}
	}

	actions := make([]clicker.ClickAction, 0, len(p.Sequence))
	for _, a := range p.Sequence {
		button, _ := clicker.ParseButton(a.Button)
		actions = append(actions, clicker.ClickAction{
			Position:       clicker.Point{X: a.X, Y: a.Y},
			Button:         button,
			DelayAfterMs:   a.DelayAfterMs,
			HoldDurationMs: a.HoldMs,
		})
	}
	s.Sequence = clicker.NewSequence(actions...)
	return s, nil
}

// SetSequence replaces the profile's sequence with actions.
func (p *Profile) SetSequence(actions []clicker.ClickAction) {
	p.Sequence = make([]Action, 0, len(actions))
	for _, a := range actions {
		p.Sequence = append(p.Sequence, Action{
			X:            a.Position.X,
			Y:            a.Position.Y,
			Button:       a.Button.String(),
			DelayAfterMs: a.DelayAfterMs,
			HoldMs:       a.HoldDurationMs,
		})
	}
}
