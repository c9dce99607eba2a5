// Package clicker schedules simulated pointer clicks: repeated single clicks
// on an interval and recorded action sequences, with jitter, humanized timing
// and cooperative cancellation.
package clicker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stigoleg/autoclick/internal/jitter"
)

// Timing constants shared by the schedulers.
const (
	// MultiClickGap separates the presses of a double or triple click.
	MultiClickGap = 50 * time.Millisecond

	// DefaultHoldMs is the press duration used when none is configured.
	DefaultHoldMs = 50

	// DefaultDelayAfterMs is the delay recorded for new sequence actions.
	DefaultDelayAfterMs = 100
)

// Button identifies a mouse button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	default:
		return fmt.Sprintf("Button(%d)", int(b))
	}
}

// Valid reports whether b is a known button.
func (b Button) Valid() bool {
	return b >= ButtonLeft && b <= ButtonMiddle
}

// ParseButton converts a button name to a Button.
func ParseButton(s string) (Button, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l", "":
		return ButtonLeft, nil
	case "right", "r":
		return ButtonRight, nil
	case "middle", "m", "center":
		return ButtonMiddle, nil
	default:
		return ButtonLeft, fmt.Errorf("unknown button %q (want left, right or middle)", s)
	}
}

// Style is the number of presses performed per scheduled click.
type Style int

const (
	StyleSingle Style = iota
	StyleDouble
	StyleTriple
)

func (s Style) String() string {
	switch s {
	case StyleSingle:
		return "single"
	case StyleDouble:
		return "double"
	case StyleTriple:
		return "triple"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// Presses returns how many press-hold-release cycles the style performs.
func (s Style) Presses() int {
	switch s {
	case StyleDouble:
		return 2
	case StyleTriple:
		return 3
	default:
		return 1
	}
}

// Valid reports whether s is a known style.
func (s Style) Valid() bool {
	return s >= StyleSingle && s <= StyleTriple
}

// ParseStyle converts a style name to a Style.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "1", "":
		return StyleSingle, nil
	case "double", "2":
		return StyleDouble, nil
	case "triple", "3":
		return StyleTriple, nil
	default:
		return StyleSingle, fmt.Errorf("unknown click style %q (want single, double or triple)", s)
	}
}

// Point is a screen coordinate.
type Point struct {
	X int
	Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	MinX int
	MinY int
	MaxX int
	MaxY int
}

// RepeatMode says how many clicks a single-shot run performs.
type RepeatMode struct {
	Infinite bool
	Count    int
}

// FixedCount returns a mode that stops after n clicks.
func FixedCount(n int) RepeatMode {
	return RepeatMode{Count: n}
}

// Infinite returns a mode that only stops on cancellation.
func Infinite() RepeatMode {
	return RepeatMode{Infinite: true}
}

// Target is where single-shot clicks land.
type Target struct {
	// UseCursor resolves the position from the pointer at fire time.
	UseCursor bool
	Position  Point
}

// CursorTarget clicks wherever the pointer currently is.
func CursorTarget() Target {
	return Target{UseCursor: true}
}

// FixedTarget always clicks at p.
func FixedTarget(p Point) Target {
	return Target{Position: p}
}

// Randomization offsets click positions by up to RangeX/RangeY. A non-nil
// Delay replaces the base interval with a uniform draw from the range; nil
// keeps the interval.
type Randomization struct {
	Delay  *jitter.Range
	RangeX int
	RangeY int
}

func (r *Randomization) delayRange() *jitter.Range {
	if r == nil {
		return nil
	}
	return r.Delay
}

// Humanization perturbs delays and hold durations by up to ±Variation of
// their value.
type Humanization struct {
	Variation float64
}

func (h *Humanization) fraction() float64 {
	if h == nil {
		return 0
	}
	return jitter.ClampVariation(h.Variation)
}

// ClickAction is one step of a sequence.
type ClickAction struct {
	Position       Point
	Button         Button
	DelayAfterMs   int
	HoldDurationMs int
}

// ClickSettings is the configuration snapshot read by a run. The schedulers
// never modify it.
type ClickSettings struct {
	IntervalMs     int
	Repeat         RepeatMode
	Button         Button
	Style          Style
	Target         Target
	HoldDurationMs int

	Randomization *Randomization
	Humanization  *Humanization

	Sequence       *Sequence
	SequenceRepeat int

	// MaxRuntime ends a run after the given wall time. Zero disables it.
	MaxRuntime time.Duration
}

// DefaultSettings mirrors the defaults of the desktop application.
func DefaultSettings() ClickSettings {
	return ClickSettings{
		IntervalMs:     1000,
		Repeat:         Infinite(),
		Button:         ButtonLeft,
		Style:          StyleSingle,
		Target:         CursorTarget(),
		HoldDurationMs: DefaultHoldMs,
		Sequence:       NewSequence(),
		SequenceRepeat: 1,
	}
}

func (s ClickSettings) validateSingle() error {
	if !s.Button.Valid() {
		return &ConfigError{Field: "button", Reason: fmt.Sprintf("unknown button %d", int(s.Button))}
	}
	if !s.Style.Valid() {
		return &ConfigError{Field: "style", Reason: fmt.Sprintf("unknown style %d", int(s.Style))}
	}
	if !s.Repeat.Infinite && s.Repeat.Count <= 0 {
		return &ConfigError{Field: "count", Reason: "click count must be positive unless infinite"}
	}
	if s.MaxRuntime < 0 {
		return &ConfigError{Field: "max_runtime", Reason: "must not be negative"}
	}
	return nil
}

func (s ClickSettings) validateSequence(actions []ClickAction) error {
	for i, a := range actions {
		if !a.Button.Valid() {
			return &ConfigError{Field: fmt.Sprintf("sequence[%d].button", i), Reason: fmt.Sprintf("unknown button %d", int(a.Button))}
		}
	}
	if s.MaxRuntime < 0 {
		return &ConfigError{Field: "max_runtime", Reason: "must not be negative"}
	}
	return nil
}

// PointerActuator performs pointer input. Click moves the pointer to pos and
// presses, holds for hold and releases button. Implementations must complete
// the release even when they return an error after the press.
type PointerActuator interface {
	Click(ctx context.Context, button Button, pos Point, hold time.Duration) error
	CurrentPosition(ctx context.Context) (Point, error)
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func percent(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(done) / float64(total) * 100
}
