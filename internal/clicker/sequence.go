package clicker

import (
	"sync"
	"time"
)

// Sequence is an ordered, editable list of click actions. A controller locks
// the sequence for the duration of a run; edits during that time fail with
// ErrSequenceLocked.
type Sequence struct {
	mu      sync.Mutex
	actions []ClickAction
	locked  bool
}

// NewSequence creates a sequence holding a copy of actions.
func NewSequence(actions ...ClickAction) *Sequence {
	s := &Sequence{}
	s.actions = append(s.actions, actions...)
	return s
}

// Len returns the number of actions.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.actions)
}

// Actions returns a copy of the actions in order.
func (s *Sequence) Actions() []ClickAction {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ClickAction, len(s.actions))
	copy(out, s.actions)
	return out
}

// Locked reports whether a run currently holds the sequence.
func (s *Sequence) Locked() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// Add appends an action.
func (s *Sequence) Add(a ClickAction) error {
	return s.edit(func() error {
		s.actions = append(s.actions, a)
		return nil
	})
}

// AddClick appends a click at pos with the default delay and hold duration.
func (s *Sequence) AddClick(pos Point, button Button) error {
	return s.Add(ClickAction{
		Position:       pos,
		Button:         button,
		DelayAfterMs:   DefaultDelayAfterMs,
		HoldDurationMs: DefaultHoldMs,
	})
}

// Remove deletes the action at index.
func (s *Sequence) Remove(index int) error {
	return s.edit(func() error {
		if index < 0 || index >= len(s.actions) {
			return ErrIndexOutOfRange
		}
		s.actions = append(s.actions[:index], s.actions[index+1:]...)
		return nil
	})
}

// Move relocates the action at from so that it ends up at index to.
func (s *Sequence) Move(from, to int) error {
	return s.edit(func() error {
		n := len(s.actions)
		if from < 0 || from >= n || to < 0 || to >= n {
			return ErrIndexOutOfRange
		}
		item := s.actions[from]
		s.actions = append(s.actions[:from], s.actions[from+1:]...)
		s.actions = append(s.actions[:to], append([]ClickAction{item}, s.actions[to:]...)...)
		return nil
	})
}

// Clear removes all actions.
func (s *Sequence) Clear() error {
	return s.edit(func() error {
		s.actions = s.actions[:0]
		return nil
	})
}

// Replace swaps the whole action list.
func (s *Sequence) Replace(actions []ClickAction) error {
	return s.edit(func() error {
		s.actions = append(s.actions[:0:0], actions...)
		return nil
	})
}

func (s *Sequence) edit(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked {
		return ErrSequenceLocked
	}
	return fn()
}

// acquire locks the sequence for a run and returns its snapshot. It fails if
// another run already holds it.
func (s *Sequence) acquire() ([]ClickAction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked {
		return nil, false
	}
	s.locked = true
	out := make([]ClickAction, len(s.actions))
	copy(out, s.actions)
	return out, true
}

func (s *Sequence) release() {
	s.mu.Lock()
	s.locked = false
	s.mu.Unlock()
}

// Bounds returns the bounding box of all action positions, or the zero Rect
// when the sequence is empty.
func (s *Sequence) Bounds() Rect {
	return BoundsOf(s.Actions())
}

// EstimatedDuration returns the expected wall time of a run: the summed
// post-action delays per pass, times repeat, plus one interval between each
// pair of passes. Hold durations and jitter are not included.
func (s *Sequence) EstimatedDuration(repeat, intervalMs int) time.Duration {
	return EstimateDuration(s.Actions(), repeat, intervalMs)
}

// BoundsOf computes the bounding box of the given actions.
func BoundsOf(actions []ClickAction) Rect {
	if len(actions) == 0 {
		return Rect{}
	}
	r := Rect{
		MinX: actions[0].Position.X,
		MinY: actions[0].Position.Y,
		MaxX: actions[0].Position.X,
		MaxY: actions[0].Position.Y,
	}
	for _, a := range actions[1:] {
		r.MinX = min(r.MinX, a.Position.X)
		r.MinY = min(r.MinY, a.Position.Y)
		r.MaxX = max(r.MaxX, a.Position.X)
		r.MaxY = max(r.MaxY, a.Position.Y)
	}
	return r
}

// EstimateDuration is the list form of Sequence.EstimatedDuration.
func EstimateDuration(actions []ClickAction, repeat, intervalMs int) time.Duration {
	if len(actions) == 0 {
		return 0
	}
	if repeat < 1 {
		repeat = 1
	}
	var perPass int64
	for _, a := range actions {
		perPass += int64(a.DelayAfterMs)
	}
	total := perPass*int64(repeat) + int64(repeat-1)*int64(intervalMs)
	return time.Duration(total) * time.Millisecond
}
