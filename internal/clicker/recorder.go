package clicker

import (
	"context"
	"sync"
	"time"
)

// Observation is a click seen by some external input source.
type Observation struct {
	Position Point
	Button   Button
	At       time.Time
}

// Recorder turns observed clicks into sequence actions. The time between two
// observations becomes the delay after the earlier one; the last action
// recorded has no delay until another observation arrives.
type Recorder struct {
	mu      sync.Mutex
	actions []ClickAction
	lastAt  time.Time
	holdMs  int
}

// NewRecorder creates a recorder that stamps every action with holdMs. A
// non-positive holdMs uses DefaultHoldMs.
func NewRecorder(holdMs int) *Recorder {
	if holdMs <= 0 {
		holdMs = DefaultHoldMs
	}
	return &Recorder{holdMs: holdMs}
}

// Record appends an observation.
func (r *Recorder) Record(obs Observation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n := len(r.actions); n > 0 {
		gap := obs.At.Sub(r.lastAt).Milliseconds()
		r.actions[n-1].DelayAfterMs = int(max(0, gap))
	}
	r.actions = append(r.actions, ClickAction{
		Position:       obs.Position,
		Button:         obs.Button,
		HoldDurationMs: r.holdMs,
	})
	r.lastAt = obs.At
}

// Consume records observations from ch until it is closed or ctx is done.
func (r *Recorder) Consume(ctx context.Context, ch <-chan Observation) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case obs, ok := <-ch:
			if !ok {
				return nil
			}
			r.Record(obs)
		}
	}
}

// Actions returns a copy of the recorded actions.
func (r *Recorder) Actions() []ClickAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ClickAction, len(r.actions))
	copy(out, r.actions)
	return out
}

// Len returns how many clicks were recorded.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.actions)
}

// Sequence builds a new Sequence from the recording.
func (r *Recorder) Sequence() *Sequence {
	return NewSequence(r.Actions()...)
}

// Reset discards the recording.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = nil
	r.lastAt = time.Time{}
}
