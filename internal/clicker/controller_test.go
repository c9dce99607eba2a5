package clicker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stigoleg/autoclick/internal/jitter"
)

func singleSettings(interval int, repeat RepeatMode) ClickSettings {
	s := DefaultSettings()
	s.IntervalMs = interval
	s.Repeat = repeat
	s.Target = FixedTarget(Point{X: 100, Y: 200})
	return s
}

func TestSingleShotFixedCount(t *testing.T) {
	act := &fakeActuator{}
	sleeper := &fakeSleeper{}
	c := newTestController(t, act, sleeper.Sleep)
	events, cancel := c.Events(64)
	defer cancel()

	require.NoError(t, c.StartSingle(singleSettings(100, FixedCount(5))))
	require.NoError(t, waitRun(t, c))

	got := collect(t, events)
	require.Equal(t, EventStarted, got[0].Kind)
	last := got[len(got)-1]
	assert.Equal(t, EventStopped, last.Kind)
	assert.Equal(t, ReasonCompleted, last.Reason)
	assert.NoError(t, last.Err)
	assert.Equal(t, got[0].RunID, last.RunID)
	assert.NotEqual(t, uuid.Nil, last.RunID)

	progress := progressOf(got)
	require.Len(t, progress, 5)
	for i, p := range progress {
		assert.Equal(t, i+1, p.Completed)
		assert.Equal(t, 5, p.Total)
		assert.InDelta(t, float64(i+1)*20, p.Percent, 1e-9)
	}

	clicks := act.clicks()
	require.Len(t, clicks, 5)
	for _, cl := range clicks {
		assert.Equal(t, Point{X: 100, Y: 200}, cl.Pos)
		assert.Equal(t, ButtonLeft, cl.Button)
		assert.Equal(t, 50*time.Millisecond, cl.Hold)
	}
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond, 100 * time.Millisecond, 100 * time.Millisecond,
		100 * time.Millisecond, 100 * time.Millisecond,
	}, sleeper.recorded())

	assert.Equal(t, StateIdle, c.State())
	assert.False(t, c.IsRunning())
	assert.Equal(t, uuid.Nil, c.RunID())
}

func TestSingleShotInfiniteStop(t *testing.T) {
	act := &fakeActuator{}
	sleeper := &fakeSleeper{}
	c := newTestController(t, act, sleeper.Sleep)
	act.onClick = func(n int) {
		if n == 3 {
			c.Stop()
		}
	}
	events, cancel := c.Events(64)
	defer cancel()

	require.NoError(t, c.StartSingle(singleSettings(100, Infinite())))
	require.NoError(t, waitRun(t, c))

	got := collect(t, events)
	assert.Len(t, act.clicks(), 3)

	last := got[len(got)-1]
	assert.Equal(t, ReasonCancelled, last.Reason)
	assert.NoError(t, last.Err)
	assert.Equal(t, 3, last.Progress.Completed)

	progress := progressOf(got)
	require.Len(t, progress, 3)
	for _, p := range progress {
		assert.Zero(t, p.Percent)
		assert.Zero(t, p.Total)
	}
	assert.False(t, c.IsRunning())
}

func TestSingleShotStyles(t *testing.T) {
	tests := []struct {
		name    string
		style   Style
		presses int
	}{
		{"single", StyleSingle, 1},
		{"double", StyleDouble, 2},
		{"triple", StyleTriple, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			act := &fakeActuator{}
			sleeper := &fakeSleeper{}
			s := singleSettings(200, FixedCount(2))
			s.Style = tt.style

			sched := &SingleShotScheduler{Settings: s, Actuator: act, Sleep: sleeper.Sleep}
			n, err := sched.Run(context.Background(), nil)
			require.NoError(t, err)
			assert.Equal(t, 2, n)
			assert.Len(t, act.clicks(), 2*tt.presses)

			gaps := 0
			for _, d := range sleeper.recorded() {
				if d == MultiClickGap {
					gaps++
				}
			}
			assert.Equal(t, 2*(tt.presses-1), gaps)
		})
	}
}

func TestSingleShotCursorTarget(t *testing.T) {
	act := &fakeActuator{cursor: Point{X: 7, Y: 9}}
	s := singleSettings(1, FixedCount(3))
	s.Target = CursorTarget()

	sched := &SingleShotScheduler{Settings: s, Actuator: act, Sleep: (&fakeSleeper{}).Sleep}
	_, err := sched.Run(context.Background(), nil)
	require.NoError(t, err)

	for _, cl := range act.clicks() {
		assert.Equal(t, Point{X: 7, Y: 9}, cl.Pos)
	}
}

func TestSingleShotRandomization(t *testing.T) {
	act := &fakeActuator{}
	sleeper := &fakeSleeper{}
	s := singleSettings(1000, FixedCount(200))
	s.Randomization = &Randomization{Delay: &jitter.Range{Min: 20, Max: 40}, RangeX: 5, RangeY: 3}

	sched := &SingleShotScheduler{Settings: s, Actuator: act, Sleep: sleeper.Sleep}
	_, err := sched.Run(context.Background(), nil)
	require.NoError(t, err)

	for _, d := range sleeper.recorded() {
		assert.GreaterOrEqual(t, d, 20*time.Millisecond)
		assert.LessOrEqual(t, d, 40*time.Millisecond)
	}
	for _, cl := range act.clicks() {
		assert.InDelta(t, 100, cl.Pos.X, 5)
		assert.InDelta(t, 200, cl.Pos.Y, 3)
	}
}

func TestSingleShotPositionOnlyRandomizationKeepsInterval(t *testing.T) {
	act := &fakeActuator{}
	sleeper := &fakeSleeper{}
	s := singleSettings(250, FixedCount(20))
	s.Randomization = &Randomization{RangeX: 5}

	sched := &SingleShotScheduler{Settings: s, Actuator: act, Sleep: sleeper.Sleep, Jitter: jitter.New(3)}
	_, err := sched.Run(context.Background(), nil)
	require.NoError(t, err)

	for _, d := range sleeper.recorded() {
		assert.Equal(t, 250*time.Millisecond, d)
	}
}

func TestSingleShotPromptCancellation(t *testing.T) {
	act := &fakeActuator{}
	c := newTestController(t, act, nil)

	require.NoError(t, c.StartSingle(singleSettings(60_000, Infinite())))
	require.True(t, c.IsRunning())

	start := time.Now()
	c.Stop()
	require.NoError(t, waitRun(t, c))
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Empty(t, act.clicks())
	assert.Equal(t, StateIdle, c.State())
}

func TestStartWhileRunning(t *testing.T) {
	c := newTestController(t, &fakeActuator{}, nil)

	require.NoError(t, c.StartSingle(singleSettings(60_000, Infinite())))
	id := c.RunID()

	err := c.StartSingle(singleSettings(10, FixedCount(1)))
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Equal(t, id, c.RunID())

	c.Stop()
	c.Stop()
	require.NoError(t, waitRun(t, c))
	assert.False(t, c.IsRunning())
}

func TestStopFromIdle(t *testing.T) {
	c := newTestController(t, &fakeActuator{}, nil)
	assert.NotPanics(t, c.Stop)
	assert.Equal(t, StateIdle, c.State())
	assert.NoError(t, c.Wait(context.Background()))
}

func TestConfigErrorsRefuseStart(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*ClickSettings)
		field string
	}{
		{"zero count", func(s *ClickSettings) { s.Repeat = FixedCount(0) }, "count"},
		{"bad button", func(s *ClickSettings) { s.Button = Button(9) }, "button"},
		{"bad style", func(s *ClickSettings) { s.Style = Style(9) }, "style"},
		{"negative runtime", func(s *ClickSettings) { s.MaxRuntime = -time.Second }, "max_runtime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(t, &fakeActuator{}, nil)
			s := singleSettings(10, FixedCount(1))
			tt.edit(&s)

			err := c.StartSingle(s)
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.False(t, c.IsRunning())
		})
	}
}

func TestNewControllerRequiresActuator(t *testing.T) {
	_, err := NewController(Options{})
	assert.ErrorIs(t, err, ErrNilActuator)
}

func TestActuatorFailureStopsRun(t *testing.T) {
	act := &fakeActuator{failAt: 2}
	c := newTestController(t, act, (&fakeSleeper{}).Sleep)
	events, cancel := c.Events(64)
	defer cancel()

	require.NoError(t, c.StartSingle(singleSettings(10, FixedCount(5))))
	err := waitRun(t, c)
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "click 2")

	got := collect(t, events)
	last := got[len(got)-1]
	assert.Equal(t, ReasonFailed, last.Reason)
	assert.ErrorIs(t, last.Err, errBoom)
	assert.Equal(t, 1, last.Progress.Completed)
	assert.Len(t, act.clicks(), 2)
	assert.False(t, c.IsRunning())
	assert.ErrorIs(t, c.LastError(), errBoom)

	// The controller is reusable after a failure.
	act.failAt = 0
	require.NoError(t, c.StartSingle(singleSettings(10, FixedCount(1))))
	require.NoError(t, waitRun(t, c))
	assert.NoError(t, c.LastError())
}

func TestMaxRuntimeEndsInfiniteRun(t *testing.T) {
	c := newTestController(t, &fakeActuator{}, nil)
	events, cancel := c.Events(256)
	defer cancel()

	s := singleSettings(20, Infinite())
	s.MaxRuntime = 150 * time.Millisecond
	require.NoError(t, c.StartSingle(s))
	require.NoError(t, waitRun(t, c))

	got := collect(t, events)
	assert.Equal(t, ReasonTimeLimit, got[len(got)-1].Reason)
}

func TestSequenceEmptyIsNoop(t *testing.T) {
	act := &fakeActuator{}
	c := newTestController(t, act, nil)
	events, cancel := c.Events(8)
	defer cancel()

	s := DefaultSettings()
	err := c.StartSequence(s)
	assert.ErrorIs(t, err, ErrEmptySequence)
	assert.False(t, c.IsRunning())

	s.Sequence = nil
	assert.ErrorIs(t, c.StartSequence(s), ErrEmptySequence)

	assert.Never(t, func() bool { return len(events) > 0 }, 100*time.Millisecond, 10*time.Millisecond)
	assert.Empty(t, act.clicks())
}

func threeActions() []ClickAction {
	return []ClickAction{
		{Position: Point{X: 1, Y: 1}, Button: ButtonLeft, DelayAfterMs: 10, HoldDurationMs: 20},
		{Position: Point{X: 2, Y: 2}, Button: ButtonRight, DelayAfterMs: 20, HoldDurationMs: 30},
		{Position: Point{X: 3, Y: 3}, Button: ButtonMiddle, DelayAfterMs: 30, HoldDurationMs: 40},
	}
}

func TestSequenceRepeat(t *testing.T) {
	act := &fakeActuator{}
	sleeper := &fakeSleeper{}
	c := newTestController(t, act, sleeper.Sleep)
	events, cancel := c.Events(64)
	defer cancel()

	s := DefaultSettings()
	s.IntervalMs = 250
	s.Sequence = NewSequence(threeActions()...)
	s.SequenceRepeat = 2

	require.NoError(t, c.StartSequence(s))
	require.NoError(t, waitRun(t, c))

	clicks := act.clicks()
	require.Len(t, clicks, 6)
	for i, cl := range clicks {
		want := threeActions()[i%3]
		assert.Equal(t, want.Position, cl.Pos)
		assert.Equal(t, want.Button, cl.Button)
		assert.Equal(t, time.Duration(want.HoldDurationMs)*time.Millisecond, cl.Hold)
	}

	ms := time.Millisecond
	assert.Equal(t, []time.Duration{10 * ms, 20 * ms, 30 * ms, 250 * ms, 10 * ms, 20 * ms, 30 * ms}, sleeper.recorded())

	got := collect(t, events)
	assert.Equal(t, ModeSequence, got[0].Mode)
	progress := progressOf(got)
	require.Len(t, progress, 2)
	assert.Equal(t, Progress{Completed: 1, Total: 2, Percent: 50}, progress[0])
	assert.Equal(t, Progress{Completed: 2, Total: 2, Percent: 100}, progress[1])
	assert.Equal(t, ReasonCompleted, got[len(got)-1].Reason)
	assert.False(t, s.Sequence.Locked())
}

func TestSequenceCancelMidPass(t *testing.T) {
	act := &fakeActuator{}
	c := newTestController(t, act, (&fakeSleeper{}).Sleep)
	act.onClick = func(n int) {
		if n == 2 {
			c.Stop()
		}
	}
	events, cancel := c.Events(64)
	defer cancel()

	s := DefaultSettings()
	s.Sequence = NewSequence(threeActions()...)
	s.SequenceRepeat = 3

	require.NoError(t, c.StartSequence(s))
	require.NoError(t, waitRun(t, c))

	clicks := act.clicks()
	require.Len(t, clicks, 2)
	assert.Equal(t, Point{X: 2, Y: 2}, clicks[1].Pos)

	got := collect(t, events)
	assert.Empty(t, progressOf(got))
	assert.Equal(t, ReasonCancelled, got[len(got)-1].Reason)
}

func TestSequenceLockedWhileRunning(t *testing.T) {
	act := &fakeActuator{}
	c := newTestController(t, act, (&fakeSleeper{}).Sleep)

	seq := NewSequence(threeActions()...)
	var editErr error
	act.onClick = func(n int) {
		if n == 1 {
			editErr = seq.AddClick(Point{X: 9, Y: 9}, ButtonLeft)
		}
	}

	s := DefaultSettings()
	s.Sequence = seq
	require.NoError(t, c.StartSequence(s))
	require.NoError(t, waitRun(t, c))

	assert.ErrorIs(t, editErr, ErrSequenceLocked)
	assert.Len(t, act.clicks(), 3)
	assert.NoError(t, seq.AddClick(Point{X: 9, Y: 9}, ButtonLeft))
	assert.Equal(t, 4, seq.Len())
}

func TestSequenceHumanizedTiming(t *testing.T) {
	act := &fakeActuator{}
	sleeper := &fakeSleeper{}
	actions := []ClickAction{{Position: Point{X: 5, Y: 5}, DelayAfterMs: 1000, HoldDurationMs: 100}}

	p := &SequencePlayer{
		Settings: ClickSettings{SequenceRepeat: 50, IntervalMs: 0, Humanization: &Humanization{Variation: 0.2}},
		Actions:  actions,
		Actuator: act,
		Sleep:    sleeper.Sleep,
	}
	n, err := p.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 50, n)

	for _, cl := range act.clicks() {
		assert.GreaterOrEqual(t, cl.Hold, 80*time.Millisecond)
		assert.LessOrEqual(t, cl.Hold, 120*time.Millisecond)
	}
	for _, d := range sleeper.recorded() {
		if d == time.Millisecond {
			// inter-repeat interval clamped to 1ms
			continue
		}
		assert.GreaterOrEqual(t, d, 800*time.Millisecond)
		assert.LessOrEqual(t, d, 1200*time.Millisecond)
	}
}

func TestSubscribeSlowListenerDoesNotStall(t *testing.T) {
	act := &fakeActuator{}
	c := newTestController(t, act, (&fakeSleeper{}).Sleep)

	block := make(chan struct{})
	unsubscribe := c.Subscribe(func(Event) { <-block })
	defer unsubscribe()
	defer close(block)

	require.NoError(t, c.StartSingle(singleSettings(10, FixedCount(500))))
	require.NoError(t, waitRun(t, c))
	assert.Len(t, act.clicks(), 500)
}
