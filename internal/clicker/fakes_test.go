package clicker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stigoleg/autoclick/internal/jitter"
)

var errBoom = errors.New("boom")

type click struct {
	Button Button
	Pos    Point
	Hold   time.Duration
}

type fakeActuator struct {
	mu     sync.Mutex
	calls  []click
	cursor Point
	failAt int
	// onClick runs after the n-th click (1-based) outside the lock.
	onClick func(n int)
}

func (f *fakeActuator) Click(_ context.Context, button Button, pos Point, hold time.Duration) error {
	f.mu.Lock()
	f.calls = append(f.calls, click{Button: button, Pos: pos, Hold: hold})
	n := len(f.calls)
	hook := f.onClick
	fail := f.failAt > 0 && n == f.failAt
	f.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	if fail {
		return errBoom
	}
	return nil
}

func (f *fakeActuator) CurrentPosition(context.Context) (Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursor, nil
}

func (f *fakeActuator) clicks() []click {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]click, len(f.calls))
	copy(out, f.calls)
	return out
}

// fakeSleeper records requested waits and returns at once unless the context
// is already done.
type fakeSleeper struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (f *fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.waits = append(f.waits, d)
	f.mu.Unlock()
	return nil
}

func (f *fakeSleeper) recorded() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Duration, len(f.waits))
	copy(out, f.waits)
	return out
}

func newTestController(t *testing.T, act PointerActuator, sleep Sleeper) *Controller {
	t.Helper()
	c, err := NewController(Options{
		Actuator:  act,
		Sleep:     sleep,
		NewJitter: func() *jitter.Source { return jitter.New(42) },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// collect reads events until a stopped event arrives.
func collect(t *testing.T, ch <-chan Event) []Event {
	t.Helper()
	var out []Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-ch:
			out = append(out, ev)
			if ev.Kind == EventStopped {
				return out
			}
		case <-timeout:
			t.Fatalf("no stopped event after %d events", len(out))
			return out
		}
	}
}

func progressOf(events []Event) []Progress {
	var out []Progress
	for _, ev := range events {
		if ev.Kind == EventProgress {
			out = append(out, ev.Progress)
		}
	}
	return out
}

func waitRun(t *testing.T, c *Controller) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := c.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded, "run did not finish in time")
	return err
}
