package clicker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stigoleg/autoclick/internal/jitter"
)

// State is the lifecycle state of a Controller.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCancelling
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCancelling:
		return "cancelling"
	default:
		return "unknown"
	}
}

// Options configures a Controller.
type Options struct {
	// Actuator performs the clicks. Required.
	Actuator PointerActuator
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// Sleep defaults to the timer-based Sleep.
	Sleep Sleeper
	// NewJitter builds the random source for each run. Defaults to
	// jitter.NewRandom.
	NewJitter func() *jitter.Source
	// Now defaults to time.Now.
	Now func() time.Time
	// QueueLimit bounds each subscriber's pending events.
	QueueLimit int
}

// Controller runs at most one click schedule at a time and publishes its
// lifecycle to subscribers.
type Controller struct {
	actuator  PointerActuator
	logger    *zap.Logger
	sleep     Sleeper
	newJitter func() *jitter.Source
	now       func() time.Time
	events    *broadcaster

	mu    sync.Mutex
	state State
	cur   *run
	last  *run
}

type run struct {
	id     uuid.UUID
	mode   Mode
	cancel context.CancelFunc
	done   chan struct{}

	// err is written once before done is closed.
	err error
}

// NewController creates an idle controller.
func NewController(opts Options) (*Controller, error) {
	if opts.Actuator == nil {
		return nil, ErrNilActuator
	}
	c := &Controller{
		actuator:  opts.Actuator,
		logger:    opts.Logger,
		sleep:     opts.Sleep,
		newJitter: opts.NewJitter,
		now:       opts.Now,
		events:    newBroadcaster(opts.QueueLimit),
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.sleep == nil {
		c.sleep = Sleep
	}
	if c.newJitter == nil {
		c.newJitter = jitter.NewRandom
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// StartSingle begins a repeated single-click run.
func (c *Controller) StartSingle(settings ClickSettings) error {
	if err := settings.validateSingle(); err != nil {
		return err
	}
	return c.start(ModeSingle, settings, nil, func(ctx context.Context, src *jitter.Source, report func(Progress)) (int, error) {
		s := &SingleShotScheduler{
			Settings: settings,
			Actuator: c.actuator,
			Jitter:   src,
			Sleep:    c.sleep,
			Logger:   c.logger,
		}
		return s.Run(ctx, report)
	})
}

// StartSequence begins playing settings.Sequence. The sequence stays locked
// against edits until the run ends.
func (c *Controller) StartSequence(settings ClickSettings) error {
	seq := settings.Sequence
	if seq.Len() == 0 {
		return ErrEmptySequence
	}
	if err := settings.validateSequence(seq.Actions()); err != nil {
		return err
	}
	return c.start(ModeSequence, settings, seq, nil)
}

type runnerFunc func(ctx context.Context, src *jitter.Source, report func(Progress)) (int, error)

func (c *Controller) start(mode Mode, settings ClickSettings, seq *Sequence, runner runnerFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return ErrAlreadyRunning
	}

	release := func() {}
	if seq != nil {
		actions, ok := seq.acquire()
		if !ok {
			return ErrSequenceLocked
		}
		release = seq.release
		runner = func(ctx context.Context, src *jitter.Source, report func(Progress)) (int, error) {
			p := &SequencePlayer{
				Settings: settings,
				Actions:  actions,
				Actuator: c.actuator,
				Jitter:   src,
				Sleep:    c.sleep,
				Logger:   c.logger,
			}
			return p.Run(ctx, report)
		}
	}

	stopCtx, cancel := context.WithCancel(context.Background())
	runCtx, stopTimer := stopCtx, context.CancelFunc(func() {})
	if settings.MaxRuntime > 0 {
		runCtx, stopTimer = context.WithTimeout(stopCtx, settings.MaxRuntime)
	}

	r := &run{
		id:     uuid.New(),
		mode:   mode,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	c.state = StateRunning
	c.cur = r
	c.last = r

	c.logger.Info("clicker: run started",
		zap.String("run_id", r.id.String()),
		zap.Stringer("mode", mode),
		zap.Duration("max_runtime", settings.MaxRuntime),
	)
	c.events.publish(Event{Kind: EventStarted, RunID: r.id, Mode: mode, Time: c.now()})

	go c.loop(r, stopCtx, runCtx, stopTimer, release, runner)
	return nil
}

func (c *Controller) loop(r *run, stopCtx, runCtx context.Context, stopTimer, release func(), runner runnerFunc) {
	var (
		completed int
		err       error
	)
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("clicker: run panicked: %v", p)
		}
		cancelled := stopCtx.Err() != nil
		timedOut := errors.Is(runCtx.Err(), context.DeadlineExceeded)
		stopTimer()
		r.cancel()
		release()

		reason := ReasonCompleted
		switch {
		case err != nil:
			reason = ReasonFailed
		case cancelled:
			reason = ReasonCancelled
		case timedOut:
			reason = ReasonTimeLimit
		}
		r.err = err

		fields := []zap.Field{
			zap.String("run_id", r.id.String()),
			zap.Stringer("reason", reason),
			zap.Int("completed", completed),
		}
		if err != nil {
			c.logger.Error("clicker: run failed", append(fields, zap.Error(err))...)
		} else {
			c.logger.Info("clicker: run stopped", fields...)
		}

		c.mu.Lock()
		c.state = StateIdle
		c.cur = nil
		c.events.publish(Event{
			Kind:     EventStopped,
			RunID:    r.id,
			Mode:     r.mode,
			Time:     c.now(),
			Progress: Progress{Completed: completed},
			Reason:   reason,
			Err:      err,
		})
		c.mu.Unlock()
		close(r.done)
	}()

	report := func(p Progress) {
		c.events.publish(Event{Kind: EventProgress, RunID: r.id, Mode: r.mode, Time: c.now(), Progress: p})
	}
	completed, err = runner(runCtx, c.newJitter(), report)
}

// Stop requests cancellation of the active run. It is safe to call at any
// time and more than once.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRunning {
		return
	}
	c.state = StateCancelling
	c.cur.cancel()
	c.logger.Info("clicker: stop requested", zap.String("run_id", c.cur.id.String()))
}

// Wait blocks until the most recent run has ended and returns its actuator
// error, if any. It returns nil immediately if nothing was ever started.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	r := c.last
	c.mu.Unlock()
	if r == nil {
		return nil
	}
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsRunning reports whether a run is active, including one that is winding
// down after Stop.
func (c *Controller) IsRunning() bool {
	return c.State() != StateIdle
}

// RunID returns the identifier of the active run, or uuid.Nil when idle.
func (c *Controller) RunID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil {
		return uuid.Nil
	}
	return c.cur.id
}

// LastError returns the failure of the most recently finished run.
func (c *Controller) LastError() error {
	c.mu.Lock()
	r := c.last
	c.mu.Unlock()
	if r == nil {
		return nil
	}
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}

// Subscribe registers fn for every subsequent event. fn runs on a goroutine
// owned by the subscription, so a slow listener never delays the run. The
// returned function unsubscribes.
func (c *Controller) Subscribe(fn Listener) func() {
	return c.events.subscribe(fn)
}

// Events returns a channel subscription. The channel is never closed; stop
// reading after calling the returned cancel function.
func (c *Controller) Events(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)
	quit := make(chan struct{})
	unsubscribe := c.Subscribe(func(ev Event) {
		select {
		case ch <- ev:
		case <-quit:
		}
	})
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			close(quit)
			unsubscribe()
		})
	}
}

// Close stops any active run, waits for it and detaches every subscriber.
func (c *Controller) Close() error {
	c.Stop()
	err := c.Wait(context.Background())
	c.events.closeAll()
	return err
}
