package clicker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/stigoleg/autoclick/internal/jitter"
)

// SingleShotScheduler clicks repeatedly on an interval until its count is
// reached or its context is cancelled.
type SingleShotScheduler struct {
	Settings ClickSettings
	Actuator PointerActuator
	Jitter   *jitter.Source
	Sleep    Sleeper
	Logger   *zap.Logger
}

// Run executes the schedule and returns the number of completed clicks.
// Cancellation is a normal exit and yields a nil error; actuator failures end
// the run immediately and are returned.
func (s *SingleShotScheduler) Run(ctx context.Context, report func(Progress)) (int, error) {
	s.defaults()
	cfg := s.Settings

	total := 0
	if !cfg.Repeat.Infinite {
		total = cfg.Repeat.Count
	}
	variation := cfg.Humanization.fraction()
	// Presses run on a context detached from cancellation so a stop request
	// never leaves a button held down.
	pressCtx := context.WithoutCancel(ctx)

	completed := 0
	for {
		if ctx.Err() != nil {
			return completed, nil
		}

		interval := s.Jitter.Delay(cfg.IntervalMs, cfg.Randomization.delayRange(), variation)
		if err := s.Sleep(ctx, millis(interval)); err != nil {
			return completed, nil
		}

		pos, err := s.resolvePosition(pressCtx)
		if err != nil {
			return completed, fmt.Errorf("resolve click position: %w", err)
		}

		if err := s.press(pressCtx, pos, variation); err != nil {
			return completed, fmt.Errorf("click %d: %w", completed+1, err)
		}
		completed++

		if report != nil {
			report(Progress{Completed: completed, Total: total, Percent: percent(completed, total)})
		}

		if !cfg.Repeat.Infinite && completed >= total {
			return completed, nil
		}
	}
}

func (s *SingleShotScheduler) defaults() {
	if s.Jitter == nil {
		s.Jitter = jitter.NewRandom()
	}
	if s.Sleep == nil {
		s.Sleep = Sleep
	}
	if s.Logger == nil {
		s.Logger = zap.NewNop()
	}
}

func (s *SingleShotScheduler) resolvePosition(ctx context.Context) (Point, error) {
	cfg := s.Settings
	pos := cfg.Target.Position
	if cfg.Target.UseCursor {
		p, err := s.Actuator.CurrentPosition(ctx)
		if err != nil {
			return Point{}, err
		}
		pos = p
	}
	if r := cfg.Randomization; r != nil {
		pos.X, pos.Y = s.Jitter.Position(pos.X, pos.Y, r.RangeX, r.RangeY)
	}
	return pos, nil
}

// press performs every press of the configured style. The gaps between the
// presses of a double or triple click are part of the same atomic step.
func (s *SingleShotScheduler) press(ctx context.Context, pos Point, variation float64) error {
	cfg := s.Settings
	presses := cfg.Style.Presses()
	for i := 0; i < presses; i++ {
		if i > 0 {
			if err := s.Sleep(ctx, MultiClickGap); err != nil {
				return err
			}
		}
		hold := s.Jitter.HoldDuration(cfg.HoldDurationMs, variation)
		if err := s.Actuator.Click(ctx, cfg.Button, pos, millis(hold)); err != nil {
			return err
		}
		s.Logger.Debug("clicker: press",
			zap.Stringer("button", cfg.Button),
			zap.Stringer("pos", pos),
			zap.Int("hold_ms", hold),
		)
	}
	return nil
}
