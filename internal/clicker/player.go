package clicker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/stigoleg/autoclick/internal/jitter"
)

// SequencePlayer replays an ordered list of actions, optionally several times.
type SequencePlayer struct {
	Settings ClickSettings
	// Actions is the snapshot to play. The controller fills it from
	// Settings.Sequence while holding the sequence lock.
	Actions  []ClickAction
	Actuator PointerActuator
	Jitter   *jitter.Source
	Sleep    Sleeper
	Logger   *zap.Logger
}

// Run plays the sequence and returns the number of completed passes. An
// empty sequence returns immediately. Cancellation aborts the current pass
// and is not reported as an error.
func (p *SequencePlayer) Run(ctx context.Context, report func(Progress)) (int, error) {
	if len(p.Actions) == 0 {
		return 0, nil
	}
	p.defaults()
	cfg := p.Settings

	total := max(1, cfg.SequenceRepeat)
	variation := cfg.Humanization.fraction()
	pressCtx := context.WithoutCancel(ctx)

	passes := 0
	for passes < total {
		if passes > 0 {
			if err := p.Sleep(ctx, millis(max(1, cfg.IntervalMs))); err != nil {
				return passes, nil
			}
		}

		finished, err := p.playPass(ctx, pressCtx, variation)
		if err != nil {
			return passes, fmt.Errorf("pass %d: %w", passes+1, err)
		}
		if !finished {
			return passes, nil
		}
		passes++

		if report != nil {
			report(Progress{Completed: passes, Total: total, Percent: percent(passes, total)})
		}
	}
	return passes, nil
}

// playPass runs every action once. It reports false when cancellation cut
// the pass short.
func (p *SequencePlayer) playPass(ctx, pressCtx context.Context, variation float64) (bool, error) {
	cfg := p.Settings
	for i, action := range p.Actions {
		if ctx.Err() != nil {
			return false, nil
		}

		pos := action.Position
		if r := cfg.Randomization; r != nil {
			pos.X, pos.Y = p.Jitter.Position(pos.X, pos.Y, r.RangeX, r.RangeY)
		}
		hold := p.Jitter.HoldDuration(action.HoldDurationMs, variation)

		if err := p.Actuator.Click(pressCtx, action.Button, pos, millis(hold)); err != nil {
			return false, fmt.Errorf("action %d: %w", i+1, err)
		}
		p.Logger.Debug("clicker: sequence action",
			zap.Int("index", i),
			zap.Stringer("button", action.Button),
			zap.Stringer("pos", pos),
			zap.Int("hold_ms", hold),
		)

		if action.DelayAfterMs > 0 {
			delay := p.Jitter.Delay(action.DelayAfterMs, nil, variation)
			if err := p.Sleep(ctx, millis(delay)); err != nil {
				return false, nil
			}
		}
	}
	return true, nil
}

func (p *SequencePlayer) defaults() {
	if p.Jitter == nil {
		p.Jitter = jitter.NewRandom()
	}
	if p.Sleep == nil {
		p.Sleep = Sleep
	}
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
}
