package platform

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/stigoleg/autoclick/internal/clicker"
)

// DryRunClick is a click recorded by DryRun.
type DryRunClick struct {
	Button clicker.Button
	Pos    clicker.Point
	Hold   time.Duration
}

// DryRun logs clicks instead of performing them. Its virtual cursor follows
// the last click.
type DryRun struct {
	logger *zap.Logger

	mu     sync.Mutex
	cursor clicker.Point
	clicks []DryRunClick
}

// NewDryRun creates a dry-run actuator with the cursor at start.
func NewDryRun(logger *zap.Logger, start clicker.Point) *DryRun {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DryRun{logger: logger, cursor: start}
}

// Click implements clicker.PointerActuator.
func (d *DryRun) Click(_ context.Context, button clicker.Button, pos clicker.Point, hold time.Duration) error {
	d.mu.Lock()
	d.cursor = pos
	d.clicks = append(d.clicks, DryRunClick{Button: button, Pos: pos, Hold: hold})
	d.mu.Unlock()

	d.logger.Info("platform: dry-run click",
		zap.Stringer("button", button),
		zap.Int("x", pos.X),
		zap.Int("y", pos.Y),
		zap.Duration("hold", hold),
	)
	return nil
}

// CurrentPosition implements clicker.PointerActuator.
func (d *DryRun) CurrentPosition(context.Context) (clicker.Point, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor, nil
}

// Clicks returns every click seen so far.
func (d *DryRun) Clicks() []DryRunClick {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DryRunClick, len(d.clicks))
	copy(out, d.clicks)
	return out
}

// Close implements Actuator.
func (d *DryRun) Close() error {
	d.logger.Debug("platform: dry-run closed")
	return nil
}
