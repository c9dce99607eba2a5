package clicker

import (
	"context"
	"maps"
	"sync"
	"time"
)

// Statistics counts the clicks performed through an actuator it wraps.
type Statistics struct {
	now func() time.Time

	mu         sync.Mutex
	start      time.Time
	total      int
	failed     int
	last       time.Time
	byButton   map[Button]int
	byPosition map[Point]int
}

// StatsSnapshot is a point-in-time copy of Statistics.
type StatsSnapshot struct {
	TotalClicks      int
	SuccessfulClicks int
	FailedClicks     int
	SessionStart     time.Time
	LastClick        time.Time
	Runtime          time.Duration
	ClicksPerMinute  float64
	ByButton         map[Button]int
	ByPosition       map[Point]int
}

// NewStatistics creates an empty counter. now may be nil.
func NewStatistics(now func() time.Time) *Statistics {
	if now == nil {
		now = time.Now
	}
	s := &Statistics{now: now}
	s.Reset()
	return s
}

// Wrap returns an actuator that records every click passed to a.
func (s *Statistics) Wrap(a PointerActuator) PointerActuator {
	return &countingActuator{PointerActuator: a, stats: s}
}

// Reset clears all counters and restarts the session clock.
func (s *Statistics) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start = s.now()
	s.total, s.failed = 0, 0
	s.last = time.Time{}
	s.byButton = make(map[Button]int)
	s.byPosition = make(map[Point]int)
}

// Snapshot returns the current counters.
func (s *Statistics) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := StatsSnapshot{
		TotalClicks:      s.total,
		SuccessfulClicks: s.total - s.failed,
		FailedClicks:     s.failed,
		SessionStart:     s.start,
		LastClick:        s.last,
		Runtime:          s.now().Sub(s.start),
		ByButton:         maps.Clone(s.byButton),
		ByPosition:       maps.Clone(s.byPosition),
	}
	if mins := snap.Runtime.Minutes(); mins > 0 {
		snap.ClicksPerMinute = float64(snap.SuccessfulClicks) / mins
	}
	return snap
}

func (s *Statistics) record(button Button, pos Point, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	if err != nil {
		s.failed++
		return
	}
	s.last = s.now()
	s.byButton[button]++
	s.byPosition[pos]++
}

type countingActuator struct {
	PointerActuator
	stats *Statistics
}

func (c *countingActuator) Click(ctx context.Context, button Button, pos Point, hold time.Duration) error {
	err := c.PointerActuator.Click(ctx, button, pos, hold)
	c.stats.record(button, pos, err)
	return err
}
