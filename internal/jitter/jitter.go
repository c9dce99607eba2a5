// Package jitter computes randomized click delays, hold durations and
// position offsets.
package jitter

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"
)

const (
	// MinDelayMs is the floor applied to every computed delay.
	MinDelayMs = 1

	// MinHoldMs is the floor applied to every computed hold duration.
	MinHoldMs = 10

	// MaxDelayMs caps delays, hold durations and range bounds at one day.
	MaxDelayMs = 24 * 60 * 60 * 1000

	// MaxOffsetPx caps the position offset range on either axis.
	MaxOffsetPx = 100_000
)

// Range is an inclusive [Min, Max] millisecond range.
type Range struct {
	Min int
	Max int
}

// Normalized returns the range with its bounds in ascending order.
func (r Range) Normalized() Range {
	if r.Min > r.Max {
		return Range{Min: r.Max, Max: r.Min}
	}
	return r
}

// Source draws jitter values. A Source is safe for concurrent use; the
// controller creates one per run so consecutive draws come from a single
// well-seeded generator instead of a fresh low-entropy one per call.
type Source struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New creates a source with a fixed seed, mainly for tests.
func New(seed int64) *Source {
	return &Source{rnd: rand.New(rand.NewSource(seed))}
}

// NewRandom creates a source seeded from the operating system's entropy pool.
func NewRandom() *Source {
	return New(randomSeed())
}

func randomSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// between returns a uniform integer in [lo, hi]. Callers guarantee lo <= hi
// and that both bounds lie within ±MaxDelayMs, so the span fits an int64.
func (s *Source) between(lo, hi int) int {
	if lo >= hi {
		return lo
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + int(s.rnd.Int63n(int64(hi)-int64(lo)+1))
}

// Delay returns the delay in milliseconds for the next action. When r is
// non-nil the value is drawn from the range and base is ignored. A positive
// variation then perturbs the value by up to ±value*variation. The result
// lies in [MinDelayMs, MaxDelayMs].
func (s *Source) Delay(base int, r *Range, variation float64) int {
	v := clamp(base, 0, MaxDelayMs)
	if r != nil {
		n := r.Normalized()
		v = s.between(clamp(n.Min, 0, MaxDelayMs), clamp(n.Max, 0, MaxDelayMs))
	}
	return clamp(s.humanize(v, variation), MinDelayMs, MaxDelayMs)
}

// HoldDuration returns a humanized press duration in milliseconds within
// [MinHoldMs, MaxDelayMs].
func (s *Source) HoldDuration(base int, variation float64) int {
	v := s.humanize(clamp(base, 0, MaxDelayMs), variation)
	return clamp(v, MinHoldMs, MaxDelayMs)
}

// Position offsets (x, y) by independent uniform amounts in
// [-rangeX, rangeX] and [-rangeY, rangeY]. Ranges are capped at MaxOffsetPx.
func (s *Source) Position(x, y, rangeX, rangeY int) (int, int) {
	rangeX, rangeY = offsetRange(rangeX), offsetRange(rangeY)
	return x + s.between(-rangeX, rangeX), y + s.between(-rangeY, rangeY)
}

// humanize expects v in [0, MaxDelayMs].
func (s *Source) humanize(v int, variation float64) int {
	variation = ClampVariation(variation)
	if variation == 0 {
		return v
	}
	spread := int(float64(v) * variation)
	if spread <= 0 {
		return v
	}
	return v + s.between(-spread, spread)
}

// ClampVariation limits a humanization fraction to [0, 1].
func ClampVariation(f float64) float64 {
	switch {
	case f != f, f <= 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func offsetRange(r int) int {
	if r < 0 {
		if r < -MaxOffsetPx {
			return MaxOffsetPx
		}
		r = -r
	}
	return min(r, MaxOffsetPx)
}
