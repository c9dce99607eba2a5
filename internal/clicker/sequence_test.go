package clicker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceBounds(t *testing.T) {
	assert.Equal(t, Rect{}, NewSequence().Bounds())

	var nilSeq *Sequence
	assert.Equal(t, Rect{}, nilSeq.Bounds())

	seq := NewSequence(
		ClickAction{Position: Point{X: 10, Y: 20}},
		ClickAction{Position: Point{X: 30, Y: 5}},
	)
	assert.Equal(t, Rect{MinX: 10, MinY: 5, MaxX: 30, MaxY: 20}, seq.Bounds())
}

func TestEstimatedDuration(t *testing.T) {
	tests := []struct {
		name     string
		delays   []int
		repeat   int
		interval int
		want     time.Duration
	}{
		{"three repeats", []int{100, 200}, 3, 50, 1000 * time.Millisecond},
		{"single pass ignores interval", []int{100, 200}, 1, 5000, 300 * time.Millisecond},
		{"repeat below one counts once", []int{40}, 0, 10, 40 * time.Millisecond},
		{"empty", nil, 4, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := NewSequence()
			for _, d := range tt.delays {
				require.NoError(t, seq.Add(ClickAction{DelayAfterMs: d}))
			}
			assert.Equal(t, tt.want, seq.EstimatedDuration(tt.repeat, tt.interval))
		})
	}
}

func TestSequenceEditing(t *testing.T) {
	seq := NewSequence()
	for i := 0; i < 4; i++ {
		require.NoError(t, seq.AddClick(Point{X: i}, ButtonLeft))
	}
	xs := func() []int {
		var out []int
		for _, a := range seq.Actions() {
			out = append(out, a.Position.X)
		}
		return out
	}

	first := seq.Actions()[0]
	assert.Equal(t, DefaultDelayAfterMs, first.DelayAfterMs)
	assert.Equal(t, DefaultHoldMs, first.HoldDurationMs)

	require.NoError(t, seq.Move(0, 3))
	assert.Equal(t, []int{1, 2, 3, 0}, xs())

	require.NoError(t, seq.Move(3, 1))
	assert.Equal(t, []int{1, 0, 2, 3}, xs())

	require.NoError(t, seq.Remove(2))
	assert.Equal(t, []int{1, 0, 3}, xs())

	assert.ErrorIs(t, seq.Remove(3), ErrIndexOutOfRange)
	assert.ErrorIs(t, seq.Remove(-1), ErrIndexOutOfRange)
	assert.ErrorIs(t, seq.Move(0, 5), ErrIndexOutOfRange)

	require.NoError(t, seq.Replace([]ClickAction{{Position: Point{X: 42}}}))
	assert.Equal(t, []int{42}, xs())

	require.NoError(t, seq.Clear())
	assert.Zero(t, seq.Len())
}

func TestSequenceActionsIsCopy(t *testing.T) {
	seq := NewSequence(ClickAction{Position: Point{X: 1}})
	actions := seq.Actions()
	actions[0].Position.X = 99
	assert.Equal(t, 1, seq.Actions()[0].Position.X)
}

func TestNilSequenceReads(t *testing.T) {
	var seq *Sequence
	assert.Zero(t, seq.Len())
	assert.Nil(t, seq.Actions())
	assert.False(t, seq.Locked())
}

func TestSequenceLockRejectsEdits(t *testing.T) {
	seq := NewSequence(ClickAction{Position: Point{X: 1}})
	snapshot, ok := seq.acquire()
	require.True(t, ok)
	require.Len(t, snapshot, 1)
	assert.True(t, seq.Locked())

	_, again := seq.acquire()
	assert.False(t, again)

	assert.ErrorIs(t, seq.Add(ClickAction{}), ErrSequenceLocked)
	assert.ErrorIs(t, seq.Remove(0), ErrSequenceLocked)
	assert.ErrorIs(t, seq.Move(0, 0), ErrSequenceLocked)
	assert.ErrorIs(t, seq.Clear(), ErrSequenceLocked)
	assert.ErrorIs(t, seq.Replace(nil), ErrSequenceLocked)

	seq.release()
	assert.False(t, seq.Locked())
	assert.NoError(t, seq.Clear())
}

func TestParseButtonAndStyle(t *testing.T) {
	b, err := ParseButton("Right")
	require.NoError(t, err)
	assert.Equal(t, ButtonRight, b)

	b, err = ParseButton("center")
	require.NoError(t, err)
	assert.Equal(t, ButtonMiddle, b)

	_, err = ParseButton("thumb")
	assert.Error(t, err)

	st, err := ParseStyle("triple")
	require.NoError(t, err)
	assert.Equal(t, 3, st.Presses())

	_, err = ParseStyle("quad")
	assert.Error(t, err)
}
