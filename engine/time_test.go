package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewTimeControlExactMoveTime(t *testing.T) {
	tc := NewTimeControl(SideWhite, GoParams{MoveTime: 500 * time.Millisecond})
	require.Equal(t, modeExact, tc.mode)
	require.Equal(t, 500*time.Millisecond, tc.hard)
}

func TestNewTimeControlDepthOnly(t *testing.T) {
	tc := NewTimeControl(SideWhite, GoParams{Depth: 6})
	require.Equal(t, modeDepthOnly, tc.mode)
	require.True(t, tc.NextDepth(6))
	require.False(t, tc.NextDepth(7))
}

func TestNewTimeControlSingleLegalMoveIsQuick(t *testing.T) {
	tc := NewTimeControl(SideWhite, GoParams{
		WTime: 5 * time.Minute, NumLegalMoves: 1,
	})
	require.Equal(t, modeExact, tc.mode)
	require.Equal(t, 100*time.Millisecond, tc.hard)
}

func TestNewTimeControlManagedDerivesFromClock(t *testing.T) {
	tc := NewTimeControl(SideWhite, GoParams{
		WTime: 60 * time.Second, WInc: 0, MovesToGo: 30,
	})
	require.Equal(t, modeManaged, tc.mode)
	require.Greater(t, tc.hard, time.Duration(0))
	require.Less(t, tc.target, tc.hard)
}

func TestRecordIterationClampsToRange(t *testing.T) {
	tc := NewTimeControl(SideWhite, GoParams{WTime: 60 * time.Second, MovesToGo: 30})
	hard := tc.hard

	tc.RecordIteration(10*time.Millisecond, true, true, true)
	require.LessOrEqual(t, tc.target, time.Duration(0.95*float64(hard)))
	require.GreaterOrEqual(t, tc.target, time.Duration(0.3*float64(hard)))
}

func TestStopIsIdempotentAndInvokesCallbackOnce(t *testing.T) {
	tc := NewTimeControl(SideWhite, GoParams{Depth: 4})
	calls := 0
	tc.Start(func() { calls++ })
	tc.Stop()
	tc.Stop()
	require.Equal(t, 1, calls)
	require.True(t, tc.Stopped())
}
