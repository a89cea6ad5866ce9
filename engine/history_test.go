package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"corvid/board"
)

var (
	sqE2 = board.RankFile(1, 4)
	sqE4 = board.RankFile(3, 4)
	sqD2 = board.RankFile(1, 3)
	sqD4 = board.RankFile(3, 3)
	sqF3 = board.RankFile(2, 5)
)

func TestGravityStaysWithinBound(t *testing.T) {
	h := int32(0)
	for i := 0; i < 10000; i++ {
		h = gravity(h, historyMax)
	}
	require.LessOrEqual(t, h, int32(historyMax))
	require.GreaterOrEqual(t, h, int32(-historyMax))
}

func TestGravityMovesTowardBonusSign(t *testing.T) {
	h := gravity(0, 500)
	require.Greater(t, h, int32(0))
	h2 := gravity(h, -500)
	require.Less(t, h2, h)
}

func TestHistoryDeltaSignAndClamp(t *testing.T) {
	require.Greater(t, historyDelta(6, true), int32(0))
	require.Less(t, historyDelta(6, false), int32(0))
	require.Equal(t, historyDelta(historyMaxDepth, true), historyDelta(historyMaxDepth+50, true))
}

func TestQuietHistoryRoundTrip(t *testing.T) {
	var h quietHistory
	h.update(board.White, false, sqE2, sqE4, 300)
	require.Equal(t, int32(300), h.get(board.White, false, sqE2, sqE4))
	require.Zero(t, h.get(board.Black, false, sqE2, sqE4))
}

func TestKillerTableBubblesSlots(t *testing.T) {
	var k killerTable
	m1 := board.Move{From: sqE2, To: sqE4}
	m2 := board.Move{From: sqD2, To: sqD4}

	k.store(0, m1)
	k.store(0, m2)
	got := k.get(0)
	require.Equal(t, m2, got[0])
	require.Equal(t, m1, got[1])

	k.store(0, m2)
	got = k.get(0)
	require.Equal(t, m2, got[0], "re-storing the same killer must not duplicate it")
	require.Equal(t, m1, got[1])
}

func TestContinuationHistoryQuerySumsKnownPlanes(t *testing.T) {
	var h continuationHistory
	h.update(0, board.White, sqE4, board.SquareG1, sqF3, 100)
	h.update(1, board.White, sqD4, board.SquareG1, sqF3, 50)

	ctx := continuationContext{
		prevTo: [continuationPlanes]board.Square{sqE4, sqD4},
		known:  [continuationPlanes]bool{true, true},
	}
	require.Equal(t, int32(150), h.query(board.White, ctx, board.SquareG1, sqF3))

	ctxPartial := continuationContext{
		prevTo: [continuationPlanes]board.Square{sqE4, sqD4},
		known:  [continuationPlanes]bool{true, false},
	}
	require.Equal(t, int32(100), h.query(board.White, ctxPartial, board.SquareG1, sqF3))
}
