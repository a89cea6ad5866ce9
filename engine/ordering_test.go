package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"corvid/board"
)

func TestOrderMovesPutsTTMoveFirst(t *testing.T) {
	b, err := board.FromFEN(board.FENStartPos)
	require.NoError(t, err)

	tt := findMove(t, b, "d2d4")
	var hist historyTables
	moves := orderMoves(b, tt, [2]board.Move{}, &hist, continuationContext{})

	require.NotEmpty(t, moves)
	require.Equal(t, tt, moves[0])
}

func TestOrderMovesGoodCaptureBeforeQuiets(t *testing.T) {
	// White knight on e4 can take a hanging black queen on d6; plenty of
	// quiet moves exist too.
	b, err := board.FromFEN("4k3/8/3q4/8/4N3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	var hist historyTables
	moves := orderMoves(b, board.NullMove, [2]board.Move{}, &hist, continuationContext{})
	require.NotEmpty(t, moves)
	require.Equal(t, "e4d6", moves[0].UCI())
}

func TestOrderMovesKillerSurfacesAboveOtherQuiets(t *testing.T) {
	b, err := board.FromFEN(board.FENStartPos)
	require.NoError(t, err)

	killer := findMove(t, b, "g1f3")
	var hist historyTables
	moves := orderMoves(b, board.NullMove, [2]board.Move{killer, board.NullMove}, &hist, continuationContext{})

	require.Equal(t, killer, moves[0])
}

func TestOrderQuiescenceMovesInCheckYieldsAllMoves(t *testing.T) {
	// Black king in check from the white queen on e8, with two legal
	// evasions available.
	b, err := board.FromFEN("4Q1k1/8/8/8/8/8/8/4K3 b - - 0 1")
	require.NoError(t, err)
	require.True(t, b.IsChecked(board.Black))

	var hist historyTables
	moves := orderQuiescenceMoves(b, true, &hist)
	var expect []board.Move
	b.GenerateMoves(board.All, &expect)
	require.Equal(t, len(expect), len(moves))
}

func TestOrderQuiescenceMovesNotInCheckOnlyCaptures(t *testing.T) {
	b, err := board.FromFEN("4k3/8/3q4/8/4N3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	var hist historyTables
	moves := orderQuiescenceMoves(b, false, &hist)
	for _, m := range moves {
		require.True(t, m.IsCapture())
	}
	require.Equal(t, "e4d6", moves[0].UCI())
}
