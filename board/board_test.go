package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFENRoundTrip(t *testing.T) {
	for _, fen := range []string{
		FENStartPos,
		"r1bqkbnr/pppp1ppp/2n5/1B2p3/4P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3",
		"8/8/8/8/8/5k2/8/K6R w - - 0 1",
	} {
		b, err := FromFEN(fen)
		require.NoError(t, err)
		require.Equal(t, fen, b.FEN())
		require.NoError(t, b.Verify())
	}
}

func perftCount(b *Board, depth int) int64 {
	if depth == 0 {
		return 1
	}
	var moves []Move
	b.GenerateMoves(All, &moves)
	var nodes int64
	us := b.SideToMove
	for _, m := range moves {
		b.DoMove(m)
		if !b.IsChecked(us) {
			nodes += perftCount(b, depth-1)
		}
		b.UndoMove(m)
	}
	return nodes
}

func TestPerftStartPos(t *testing.T) {
	b, err := FromFEN(FENStartPos)
	require.NoError(t, err)

	// Well-known perft node counts for the initial position.
	require.Equal(t, int64(20), perftCount(b, 1))
	require.Equal(t, int64(400), perftCount(b, 2))
	require.Equal(t, int64(8902), perftCount(b, 3))
}

func TestPerftKiwipete(t *testing.T) {
	b, err := FromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	require.Equal(t, int64(48), perftCount(b, 1))
	require.Equal(t, int64(2039), perftCount(b, 2))
}

func TestUCIMoveRoundTrip(t *testing.T) {
	b, err := FromFEN(FENStartPos)
	require.NoError(t, err)

	m, err := b.UCIToMove("e2e4")
	require.NoError(t, err)
	require.Equal(t, "e2e4", m.UCI())
	require.Equal(t, Normal, m.MoveType)

	b.DoMove(m)
	require.Equal(t, Black, b.SideToMove)
	// No black pawn stands beside e4, so no capturable target is recorded.
	require.Equal(t, SquareA1, b.EnpassantSquare())
	b.UndoMove(m)
	require.Equal(t, White, b.SideToMove)
	require.Equal(t, SquareA1, b.EnpassantSquare())
}

func TestZobristRestoredAfterUndo(t *testing.T) {
	b, err := FromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	before := b.Zobrist()

	var moves []Move
	b.GenerateMoves(All, &moves)
	for _, m := range moves {
		b.DoMove(m)
		after := b.Zobrist()
		require.NotEqual(t, before, after, "move %v should change the hash", m)
		b.UndoMove(m)
		require.Equal(t, before, b.Zobrist(), "undo of %v should restore the hash", m)
	}
}

func TestCastlingRightsLostOnRookCapture(t *testing.T) {
	b, err := FromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	m, err := b.UCIToMove("a1a8")
	require.NoError(t, err)
	b.DoMove(m)
	require.Equal(t, WhiteOO|BlackOO, b.CastlingAbility())
}
