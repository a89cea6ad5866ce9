package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"corvid/board"
)

func findMove(t *testing.T, b *board.Board, uci string) board.Move {
	t.Helper()
	var moves []board.Move
	b.GenerateMoves(board.All, &moves)
	for _, m := range moves {
		if m.UCI() == uci {
			return m
		}
	}
	t.Fatalf("move %s not found among pseudo-legal moves", uci)
	return board.Move{}
}

func TestSeeWinningPawnTakesQueen(t *testing.T) {
	// Black queen on d5 hangs to the white pawn on e4; nothing recaptures.
	b, err := board.FromFEN("4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	m := findMove(t, b, "e4d5")
	require.True(t, m.IsCapture())
	require.Greater(t, see(b, m), int32(0))
	require.False(t, seeSign(b, m))
}

func TestSeeLosingQueenTakesDefendedPawn(t *testing.T) {
	// White queen takes a pawn on d5 defended by a black knight on f6: a
	// clear material loss for White.
	b, err := board.FromFEN("4k3/8/5n2/3p4/8/8/3Q4/4K3 w - - 0 1")
	require.NoError(t, err)
	m := findMove(t, b, "d2d5")
	require.True(t, seeSign(b, m), "queen takes pawn defended by a knight should be a losing capture")
	require.Less(t, see(b, m), int32(0))
}

func TestSeeEqualTrade(t *testing.T) {
	// White rook takes a black rook on d5, recaptured by a black rook on d8;
	// a straight even trade.
	b, err := board.FromFEN("3rk3/8/8/3r4/8/8/8/3RK3 w - - 0 1")
	require.NoError(t, err)
	m := findMove(t, b, "d1d5")
	require.Equal(t, int32(0), see(b, m))
}
