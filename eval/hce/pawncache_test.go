package hce

import (
	"testing"

	"github.com/stretchr/testify/require"

	"corvid/board"
)

// TestCachedPawnStructureScoreMatchesUncached checks the cache is purely an
// optimization: a hit must return the same value an uncached computation
// would, and probing twice with the same bitboards must hit the cache.
func TestCachedPawnStructureScoreMatchesUncached(t *testing.T) {
	b, err := board.FromFEN(board.FENStartPos)
	require.NoError(t, err)

	ours := b.ByPiece(board.White, board.Pawn)
	theirs := b.ByPiece(board.Black, board.Pawn)

	want := pawnStructureScore(board.White, ours, theirs)
	got := cachedPawnStructureScore(board.White, ours, theirs)
	require.Equal(t, want, got)

	// Second probe must come from the cache and still agree.
	_, hit := pawnCaches[board.White].get(ours, theirs)
	require.True(t, hit)
	got2 := cachedPawnStructureScore(board.White, ours, theirs)
	require.Equal(t, want, got2)
}
