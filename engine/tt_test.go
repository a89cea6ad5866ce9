package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"corvid/board"
	"corvid/score"
)

func TestTTStoreProbeRoundTrip(t *testing.T) {
	tt := NewTT(1)
	hash := uint64(0xdeadbeef)
	m := board.Move{From: board.RankFile(1, 4), To: board.RankFile(3, 4), MoveType: board.Normal, Target: board.WhitePawn}

	tt.Store(hash, 0, 8, 120, true, 100, -score.Inf, score.Inf, m)

	r, ok := tt.Probe(hash, 0)
	require.True(t, ok)
	require.Equal(t, score.Score(120), r.Value)
	require.Equal(t, score.BoundExact, r.Bound)
	require.Equal(t, m, r.Move)
	require.True(t, r.HasStatic)
	require.Equal(t, score.Score(100), r.StaticEval)
}

func TestTTProbeMissOnDifferentKey(t *testing.T) {
	tt := NewTT(1)
	tt.Store(1, 0, 4, 10, false, 0, -score.Inf, score.Inf, board.NullMove)
	_, ok := tt.Probe(2, 0)
	require.False(t, ok)
}

func TestTTDeeperEntryPreferredOnProbe(t *testing.T) {
	tt := NewTT(1)
	// Two different keys sharing a cluster would be unusual to force
	// deterministically; instead store the same key twice at different
	// depths and confirm the deeper one wins the replacement and is
	// retrieved.
	hash := uint64(42)
	tt.Store(hash, 0, 3, 10, false, 0, -score.Inf, score.Inf, board.NullMove)
	tt.Store(hash, 0, 10, 20, false, 0, -score.Inf, score.Inf, board.NullMove)

	r, ok := tt.Probe(hash, 0)
	require.True(t, ok)
	require.Equal(t, int32(10), r.Depth)
	require.Equal(t, score.Score(20), r.Value)
}

func TestTTMateScoreRenormalizedAcrossPly(t *testing.T) {
	tt := NewTT(1)
	hash := uint64(7)
	mateIn2FromPly5 := score.Mate - 2

	tt.Store(hash, 5, 4, mateIn2FromPly5, false, 0, -score.Inf, score.Inf, board.NullMove)

	r, ok := tt.Probe(hash, 5)
	require.True(t, ok)
	require.Equal(t, mateIn2FromPly5, r.Value)

	r2, ok := tt.Probe(hash, 3)
	require.True(t, ok)
	require.Equal(t, mateIn2FromPly5+2, r2.Value)
}

func TestTTClearRemovesEntries(t *testing.T) {
	tt := NewTT(1)
	tt.Store(1, 0, 4, 10, false, 0, -score.Inf, score.Inf, board.NullMove)
	tt.Clear()
	_, ok := tt.Probe(1, 0)
	require.False(t, ok)
}

func TestTTMinimumSize(t *testing.T) {
	tt := NewTT(0)
	require.GreaterOrEqual(t, len(tt.clusters), minClusters)
}

func TestQTTInCheckDoesNotCollideWithAtRest(t *testing.T) {
	qtt := NewQTT(1)
	hash := uint64(99)

	qtt.Store(hash, false, 50, -score.Inf, score.Inf, board.NullMove)
	qtt.Store(hash, true, -50, -score.Inf, score.Inf, board.NullMove)

	r1, ok1 := qtt.Probe(hash, false)
	require.True(t, ok1)
	require.Equal(t, score.Score(50), r1.Value)

	r2, ok2 := qtt.Probe(hash, true)
	require.True(t, ok2)
	require.Equal(t, score.Score(-50), r2.Value)
}
