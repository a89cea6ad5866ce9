package score

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMateNormalizationRoundTrip(t *testing.T) {
	s := Mate - 5
	require.True(t, s.IsMate())
	tt := s.ToTT(3)
	require.Equal(t, s, tt.FromTT(3))
}

func TestMateInMatchesBestMoveDistance(t *testing.T) {
	// A mate stored as Mate-1 (mate delivered by the very next move) should
	// report a 1-move mate.
	require.Equal(t, 1, (Mate - 1).MateIn())
	require.Equal(t, -1, (-Mate + 1).MateIn())
}

func TestClassify(t *testing.T) {
	require.Equal(t, BoundUpper, Classify(10, 20, 30))
	require.Equal(t, BoundLower, Classify(40, 20, 30))
	require.Equal(t, BoundExact, Classify(25, 20, 30))
}

func TestScoreBoundedByInf(t *testing.T) {
	require.True(t, Inf > MateBound)
	require.True(t, MateBound < Mate)
	require.True(t, Mate < Inf)
}

func TestUCIRendering(t *testing.T) {
	require.Equal(t, "cp 34", Score(34).UCI())
	require.Equal(t, "mate 1", (Mate - 1).UCI())
	require.Equal(t, "mate -2", (-Mate + 3).UCI())
}
