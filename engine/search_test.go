package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"corvid/board"
	"corvid/eval/hce"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := DefaultEngineConfig()
	cfg.UseNNUE = false
	eval := NewEvaluator(hce.Evaluator{}, nil, false)
	return NewEngine(cfg, eval)
}

func TestEngineFindsMateInOne(t *testing.T) {
	b, err := board.FromFEN(fenMateInOne)
	require.NoError(t, err)

	e := newTestEngine(t)
	e.SetPosition(b)
	tc := NewTimeControl(SideWhite, GoParams{Depth: 3})
	pv := e.Play(tc)

	require.NotEmpty(t, pv)
	require.Equal(t, "a1a8", pv[0].UCI())
}

func TestEngineRecognizesStalemateAsDraw(t *testing.T) {
	b, err := board.FromFEN(fenStalemate)
	require.NoError(t, err)

	e := newTestEngine(t)
	e.SetPosition(b)

	// Stalemate has no "end position" rule to trigger (no repetition, no
	// fifty-move, enough material); it is detected by the search finding
	// zero legal moves while not in check, checked directly here.
	moves := orderMoves(b, board.NullMove, [2]board.Move{}, &e.hist, continuationContext{})
	legal := 0
	for _, m := range moves {
		b.DoMove(m)
		if !b.IsChecked(b.SideToMove.Other()) {
			legal++
		}
		b.UndoMove(m)
	}
	require.Zero(t, legal, "stalemate position must have no legal moves")
	require.False(t, b.IsChecked(b.SideToMove))
}

func TestEngineStopsAtExactMoveTime(t *testing.T) {
	b, err := board.FromFEN(board.FENStartPos)
	require.NoError(t, err)

	e := newTestEngine(t)
	e.SetPosition(b)
	tc := NewTimeControl(SideWhite, GoParams{MoveTime: 50 * time.Millisecond})

	start := time.Now()
	pv := e.Play(tc)
	elapsed := time.Since(start)

	require.NotEmpty(t, pv)
	require.Less(t, elapsed, 2*time.Second)
}

func TestEngineNewGameClearsState(t *testing.T) {
	b, err := board.FromFEN(board.FENStartPos)
	require.NoError(t, err)

	e := newTestEngine(t)
	e.SetPosition(b)
	e2, e4 := board.RankFile(1, 4), board.RankFile(3, 4)
	e.hist.quiet.update(board.White, false, e2, e4, 500)
	require.NotZero(t, e.hist.quiet.get(board.White, false, e2, e4))

	e.NewGame()
	require.Zero(t, e.hist.quiet.get(board.White, false, e2, e4))
}

func TestIsDeadDrawDetectsKingVsKing(t *testing.T) {
	b, err := board.FromFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	require.True(t, isDeadDraw(b))
}

func TestIsDeadDrawFalseWithRook(t *testing.T) {
	b, err := board.FromFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	require.NoError(t, err)
	require.False(t, isDeadDraw(b))
}
