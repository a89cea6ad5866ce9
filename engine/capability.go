// capability.go defines the evaluator capability interfaces the search
// driver is written against. Keeping them here, rather than importing
// eval/hce and eval/nnue directly, lets engine stay decoupled from any
// concrete evaluator; only the worker/cmd composition layer wires a real
// implementation in.

package engine

import (
	"corvid/board"
	"corvid/position"
	"corvid/score"
)

// HCE is the capability a hand-crafted evaluator exposes: a name for UCI
// reporting, and a score for a Position given an externally supplied
// game-phase factor (the caller computes phase once per node and can reuse
// it for other purposes, hence it isn't the evaluator's job to derive it).
type HCE interface {
	Name() string
	Evaluate(pos *position.Position, phase int32) score.Score
}

// NNUE is the capability a neural evaluator exposes. Unlike HCE it carries
// incremental state, so the search driver must call Push/Pop in lockstep
// with DoMove/UndoMove and Reset whenever the delta model goes stale (a new
// game, or a position set from outside the search tree).
type NNUE interface {
	Name() string
	Evaluate(b *board.Board) score.Score
	Push()
	Pop()
	Reset()
}

// nonPawnPhaseValue mirrors spec.md §4.4's phase formula: knights and
// bishops count 1, rooks 2, queens 4. This is a fixed, coarse scale used only
// to blend mg/eg terms, independent of eval/hce's tuned material weights.
var nonPawnPhaseValue = [board.FigureArraySize]int32{
	board.Knight: 1, board.Bishop: 1, board.Rook: 2, board.Queen: 4,
}

// Phase returns the game-phase factor in [0,256]: 0 at full material, 256
// once all non-pawn material (capped at 24 units) has left the board.
func Phase(b *board.Board) int32 {
	var total int32
	for fig := board.Knight; fig <= board.Queen; fig++ {
		total += nonPawnPhaseValue[fig] * b.ByFigure[fig].Count()
	}
	if total > 24 {
		total = 24
	}
	return 256 - total*256/24
}

// Evaluator presents whichever evaluator is configured for a search through
// one Board-shaped call, so the search driver never needs to branch on
// which is active.
type Evaluator struct {
	hce  HCE
	nnue NNUE

	useNNUE bool
}

// NewEvaluator selects NNUE when useNNUE is true and nnue is non-nil,
// falling back to hce otherwise.
func NewEvaluator(hce HCE, nnue NNUE, useNNUE bool) *Evaluator {
	return &Evaluator{hce: hce, nnue: nnue, useNNUE: useNNUE && nnue != nil}
}

// Name reports which evaluator is active, for UCI's "id" and debug output.
func (e *Evaluator) Name() string {
	if e.useNNUE {
		return e.nnue.Name()
	}
	return e.hce.Name()
}

// Evaluate scores b from White's perspective; callers normalize to the side
// to move themselves (multiply by +1/-1).
func (e *Evaluator) Evaluate(b *board.Board) score.Score {
	if e.useNNUE {
		return e.nnue.Evaluate(b)
	}
	return e.hce.Evaluate(position.New(b), Phase(b))
}

// Push prepares the next incremental accumulator slot before a move is made.
// A no-op under HCE, which has no incremental state.
func (e *Evaluator) Push() {
	if e.useNNUE {
		e.nnue.Push()
	}
}

// Pop discards the top incremental accumulator slot after a move is undone.
func (e *Evaluator) Pop() {
	if e.useNNUE {
		e.nnue.Pop()
	}
}

// Reset clears any incremental state; called on new_game and whenever
// set_position invalidates the delta model.
func (e *Evaluator) Reset() {
	if e.useNNUE {
		e.nnue.Reset()
	}
}
