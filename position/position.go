// Package position wraps a board.Board with a lazily computed, one-shot
// cache of per-color metrics (attacks, space, threats, support) shared by
// every evaluator and by move ordering. Centralizing the cache here keeps
// eval/hce and eval/nnue from depending on each other, or from recomputing
// the same attack bitboards.
package position

import "corvid/board"

// Metrics bundles the per-color bitboards derived from one board snapshot.
type Metrics struct {
	Attacks [board.ColorArraySize]board.Bitboard
	Threats [board.ColorArraySize]board.Bitboard
	Support [board.ColorArraySize]board.Bitboard
	Space   [board.ColorArraySize]int16
}

// figureValue is used only to rank attacker vs. victim for the Threats
// bitboard; it intentionally does not need to match eval/hce's tuned
// material values; a lower figure value is a bigger threat, and any
// monotonic proxy has the same ordering effect.
var figureValue = [board.FigureArraySize]int{
	board.Pawn: 1, board.Knight: 3, board.Bishop: 3, board.Rook: 5, board.Queen: 9,
}

// Position is the shared context passed to evaluators and move ordering: an
// immutable reference to a Board plus its metrics, computed at most once.
type Position struct {
	Board *board.Board

	metrics    Metrics
	haveMetric bool
}

// New wraps b. It does not copy or mutate b.
func New(b *board.Board) *Position { return &Position{Board: b} }

// Metrics returns the position's BoardMetrics, computing it on first use.
func (p *Position) Metrics() *Metrics {
	if !p.haveMetric {
		p.computeMetrics()
		p.haveMetric = true
	}
	return &p.metrics
}

func (p *Position) computeMetrics() {
	b := p.Board
	for _, c := range [2]board.Color{board.White, board.Black} {
		them := c.Other()
		att := b.AttacksBy(c)
		p.metrics.Attacks[c] = att

		ownOcc := b.ByColor[c]
		p.metrics.Space[c] = int16((att &^ ownOcc).Count())
		p.metrics.Support[c] = att & ownOcc

		theirAtt := b.AttacksBy(them)
		var threats board.Bitboard
		for fig := board.Knight; fig <= board.Queen; fig++ {
			for bb := b.ByPiece(them, fig); bb != 0; {
				sq := bb.Pop()
				if att&sq.Bitboard() == 0 {
					continue
				}
				// A threat requires an attacker cheaper than the victim; the
				// smallest attacker is found the same way SEE finds one.
				if cheapest := b.GetAttacker(sq, c); cheapest != board.NoFigure &&
					figureValue[cheapest] < figureValue[fig] {
					threats |= sq.Bitboard()
				}
			}
		}
		p.metrics.Threats[c] = threats
	}
}
