package hce

import (
	"corvid/board"
	"corvid/position"
	"corvid/score"
)

// Name identifies this evaluator to the search driver and to UCI reporting.
const Name = "hce"

// Phase returns a 0..256 measure of how far the game has progressed: 0 at
// the start (full middlegame weighting), 256 once non-pawn material has
// been reduced to nothing (full endgame weighting). Computed from remaining
// non-pawn material (knights+bishops+2*rooks+4*queens), capped at 24.
func Phase(b *board.Board) int32 {
	const total = 4*1 + 4*1 + 4*2 + 2*4
	present := b.ByFigure[board.Knight].Count() + b.ByFigure[board.Bishop].Count() +
		2*b.ByFigure[board.Rook].Count() + 4*b.ByFigure[board.Queen].Count()
	if present > total {
		present = total
	}
	return ((total - present) * 256) / total
}

// evaluatorName is the identifier Evaluator.Name returns.
const evaluatorName = Name

// Evaluate returns p's static score from White's perspective, in
// centipawns. phase is the 0..256 measure from Phase, passed in rather than
// recomputed so the caller (which also feeds it to NNUE-adjacent logic) only
// derives it once per node.
func Evaluate(p *position.Position, phase int32) score.Score {
	b := p.Board
	var acc Tapered
	evaluateSide(p, board.White, &acc)
	var blackAcc Tapered
	evaluateSide(p, board.Black, &blackAcc)
	acc.sub(blackAcc)

	acc.MG += tempoSign(b.SideToMove) * tempoBonus
	acc.EG += tempoSign(b.SideToMove) * tempoBonus

	final := acc.feed(phase)
	final = CapDrawish(b, final)
	return score.Score(final)
}

// Evaluator is the concrete type satisfying the engine's locally-defined HCE
// capability interface: name() and evaluate(&Position, phase).
type Evaluator struct{}

// Name returns the evaluator's UCI-facing identifier.
func (Evaluator) Name() string { return evaluatorName }

// Evaluate delegates to the package-level Evaluate function.
func (Evaluator) Evaluate(p *position.Position, phase int32) score.Score {
	return Evaluate(p, phase)
}

func tempoSign(side board.Color) int32 {
	if side == board.White {
		return 1
	}
	return -1
}

func evaluateSide(p *position.Position, us board.Color, acc *Tapered) {
	b := p.Board
	them := us.Other()
	all := b.ByColor[board.White] | b.ByColor[board.Black]
	metrics := p.Metrics()

	ours := b.ByPiece(us, board.Pawn)
	theirs := b.ByPiece(them, board.Pawn)
	acc.add(cachedPawnStructureScore(us, ours, theirs))

	kingSq := b.ByPiece(us, board.King).AsSquare()
	acc.add(kingShelter(us, ours, kingSq))
	acc.add(kingCentralPenalty(kingSq))
	acc.add(kingEndgameActivity(kingSq))

	var ring ringAttack
	theirKingSq := b.ByPiece(them, board.King).AsSquare()
	theirKingArea := kingRing(theirKingSq)

	if hits := b.PawnThreats(us) & theirKingArea; hits != 0 {
		ring.add(board.Pawn, hits.Count())
	}

	for _, fig := range [4]board.Figure{board.Knight, board.Bishop, board.Rook, board.Queen} {
		for bb := b.ByPiece(us, fig); bb != 0; {
			sq := bb.Pop()
			mobility := figureMobility(fig, sq, all)
			acc.add(figureValue[fig])
			acc.addN(mobilityWeight[fig], mobility.Count())

			if hits := mobility & theirKingArea; hits != 0 {
				ring.add(fig, hits.Count())
			}

			if fig == board.Rook {
				file := board.FileBb(sq.File())
				switch {
				case b.ByPiece(us, board.Pawn)&file == 0 && b.ByPiece(them, board.Pawn)&file == 0:
					acc.MG += rookOpenFileBonus
					acc.EG += rookOpenFileBonus
				case b.ByPiece(them, board.Pawn)&file == 0:
					acc.MG += rookHalfOpenFileBonus
					acc.EG += rookHalfOpenFileBonus
				}
			}
		}
	}
	acc.add(ring.bonus())

	if b.ByPiece(us, board.Bishop).Count() >= 2 {
		acc.MG += bishopPairBonusMG
		acc.EG += bishopPairBonusEG
	}

	// Space and support/threat terms, reusing the shared BoardMetrics cache
	// instead of recomputing attack sets that move ordering also needs.
	acc.MG += int32(metrics.Space[us]) / 8
	acc.EG += int32(metrics.Space[us]) / 16
	acc.MG += int32(metrics.Support[us].Count())
	acc.MG += 6 * int32(metrics.Threats[us].Count())
	acc.EG += 4 * int32(metrics.Threats[us].Count())
}

func figureMobility(fig board.Figure, sq board.Square, occ board.Bitboard) board.Bitboard {
	switch fig {
	case board.Knight:
		return board.KnightAttacks(sq)
	case board.Bishop:
		return board.BishopAttacks(sq, occ)
	case board.Rook:
		return board.RookAttacks(sq, occ)
	case board.Queen:
		return board.QueenAttacks(sq, occ)
	default:
		return 0
	}
}
