// Package hce is the hand-crafted evaluator: material, tapered piece-square
// tables, pawn structure, king safety, and the mobility/space/threat terms
// derived from position.Metrics. It evaluates from White's point of view and
// lets the caller negate for the side to move.
package hce

import "corvid/board"

// Tapered is a midgame/endgame score pair, summed separately through the
// whole evaluation and blended at the end by the game phase.
type Tapered struct{ MG, EG int32 }

func (t *Tapered) add(o Tapered)        { t.MG += o.MG; t.EG += o.EG }
func (t *Tapered) addN(o Tapered, n int32) { t.MG += o.MG * n; t.EG += o.EG * n }
func (t *Tapered) sub(o Tapered)        { t.MG -= o.MG; t.EG -= o.EG }

// feed blends MG/EG by phase, where phase is 0 at the start of the game and
// 256 at a bare-kings endgame.
func (t Tapered) feed(phase int32) int32 {
	return (t.MG*(256-phase) + t.EG*phase) / 256
}

// figureValue holds each figure's tapered material value, in centipawns.
var figureValue = [board.FigureArraySize]Tapered{
	board.Pawn:   {MG: 100, EG: 120},
	board.Knight: {MG: 320, EG: 300},
	board.Bishop: {MG: 330, EG: 320},
	board.Rook:   {MG: 500, EG: 520},
	board.Queen:  {MG: 950, EG: 970},
}

// mobilityWeight rewards each reachable square beyond the piece itself.
var mobilityWeight = [board.FigureArraySize]Tapered{
	board.Knight: {MG: 4, EG: 5},
	board.Bishop: {MG: 5, EG: 6},
	board.Rook:   {MG: 2, EG: 4},
	board.Queen:  {MG: 1, EG: 3},
}

const (
	bishopPairBonusMG = 30
	bishopPairBonusEG = 50

	rookOpenFileBonus     = 22
	rookHalfOpenFileBonus = 10

	tempoBonus = 12
)

// pawnPST and kingPST are indexed by the square seen from White's side (rank
// 0 = own back rank); Black's terms mirror the square vertically.
var pawnPST = [64]Tapered{
	0: {}, 1: {}, 2: {}, 3: {}, 4: {}, 5: {}, 6: {}, 7: {},
	8: {MG: 5, EG: 5}, 9: {MG: 5, EG: 5}, 10: {MG: 5, EG: 5}, 11: {MG: 0, EG: 5},
	12: {MG: 0, EG: 5}, 13: {MG: 5, EG: 5}, 14: {MG: 5, EG: 5}, 15: {MG: 5, EG: 5},
	16: {MG: 5, EG: 10}, 17: {MG: 5, EG: 10}, 18: {MG: 10, EG: 10}, 19: {MG: 15, EG: 10},
	20: {MG: 15, EG: 10}, 21: {MG: 10, EG: 10}, 22: {MG: 5, EG: 10}, 23: {MG: 5, EG: 10},
	24: {MG: 10, EG: 20}, 25: {MG: 10, EG: 20}, 26: {MG: 15, EG: 20}, 27: {MG: 25, EG: 20},
	28: {MG: 25, EG: 20}, 29: {MG: 15, EG: 20}, 30: {MG: 10, EG: 20}, 31: {MG: 10, EG: 20},
	32: {MG: 15, EG: 35}, 33: {MG: 15, EG: 35}, 34: {MG: 25, EG: 35}, 35: {MG: 35, EG: 35},
	36: {MG: 35, EG: 35}, 37: {MG: 25, EG: 35}, 38: {MG: 15, EG: 35}, 39: {MG: 15, EG: 35},
	40: {MG: 25, EG: 55}, 41: {MG: 25, EG: 55}, 42: {MG: 35, EG: 55}, 43: {MG: 45, EG: 55},
	44: {MG: 45, EG: 55}, 45: {MG: 35, EG: 55}, 46: {MG: 25, EG: 55}, 47: {MG: 25, EG: 55},
	48: {MG: 50, EG: 85}, 49: {MG: 50, EG: 85}, 50: {MG: 55, EG: 85}, 51: {MG: 60, EG: 85},
	52: {MG: 60, EG: 85}, 53: {MG: 55, EG: 85}, 54: {MG: 50, EG: 85}, 55: {MG: 50, EG: 85},
	56: {}, 57: {}, 58: {}, 59: {}, 60: {}, 61: {}, 62: {}, 63: {},
}

// kingCentralPenalty is subtracted per step of distance-from-edge while
// material remains on the board; a king that hasn't castled toward the
// center gets exposed.
const kingCentralPenaltyPerFile = 8

// kingAttackWeight weights how much each attacking figure kind contributes
// to a king-ring attack's strength; distinct per figure per SPEC_FULL §C.1
// rather than a single scalar.
var kingAttackWeight = [board.FigureArraySize]int32{
	board.Pawn: 2, board.Knight: 6, board.Bishop: 5, board.Rook: 8, board.Queen: 14,
}

// kingAttackScale turns (numAttackers, attackStrength) into a safety penalty;
// indexed by min(numAttackers, len-1).
var kingAttackScale = [8]int32{0, 0, 50, 120, 230, 380, 550, 700}
