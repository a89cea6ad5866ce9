// Package score defines the engine's fixed-point evaluation score: the
// integer scale shared by the evaluators, the transposition table and the
// search driver, along with mate-distance normalization.
package score

import "fmt"

// Score is a centipawn evaluation, signed from the perspective of the side
// to move.
type Score int32

const (
	// Inf bounds every legal score; ±Inf is used as the open search window.
	Inf Score = 30000
	// Mate is the score of "mate in 0" at the root. Mate scores are stored
	// as Mate-ply so that closer mates compare as larger (better) scores.
	Mate Score = Inf - 1000
	// MateBound is the threshold above which a score is considered a mate
	// score and must be re-normalized when it crosses a ply boundary (e.g.
	// into or out of the transposition table).
	MateBound Score = Mate - 1000

	// KnownWin/KnownLoss bound ordinary (non-mate) evaluations; values
	// beyond them are reserved for mate scores.
	KnownWin  Score = 25000
	KnownLoss Score = -KnownWin
)

// IsMate reports whether s represents a forced mate for either side.
func (s Score) IsMate() bool { return s >= MateBound || s <= -MateBound }

// MateIn returns the number of moves to deliver (positive) or suffer
// (negative) the mate s encodes, given it is a mate score.
func (s Score) MateIn() int {
	if s > 0 {
		return int(Mate-s+1) / 2
	}
	return -int(Mate+s+1) / 2
}

// ToTT converts a score computed at ply into one relative to the root, the
// form stored in the transposition table: mate scores are shifted so they no
// longer depend on the path length that produced them.
func (s Score) ToTT(ply int) Score {
	switch {
	case s >= MateBound:
		return s + Score(ply)
	case s <= -MateBound:
		return s - Score(ply)
	default:
		return s
	}
}

// FromTT is the inverse of ToTT: it re-expresses a TT-stored mate score
// relative to the current ply before it is used in this node's search.
func (s Score) FromTT(ply int) Score {
	switch {
	case s >= MateBound:
		return s - Score(ply)
	case s <= -MateBound:
		return s + Score(ply)
	default:
		return s
	}
}

// UCI renders the score the way the protocol wants it: "cp N" or "mate M".
func (s Score) UCI() string {
	if s.IsMate() {
		return fmt.Sprintf("mate %d", s.MateIn())
	}
	return fmt.Sprintf("cp %d", int32(s))
}

// Bound classifies a transposition-table entry relative to the window it was
// computed with.
type Bound uint8

const (
	BoundNone Bound = iota
	BoundExact
	BoundLower
	BoundUpper
)

// Classify derives the bound a search result should be stored with, given
// the (alpha, beta) window it was searched in.
func Classify(value, alpha, beta Score) Bound {
	switch {
	case value <= alpha:
		return BoundUpper
	case value >= beta:
		return BoundLower
	default:
		return BoundExact
	}
}

func max(a, b Score) Score {
	if a > b {
		return a
	}
	return b
}

func min(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}

// Max and Min are exported for use by the search driver's window clamps.
func Max(a, b Score) Score { return max(a, b) }
func Min(a, b Score) Score { return min(a, b) }
