// history.go implements the move-ordering learning tables described in
// spec.md §4.8: quiet (butterfly) history, capture history and a small
// continuation-history stack, all updated with the same saturating gravity
// formula. Grounded on the teacher's historyTable shape (engine.go, now
// removed) but reworked around the gravity update and the wider key spaces
// the spec calls for.

package engine

import "corvid/board"

// historyMax is the saturation bound for every history table: the gravity
// formula in spec.md §4.8 clamps every entry to [-historyMax, historyMax].
const historyMax = 1 << 14

// gravity applies the saturating update from spec.md §4.8:
// h' = clamp(h + b - (h*|b|)/MAX, -MAX, MAX). Large-magnitude entries resist
// further movement in their own direction, so a single bad result can't
// erase a long track record instantly.
func gravity(h, bonus int32) int32 {
	h += bonus - (h*abs32(bonus))/historyMax
	return clamp32(h, -historyMax, historyMax)
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// historyMaxDepth caps the depth term in the bonus/malus formula so a single
// deep cutoff cannot dominate the table.
const historyMaxDepth = 20

// historyBonusMult scales depth into a bonus magnitude.
const historyBonusMult = 32

// historyDelta returns the signed bonus (good=true) or malus (good=false)
// for a cutoff found at the given remaining depth.
func historyDelta(depth int32, good bool) int32 {
	d := depth
	if d > historyMaxDepth {
		d = historyMaxDepth
	}
	if d < 0 {
		d = 0
	}
	b := historyBonusMult * d
	if !good {
		b = -b
	}
	return b
}

func b2i(v bool) int {
	if v {
		return 1
	}
	return 0
}

// quietHistory is the butterfly table, keyed [color][is-from-threatened][from][to].
type quietHistory [board.ColorArraySize][2][64][64]int32

func (h *quietHistory) get(c board.Color, threatened bool, from, to board.Square) int32 {
	return h[c][b2i(threatened)][from][to]
}

func (h *quietHistory) update(c board.Color, threatened bool, from, to board.Square, bonus int32) {
	e := &h[c][b2i(threatened)][from][to]
	*e = gravity(*e, bonus)
}

// captureHistory is keyed [attacker][to][victim].
type captureHistory [board.PieceArraySize][64][board.PieceArraySize]int32

func (h *captureHistory) get(attacker board.Piece, to board.Square, victim board.Piece) int32 {
	return h[attacker][to][victim]
}

func (h *captureHistory) update(attacker board.Piece, to board.Square, victim board.Piece, bonus int32) {
	e := &h[attacker][to][victim]
	*e = gravity(*e, bonus)
}

// continuationPlanes is the number of "plies-ago" continuation-history
// planes tracked, per spec.md §4.8's max_moves ∈ {1,2}.
const continuationPlanes = 2

// continuationHistory is keyed [k][color][prevTo][from][to]; plane k scores
// how well (from,to) has followed a move that landed on prevTo, k plies ago.
type continuationHistory [continuationPlanes][board.ColorArraySize][64][64][64]int32

func (h *continuationHistory) update(k int, c board.Color, prevTo, from, to board.Square, bonus int32) {
	e := &h[k][c][prevTo][from][to]
	*e = gravity(*e, bonus)
}

// continuationContext carries the "k plies ago" destination squares needed
// to query and update continuation history at one node; known[k] is false
// near the root, where fewer than k+1 moves have been played yet.
type continuationContext struct {
	prevTo [continuationPlanes]board.Square
	known  [continuationPlanes]bool
}

func (h *continuationHistory) query(c board.Color, ctx continuationContext, from, to board.Square) int32 {
	var sum int32
	for k := 0; k < continuationPlanes; k++ {
		if ctx.known[k] {
			sum += h[k][c][ctx.prevTo[k]][from][to]
		}
	}
	return sum
}

// killerTable keeps two quiet moves per ply that recently caused a beta
// cutoff; the most recent occupies slot 0.
type killerTable [maxPly][2]board.Move

func (k *killerTable) get(ply int) [2]board.Move { return k[ply] }

func (k *killerTable) store(ply int, m board.Move) {
	if k[ply][0] == m {
		return
	}
	k[ply][1] = k[ply][0]
	k[ply][0] = m
}

// historyTables bundles every learned move-ordering signal the search
// driver consults when ordering and updates on cutoffs.
type historyTables struct {
	quiet        quietHistory
	capture      captureHistory
	continuation continuationHistory
	killers      killerTable
}
