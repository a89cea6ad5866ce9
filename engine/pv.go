// pv.go tracks the principal variation during search with the classic
// triangular array: row ply holds the best line found so far starting at
// that ply, and update prepends the move just played to the child's line.
// This replaces the teacher's hash-keyed pvTable (pv.go, now removed):
// spec.md §4.10 describes PV construction exactly as "prepend the just
// played move to the child's PV", which the triangular array expresses
// directly without depending on the transposition table staying populated.

package engine

import "corvid/board"

// maxPly bounds every per-ply array in the search: stacks, killers, PV rows.
// No search ever reaches this depth; it exists purely as a fixed allocation
// size.
const maxPly = 128

type triangularPV struct {
	table [maxPly][maxPly]board.Move
	plen  [maxPly]int
}

func (t *triangularPV) clear(ply int) { t.plen[ply] = 0 }

// update records that m, played at ply, is followed by the best line found
// one ply deeper.
func (t *triangularPV) update(ply int, m board.Move) {
	t.table[ply][0] = m
	n := t.plen[ply+1]
	copy(t.table[ply][1:1+n], t.table[ply+1][:n])
	t.plen[ply] = n + 1
}

// line returns the best line found from the root, oldest move first.
func (t *triangularPV) line() []board.Move {
	n := t.plen[0]
	out := make([]board.Move, n)
	copy(out, t.table[0][:n])
	return out
}
