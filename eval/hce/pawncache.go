package hce

import "corvid/board"

// pawnCacheBits sizes the per-color pawn-structure cache; small on purpose,
// since pawn structure changes rarely relative to how often it's probed.
const pawnCacheBits = 6

type pawnCacheEntry struct {
	ours, theirs board.Bitboard
	score        Tapered
}

type pawnCache [1 << pawnCacheBits]pawnCacheEntry

func pawnCacheHash(ours, theirs board.Bitboard) int {
	h := uint64(ours^theirs) * 4270591956663283
	return int(h >> (64 - pawnCacheBits))
}

func (c *pawnCache) get(ours, theirs board.Bitboard) (Tapered, bool) {
	e := &c[pawnCacheHash(ours, theirs)]
	return e.score, e.ours == ours && e.theirs == theirs
}

func (c *pawnCache) put(ours, theirs board.Bitboard, score Tapered) {
	e := &c[pawnCacheHash(ours, theirs)]
	e.ours, e.theirs, e.score = ours, theirs, score
}

// pawnCaches holds one table per color, since pawnStructureScore's result
// also depends on which side is "ours".
var pawnCaches [board.ColorArraySize]pawnCache

// cachedPawnStructureScore probes pawnCaches before falling back to
// pawnStructureScore, populating the cache on a miss.
func cachedPawnStructureScore(us board.Color, ours, theirs board.Bitboard) Tapered {
	if t, ok := pawnCaches[us].get(ours, theirs); ok {
		return t
	}
	t := pawnStructureScore(us, ours, theirs)
	pawnCaches[us].put(ours, theirs, t)
	return t
}
