// tt.go implements the transposition table described in spec.md §4.2: a
// main table of 4-way set-associative clusters with depth-and-bound-aware
// replacement, and a smaller, depth-less quiescence table that multiplexes
// on an "in check" bit. Grounded on the teacher's hash_table.go (now
// removed), which used the same cluster idea with a 2-way bucket; the
// bucket width and replacement formula here follow the wider contract.

package engine

import (
	"unsafe"

	"corvid/board"
	"corvid/score"
)

// clusterWidth is the number of entries probed/replaced together; it
// matches a cache line closely enough for the SIMD-style key scan the spec
// calls out, even though this implementation just loops over it.
const clusterWidth = 4

// minClusters is the smallest table the engine will build, regardless of
// how little memory is configured.
const minClusters = 1024

// ttEntry is one slot of a cluster: 32-bit key plus the rest of a search
// result, sized to stay close to the spec's ~16-bytes-per-entry budget.
type ttEntry struct {
	key        uint32
	move       board.Move
	value      int16
	staticEval int16
	depth      int16
	generation uint8
	bound      score.Bound
}

// isEmpty reports whether the slot has never been written, or was cleared.
// Using bound == BoundNone rather than a literal key==0 check (as the spec
// describes) sidesteps the one-in-four-billion false "empty" read a real
// zobrist key of exactly 0 would otherwise cause.
func (e *ttEntry) isEmpty() bool { return e.bound == score.BoundNone }

type ttCluster [clusterWidth]ttEntry

// boundBonus breaks ties in favor of entries more useful to future probes:
// Exact and Lower bounds (both potentially usable for a cutoff) outrank
// Upper.
func boundBonus(b score.Bound) int32 {
	if b == score.BoundUpper {
		return 0
	}
	return 1
}

// TT is the main transposition table.
type TT struct {
	clusters   []ttCluster
	generation uint8
}

// NewTT allocates a table sized to mb megabytes, at least minClusters
// clusters.
func NewTT(mb int) *TT {
	n := mb * 1024 * 1024 / int(unsafe.Sizeof(ttCluster{}))
	n -= n % 4
	if n < minClusters {
		n = minClusters
	}
	return &TT{clusters: make([]ttCluster, n)}
}

func (t *TT) index(hash uint64) int { return int(hash % uint64(len(t.clusters))) }

// Clear zeroes every entry and resets the generation counter.
func (t *TT) Clear() {
	for i := range t.clusters {
		t.clusters[i] = ttCluster{}
	}
	t.generation = 0
}

// Age bumps the generation counter at the start of a new search, so stale
// entries from earlier searches lose replacement priority.
func (t *TT) Age() { t.generation++ }

// Prefetch is a documented no-op: Go gives no portable way to issue a
// memory-system prefetch hint, so this exists only to keep callers written
// against the spec's contract.
func (t *TT) Prefetch(hash uint64) {}

// ProbeResult is what a successful Probe returns.
type ProbeResult struct {
	Value      score.Score
	Bound      score.Bound
	Move       board.Move
	StaticEval score.Score
	Depth      int32
	HasStatic  bool
}

// noStaticEval marks a stored static_eval as "unknown", mirroring the
// spec's i16::MIN sentinel.
const noStaticEval = int16(-32768)

// Probe scans the cluster owning hash and returns the deepest entry whose
// key matches, with its value re-normalized from root-relative storage to
// this node's ply.
func (t *TT) Probe(hash uint64, ply int) (ProbeResult, bool) {
	key := uint32(hash)
	cluster := &t.clusters[t.index(hash)]

	best := -1
	for i := range cluster {
		e := &cluster[i]
		if e.isEmpty() || e.key != key {
			continue
		}
		if best == -1 || e.depth > cluster[best].depth {
			best = i
		}
	}
	if best == -1 {
		return ProbeResult{}, false
	}
	e := &cluster[best]
	r := ProbeResult{
		Value: score.Score(e.value).FromTT(ply),
		Bound: e.bound,
		Move:  e.move,
		Depth: int32(e.depth),
	}
	if e.staticEval != noStaticEval {
		r.StaticEval = score.Score(e.staticEval)
		r.HasStatic = true
	}
	return r, true
}

// Store records a search result, classifying its bound from (value, alpha,
// beta) and following the replacement policy from spec.md §4.2.
func (t *TT) Store(hash uint64, ply int, depth int32, value score.Score, hasStatic bool, staticEval score.Score, alpha, beta score.Score, best board.Move) {
	bound := score.Classify(value, alpha, beta)
	key := uint32(hash)
	stored := int16(value.ToTT(ply))

	static := noStaticEval
	if hasStatic {
		static = int16(staticEval)
	}

	cluster := &t.clusters[t.index(hash)]

	for i := range cluster {
		e := &cluster[i]
		if !e.isEmpty() && e.key == key {
			newScore := depth + boundBonus(bound)
			oldScore := int32(e.depth) + boundBonus(e.bound)
			if newScore >= oldScore || (bound == score.BoundExact && e.bound != score.BoundExact) {
				t.write(e, key, depth, stored, static, bound, best)
			}
			return
		}
	}

	for i := range cluster {
		e := &cluster[i]
		if e.isEmpty() {
			t.write(e, key, depth, stored, static, bound, best)
			return
		}
	}

	worst := 0
	worstScore := int32(1<<31 - 1)
	for i := range cluster {
		e := &cluster[i]
		age := int32(t.generation - e.generation)
		v := 8*(int32(e.depth)+boundBonus(e.bound)) - age
		if v < worstScore {
			worstScore, worst = v, i
		}
	}
	t.write(&cluster[worst], key, depth, stored, static, bound, best)
}

func (t *TT) write(e *ttEntry, key uint32, depth int32, value int16, static int16, bound score.Bound, best board.Move) {
	e.key = key
	e.depth = int16(depth)
	e.value = value
	e.staticEval = static
	e.bound = bound
	e.generation = t.generation
	if best != board.NullMove {
		e.move = best
	}
}

// qttEntry mirrors ttEntry but drops the depth field: quiescence search
// always expands to the same tactical horizon, so any hit is usable.
type qttEntry struct {
	key        uint32
	move       board.Move
	value      int16
	generation uint8
	bound      score.Bound
}

func (e *qttEntry) isEmpty() bool { return e.bound == score.BoundNone }

type qttCluster [clusterWidth]qttEntry

// qttInCheckBit is XORed into the probe/store key so a position probed
// while in check never collides with the same position probed at rest. It
// lies within the low 32 bits that are kept as the entry key.
const qttInCheckBit = uint64(1) << 31

// QTT is the quiescence-search transposition table.
type QTT struct {
	clusters   []qttCluster
	generation uint8
}

// NewQTT allocates a table sized to mb megabytes.
func NewQTT(mb int) *QTT {
	n := mb * 1024 * 1024 / int(unsafe.Sizeof(qttCluster{}))
	n -= n % 4
	if n < minClusters {
		n = minClusters
	}
	return &QTT{clusters: make([]qttCluster, n)}
}

func (t *QTT) probeKey(hash uint64, inCheck bool) uint64 {
	if inCheck {
		return hash ^ qttInCheckBit
	}
	return hash
}

func (t *QTT) index(hash uint64) int { return int(hash % uint64(len(t.clusters))) }

// Clear zeroes every entry and resets the generation counter.
func (t *QTT) Clear() {
	for i := range t.clusters {
		t.clusters[i] = qttCluster{}
	}
	t.generation = 0
}

// Age bumps the generation counter, matching TT.Age.
func (t *QTT) Age() { t.generation++ }

// QProbeResult is what a successful QTT probe returns.
type QProbeResult struct {
	Value score.Score
	Bound score.Bound
	Move  board.Move
}

// Probe looks up hash (adjusted for inCheck) in the quiescence table.
func (t *QTT) Probe(hash uint64, inCheck bool) (QProbeResult, bool) {
	k := t.probeKey(hash, inCheck)
	key := uint32(k)
	cluster := &t.clusters[t.index(k)]
	for i := range cluster {
		e := &cluster[i]
		if !e.isEmpty() && e.key == key {
			return QProbeResult{Value: score.Score(e.value), Bound: e.bound, Move: e.move}, true
		}
	}
	return QProbeResult{}, false
}

// Store records a quiescence search result. Any hit is considered usable,
// so replacement simply prefers an empty slot, then the oldest entry.
func (t *QTT) Store(hash uint64, inCheck bool, value score.Score, alpha, beta score.Score, best board.Move) {
	bound := score.Classify(value, alpha, beta)
	k := t.probeKey(hash, inCheck)
	key := uint32(k)
	cluster := &t.clusters[t.index(k)]

	for i := range cluster {
		e := &cluster[i]
		if !e.isEmpty() && e.key == key {
			e.value, e.bound, e.generation = int16(value), bound, t.generation
			if best != board.NullMove {
				e.move = best
			}
			return
		}
	}
	for i := range cluster {
		e := &cluster[i]
		if e.isEmpty() {
			*e = qttEntry{key: key, value: int16(value), bound: bound, generation: t.generation, move: best}
			return
		}
	}
	worst, worstAge := 0, int32(-1)
	for i := range cluster {
		age := int32(t.generation - cluster[i].generation)
		if age > worstAge {
			worstAge, worst = age, i
		}
	}
	cluster[worst] = qttEntry{key: key, value: int16(value), bound: bound, generation: t.generation, move: best}
}
