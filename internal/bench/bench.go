// Package bench replays a handful of real games through the engine at a
// fixed depth, counting total nodes searched and nodes per second. Grounded
// on the teacher's internal/bench/bench.go and bench/bench_test.go (now
// folded together here), rewritten against the engine/board APIs: the
// teacher's engine.Position/engine.NewFixedDepthTimeControl no longer exist,
// and exact node-count assertions cannot be carried over since they were
// tuned for the teacher's own move ordering and pruning, not this one's.
// What survives is the harness shape: play a known game move by move,
// re-search the resulting position at each ply, and total the node counts,
// useful as a non-functional-change smoke test and as a rough throughput
// benchmark.
package bench

import (
	"time"

	"corvid/board"
	"corvid/engine"
	"corvid/eval/hce"
)

// gameInfo is one real game to replay.
type gameInfo struct {
	description string
	moves       []string
}

// games are a few annotated games carried over from the teacher's bench
// tool, long enough to exercise the opening, middlegame and endgame phases
// of the evaluator and search.
var games = []gameInfo{
	{
		description: "Garry Kasparov - Veselin Topalov, Hoogovens 1999.01.20",
		moves: splitMoves("e2e4 d7d6 d2d4 g8f6 b1c3 g7g6 c1e3 f8g7 d1d2 c7c6 " +
			"f2f3 b7b5 g1e2 b8d7 e3h6 g7h6 d2h6 c8b7 a2a3 e7e5 e1c1 d8e7 " +
			"c1b1 a7a6 e2c1 e8c8 c1b3 e5d4 d1d4 c6c5 d4d1 d7b6 g2g3 c8b8"),
	},
	{
		description: "Mikhail Tal - Boris Spassky, Leningrad 1954",
		moves: splitMoves("c2c4 g8f6 b1c3 e7e6 d2d4 c7c5 d4d5 e6d5 c4d5 g7g6 " +
			"g1f3 f8g7 c1f4 d7d6 h2h3 e8g8 e2e3 f6e8 f1e2 b8d7 e1g1 d7e5 " +
			"f4e5 d6e5 f3d2 f7f5 d1b3 e8d6 d2c4 e5e4"),
	},
}

func splitMoves(s string) []string {
	var out []string
	word := ""
	for _, r := range s {
		if r == ' ' {
			if word != "" {
				out = append(out, word)
				word = ""
			}
			continue
		}
		word += string(r)
	}
	if word != "" {
		out = append(out, word)
	}
	return out
}

func newBenchEngine() *engine.Engine {
	cfg := engine.DefaultEngineConfig()
	cfg.UseNNUE = false
	eval := engine.NewEvaluator(hce.Evaluator{}, nil, false)
	return engine.NewEngine(cfg, eval)
}

// play replays g move by move, searching the position reached after each
// move to depth and returning the total number of nodes searched.
func (g *gameInfo) play(depth int32) uint64 {
	b, err := board.FromFEN(board.FENStartPos)
	if err != nil {
		panic(err)
	}
	eng := newBenchEngine()

	var nodes uint64
	for _, mv := range g.moves {
		eng.SetPosition(b)
		tc := engine.NewTimeControl(sideOf(b), engine.GoParams{Depth: depth})
		eng.Play(tc)
		nodes += eng.Stats.Nodes

		m, err := b.UCIToMove(mv)
		if err != nil {
			panic(err)
		}
		b.DoMove(m)
	}
	return nodes
}

func sideOf(b *board.Board) engine.Side {
	if b.SideToMove == board.White {
		return engine.SideWhite
	}
	return engine.SideBlack
}

// EvalAll replays every known game at depth, returning total nodes and
// nodes-per-second.
func EvalAll(depth int32) (nodes uint64, nps float64) {
	start := time.Now()
	for i := range games {
		nodes += games[i].play(depth)
	}
	elapsed := time.Since(start)
	if elapsed <= 0 {
		elapsed = time.Microsecond
	}
	return nodes, float64(nodes) / elapsed.Seconds()
}
