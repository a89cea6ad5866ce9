// search.go is the core search driver: iterative deepening with an
// aspiration window, negamax/PVS interior search with the full pruning and
// reduction rule set of spec.md §4.9, and a quiescence search with stand-pat
// and delta pruning. Grounded on the teacher's engine.go (now removed),
// which drove the same shape of search (aspiration loop, PVS re-search,
// null-move, LMR, killers/history fail-high updates); the node algorithm
// here follows spec.md §4.10's numbered steps directly rather than the
// teacher's control flow where the two diverge.

package engine

import (
	"math"
	"time"

	"corvid/board"
	"corvid/score"
)

// maxDepth bounds iterative deepening, per spec.md §4.10.
const maxDepth = 100

// Options configures secondary search behavior that does not affect the
// best move itself.
type Options struct {
	AnalyseMode bool
}

// Stats accumulates node and depth counters for UCI "info" lines.
type Stats struct {
	Nodes    uint64
	Depth    int32
	SelDepth int32
}

// Logger receives search progress; a UCI layer implements it to emit "info"
// lines, and tests can supply a no-op.
type Logger interface {
	BeginSearch()
	EndSearch()
	PrintPV(stats Stats, s score.Score, pv []board.Move)
}

// NulLogger discards everything, used when no UCI output sender is wired.
type NulLogger struct{}

func (NulLogger) BeginSearch()                                    {}
func (NulLogger) EndSearch()                                      {}
func (NulLogger) PrintPV(Stats, score.Score, []board.Move)        {}

// searchNode is the per-ply bookkeeping spec.md §3 calls SearchNode: pushed
// entering a node, popped on exit.
type searchNode struct {
	staticEval score.Score
	hasStatic  bool
	move       board.Move
}

// Engine owns one long-lived search: the board, both transposition tables,
// history/killer tables, the configuration and the evaluator. It is not
// safe for concurrent use by more than one searching goroutine.
type Engine struct {
	Options Options
	Log     Logger
	Stats   Stats

	Board *board.Board
	eval  *Evaluator
	cfg   EngineConfig

	tt  *TT
	qtt *QTT

	hist historyTables
	pv   triangularPV

	stack [maxPly]searchNode

	tc *TimeControl

	rootPly int
}

// NewEngine constructs an Engine sized per cfg, wired to eval.
func NewEngine(cfg EngineConfig, eval *Evaluator) *Engine {
	hashMB := cfg.HashMB
	if hashMB < 1 {
		hashMB = 1
	}
	return &Engine{
		Options: Options{},
		Log:     NulLogger{},
		cfg:     cfg,
		eval:    eval,
		tt:      NewTT(hashMB * 2 / 3),
		qtt:     NewQTT(hashMB / 3),
	}
}

// Configure reapplies cfg; if HashMB changed, both TTs are rebuilt.
func (e *Engine) Configure(cfg EngineConfig) {
	if cfg.HashMB != e.cfg.HashMB {
		hashMB := cfg.HashMB
		if hashMB < 1 {
			hashMB = 1
		}
		e.tt = NewTT(hashMB * 2 / 3)
		e.qtt = NewQTT(hashMB / 3)
	}
	e.cfg = cfg
}

// NewGame clears both TTs, every history table, the killer table and the
// search stack, and resets the evaluator's incremental state.
func (e *Engine) NewGame() {
	e.tt.Clear()
	e.qtt.Clear()
	e.hist = historyTables{}
	e.stack = [maxPly]searchNode{}
	if e.eval != nil {
		e.eval.Reset()
	}
}

// SetPosition installs b as the root position.
func (e *Engine) SetPosition(b *board.Board) {
	e.Board = b
	e.rootPly = b.Ply
}

func (e *Engine) ply() int { return e.Board.Ply - e.rootPly }

// endPosition reports a terminal-by-rule score (draw by repetition,
// fifty-move rule, or dead material) independent of move legality, and
// whether one applies.
func (e *Engine) endPosition() (score.Score, bool) {
	b := e.Board
	if e.ply() > 0 && b.IsThreeFoldRepetition() {
		return 0, true
	}
	if b.HalfMoveClock >= 100 {
		return 0, true
	}
	if isDeadDraw(b) {
		return 0, true
	}
	return 0, false
}

// isDeadDraw reports whether neither side has enough material to force
// mate: no pawns, rooks or queens, and at most one minor piece per side.
// This mirrors eval/hce's isInsufficientForMate in spirit but answers a
// different question (whole-game termination, not a per-side eval cap), so
// it is kept as its own small helper rather than shared.
func isDeadDraw(b *board.Board) bool {
	if b.ByFigure[board.Pawn] != 0 || b.ByFigure[board.Rook] != 0 || b.ByFigure[board.Queen] != 0 {
		return false
	}
	for _, c := range [...]board.Color{board.White, board.Black} {
		minors := b.ByPiece(c, board.Knight).Count() + b.ByPiece(c, board.Bishop).Count()
		if minors > 1 {
			return false
		}
	}
	return true
}

func (e *Engine) evaluate() score.Score {
	us := e.Board.SideToMove
	s := e.eval.Evaluate(e.Board)
	if us == board.Black {
		s = -s
	}
	return s
}

// doMove plays m, keeping the evaluator's incremental state in lockstep
// with the board.
func (e *Engine) doMove(m board.Move) {
	e.eval.Push()
	e.Board.DoMove(m)
}

func (e *Engine) undoMove(m board.Move) {
	e.Board.UndoMove(m)
	e.eval.Pop()
}

// continuationContextAt builds the "k plies ago" destination squares for
// the node currently being searched at ply.
func (e *Engine) continuationContextAt(ply int) continuationContext {
	var ctx continuationContext
	for k := 0; k < continuationPlanes; k++ {
		idx := ply - 1 - k
		if idx >= 0 {
			ctx.prevTo[k] = e.stack[idx].move.To
			ctx.known[k] = true
		}
	}
	return ctx
}

// Play runs iterative deepening under tc and returns the best line found,
// oldest move first.
func (e *Engine) Play(tc *TimeControl) []board.Move {
	e.tc = tc
	tc.Start(tc.Stop)
	e.tt.Age()
	e.qtt.Age()
	e.Stats = Stats{}
	e.Log.BeginSearch()
	defer e.Log.EndSearch()

	var best []board.Move
	var prevScore score.Score
	var prevBest board.Move

	for depth := int32(1); depth <= maxDepth; depth++ {
		if !tc.NextDepth(depth) {
			break
		}
		iterStart := time.Now()

		half := e.cfg.AspirationStartHalf + 10*depth
		alpha, beta := -score.Inf, score.Inf
		aspirated := depth >= e.cfg.AspirationEnabledFrom
		if aspirated {
			alpha = prevScore - score.Score(half)
			beta = prevScore + score.Score(half)
			if alpha < -score.Inf {
				alpha = -score.Inf
			}
			if beta > score.Inf {
				beta = score.Inf
			}
		}

		var s score.Score
		failed := 0
		aspirationFailed := false
		for {
			e.pv.clear(0)
			s = e.rootSearch(depth, alpha, beta)
			if tc.Stopped() {
				break
			}
			if s <= alpha {
				aspirationFailed = true
				widen := score.Score(e.cfg.AspirationWidenFactor * float64(abs32(int32(beta-s))))
				if widen < score.Score(half) {
					widen = score.Score(half)
				}
				alpha -= widen
				if alpha < -score.Inf {
					alpha = -score.Inf
				}
				failed++
			} else if s >= beta {
				aspirationFailed = true
				widen := score.Score(e.cfg.AspirationWidenFactor * float64(abs32(int32(s-alpha))))
				if widen < score.Score(half) {
					widen = score.Score(half)
				}
				beta += widen
				if beta > score.Inf {
					beta = score.Inf
				}
				failed++
			} else {
				break
			}
			if failed > e.cfg.AspirationRetries {
				alpha, beta = -score.Inf, score.Inf
			}
		}

		if tc.Stopped() && depth > 1 {
			break
		}

		line := e.pv.line()
		if len(line) == 0 {
			break
		}
		best = line
		e.Stats.Depth = depth
		e.Log.PrintPV(e.Stats, s, best)

		bestMoveChanged := best[0] != prevBest
		scoreDropped := s < prevScore-score.Score(30)
		tc.RecordIteration(time.Since(iterStart), bestMoveChanged, scoreDropped, aspirationFailed)

		prevScore = s
		prevBest = best[0]

		if s.IsMate() {
			break
		}
	}
	return best
}

// rootSearch generates ordered moves at the root and runs negamax on each
// child with the flipped window, tracking the PV.
func (e *Engine) rootSearch(depth int32, alpha, beta score.Score) score.Score {
	b := e.Board
	ttMove := board.NullMove
	if e.pv.plen[0] > 0 {
		ttMove = e.pv.table[0][0]
	} else if r, ok := e.tt.Probe(b.Zobrist(), 0); ok {
		ttMove = r.Move
	}

	killers := e.hist.killers.get(0)
	ctx := e.continuationContextAt(0)
	moves := orderMoves(b, ttMove, killers, &e.hist, ctx)

	origAlpha := alpha
	bestScore := -score.Inf
	legalMoves := 0
	var bestMove board.Move

	for i, m := range moves {
		e.doMove(m)
		if b.IsChecked(b.SideToMove.Other()) {
			e.undoMove(m)
			continue
		}
		legalMoves++
		e.stack[0].move = m
		e.Stats.Nodes++

		childAlpha, childBeta := -beta, -alpha
		if i > 0 {
			childBeta = -alpha - 1
		}
		v := -e.negamax(depth-1, childAlpha, childBeta, 1, false)
		if i > 0 && v > alpha && v < beta {
			v = -e.negamax(depth-1, -beta, -alpha, 1, false)
		}
		e.undoMove(m)

		if e.tc.Stopped() {
			if legalMoves == 1 {
				bestScore, bestMove = v, m
				e.pv.update(0, m)
			}
			break
		}

		if v > bestScore {
			bestScore = v
			bestMove = m
			e.pv.update(0, m)
		}
		if v > alpha {
			alpha = v
		}
		if alpha >= beta {
			break
		}
	}

	if legalMoves == 0 {
		if b.IsChecked(b.SideToMove) {
			return -(score.Mate - 0)
		}
		return 0
	}

	e.tt.Store(b.Zobrist(), 0, depth, bestScore, false, 0, origAlpha, beta, bestMove)
	return bestScore
}

// negamax implements the interior search node described in spec.md §4.10,
// steps 1-11.
func (e *Engine) negamax(depth int32, alpha, beta score.Score, ply int, cutNode bool) score.Score {
	b := e.Board
	e.Stats.Nodes++
	if int32(ply) > e.Stats.SelDepth {
		e.Stats.SelDepth = int32(ply)
	}

	if e.tc.Stopped() {
		return 0
	}
	if s, ok := e.endPosition(); ok {
		return s
	}

	// Mate-distance pruning.
	alpha = score.Max(alpha, -(score.Mate - score.Score(ply)))
	beta = score.Min(beta, score.Mate-score.Score(ply))
	if alpha >= beta {
		return alpha
	}
	origAlpha := alpha

	if depth <= 0 || ply >= maxPly-1 {
		return e.quiescence(alpha, beta, ply)
	}

	pvNode := beta-alpha > 1
	inCheck := b.IsChecked(b.SideToMove)

	ttMove := board.NullMove
	if r, ok := e.tt.Probe(b.Zobrist(), ply); ok {
		ttMove = r.Move
		if r.Depth >= int32(depth) {
			switch r.Bound {
			case score.BoundExact:
				return r.Value
			case score.BoundLower:
				if r.Value >= beta {
					return r.Value
				}
			case score.BoundUpper:
				if r.Value <= alpha {
					return r.Value
				}
			}
		}
	}

	var staticEval score.Score
	if !inCheck {
		staticEval = e.evaluate()
	}
	e.stack[ply].staticEval = staticEval
	e.stack[ply].hasStatic = !inCheck

	isImproving := false
	if !inCheck && ply >= 2 && e.stack[ply-2].hasStatic {
		isImproving = staticEval > e.stack[ply-2].staticEval-20
	}

	// Razoring.
	if !pvNode && !inCheck && depth <= e.cfg.RazorMaxDepth {
		margin := e.cfg.RazorBase + e.cfg.RazorCoeff*depth*depth
		if staticEval < alpha-score.Score(margin) {
			v := e.quiescence(alpha-1, alpha, ply)
			if v < alpha && abs32(int32(v)) < int32(score.Mate)-200 {
				return v
			}
		}
	}

	// Reverse futility pruning.
	if !pvNode && !inCheck && depth <= e.cfg.RFPMaxDepth {
		margin := e.cfg.RFPMargin
		if isImproving {
			margin -= e.cfg.RFPImprovingReduction
		}
		if staticEval-score.Score(margin) >= beta {
			e.tt.Store(b.Zobrist(), ply, depth, beta, true, staticEval, alpha, beta, board.NullMove)
			return beta
		}
	}

	// Null-move pruning.
	if !pvNode && !inCheck && depth >= e.cfg.NMPMinDepth && staticEval >= beta && !zugzwangProne(b) {
		r := e.cfg.NMPBase + depth/e.cfg.NMPDivisor
		e.doMove(board.NullMove)
		v := -e.negamax(depth-1-r, -beta, -beta+1, ply+1, !cutNode)
		e.undoMove(board.NullMove)
		if v >= beta {
			if depth <= e.cfg.NMPVerifyMaxDepth {
				verify := e.negamax(depth-(r-1), beta-1, beta, ply, cutNode)
				if verify >= beta {
					e.tt.Store(b.Zobrist(), ply, depth, beta, true, staticEval, alpha, beta, board.NullMove)
					return beta
				}
			} else {
				e.tt.Store(b.Zobrist(), ply, depth, beta, true, staticEval, alpha, beta, board.NullMove)
				return beta
			}
		}
	}

	// Internal iterative deepening.
	if ttMove == board.NullMove && depth >= e.cfg.IIDMinDepth && !inCheck {
		e.negamax(depth-e.cfg.IIDReduction, alpha, beta, ply, cutNode)
		if r, ok := e.tt.Probe(b.Zobrist(), ply); ok {
			ttMove = r.Move
		}
	}

	killers := e.hist.killers.get(ply)
	ctx := e.continuationContextAt(ply)
	moves := orderMoves(b, ttMove, killers, &e.hist, ctx)

	var searchedQuiets, searchedCaptures []board.Move

	bestScore := -score.Inf
	bestMove := board.NullMove
	legalMoves := 0

	for i, m := range moves {
		// see needs the pre-move position, so it is computed before doMove.
		seeLosing := false
		if m.IsCapture() && m.Piece().Figure() > m.Capture.Figure() {
			seeLosing = see(b, m) < e.cfg.SEEPruningMarginPerDepth*depth
		}

		e.doMove(m)
		if b.IsChecked(b.SideToMove.Other()) {
			e.undoMove(m)
			continue
		}
		legalMoves++
		e.stack[ply].move = m

		isCapture := m.IsCapture()
		childGivesCheck := b.IsChecked(b.SideToMove)
		isTactical := inCheck || childGivesCheck || isCapture || m.MoveType == board.Promotion

		// Late-move pruning.
		if !pvNode && !inCheck && !isTactical {
			limit := e.cfg.LMPBase + depth*(depth+e.cfg.LMPMult)/2
			if !isImproving {
				limit /= 2
			}
			if int32(i) > limit {
				e.undoMove(m)
				continue
			}
		}

		// Futility pruning.
		if !inCheck && !isTactical && depth <= e.cfg.FutilityMaxDepth {
			margin := e.cfg.FutilityMargin * depth
			if staticEval+score.Score(margin) <= alpha {
				e.undoMove(m)
				continue
			}
		}

		// SEE pruning on captures where the victim is worth less than the
		// attacker.
		if seeLosing {
			e.undoMove(m)
			continue
		}

		newDepth := depth - 1

		r := int32(0)
		if depth >= e.cfg.LMRMinDepth && i > 0 && !isTactical && !pvNode {
			r = lmrReduction(depth, int32(i), e.cfg.LMRDivisor)
			if !isImproving {
				r++
			}
			maxR := int32(float64(depth) * e.cfg.LMRMaxRatio)
			if r > maxR {
				r = maxR
			}
			if r < 0 {
				r = 0
			}
		}

		childAlpha, childBeta := -beta, -alpha
		if i > 0 {
			childBeta = -alpha - 1
		}

		v := -e.negamax(newDepth-r, childAlpha, childBeta, ply+1, i > 0)
		if r > 0 && v > alpha {
			v = -e.negamax(newDepth, childAlpha, childBeta, ply+1, i > 0)
		}
		if i > 0 && v > alpha && v < beta {
			v = -e.negamax(newDepth, -beta, -alpha, ply+1, false)
		}

		e.undoMove(m)

		if e.tc.Stopped() {
			return 0
		}

		if v > bestScore {
			bestScore = v
			bestMove = m
			if pvNode {
				e.pv.update(ply, m)
			}
		}
		if v > alpha {
			alpha = v
		}
		if alpha >= beta {
			bonus := historyDelta(depth, true)
			malus := historyDelta(depth, false)
			if isCapture {
				e.hist.capture.update(m.Piece(), m.To, m.Capture, bonus)
				for _, sm := range searchedCaptures {
					e.hist.capture.update(sm.Piece(), sm.To, sm.Capture, malus)
				}
			} else {
				e.hist.killers.store(ply, m)
				th := threatened(b, m.From, b.SideToMove)
				e.hist.quiet.update(b.SideToMove, th, m.From, m.To, bonus)
				for k := 0; k < continuationPlanes; k++ {
					if ctx.known[k] {
						e.hist.continuation.update(k, b.SideToMove, ctx.prevTo[k], m.From, m.To, bonus)
					}
				}
				for _, sm := range searchedQuiets {
					e.hist.quiet.update(b.SideToMove, threatened(b, sm.From, b.SideToMove), sm.From, sm.To, malus)
				}
			}
			break
		}

		if isCapture {
			searchedCaptures = append(searchedCaptures, m)
		} else {
			searchedQuiets = append(searchedQuiets, m)
		}
	}

	if legalMoves == 0 {
		if inCheck {
			return -(score.Mate - score.Score(ply))
		}
		return 0
	}

	e.tt.Store(b.Zobrist(), ply, depth, bestScore, true, staticEval, origAlpha, beta, bestMove)
	return bestScore
}

// zugzwangProne reports whether the side to move has no pieces besides
// pawns and king, or has no pawns, no rooks or queens and at most one minor
// piece, making null-move pruning unsafe.
func zugzwangProne(b *board.Board) bool {
	us := b.SideToMove
	majors := b.ByPiece(us, board.Rook).Count() + b.ByPiece(us, board.Queen).Count()
	minors := b.ByPiece(us, board.Knight).Count() + b.ByPiece(us, board.Bishop).Count()
	if majors == 0 && minors == 0 {
		return true
	}
	return majors == 0 && minors <= 1 && b.ByPiece(us, board.Pawn) == 0
}

// lmrReduction implements spec.md §4.9's LMR formula,
// R = round(ln(depth)*ln(move_index)/divisor).
func lmrReduction(depth, moveIndex int32, divisor float64) int32 {
	if depth < 2 || moveIndex < 1 {
		return 0
	}
	r := math.Log(float64(depth)) * math.Log(float64(moveIndex)) / divisor
	return int32(math.Round(r))
}

// quiescence implements spec.md §4.10's quiescence search: stand-pat with
// delta pruning, QTT probing, and forcing moves only.
func (e *Engine) quiescence(alpha, beta score.Score, ply int) score.Score {
	b := e.Board
	e.Stats.Nodes++
	if int32(ply) > e.Stats.SelDepth {
		e.Stats.SelDepth = int32(ply)
	}

	if e.tc.Stopped() {
		return 0
	}
	if s, ok := e.endPosition(); ok {
		return s
	}

	alpha = score.Max(alpha, -(score.Mate - score.Score(ply)))
	beta = score.Min(beta, score.Mate-score.Score(ply))
	if alpha >= beta {
		return alpha
	}
	origAlpha := alpha

	inCheck := b.IsChecked(b.SideToMove)

	if r, ok := e.qtt.Probe(b.Zobrist(), inCheck); ok {
		switch r.Bound {
		case score.BoundExact:
			return r.Value
		case score.BoundLower:
			if r.Value >= beta {
				return r.Value
			}
		case score.BoundUpper:
			if r.Value <= alpha {
				return r.Value
			}
		}
	}

	var standPat score.Score
	if !inCheck {
		standPat = e.evaluate()
		if standPat >= beta {
			e.qtt.Store(b.Zobrist(), inCheck, standPat, alpha, beta, board.NullMove)
			return standPat
		}
		bigDelta := score.Score(seeBonus[board.Queen])
		if hasPromotingPawns(b) {
			bigDelta += score.Score(seeBonus[board.Queen] - seeBonus[board.Pawn])
		}
		if standPat < alpha-bigDelta {
			return alpha
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	moves := orderQuiescenceMoves(b, inCheck, &e.hist)

	bestScore := standPat
	if inCheck {
		bestScore = -score.Inf
	}
	bestMove := board.NullMove
	legalMoves := 0

	for _, m := range moves {
		if !inCheck {
			if m.IsCapture() && m.Piece().Figure() > m.Capture.Figure() && see(b, m) < 0 {
				continue
			}
			gain := seeScore(m)
			if standPat+score.Score(gain)+score.Score(e.cfg.DeltaPruningMaterial) < alpha {
				continue
			}
		}

		e.doMove(m)
		if b.IsChecked(b.SideToMove.Other()) {
			e.undoMove(m)
			continue
		}
		legalMoves++

		v := -e.quiescence(-beta, -alpha, ply+1)
		e.undoMove(m)

		if v > bestScore {
			bestScore = v
			bestMove = m
		}
		if v > alpha {
			alpha = v
		}
		if alpha >= beta {
			break
		}
	}

	if inCheck && legalMoves == 0 {
		return -(score.Mate - score.Score(ply))
	}

	e.qtt.Store(b.Zobrist(), inCheck, bestScore, origAlpha, beta, bestMove)
	return bestScore
}

// hasPromotingPawns reports whether the side to move has a pawn one step
// from promoting, widening quiescence delta pruning's margin.
func hasPromotingPawns(b *board.Board) bool {
	us := b.SideToMove
	pawns := b.ByPiece(us, board.Pawn)
	if us == board.White {
		return pawns&board.RankBb(6) != 0
	}
	return pawns&board.RankBb(1) != 0
}
