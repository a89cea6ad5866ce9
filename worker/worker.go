// Package worker implements the engine worker thread of spec.md §5: it owns
// the one long-lived *engine.Engine, drains a FIFO command channel, and
// emits typed UCI outputs. Exactly one Engine method runs at a time; Stop
// is the one command that bypasses the channel entirely, matching the
// concurrency model's "Stop from the reader race-sets the flag" rule.
package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/op/go-logging"
	"golang.org/x/sync/errgroup"

	"corvid/board"
	"corvid/engine"
	"corvid/uci"
)

var log = logging.MustGetLogger("corvid.worker")

// watchdogMultiple bounds how long a search may overrun its hard time limit
// before the watchdog goroutine steps in; a search that ignores the stop
// flag this long indicates a stuck node loop, not normal jitter.
const watchdogMultiple = 4

// Worker drains cmds and writes results to out. It is not safe for more
// than one goroutine to call Run concurrently, but Stop is safe to call
// from any goroutine at any time.
type Worker struct {
	eng *engine.Engine
	out chan<- uci.Output

	current atomic.Pointer[engine.TimeControl]
}

// New constructs a Worker around eng, publishing outputs on out. eng.Log is
// overwritten with an adapter that turns each iteration into an InfoOutput.
func New(eng *engine.Engine, out chan<- uci.Output) *Worker {
	eng.Log = newInfoLogger(out)
	return &Worker{eng: eng, out: out}
}

// Stop sets the stop flag on whatever search is currently running, if any.
// Safe to call with no search in progress (a no-op).
func (w *Worker) Stop() {
	if tc := w.current.Load(); tc != nil {
		tc.Stop()
	}
}

// Run drains cmds until it is closed or a QuitCommand is processed.
func (w *Worker) Run(cmds <-chan uci.Command) {
	for cmd := range cmds {
		if !w.handle(cmd) {
			return
		}
	}
}

// handle dispatches one command, recovering from any panic per spec.md §7:
// internal invariant violations are fatal to the command but must never
// surface a corrupt best move.
func (w *Worker) handle(cmd uci.Command) (keepGoing bool) {
	keepGoing = true
	defer func() {
		if r := recover(); r != nil {
			log.Criticalf("recovered panic handling %T: %v", cmd, r)
		}
	}()

	switch c := cmd.(type) {
	case uci.UCICommand:
		// Identity/option lines are emitted by the caller directly; nothing
		// for the worker to do here.
	case uci.IsReadyCommand:
		// The worker only reaches this case once every earlier command has
		// finished draining, so signaling Done here is itself the "ready"
		// guarantee; nothing else to do.
		if c.Done != nil {
			close(c.Done)
		}
	case uci.NewGameCommand:
		w.eng.NewGame()
	case uci.PositionCommand:
		w.position(c)
	case uci.SetOptionCommand:
		w.setOption(c)
	case uci.GoCommand:
		w.goSearch(c)
	case uci.StopCommand:
		w.Stop()
	case uci.QuitCommand:
		return false
	}
	return keepGoing
}

func (w *Worker) position(c uci.PositionCommand) {
	fen := c.FEN
	if c.StartPos {
		fen = board.FENStartPos
	}
	b, err := board.FromFEN(fen)
	if err != nil {
		log.Debugf("position: %v", err)
		return
	}
	for _, mv := range c.Moves {
		m, err := b.UCIToMove(mv)
		if err != nil {
			log.Debugf("position: bad move %q: %v", mv, err)
			return
		}
		b.DoMove(m)
	}
	w.eng.SetPosition(b)
}

func (w *Worker) setOption(c uci.SetOptionCommand) {
	if c.Name != "Hash" {
		log.Debugf("setoption: unhandled option %q", c.Name)
		return
	}
	mb, err := parseHashValue(c.Value)
	if err != nil {
		log.Debugf("setoption Hash: %v", err)
		return
	}
	cfg := engine.DefaultEngineConfig()
	cfg.HashMB = mb
	w.eng.Configure(cfg)
}

func parseHashValue(s string) (int, error) {
	var mb int
	if _, err := fmt.Sscanf(s, "%d", &mb); err != nil {
		return 0, err
	}
	if mb < 1 || mb > 1024 {
		return 0, fmt.Errorf("out of range [1,1024]: %d", mb)
	}
	return mb, nil
}

func (w *Worker) goSearch(c uci.GoCommand) {
	if w.eng.Board == nil {
		log.Debugf("go: no position set")
		return
	}

	us := sideToMove(w.eng.Board)
	tc := engine.NewTimeControl(us, engine.GoParams{
		WTime: c.WTime, BTime: c.BTime, WInc: c.WInc, BInc: c.BInc,
		MovesToGo: c.MovesToGo, MoveTime: c.MoveTime, Depth: c.Depth,
		Infinite: c.Infinite, NumLegalMoves: countLegalMoves(w.eng.Board),
	})
	w.current.Store(tc)
	defer w.current.Store(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	resultCh := make(chan []board.Move, 1)
	g.Go(func() (err error) {
		// A finished search releases the watchdog below.
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("search panic: %v", r)
			}
		}()
		resultCh <- w.eng.Play(tc)
		return nil
	})
	g.Go(func() error {
		timer := time.NewTimer(watchdogMultiple * hardLimitOrDefault(tc))
		defer timer.Stop()
		select {
		case <-gctx.Done():
			return nil
		case <-timer.C:
			log.Criticalf("go: search exceeded %dx its time budget, forcing stop", watchdogMultiple)
			tc.Stop()
			return fmt.Errorf("search watchdog fired")
		}
	})

	if err := g.Wait(); err != nil {
		log.Criticalf("go: %v", err)
	}

	var pv []board.Move
	select {
	case pv = <-resultCh:
	default:
	}

	best := board.NullMove
	if len(pv) > 0 {
		best = pv[0]
	}
	w.out <- uci.BestMoveOutput{Move: best}
}

// hardLimitOrDefault bounds the watchdog's own timeout; depth-only/infinite
// searches have no hard limit to multiply, so the watchdog falls back to a
// generous fixed ceiling instead of never firing.
func hardLimitOrDefault(tc *engine.TimeControl) time.Duration {
	if d := tc.HardLimit(); d > 0 {
		return d
	}
	return 5 * time.Minute
}

// sideToMove translates board.Color to engine.Side, the small local enum
// NewTimeControl uses to pick which clock applies.
func sideToMove(b *board.Board) engine.Side {
	if b.SideToMove == board.White {
		return engine.SideWhite
	}
	return engine.SideBlack
}

// countLegalMoves walks every pseudo-legal root move and filters out the
// ones that leave the mover's own king in check, so NewTimeControl can
// collapse a one-reply position straight to its Exact{100ms} budget per
// spec.md §4.11 rather than falling through to the managed clock split.
func countLegalMoves(b *board.Board) int {
	var moves []board.Move
	b.GenerateMoves(board.All, &moves)
	legal := 0
	for _, m := range moves {
		b.DoMove(m)
		if !b.IsChecked(b.SideToMove.Other()) {
			legal++
		}
		b.UndoMove(m)
	}
	return legal
}
