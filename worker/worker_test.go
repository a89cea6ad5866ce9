package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"corvid/board"
	"corvid/engine"
	"corvid/eval/hce"
	"corvid/uci"
)

func newTestWorker(t *testing.T) (*Worker, chan uci.Output) {
	t.Helper()
	cfg := engine.DefaultEngineConfig()
	cfg.UseNNUE = false
	eval := engine.NewEvaluator(hce.Evaluator{}, nil, false)
	eng := engine.NewEngine(cfg, eval)
	out := make(chan uci.Output, 16)
	return New(eng, out), out
}

func drainBestMove(t *testing.T, out <-chan uci.Output, timeout time.Duration) uci.BestMoveOutput {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case o := <-out:
			if bm, ok := o.(uci.BestMoveOutput); ok {
				return bm
			}
		case <-deadline:
			t.Fatal("timed out waiting for bestmove")
		}
	}
}

func TestWorkerPositionAndGoProducesBestMove(t *testing.T) {
	w, out := newTestWorker(t)
	cmds := make(chan uci.Command, 4)
	go w.Run(cmds)

	cmds <- uci.PositionCommand{StartPos: true}
	cmds <- uci.GoCommand{MoveTime: 50 * time.Millisecond}

	bm := drainBestMove(t, out, 2*time.Second)
	require.NotEqual(t, board.NullMove, bm.Move)

	close(cmds)
}

func TestWorkerGoWithNoPositionEmitsNothing(t *testing.T) {
	w, out := newTestWorker(t)
	cmds := make(chan uci.Command, 4)
	go w.Run(cmds)

	cmds <- uci.GoCommand{MoveTime: 10 * time.Millisecond}
	cmds <- uci.IsReadyCommand{}

	select {
	case o := <-out:
		t.Fatalf("unexpected output with no position set: %#v", o)
	case <-time.After(100 * time.Millisecond):
	}

	close(cmds)
}

func TestWorkerIsReadySignalsDoneAfterDraining(t *testing.T) {
	w, _ := newTestWorker(t)
	cmds := make(chan uci.Command, 4)
	go w.Run(cmds)

	cmds <- uci.PositionCommand{StartPos: true}

	done := make(chan struct{})
	cmds <- uci.IsReadyCommand{Done: done}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("isready never signaled done")
	}

	close(cmds)
}

func TestWorkerStopIsNoOpWithNoSearch(t *testing.T) {
	w, _ := newTestWorker(t)
	require.NotPanics(t, func() { w.Stop() })
}

func TestWorkerSetOptionHashOutOfRangeIsIgnored(t *testing.T) {
	w, out := newTestWorker(t)
	cmds := make(chan uci.Command, 4)
	go w.Run(cmds)

	cmds <- uci.SetOptionCommand{Name: "Hash", Value: "99999", HasValue: true}
	cmds <- uci.PositionCommand{StartPos: true}
	cmds <- uci.GoCommand{MoveTime: 20 * time.Millisecond}

	bm := drainBestMove(t, out, 2*time.Second)
	require.NotEqual(t, board.NullMove, bm.Move)

	close(cmds)
}

func TestWorkerQuitStopsRunLoop(t *testing.T) {
	w, _ := newTestWorker(t)
	cmds := make(chan uci.Command, 4)
	runDone := make(chan struct{})
	go func() {
		w.Run(cmds)
		close(runDone)
	}()

	cmds <- uci.QuitCommand{}

	select {
	case <-runDone:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after QuitCommand")
	}
}
