// time.go implements the time controller described in spec.md §4.11: a
// GoParams-to-budget derivation, a managed soft/hard split with iteration
// feedback, and a dedicated timer goroutine that calls a stop callback.
// Grounded on the teacher's time_control.go (now removed), which used the
// same branch-factor style budget derivation from remaining clock and
// moves-to-go; pondering is dropped since nothing in this spec calls for
// it.

package engine

import (
	"sync/atomic"
	"time"
)

// GoParams is the typed form of a UCI "go" command.
type GoParams struct {
	WTime, BTime   time.Duration
	WInc, BInc     time.Duration
	MovesToGo      int
	MoveTime       time.Duration
	Depth          int32
	Infinite       bool
	NumLegalMoves  int
}

type timeMode int

const (
	modeManaged timeMode = iota
	modeExact
	modeDepthOnly
	modeInfinite
)

// TimeControl derives and enforces the per-search time budget.
type TimeControl struct {
	mode timeMode

	hard   time.Duration
	target time.Duration

	depth int32

	start time.Time

	prevIterDuration time.Duration

	stopped  atomic.Bool
	stopFunc func()

	// feedback inputs, updated by RecordIteration between depths.
	bestMoveChangedRun int
	stableRun          int
}

// NewTimeControl derives a TimeBudget from GoParams per spec.md §4.11's
// table.
func NewTimeControl(us Side, p GoParams) *TimeControl {
	tc := &TimeControl{depth: 100}

	switch {
	case p.Infinite:
		tc.mode = modeInfinite
	case p.MoveTime > 0:
		tc.mode = modeExact
		tc.hard = p.MoveTime
		tc.target = p.MoveTime
	case p.Depth > 0:
		tc.mode = modeDepthOnly
		tc.depth = p.Depth
	case p.NumLegalMoves == 1:
		tc.mode = modeExact
		tc.hard = 100 * time.Millisecond
		tc.target = tc.hard
	default:
		tc.mode = modeManaged
		myTime, myInc := p.WTime, p.WInc
		if us == SideBlack {
			myTime, myInc = p.BTime, p.BInc
		}
		movesToGo := p.MovesToGo
		if movesToGo <= 0 {
			movesToGo = 30
		}
		alloc := myTime/time.Duration(movesToGo) + myInc
		hard := alloc * 3
		if hard > myTime-100*time.Millisecond {
			hard = myTime - 100*time.Millisecond
		}
		if hard <= 0 {
			hard = 50 * time.Millisecond
		}
		tc.hard = hard
		tc.target = time.Duration(0.7 * float64(hard))
	}
	return tc
}

// Side distinguishes which clock (w/b) applies; kept local to avoid a
// dependency on board for a single bit of information.
type Side int

const (
	SideWhite Side = iota
	SideBlack
)

// Start begins the clock and, for Managed/Exact modes, launches the timer
// goroutine that invokes stop once the hard limit elapses.
func (tc *TimeControl) Start(stop func()) {
	tc.start = time.Now()
	tc.stopFunc = stop
	if tc.mode == modeDepthOnly || tc.mode == modeInfinite {
		return
	}
	go func() {
		timer := time.NewTimer(tc.hard)
		defer timer.Stop()
		<-timer.C
		if !tc.stopped.Load() {
			tc.Stop()
		}
	}()
}

func (tc *TimeControl) elapsed() time.Duration { return time.Since(tc.start) }

// NextDepth reports whether the controller permits starting another
// iteration at depth.
func (tc *TimeControl) NextDepth(depth int32) bool {
	if tc.Stopped() {
		return false
	}
	if tc.mode == modeDepthOnly {
		return depth <= tc.depth
	}
	if tc.mode == modeInfinite {
		return true
	}
	if depth > 100 {
		return false
	}
	elapsed := tc.elapsed()
	if elapsed >= tc.target {
		return false
	}
	if tc.mode == modeManaged && tc.prevIterDuration > 0 {
		estimate := tc.prevIterDuration * 2
		if elapsed+estimate > tc.hard {
			return false
		}
	}
	return true
}

// RecordIteration feeds iteration outcomes back into the managed target per
// spec.md §4.11's feedback rules, and remembers this iteration's wall time
// for the next depth's estimate.
func (tc *TimeControl) RecordIteration(duration time.Duration, bestMoveChanged, scoreDropped, aspirationFailed bool) {
	tc.prevIterDuration = duration
	if tc.mode != modeManaged {
		return
	}

	factor := 1.0
	if bestMoveChanged {
		factor += 0.4
		tc.bestMoveChangedRun++
		tc.stableRun = 0
	} else {
		tc.bestMoveChangedRun = 0
		tc.stableRun++
	}
	if scoreDropped {
		factor += 0.3
	}
	if aspirationFailed {
		factor += 0.2
	}
	if tc.stableRun >= 4 {
		factor -= 0.2
	}

	adjusted := time.Duration(factor * float64(tc.target))
	lo := time.Duration(0.3 * float64(tc.hard))
	hi := time.Duration(0.95 * float64(tc.hard))
	if adjusted < lo {
		adjusted = lo
	}
	if adjusted > hi {
		adjusted = hi
	}
	tc.target = adjusted
}

// Stop sets the stop flag and invokes the registered callback, idempotently.
func (tc *TimeControl) Stop() {
	if tc.stopped.CompareAndSwap(false, true) && tc.stopFunc != nil {
		tc.stopFunc()
	}
}

// Stopped reports whether Stop has been called.
func (tc *TimeControl) Stopped() bool { return tc.stopped.Load() }

// HardLimit reports the hard time budget, or 0 for depth-only/infinite
// modes that have none.
func (tc *TimeControl) HardLimit() time.Duration { return tc.hard }
