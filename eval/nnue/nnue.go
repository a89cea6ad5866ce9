package nnue

import (
	"io"

	"corvid/board"
	"corvid/position"
	"corvid/score"
)

// Name identifies this evaluator to the search driver and to UCI reporting.
const Name = "nnue"

// Evaluator owns a quantized Network and the accumulator stack that tracks
// it incrementally across make/unmake. It is the concrete type the engine's
// locally-defined NNUE capability interface is satisfied by.
type Evaluator struct {
	net   *Network
	stack *AccumulatorStack
}

// New builds an Evaluator around an already-loaded Network (see
// LoadContainer), with a freshly reset accumulator stack.
func New(net *Network) *Evaluator {
	e := &Evaluator{net: net, stack: NewAccumulatorStack()}
	e.stack.Reset(net)
	return e
}

// Load reads a weight container from r and returns a ready Evaluator.
func Load(r io.Reader) (*Evaluator, error) {
	net, err := LoadContainer(r)
	if err != nil {
		return nil, err
	}
	return New(net), nil
}

// Name satisfies the engine's NNUE capability interface.
func (e *Evaluator) Name() string { return Name }

// Reset clears the accumulator stack back to its root, quantized-bias-only
// state; called from new_game and whenever set_position invalidates the
// incremental delta model.
func (e *Evaluator) Reset() { e.stack.Reset(e.net) }

// Push prepares a new accumulator stack level before a move is made.
func (e *Evaluator) Push() { e.stack.Push() }

// Pop discards the top accumulator stack level after a move is unmade.
func (e *Evaluator) Pop() { e.stack.Pop() }

// Evaluate returns the NNUE score for b from White's perspective,
// incrementally updating the current accumulator from the previous one
// before running the forward pass. It satisfies the engine's locally-
// defined NNUE capability interface, which is expressed in terms of Board
// rather than Position; the feature encoder still needs BoardMetrics, so
// Evaluate wraps b in an ephemeral Position to get it.
func (e *Evaluator) Evaluate(b *board.Board) score.Score {
	features := Encode(position.New(b))
	acc := e.stack.Current()
	if !acc.Computed {
		acc.Refresh(e.net, features)
	} else {
		acc.Update(e.net, features)
	}
	return score.Score(e.net.Forward(acc))
}

// EvaluateFresh computes the NNUE score for b from a one-shot, freshly reset
// accumulator, ignoring any incremental state; used to check the
// incremental-equals-fresh invariant and whenever a full refresh is wanted.
func EvaluateFresh(net *Network, b *board.Board) score.Score {
	var acc Accumulator
	acc.Refresh(net, Encode(position.New(b)))
	return score.Score(net.Forward(&acc))
}
