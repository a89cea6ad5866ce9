package bench

import "testing"

// TestEvalAllSearchesRealGames is a smoke test, not a non-functional-change
// regression guard: unlike the teacher's exact node-count assertions, this
// search's pruning and ordering differ enough from the teacher's that a
// literal expected node count would need to be calibrated by actually
// running it, which this project never does. It instead checks the harness
// exercises real search work end to end.
func TestEvalAllSearchesRealGames(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full-game replay in short mode")
	}
	nodes, nps := EvalAll(3)
	if nodes == 0 {
		t.Fatal("expected at least one node searched")
	}
	if nps <= 0 {
		t.Fatalf("expected positive nodes/sec, got %f", nps)
	}
}
