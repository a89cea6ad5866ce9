package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"corvid/board"
	"corvid/engine"
	"corvid/score"
	"corvid/uci"
)

func TestInfoLoggerPrintPVComputesNPS(t *testing.T) {
	out := make(chan uci.Output, 1)
	l := newInfoLogger(out)
	l.BeginSearch()
	time.Sleep(10 * time.Millisecond)
	l.PrintPV(engine.Stats{Depth: 4, SelDepth: 6, Nodes: 2000}, score.Score(15), []board.Move{board.NullMove})

	select {
	case o := <-out:
		info, ok := o.(uci.InfoOutput)
		require.True(t, ok)
		require.Equal(t, uint64(2000), info.Nodes)
		require.Positive(t, info.NPS)
	default:
		t.Fatal("PrintPV did not emit an InfoOutput")
	}
}
