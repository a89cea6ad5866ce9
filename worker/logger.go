package worker

import (
	"time"

	"corvid/board"
	"corvid/engine"
	"corvid/score"
	"corvid/uci"
)

// infoLogger adapts engine.Logger to the worker's output channel, turning
// each completed iteration into a uci.InfoOutput. Grounded on the teacher's
// uciLogger (zurichess/uci.go, now removed), which timestamped BeginSearch
// and derived nps from elapsed wall time the same way.
type infoLogger struct {
	out   chan<- uci.Output
	start time.Time
}

func newInfoLogger(out chan<- uci.Output) *infoLogger {
	return &infoLogger{out: out}
}

func (l *infoLogger) BeginSearch() { l.start = time.Now() }
func (l *infoLogger) EndSearch()   {}

func (l *infoLogger) PrintPV(stats engine.Stats, s score.Score, pv []board.Move) {
	elapsed := time.Since(l.start)
	if elapsed <= 0 {
		elapsed = time.Microsecond
	}
	nps := uint64(float64(stats.Nodes) / elapsed.Seconds())
	l.out <- uci.InfoOutput{
		Stats: stats,
		Score: s,
		PV:    pv,
		Nodes: stats.Nodes,
		NPS:   nps,
		Time:  elapsed,
	}
}
