package uci

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"corvid/board"
	"corvid/engine"
	"corvid/score"
)

func TestDecodePositionStartpos(t *testing.T) {
	cmd, err := Decode("position startpos moves e2e4 e7e5")
	require.NoError(t, err)
	pc, ok := cmd.(PositionCommand)
	require.True(t, ok)
	require.True(t, pc.StartPos)
	require.Equal(t, []string{"e2e4", "e7e5"}, pc.Moves)
}

func TestDecodePositionFEN(t *testing.T) {
	fen := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	cmd, err := Decode("position fen " + fen + " moves e2e4")
	require.NoError(t, err)
	pc, ok := cmd.(PositionCommand)
	require.True(t, ok)
	require.False(t, pc.StartPos)
	require.Equal(t, fen, pc.FEN)
	require.Equal(t, []string{"e2e4"}, pc.Moves)
}

func TestDecodeGoMovetime(t *testing.T) {
	cmd, err := Decode("go movetime 1500")
	require.NoError(t, err)
	gc, ok := cmd.(GoCommand)
	require.True(t, ok)
	require.Equal(t, 1500*time.Millisecond, gc.MoveTime)
}

func TestDecodeGoClock(t *testing.T) {
	cmd, err := Decode("go wtime 60000 btime 60000 winc 1000 binc 1000 movestogo 20")
	require.NoError(t, err)
	gc, ok := cmd.(GoCommand)
	require.True(t, ok)
	require.Equal(t, 60*time.Second, gc.WTime)
	require.Equal(t, time.Second, gc.WInc)
	require.Equal(t, 20, gc.MovesToGo)
}

func TestDecodeGoInfinite(t *testing.T) {
	cmd, err := Decode("go infinite")
	require.NoError(t, err)
	gc, ok := cmd.(GoCommand)
	require.True(t, ok)
	require.True(t, gc.Infinite)
}

func TestDecodeSetOptionWithValue(t *testing.T) {
	cmd, err := Decode("setoption name Hash value 512")
	require.NoError(t, err)
	sc, ok := cmd.(SetOptionCommand)
	require.True(t, ok)
	require.Equal(t, "Hash", sc.Name)
	require.Equal(t, "512", sc.Value)
	require.True(t, sc.HasValue)
}

func TestDecodeSimpleCommands(t *testing.T) {
	for line, want := range map[string]Command{
		"uci":         UCICommand{},
		"isready":     IsReadyCommand{},
		"ucinewgame":  NewGameCommand{},
		"stop":        StopCommand{},
		"quit":        QuitCommand{},
	} {
		cmd, err := Decode(line)
		require.NoError(t, err)
		require.IsType(t, want, cmd)
	}
}

func TestDecodeUnknownCommand(t *testing.T) {
	_, err := Decode("frobnicate")
	require.Error(t, err)
}

func TestDecodeEmptyLine(t *testing.T) {
	cmd, err := Decode("   ")
	require.NoError(t, err)
	require.Nil(t, cmd)
}

func TestEncodeBestMoveNullRendersZeros(t *testing.T) {
	got := Encode(BestMoveOutput{Move: board.NullMove})
	require.Equal(t, "bestmove 0000", got)
}

func TestEncodeBestMoveRendersUCI(t *testing.T) {
	m := board.Move{From: board.RankFile(1, 4), To: board.RankFile(3, 4), MoveType: board.Normal, Target: board.WhitePawn}
	got := Encode(BestMoveOutput{Move: m})
	require.Equal(t, "bestmove e2e4", got)
}

func TestEncodeInfoIncludesScoreAndPV(t *testing.T) {
	m := board.Move{From: board.RankFile(1, 4), To: board.RankFile(3, 4), MoveType: board.Normal, Target: board.WhitePawn}
	out := InfoOutput{
		Stats: engine.Stats{Depth: 5, SelDepth: 8, Nodes: 1000},
		Score: score.Score(37),
		PV:    []board.Move{m},
		Nodes: 1000,
		NPS:   50000,
		Time:  20 * time.Millisecond,
	}
	got := Encode(out)
	require.Contains(t, got, "info depth 5 seldepth 8 multipv 1 score cp 37")
	require.Contains(t, got, "nodes 1000")
	require.Contains(t, got, "pv e2e4")
}

func TestIdentityLinesIncludesHashOption(t *testing.T) {
	lines := IdentityLines("Corvid", "corvid contributors")
	require.Contains(t, lines, "id name Corvid")
	require.Contains(t, lines, "uciok")
	found := false
	for _, l := range lines {
		if l == "option name Hash type spin default 384 min 1 max 1024" {
			found = true
		}
	}
	require.True(t, found)
}
