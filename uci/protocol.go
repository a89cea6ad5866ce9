// Package uci is the thin protocol layer spec.md §6 calls for: it decodes
// UCI input lines into typed commands and encodes typed outputs back to UCI
// lines. The engine and worker packages never see raw text.
package uci

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/op/go-logging"

	"corvid/board"
	"corvid/engine"
	"corvid/score"
)

var log = logging.MustGetLogger("corvid.uci")

// Command is one decoded UCI input line.
type Command interface{ isCommand() }

type UCICommand struct{}

// IsReadyCommand carries an optional reply channel: the worker closes it
// once every command queued ahead of this one has finished, so the reader
// thread knows exactly when to print "readyok" rather than guessing.
type IsReadyCommand struct {
	Done chan<- struct{}
}

type NewGameCommand struct{}

// PositionCommand carries either the startpos sentinel or a literal FEN,
// plus the moves played from it.
type PositionCommand struct {
	FEN      string
	StartPos bool
	Moves    []string
}

// GoCommand mirrors spec.md §6's grammar exactly: depth, movetime, the
// clock/increment/movestogo group, or infinite.
type GoCommand struct {
	Depth     int32
	MoveTime  time.Duration
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
	Infinite  bool
}

type SetOptionCommand struct {
	Name     string
	Value    string
	HasValue bool
}

type StopCommand struct{}
type QuitCommand struct{}

func (UCICommand) isCommand()       {}
func (IsReadyCommand) isCommand()   {}
func (NewGameCommand) isCommand()   {}
func (PositionCommand) isCommand()  {}
func (GoCommand) isCommand()        {}
func (SetOptionCommand) isCommand() {}
func (StopCommand) isCommand()      {}
func (QuitCommand) isCommand()      {}

// Decode parses one UCI input line into a typed Command. Unknown commands
// and malformed arguments are protocol errors per spec.md §7: logged at
// debug level and dropped, never propagated as a crash.
func Decode(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}
	fields := strings.Fields(line)
	switch fields[0] {
	case "uci":
		return UCICommand{}, nil
	case "isready":
		return IsReadyCommand{}, nil
	case "ucinewgame":
		return NewGameCommand{}, nil
	case "stop":
		return StopCommand{}, nil
	case "quit":
		return QuitCommand{}, nil
	case "position":
		return decodePosition(fields[1:])
	case "go":
		return decodeGo(fields[1:])
	case "setoption":
		return decodeSetOption(line)
	default:
		return nil, fmt.Errorf("unknown command %q", fields[0])
	}
}

func decodePosition(args []string) (Command, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("position: missing argument")
	}
	cmd := PositionCommand{}
	i := 0
	switch args[0] {
	case "startpos":
		cmd.StartPos = true
		i = 1
	case "fen":
		j := 1
		for j < len(args) && args[j] != "moves" {
			j++
		}
		if j == 1 {
			return nil, fmt.Errorf("position fen: missing FEN")
		}
		cmd.FEN = strings.Join(args[1:j], " ")
		i = j
	default:
		return nil, fmt.Errorf("position: unknown argument %q", args[0])
	}
	if i < len(args) {
		if args[i] != "moves" {
			return nil, fmt.Errorf("position: expected 'moves', got %q", args[i])
		}
		cmd.Moves = append(cmd.Moves, args[i+1:]...)
	}
	return cmd, nil
}

func decodeGo(args []string) (Command, error) {
	cmd := GoCommand{}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "infinite":
			cmd.Infinite = true
		case "depth":
			i++
			v, err := requireInt(args, i, "depth")
			if err != nil {
				return nil, err
			}
			cmd.Depth = int32(v)
		case "movetime":
			i++
			v, err := requireInt(args, i, "movetime")
			if err != nil {
				return nil, err
			}
			cmd.MoveTime = time.Duration(v) * time.Millisecond
		case "wtime":
			i++
			v, err := requireInt(args, i, "wtime")
			if err != nil {
				return nil, err
			}
			cmd.WTime = time.Duration(v) * time.Millisecond
		case "btime":
			i++
			v, err := requireInt(args, i, "btime")
			if err != nil {
				return nil, err
			}
			cmd.BTime = time.Duration(v) * time.Millisecond
		case "winc":
			i++
			v, err := requireInt(args, i, "winc")
			if err != nil {
				return nil, err
			}
			cmd.WInc = time.Duration(v) * time.Millisecond
		case "binc":
			i++
			v, err := requireInt(args, i, "binc")
			if err != nil {
				return nil, err
			}
			cmd.BInc = time.Duration(v) * time.Millisecond
		case "movestogo":
			i++
			v, err := requireInt(args, i, "movestogo")
			if err != nil {
				return nil, err
			}
			cmd.MovesToGo = v
		default:
			return nil, fmt.Errorf("go: unhandled argument %q", args[i])
		}
	}
	return cmd, nil
}

func requireInt(args []string, i int, name string) (int, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("go: missing value for %s", name)
	}
	v, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("go: invalid value for %s: %w", name, err)
	}
	return v, nil
}

func decodeSetOption(line string) (Command, error) {
	rest := strings.TrimPrefix(line, "setoption")
	rest = strings.TrimSpace(rest)
	rest = strings.TrimPrefix(rest, "name")
	rest = strings.TrimSpace(rest)
	if idx := strings.Index(rest, " value "); idx >= 0 {
		return SetOptionCommand{Name: rest[:idx], Value: rest[idx+len(" value "):], HasValue: true}, nil
	}
	if rest == "" {
		return nil, fmt.Errorf("setoption: missing name")
	}
	return SetOptionCommand{Name: rest}, nil
}

// Output is one typed message the worker produces; a Printer serializes it.
type Output interface{ isOutput() }

// InfoOutput reports one completed iteration, per spec.md §6's "info" line.
type InfoOutput struct {
	Stats engine.Stats
	Score score.Score
	PV    []board.Move
	Nodes uint64
	NPS   uint64
	Time  time.Duration
}

// BestMoveOutput ends a search. Move == board.NullMove means "no legal
// move", rendered as the literal "0000" spec.md §6 requires.
type BestMoveOutput struct {
	Move board.Move
}

func (InfoOutput) isOutput()     {}
func (BestMoveOutput) isOutput() {}

// uciMoveString renders m the way spec.md §6 requires, special-casing the
// "no move" sentinel: board.NullMove itself stringifies as "a1a1" (its zero
// value coincides with a real square pair), so it must be special-cased
// here rather than trusted to Move.UCI().
func uciMoveString(m board.Move) string {
	if m == board.NullMove {
		return "0000"
	}
	return m.UCI()
}

// Encode renders o as the UCI lines it produces (usually one, PrintPV never
// emits more than one per call).
func Encode(o Output) string {
	switch v := o.(type) {
	case InfoOutput:
		return encodeInfo(v)
	case BestMoveOutput:
		return "bestmove " + uciMoveString(v.Move)
	default:
		return ""
	}
}

func encodeInfo(v InfoOutput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "info depth %d seldepth %d multipv 1 score %s ", v.Stats.Depth, v.Stats.SelDepth, v.Score.UCI())
	fmt.Fprintf(&b, "nodes %d time %d nps %d ", v.Nodes, v.Time.Milliseconds(), v.NPS)
	b.WriteString("pv")
	for _, m := range v.PV {
		b.WriteByte(' ')
		b.WriteString(uciMoveString(m))
	}
	return b.String()
}

// IdentityLines is the fixed "uci" response: identity plus the recognized
// option set from spec.md §6's table.
func IdentityLines(name, author string) []string {
	return []string{
		fmt.Sprintf("id name %s", name),
		fmt.Sprintf("id author %s", author),
		fmt.Sprintf("option name Hash type spin default %d min 1 max 1024", engine.DefaultEngineConfig().HashMB),
		"uciok",
	}
}
