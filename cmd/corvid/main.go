// Command corvid is the UCI entry point: it wires stdin/stdout to the
// worker's command/output channels and owns process lifetime. Grounded on
// zurichess/main.go (now superseded) for the overall read-loop shape, and on
// the FrankyGo search logger for routing go-logging to a non-stdout backend
// (stdout is reserved for UCI protocol lines per spec.md §6).
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/op/go-logging"

	"corvid/engine"
	"corvid/eval/hce"
	"corvid/eval/nnue"
	"corvid/uci"
	"corvid/worker"
)

const (
	engineName   = "Corvid"
	engineAuthor = "corvid contributors"
)

var log = logging.MustGetLogger("corvid.main")

func main() {
	setupLogging()

	cfg := engine.DefaultEngineConfig()
	ev := buildEvaluator(cfg)

	eng := engine.NewEngine(cfg, ev)

	out := make(chan uci.Output, 16)
	w := worker.New(eng, out)
	cmds := make(chan uci.Command, 16)

	done := make(chan struct{})
	go printer(out, done)
	go w.Run(cmds)

	readLoop(cmds, w)

	close(cmds)
	close(out)
	<-done
}

// setupLogging sends every go-logging backend to stderr, never stdout: a
// stray log line on stdout would corrupt the UCI stream a GUI is parsing.
func setupLogging() {
	format := logging.MustStringFormatter(`%{time:15:04:05.000} %{level:-7.7s} %{module}: %{message}`)
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatter := logging.NewBackendFormatter(backend, format)
	leveled := logging.AddModuleLevel(formatter)
	leveled.SetLevel(logging.INFO, "")
	logging.SetBackend(leveled)
}

// buildEvaluator constructs the Evaluator per spec.md's evaluator
// selection: NNUE when cfg.UseNNUE and a weight file is configured, falling
// back to HCE otherwise. A weight path that fails to load is a fatal
// initialization error per spec.md §6's exit-code rule, since the operator
// explicitly asked for NNUE and silently downgrading would be surprising.
func buildEvaluator(cfg engine.EngineConfig) *engine.Evaluator {
	var net engine.NNUE
	if cfg.UseNNUE && cfg.NNUEPath != "" {
		f, err := os.Open(cfg.NNUEPath)
		if err != nil {
			log.Criticalf("nnue: %v", err)
			os.Exit(1)
		}
		defer f.Close()
		e, err := nnue.Load(f)
		if err != nil {
			log.Criticalf("nnue: %v", err)
			os.Exit(1)
		}
		net = e
	}
	return engine.NewEvaluator(hce.Evaluator{}, net, cfg.UseNNUE)
}

func readLoop(cmds chan<- uci.Command, w *worker.Worker) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		cmd, err := uci.Decode(line)
		if err != nil {
			log.Debugf("decode %q: %v", line, err)
			continue
		}
		if cmd == nil {
			continue
		}
		switch cmd.(type) {
		case uci.UCICommand:
			for _, l := range uci.IdentityLines(engineName, engineAuthor) {
				fmt.Println(l)
			}
		case uci.IsReadyCommand:
			ready := make(chan struct{})
			cmds <- uci.IsReadyCommand{Done: ready}
			<-ready
			fmt.Println("readyok")
		case uci.StopCommand:
			w.Stop()
		case uci.QuitCommand:
			return
		default:
			cmds <- cmd
		}
	}
}

func printer(out <-chan uci.Output, done chan<- struct{}) {
	defer close(done)
	for o := range out {
		fmt.Println(uci.Encode(o))
	}
}
