// Command intdbg is an interactive step/breakpoint debugger for a single
// Intcode program: it wires a program into an orchestrator.Orchestrator
// and runs its REPL over stdin/stdout.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmartin/intcode/orchestrator"
	"github.com/dmartin/intcode/process"
	"github.com/dmartin/intcode/program"
	"github.com/golang/glog"
)

var programFile = flag.String("program", "", "Path to an Intcode program file to debug.")

func main() {
	flag.Parse()

	if *programFile == "" {
		glog.Exitf("intdbg: -program is required")
	}

	state, err := program.Load(*programFile)
	if err != nil {
		glog.Exitf("intdbg: %v", err)
	}

	orch, extIn, extOut, err := orchestrator.NewPipeline([]*process.State{state}, true)
	if err != nil {
		glog.Exitf("intdbg: %v", err)
	}
	defer orch.Shutdown()
	_ = extIn
	_ = extOut

	ctx, cancel := context.WithCancel(context.Background())
	sigQuit := make(chan os.Signal, 1)
	signal.Notify(sigQuit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigQuit
		glog.Infof("intdbg: received interrupt, exiting REPL")
		cancel()
	}()

	repl := orchestrator.NewREPL(orch, 0, os.Stdin, os.Stdout)
	if err := repl.Run(ctx); err != nil {
		glog.Exitf("intdbg: %v", err)
	}
}
