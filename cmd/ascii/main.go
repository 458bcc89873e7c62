// Command ascii is a generic text-mode driver for Intcode programs that
// speak ASCII over their input/output channels: the scaffolding-maze
// vacuum robot (day 17), the springdroid (day 21), and the text adventure
// (day 25) all fit this shape — read a line of player/operator text,
// encode it one character per Input with a trailing newline, and decode
// every Output whose value is in 0..255 as a character, printing any other
// value (day 17's final "dust collected" report) on its own line as
// "[non-ASCII output: N]".
//
// It is a plain-text driver rather than a full terminal UI: a line of
// player/operator text in, a stream of decoded characters out.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/dmartin/intcode/channel"
	"github.com/dmartin/intcode/orchestrator"
	"github.com/dmartin/intcode/process"
	"github.com/dmartin/intcode/program"
	"github.com/golang/glog"
)

var programFile = flag.String("program", "", "Path to an ASCII-protocol Intcode program.")

func main() {
	flag.Parse()
	if *programFile == "" {
		glog.Exitf("ascii: -program is required")
	}

	state, err := program.Load(*programFile)
	if err != nil {
		glog.Exitf("ascii: %v", err)
	}

	orch, extIn, extOut, err := orchestrator.NewPipeline([]*process.State{state}, true)
	if err != nil {
		glog.Exitf("ascii: %v", err)
	}
	defer orch.Shutdown()

	stdin := bufio.NewScanner(os.Stdin)
	var pending []rune // characters of the current input line not yet sent

	for {
		inst, ok, err := orch.NextInstruction(0)
		if err != nil {
			glog.Exitf("ascii: decode error: %v", err)
		}
		if !ok {
			fmt.Println("\n[halted]")
			return
		}

		if inst.Op == process.OpInput {
			if len(pending) == 0 {
				if !stdin.Scan() {
					return
				}
				pending = append([]rune(stdin.Text()), '\n')
			}
			if err := extIn.Send(int64(pending[0])); err != nil {
				glog.Exitf("ascii: sending input: %v", err)
			}
			pending = pending[1:]
		}

		if err := orch.Step(0); err != nil {
			glog.Exitf("ascii: step: %v", err)
		}

		if inst.Op == process.OpOutput {
			v, status := extOut.Recv()
			if status != channel.StatusOK {
				glog.Exitf("ascii: output channel closed unexpectedly")
			}
			printOutput(v)
		}
	}
}

func printOutput(v int64) {
	if v >= 0 && v < 256 {
		fmt.Print(string(rune(v)))
		return
	}
	fmt.Printf("\n[non-ASCII output: %d]\n", v)
}
