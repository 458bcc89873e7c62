package orchestrator

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmartin/intcode/breakpoint"
)

// REPL is an interactive step/breakpoint debugger over one process owned by
// an Orchestrator. It holds a breakpoint.Breakpoints collection and drives
// the Orchestrator's Step/StepUntil rather than calling the process
// directly, so the same menu works regardless of how many processes the
// Orchestrator wires together.
type REPL struct {
	Orch         *Orchestrator
	ProcessIndex int
	In           io.Reader
	Out          io.Writer

	breakpoints breakpoint.Breakpoints
	scanner     *bufio.Scanner
}

// NewREPL returns a REPL over process index i of orch.
func NewREPL(orch *Orchestrator, i int, in io.Reader, out io.Writer) *REPL {
	return &REPL{Orch: orch, ProcessIndex: i, In: in, Out: out, scanner: bufio.NewScanner(in)}
}

// Run prints the menu and dispatches commands until the user quits or ctx
// is cancelled between commands. A run-until in progress cannot be
// interrupted mid-flight — ctx is only checked between prompts, so
// cmd/intdbg's SIGINT handling cancels the loop, not an in-flight
// StepUntil.
func (r *REPL) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		r.printMenu()
		fmt.Fprint(r.Out, "choice: ")
		if !r.scanner.Scan() {
			return nil
		}
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}

		switch strings.ToLower(line[:1]) {
		case "b":
			if err := r.addBreakpoint(line); err != nil {
				fmt.Fprintf(r.Out, "error: %v\n", err)
			}
		case "c":
			r.breakpoints = nil
			fmt.Fprintln(r.Out, "breakpoints cleared")
		case "s":
			if err := r.Orch.Step(r.ProcessIndex); err != nil {
				fmt.Fprintf(r.Out, "step stopped: %v\n", err)
			}
		case "r":
			if err := r.Orch.StepUntil(r.ProcessIndex, r.breakpoints); err != nil {
				fmt.Fprintf(r.Out, "run stopped: %v\n", err)
			}
		case "m":
			r.printMemory(line)
		case "q":
			return nil
		default:
			fmt.Fprintf(r.Out, "unrecognized command %q\n", line)
		}
	}
}

func (r *REPL) printMenu() {
	states := r.Orch.States()
	s := states[r.ProcessIndex]
	fmt.Fprintf(r.Out, "\nprocess %d: ip=%d rb=%d halted=%v\n", r.ProcessIndex, s.InstructionPointer, s.RelativeBase, s.Halted)
	fmt.Fprintln(r.Out, "(b)reak <MNEMONIC|addr> - add a breakpoint")
	fmt.Fprintln(r.Out, "(c)lear - clear breakpoints")
	fmt.Fprintln(r.Out, "(s)tep - execute one instruction")
	fmt.Fprintln(r.Out, "(r)un - run until breakpoint, halt, or stop")
	fmt.Fprintln(r.Out, "(m)emory <low> <high> - display a memory range, marking the next instruction's operand addresses")
	fmt.Fprintln(r.Out, "(q)uit")
}

// addBreakpoint parses "b ADD" (mnemonic) or "b 42" (memory location).
func (r *REPL) addBreakpoint(line string) error {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return fmt.Errorf("usage: b <MNEMONIC|addr>")
	}
	arg := fields[1]

	if op, ok := tryParseMnemonic(arg); ok {
		bp, err := breakpoint.FromMnemonic(op)
		if err != nil {
			return err
		}
		r.breakpoints = append(r.breakpoints, bp)
		return nil
	}

	var addr int64
	if _, err := fmt.Sscanf(arg, "%d", &addr); err != nil {
		return fmt.Errorf("not a mnemonic or integer address: %q", arg)
	}
	r.breakpoints = append(r.breakpoints, breakpoint.AtMemoryLocation(addr))
	return nil
}

func tryParseMnemonic(s string) (string, bool) {
	up := strings.ToUpper(s)
	switch up {
	case "ADD", "MUL", "INP", "OUT", "JIT", "JIF", "LST", "EQL", "ARO", "HLT":
		return up, true
	default:
		return "", false
	}
}

// printMemory dumps memory[low..high], marking with "*" any address the
// next-to-execute instruction will read or write through a Position or
// Relative operand, so a watched value's source is visible without
// decoding the opcode word by hand.
func (r *REPL) printMemory(line string) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		fmt.Fprintln(r.Out, "usage: m <low> <high>")
		return
	}
	var low, high int64
	if _, err := fmt.Sscanf(fields[1], "%d", &low); err != nil {
		fmt.Fprintf(r.Out, "bad low address: %v\n", err)
		return
	}
	if _, err := fmt.Sscanf(fields[2], "%d", &high); err != nil {
		fmt.Fprintf(r.Out, "bad high address: %v\n", err)
		return
	}

	s := r.Orch.States()[r.ProcessIndex]
	operand := r.operandAddresses(s.RelativeBase)

	for i := low; i <= high; i++ {
		v := int64(0)
		if i >= 0 && i < int64(len(s.Memory)) {
			v = s.Memory[i]
		} else if mv, ok := s.AdditionalMemory[i]; ok {
			v = mv
		}
		mark := " "
		if operand[i] {
			mark = "*"
		}
		fmt.Fprintf(r.Out, "%s%d: %d\n", mark, i, v)
	}
}

// operandAddresses returns the set of absolute memory addresses the
// next-to-execute instruction references through a Position or Relative
// operand. It is empty if the process has halted or the peek fails.
func (r *REPL) operandAddresses(relativeBase int64) map[int64]bool {
	out := make(map[int64]bool)
	inst, ok, err := r.Orch.NextInstruction(r.ProcessIndex)
	if err != nil || !ok {
		return out
	}
	for _, addr := range inst.PositionParameters() {
		out[addr] = true
	}
	for _, addr := range inst.RelativeParameters(relativeBase) {
		out[addr] = true
	}
	return out
}
