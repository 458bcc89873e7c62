package orchestrator

import (
	"context"
	"strings"
	"testing"

	"github.com/dmartin/intcode/process"
)

func TestREPLStepCommandAdvancesProcess(t *testing.T) {
	state, err := process.Load("1,0,0,0,99")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	o, _, _, err := NewPipeline([]*process.State{state}, true)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	defer o.Shutdown()

	in := strings.NewReader("s\nq\n")
	var out strings.Builder
	r := NewREPL(o, 0, in, &out)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	states := o.States()
	if states[0].InstructionPointer != 4 {
		t.Errorf("IP after one step = %d, want 4", states[0].InstructionPointer)
	}
}

func TestREPLRunCommandStopsAtBreakpoint(t *testing.T) {
	state, err := process.Load("1,0,0,0,1,0,0,0,99")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	o, _, _, err := NewPipeline([]*process.State{state}, true)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	defer o.Shutdown()

	in := strings.NewReader("b HLT\nr\nq\n")
	var out strings.Builder
	r := NewREPL(o, 0, in, &out)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	states := o.States()
	if states[0].Halted {
		t.Error("expected run to stop at the HLT breakpoint, before halting")
	}
	if states[0].InstructionPointer != 8 {
		t.Errorf("IP = %d, want 8", states[0].InstructionPointer)
	}
}

func TestREPLMemoryCommandMarksNextInstructionOperands(t *testing.T) {
	// 1,0,0,0,99 = ADD [0] [0] -> [0]: operand addresses are 0, 0, 0.
	state, err := process.Load("1,0,0,0,99")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	o, _, _, err := NewPipeline([]*process.State{state}, true)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	defer o.Shutdown()

	in := strings.NewReader("m 0 4\nq\n")
	var out strings.Builder
	r := NewREPL(o, 0, in, &out)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "*0: 1") {
		t.Errorf("address 0 (an ADD operand address) not marked in output:\n%s", got)
	}
	if !strings.Contains(got, " 4: 99") || strings.Contains(got, "*4: 99") {
		t.Errorf("address 4 (the opcode word, not an operand address) should be unmarked in output:\n%s", got)
	}
}
