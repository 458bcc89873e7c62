package breakpoint

import (
	"testing"

	"github.com/dmartin/intcode/channel"
	"github.com/dmartin/intcode/process"
)

// decodeNext decodes, without executing, the next instruction of s. A
// throwaway Process supplies the decode path (State has no exported decode
// method of its own; Process.NextInstruction is the public entry point).
func decodeNext(t *testing.T, s *process.State) process.Instruction {
	t.Helper()
	_, _, inRcv := channel.New(true)
	_, outSnd, _ := channel.New(true)
	p := process.New(s, inRcv, outSnd)

	inst, ok, err := p.NextInstruction()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !ok {
		t.Fatal("decode: state reports halted")
	}
	return inst
}

func TestInstructionBreakpointMatchesByVariantOnly(t *testing.T) {
	s, err := process.Load("1,0,0,0,99")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	inst := decodeNext(t, s)

	bp, err := FromMnemonic("ADD")
	if err != nil {
		t.Fatalf("FromMnemonic: %v", err)
	}
	if !bp.Matches(s, inst) {
		t.Error("ADD breakpoint did not match an Add instruction")
	}

	other, err := FromMnemonic("HLT")
	if err != nil {
		t.Fatalf("FromMnemonic: %v", err)
	}
	if other.Matches(s, inst) {
		t.Error("HLT breakpoint matched an Add instruction")
	}
}

func TestMemoryLocationBreakpointMatchesOpcodeAndOperandWords(t *testing.T) {
	// 1,0,0,0,99 decodes at ip=0 to Add with 3 params, occupying words 0..3.
	s, err := process.Load("1,0,0,0,99")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	inst := decodeNext(t, s)

	for _, k := range []int64{0, 1, 2, 3} {
		if !AtMemoryLocation(k).Matches(s, inst) {
			t.Errorf("MemoryLocation(%d) did not match, want match (instruction spans words 0..3)", k)
		}
	}
	if AtMemoryLocation(4).Matches(s, inst) {
		t.Error("MemoryLocation(4) matched, want no match (belongs to the next instruction)")
	}
}

func TestBreakpointsMatchesIfAnyMemberMatches(t *testing.T) {
	s, err := process.Load("1,0,0,0,99")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	inst := decodeNext(t, s)

	hlt, _ := FromMnemonic("HLT")
	bps := Breakpoints{hlt, AtMemoryLocation(2)}
	if !bps.Matches(s, inst) {
		t.Error("Breakpoints did not match even though one member (MemoryLocation(2)) does")
	}

	bps = Breakpoints{hlt}
	if bps.Matches(s, inst) {
		t.Error("Breakpoints matched but no member should")
	}
}

func TestFromMnemonicRejectsUnknownMnemonic(t *testing.T) {
	if _, err := FromMnemonic("XYZ"); err == nil {
		t.Fatal("FromMnemonic(\"XYZ\"): want error, got nil")
	}
}
