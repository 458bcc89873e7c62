// Package breakpoint implements the predicate language over
// (State, next Instruction) used to drive Process.RunUntil's "run-until"
// semantics.
//
// The package-level registry below is a self-populated lookup table: a
// breakpoint constructor is looked up by a 3-letter mnemonic populated
// into a package map at init time, rather than a hand-written switch.
package breakpoint

import (
	"fmt"

	"github.com/dmartin/intcode/process"
)

// Breakpoint is either a MemoryLocation or an Instruction variant match.
// Construct one with AtMemoryLocation or AtInstruction (or FromMnemonic
// for the latter).
type Breakpoint struct {
	// isMemory selects which of the two fields below is meaningful.
	isMemory bool
	location int64
	variant  process.Op
}

// AtMemoryLocation returns a Breakpoint matching when k falls within the
// opcode word or one of its operand words of the next-to-execute
// instruction.
func AtMemoryLocation(k int64) Breakpoint {
	return Breakpoint{isMemory: true, location: k}
}

// AtInstruction returns a Breakpoint matching by Op identity alone; operand
// contents are never compared (variant-identity, not structural equality).
func AtInstruction(op process.Op) Breakpoint {
	return Breakpoint{isMemory: false, variant: op}
}

// registry maps a 3-letter mnemonic to the Op it names. Populated once at
// init from process.OpFromMnemonic so the two packages never drift.
var registry = func() map[string]process.Op {
	m := make(map[string]process.Op)
	for _, name := range []string{"ADD", "MUL", "INP", "OUT", "JIT", "JIF", "LST", "EQL", "ARO", "HLT"} {
		op, ok := process.OpFromMnemonic(name)
		if !ok {
			panic(fmt.Sprintf("breakpoint: no process.Op registered for mnemonic %q", name))
		}
		m[name] = op
	}
	return m
}()

// FromMnemonic builds an instruction Breakpoint from a 3-letter opcode
// mnemonic: ADD, MUL, INP, OUT, JIT, JIF, LST, EQL, ARO, HLT.
// Operand fields of the resulting Breakpoint are placeholder — matching
// never inspects them.
func FromMnemonic(mnemonic string) (Breakpoint, error) {
	op, ok := registry[mnemonic]
	if !ok {
		return Breakpoint{}, fmt.Errorf("breakpoint: unknown mnemonic %q", mnemonic)
	}
	return AtInstruction(op), nil
}

// Matches reports whether this single Breakpoint fires given the State
// about to execute next and its decoded next instruction.
func (b Breakpoint) Matches(s *process.State, next process.Instruction) bool {
	if b.isMemory {
		lo := s.IP()
		hi := lo + next.Size() // [IP, IP+1+arity)
		return b.location >= lo && b.location < hi
	}
	return b.variant == next.Op
}

func (b Breakpoint) String() string {
	if b.isMemory {
		return fmt.Sprintf("@%d", b.location)
	}
	return b.variant.Mnemonic()
}

// Breakpoints is an ordered collection of Breakpoint values. It matches if
// any contained Breakpoint matches, and is itself a valid
// process.BreakpointPredicate via Matches.
type Breakpoints []Breakpoint

// Matches reports whether any breakpoint in the collection fires.
func (bps Breakpoints) Matches(s *process.State, next process.Instruction) bool {
	for _, bp := range bps {
		if bp.Matches(s, next) {
			return true
		}
	}
	return false
}
