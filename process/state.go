package process

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrProgramParse reports a non-integer token in a program's source text.
// It is fatal at load time; no State is produced.
var ErrProgramParse = errors.New("intcode: program parse error")

// State is the memory and register file of one Intcode process: a dense
// prefix of memory backed by additionalMemory for any index the program
// grows into, the instruction pointer, the relative base, the most
// recently observed I/O values, and the halt flag.
//
// State is owned and mutated only by the Process that holds it; readers
// (tooling, the orchestrator's observable handle) must only ever see it
// through a Snapshot taken at a step boundary.
type State struct {
	memory           []int64
	additionalMemory map[int64]int64

	instructionPointer int64
	relativeBase       int64

	lastInput  *int64
	lastOutput *int64

	halted bool
}

// Load parses program text — comma-separated signed decimal integers,
// surrounding whitespace trimmed — into a fresh State. additionalMemory
// starts empty; the instruction pointer and relative base start at 0;
// halted starts false.
func Load(text string) (*State, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty program", ErrProgramParse)
	}

	tokens := strings.Split(trimmed, ",")
	memory := make([]int64, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: token %d (%q): %v", ErrProgramParse, i, tok, err)
		}
		memory[i] = v
	}

	return &State{
		memory:           memory,
		additionalMemory: make(map[int64]int64),
	}, nil
}

// Read returns the value stored at memory index i (i >= 0): the dense
// prefix if i is within it, the sparse high-memory map if a value was
// previously written there, or 0 for an untouched index — modeling an
// infinite zero-initialized tape.
func (s *State) Read(i int64) int64 {
	if i >= 0 && i < int64(len(s.memory)) {
		return s.memory[i]
	}
	if v, ok := s.additionalMemory[i]; ok {
		return v
	}
	return 0
}

// Write stores v at memory index i, landing in the dense prefix or the
// sparse map depending on i. A negative i (relative-base arithmetic gone
// out of bounds) still lands in additionalMemory rather than panicking;
// only a negative instruction pointer is treated as fatal, per next().
func (s *State) Write(i, v int64) {
	if i >= 0 && i < int64(len(s.memory)) {
		s.memory[i] = v
		return
	}
	s.additionalMemory[i] = v
}

// IP returns the current instruction pointer.
func (s *State) IP() int64 { return s.instructionPointer }

// RelativeBase returns the current relative base.
func (s *State) RelativeBase() int64 { return s.relativeBase }

// LastInput returns the most recent value read from an input channel, or
// nil if none has been read yet.
func (s *State) LastInput() *int64 { return s.lastInput }

// LastOutput returns the most recent value written to an output channel,
// or nil if none has been written yet.
func (s *State) LastOutput() *int64 { return s.lastOutput }

// Halted reports whether the process that owns this State has executed a
// Halt instruction.
func (s *State) Halted() bool { return s.halted }

// next decodes the instruction at the current instruction pointer. It
// returns ok=false once halted. A negative instruction pointer — which can
// only arise from a JumpIfTrue/JumpIfFalse target computed from program
// data — is a decode-time fatal error rather than a negative-index panic.
func (s *State) next() (Instruction, bool, error) {
	if s.halted {
		return Instruction{}, false, nil
	}
	if s.instructionPointer < 0 {
		return Instruction{}, false, fmt.Errorf("%w: negative instruction pointer %d", ErrDecode, s.instructionPointer)
	}
	inst, err := decodeInstruction(s.instructionPointer, s.Read)
	if err != nil {
		return Instruction{}, false, err
	}
	return inst, true, nil
}

// Snapshot is a read-only, independently-owned copy of a State, safe to
// hold and inspect concurrently with further mutation of the original. It
// is what Orchestrator.States returns.
type Snapshot struct {
	Memory             []int64
	AdditionalMemory   map[int64]int64
	InstructionPointer int64
	RelativeBase       int64
	LastInput          *int64
	LastOutput         *int64
	Halted             bool
}

// Snapshot copies s's observable fields. The copy is independent of
// further mutation of s — taking it is the only way an external reader
// (a UI, a test, the orchestrator) may look at a State that a Process is
// concurrently stepping.
func (s *State) Snapshot() Snapshot {
	mem := make([]int64, len(s.memory))
	copy(mem, s.memory)

	extra := make(map[int64]int64, len(s.additionalMemory))
	for k, v := range s.additionalMemory {
		extra[k] = v
	}

	var li, lo *int64
	if s.lastInput != nil {
		v := *s.lastInput
		li = &v
	}
	if s.lastOutput != nil {
		v := *s.lastOutput
		lo = &v
	}

	return Snapshot{
		Memory:             mem,
		AdditionalMemory:   extra,
		InstructionPointer: s.instructionPointer,
		RelativeBase:       s.relativeBase,
		LastInput:          li,
		LastOutput:         lo,
		Halted:             s.halted,
	}
}

func (s *State) String() string {
	return fmt.Sprintf("ip=%d rb=%d halted=%v mem_len=%d extra=%d", s.instructionPointer, s.relativeBase, s.halted, len(s.memory), len(s.additionalMemory))
}
