package process

import (
	"errors"
	"fmt"
)

// Op identifies the operation of a decoded Instruction, independent of its
// operands. Breakpoint matching by variant compares only this field.
type Op uint8

const (
	OpAdd Op = iota
	OpMultiply
	OpInput
	OpOutput
	OpJumpIfTrue
	OpJumpIfFalse
	OpLessThan
	OpEquals
	OpAdjustRelativeBase
	OpHalt
)

var opNames = map[Op]string{
	OpAdd:                "ADD",
	OpMultiply:           "MUL",
	OpInput:              "INP",
	OpOutput:             "OUT",
	OpJumpIfTrue:         "JIT",
	OpJumpIfFalse:        "JIF",
	OpLessThan:           "LST",
	OpEquals:             "EQL",
	OpAdjustRelativeBase: "ARO",
	OpHalt:               "HLT",
}

// Mnemonic maps to package breakpoint's 3-letter opcode identifiers.
func (o Op) Mnemonic() string {
	if n, ok := opNames[o]; ok {
		return n
	}
	return "???"
}

func (o Op) String() string { return o.Mnemonic() }

// arity is the number of operand words an Op consumes beyond its opcode
// word.
var arity = map[Op]int{
	OpAdd:                3,
	OpMultiply:           3,
	OpInput:              1,
	OpOutput:             1,
	OpJumpIfTrue:         2,
	OpJumpIfFalse:        2,
	OpLessThan:           3,
	OpEquals:             3,
	OpAdjustRelativeBase: 1,
	OpHalt:               0,
}

// Arity returns the number of operand words this Op consumes.
func (o Op) Arity() int { return arity[o] }

// mnemonicToOp is the reverse of Op.Mnemonic, used by package breakpoint to
// build an Instruction breakpoint from a 3-letter mnemonic.
var mnemonicToOp = func() map[string]Op {
	m := make(map[string]Op, len(opNames))
	for op, name := range opNames {
		m[name] = op
	}
	return m
}()

// OpFromMnemonic looks up an Op by its 3-letter mnemonic (ADD, MUL, INP,
// OUT, JIT, JIF, LST, EQL, ARO, HLT).
func OpFromMnemonic(s string) (Op, bool) {
	op, ok := mnemonicToOp[s]
	return op, ok
}

// opcodeToOp maps the raw two-digit operation code (opcode word mod 100)
// to its Op.
var opcodeToOp = map[int64]Op{
	1:  OpAdd,
	2:  OpMultiply,
	3:  OpInput,
	4:  OpOutput,
	5:  OpJumpIfTrue,
	6:  OpJumpIfFalse,
	7:  OpLessThan,
	8:  OpEquals,
	9:  OpAdjustRelativeBase,
	99: OpHalt,
}

// ErrDecode reports an opcode or parameter-mode digit outside its legal
// set.
var ErrDecode = errors.New("intcode: decode error")

// Instruction is a decoded opcode plus its typed Parameters.
type Instruction struct {
	Op     Op
	Params []Parameter
}

func (i Instruction) String() string {
	if len(i.Params) == 0 {
		return i.Op.Mnemonic()
	}
	return fmt.Sprintf("%s %v", i.Op.Mnemonic(), i.Params)
}

// Size is the number of memory words this instruction occupies: the
// opcode word plus one word per parameter.
func (i Instruction) Size() int64 { return int64(1 + len(i.Params)) }

// decodeInstruction decodes the instruction whose opcode word is at ip in
// read. read(i) must return the memory value at absolute index i.
func decodeInstruction(ip int64, read func(int64) int64) (Instruction, error) {
	word := read(ip)
	opcode := word % 100
	op, ok := opcodeToOp[opcode]
	if !ok {
		return Instruction{}, fmt.Errorf("%w: unknown opcode %d at %d", ErrDecode, opcode, ip)
	}

	n := op.Arity()
	params := make([]Parameter, n)
	for p := 1; p <= n; p++ {
		param, err := decodeParameter(word, p, read(ip+int64(p)))
		if err != nil {
			return Instruction{}, fmt.Errorf("at %d: %w", ip, err)
		}
		params[p-1] = param
	}

	return Instruction{Op: op, Params: params}, nil
}

// PositionParameters returns the absolute memory indices referenced by
// this instruction's Position-mode operands.
func (i Instruction) PositionParameters() []int64 {
	var out []int64
	for _, p := range i.Params {
		if p.Mode == ModePosition {
			out = append(out, p.Value)
		}
	}
	return out
}

// RelativeParameters returns base+d for each Relative-mode operand d of
// this instruction.
func (i Instruction) RelativeParameters(base int64) []int64 {
	var out []int64
	for _, p := range i.Params {
		if p.Mode == ModeRelative {
			out = append(out, base+p.Value)
		}
	}
	return out
}
