package process

import (
	"errors"
	"fmt"

	"github.com/dmartin/intcode/channel"
	"github.com/golang/glog"
)

// ErrInvalidWriteOperand reports a write-destination operand decoded as
// Immediate. It is fatal for the affected Process.
var ErrInvalidWriteOperand = errors.New("intcode: write destination cannot be immediate")

// ErrInputClosed and ErrOutputClosed report an Input or Output instruction
// meeting an exhausted channel. Both are soft stops: the
// Process neither advances its instruction pointer nor halts, so an
// orchestrator may supply more input and resume by calling Step again.
var (
	ErrInputClosed  = errors.New("intcode: input channel closed")
	ErrOutputClosed = errors.New("intcode: output channel closed")
)

// advance tells Step whether to add the executed instruction's size to the
// instruction pointer.
type advance int

const (
	advanceYes advance = iota
	advanceNo
)

// Process owns one State, one Receiver and one Sender, and decodes and
// executes its program one instruction at a time.
type Process struct {
	state *State
	in    channel.Receiver
	out   channel.Sender

	// lastStepErr records the error (if any) that caused the most
	// recent Step to be a soft stop, so Run/RunUntil callers and
	// cmd/intdbg can distinguish "channel closed" from "halted" without
	// parsing error strings.
	lastStepErr error
}

// New returns a Process ready to execute state, reading Input values from
// in and writing Output values to out.
func New(state *State, in channel.Receiver, out channel.Sender) *Process {
	return &Process{state: state, in: in, out: out}
}

// State returns the Process's owned State. Callers outside the Process's
// own goroutine must use State.Snapshot, never read the live State
// directly.
func (p *Process) State() *State { return p.state }

// LastStepError returns the error that caused the most recent soft stop
// (ErrInputClosed or ErrOutputClosed), or nil if the last Step advanced,
// jumped, or halted normally.
func (p *Process) LastStepError() error { return p.lastStepErr }

// NextInstruction decodes, without executing, the instruction the Process
// will run on its next Step. It returns ok=false once halted.
func (p *Process) NextInstruction() (Instruction, bool, error) {
	return p.state.next()
}

// SetMemory writes v to memory index i. Legal at any time, but intended
// for pre-run mutation, e.g. seeding the "quarters" register before Run
// for the arcade driver.
func (p *Process) SetMemory(i, v int64) {
	p.state.Write(i, v)
}

// Step decodes and executes the instruction at the instruction pointer.
// It is a no-op once halted. A decode error or invalid write
// operand is fatal and returned as-is; a channel-closed condition is a
// soft stop, recorded via LastStepError and also returned so callers that
// want to halt eagerly on it may do so.
func (p *Process) Step() error {
	p.lastStepErr = nil

	if p.state.halted {
		return nil
	}

	inst, ok, err := p.state.next()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	adv, err := p.execute(inst)
	if err != nil {
		if errors.Is(err, ErrInputClosed) || errors.Is(err, ErrOutputClosed) {
			p.lastStepErr = err
			glog.Warningf("intcode: process paused at ip=%d on %v: %v", p.state.instructionPointer, inst, err)
		}
		return err
	}

	if adv == advanceYes {
		p.state.instructionPointer += inst.Size()
	}
	return nil
}

// Run steps the Process until it halts or a Step returns an error.
func (p *Process) Run() error {
	for !p.state.halted {
		if err := p.Step(); err != nil {
			return err
		}
	}
	return nil
}

// BreakpointPredicate is evaluated before each step of RunUntil; it
// receives the State to execute next and the decoded next instruction.
// Implemented by breakpoint.Breakpoints.Matches.
type BreakpointPredicate func(*State, Instruction) bool

// RunUntil steps the Process until it halts, a Step returns an error, or
// pred reports a match against the about-to-execute instruction — in
// which case RunUntil returns without taking that step.
func (p *Process) RunUntil(pred BreakpointPredicate) error {
	for {
		if p.state.halted {
			return nil
		}

		inst, ok, err := p.state.next()
		if err != nil {
			return err
		}
		if ok && pred != nil && pred(p.state, inst) {
			return nil
		}

		if err := p.Step(); err != nil {
			return err
		}
	}
}

// Recv reads one value directly from the Process's attached Receiver,
// bypassing Input/Output instruction decoding — used by drivers that want
// the program's final emitted value after it halts.
func (p *Process) Recv() (int64, channel.Status) {
	return p.in.Recv()
}

// readOperand evaluates a read-role Parameter.
func (p *Process) readOperand(param Parameter) int64 {
	switch param.Mode {
	case ModeImmediate:
		return param.Value
	case ModePosition:
		return p.state.Read(param.Value)
	case ModeRelative:
		return p.state.Read(p.state.relativeBase + param.Value)
	default:
		panic("unreachable parameter mode")
	}
}

// writeOperand resolves a write-role Parameter to the absolute memory
// index it designates, or an error if it is Immediate.
func (p *Process) writeOperand(param Parameter) (int64, error) {
	switch param.Mode {
	case ModePosition:
		return param.Value, nil
	case ModeRelative:
		return p.state.relativeBase + param.Value, nil
	default:
		return 0, ErrInvalidWriteOperand
	}
}

// execute runs one decoded Instruction against p.state and p's channel
// endpoints.
func (p *Process) execute(inst Instruction) (advance, error) {
	switch inst.Op {
	case OpAdd:
		return p.binaryOp(inst, func(a, b int64) int64 { return a + b })
	case OpMultiply:
		return p.binaryOp(inst, func(a, b int64) int64 { return a * b })
	case OpLessThan:
		return p.binaryOp(inst, func(a, b int64) int64 { return boolInt(a < b) })
	case OpEquals:
		return p.binaryOp(inst, func(a, b int64) int64 { return boolInt(a == b) })

	case OpInput:
		v, status := p.in.Recv()
		if status != channel.StatusOK {
			return advanceNo, fmt.Errorf("%w", ErrInputClosed)
		}
		dst, err := p.writeOperand(inst.Params[0])
		if err != nil {
			return advanceNo, err
		}
		p.state.Write(dst, v)
		p.state.lastInput = &v
		return advanceYes, nil

	case OpOutput:
		v := p.readOperand(inst.Params[0])
		p.state.lastOutput = &v
		if err := p.out.Send(v); err != nil {
			return advanceNo, fmt.Errorf("%w", ErrOutputClosed)
		}
		return advanceYes, nil

	case OpJumpIfTrue:
		if p.readOperand(inst.Params[0]) != 0 {
			p.state.instructionPointer = p.readOperand(inst.Params[1])
			return advanceNo, nil
		}
		return advanceYes, nil

	case OpJumpIfFalse:
		if p.readOperand(inst.Params[0]) == 0 {
			p.state.instructionPointer = p.readOperand(inst.Params[1])
			return advanceNo, nil
		}
		return advanceYes, nil

	case OpAdjustRelativeBase:
		p.state.relativeBase += p.readOperand(inst.Params[0])
		return advanceYes, nil

	case OpHalt:
		p.state.halted = true
		return advanceNo, nil

	default:
		return advanceNo, fmt.Errorf("%w: unhandled op %v", ErrDecode, inst.Op)
	}
}

func (p *Process) binaryOp(inst Instruction, op func(a, b int64) int64) (advance, error) {
	a := p.readOperand(inst.Params[0])
	b := p.readOperand(inst.Params[1])
	dst, err := p.writeOperand(inst.Params[2])
	if err != nil {
		return advanceNo, err
	}
	p.state.Write(dst, op(a, b))
	return advanceYes, nil
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
