package process

import (
	"errors"
	"testing"

	"github.com/dmartin/intcode/channel"
)

func mustLoad(t *testing.T, text string) *State {
	t.Helper()
	s, err := Load(text)
	if err != nil {
		t.Fatalf("Load(%q): %v", text, err)
	}
	return s
}

// TestEndToEndPrograms exercises a handful of small end-to-end programs
// covering add, multiply, input/output, equals and immediate mode.
func TestEndToEndPrograms(t *testing.T) {
	cases := []struct {
		name    string
		program string
		input   []int64
		want    []int64 // expected outputs, in order
		memZero int64   // expected memory[0] after halt, checked when wantMem is true
		wantMem bool
	}{
		{
			name:    "add",
			program: "1,0,0,0,99",
			wantMem: true,
			memZero: 2,
		},
		{
			name:    "multiply_with_indirection",
			program: "1,1,1,4,99,5,6,0,99",
			wantMem: true,
			memZero: 30,
		},
		{
			name:    "echo_input",
			program: "3,0,4,0,99",
			input:   []int64{42},
			want:    []int64{42},
		},
		{
			name:    "equals_eight_true",
			program: "3,9,8,9,10,9,4,9,99,-1,8",
			input:   []int64{8},
			want:    []int64{1},
		},
		{
			name:    "equals_eight_false",
			program: "3,9,8,9,10,9,4,9,99,-1,8",
			input:   []int64{7},
			want:    []int64{0},
		},
		{
			name:    "large_immediate",
			program: "104,1125899906842624,99",
			want:    []int64{1125899906842624},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := mustLoad(t, tc.program)
			_, inSnd, inRcv := channel.New(true)
			outHandle, outSnd, outRcv := channel.New(false)
			_ = outHandle

			for _, v := range tc.input {
				if err := inSnd.Send(v); err != nil {
					t.Fatalf("seed input %d: %v", v, err)
				}
			}

			p := New(state, inRcv, outSnd)
			if err := p.Run(); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if !state.Halted() {
				t.Fatal("process did not halt")
			}

			var got []int64
			for {
				v, status := outRcv.Recv()
				if status != channel.StatusOK {
					break
				}
				got = append(got, v)
			}

			if tc.wantMem {
				if m := state.Read(0); m != tc.memZero {
					t.Errorf("memory[0] = %d, want %d", m, tc.memZero)
				}
			}
			if len(tc.want) > 0 || len(got) > 0 {
				if !int64SliceEqual(got, tc.want) {
					t.Errorf("outputs = %v, want %v", got, tc.want)
				}
			}
		})
	}
}

// TestRelativeBaseAndSparseMemory covers relative base adjustment plus
// writes/reads well past the dense program prefix. The program is a quine:
// it outputs a copy of its own 16 words.
func TestRelativeBaseAndSparseMemory(t *testing.T) {
	program := "109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99"
	state := mustLoad(t, program)
	_, _, inRcv := channel.New(true)
	outHandle, outSnd, outRcv := channel.New(false)
	_ = outHandle

	p := New(state, inRcv, outSnd)
	if err := p.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var got []int64
	for {
		v, status := outRcv.Recv()
		if status != channel.StatusOK {
			break
		}
		got = append(got, v)
	}

	want := []int64{109, 1, 204, -1, 1001, 100, 1, 100, 1008, 100, 16, 101, 1006, 101, 0, 99}
	if !int64SliceEqual(got, want) {
		t.Errorf("outputs = %v, want %v", got, want)
	}
}

func TestStepIsIdempotentOnceHalted(t *testing.T) {
	state := mustLoad(t, "99")
	_, _, inRcv := channel.New(true)
	_, outSnd, _ := channel.New(true)

	p := New(state, inRcv, outSnd)
	if err := p.Step(); err != nil {
		t.Fatalf("first Step: %v", err)
	}
	if !state.Halted() {
		t.Fatal("expected halted after executing opcode 99")
	}

	ipBefore := state.IP()
	if err := p.Step(); err != nil {
		t.Fatalf("Step on halted process: %v", err)
	}
	if state.IP() != ipBefore {
		t.Errorf("Step on halted process moved IP from %d to %d", ipBefore, state.IP())
	}
}

func TestInputOnClosedChannelIsSoftStop(t *testing.T) {
	state := mustLoad(t, "3,0,99")
	_, snd, rcv := channel.New(true)
	snd.Drop() // close immediately; no value ever arrives

	_, outSnd, _ := channel.New(true)
	p := New(state, rcv, outSnd)

	ipBefore := state.IP()
	err := p.Step()
	if !errors.Is(err, ErrInputClosed) {
		t.Fatalf("Step() error = %v, want ErrInputClosed", err)
	}
	if state.Halted() {
		t.Error("process halted on input-closed; it must remain resumable")
	}
	if state.IP() != ipBefore {
		t.Errorf("IP advanced on input-closed soft stop: %d -> %d", ipBefore, state.IP())
	}
}

func TestNegativeJumpTargetIsFatalDecodeError(t *testing.T) {
	// 1105: JumpIfTrue, both params immediate. Condition 1 is always
	// true, jumping IP to -1.
	state := mustLoad(t, "1105,1,-1,99")
	_, _, inRcv := channel.New(true)
	_, outSnd, _ := channel.New(true)

	p := New(state, inRcv, outSnd)
	err := p.Run()
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Run() error = %v, want ErrDecode", err)
	}
	if state.Halted() {
		t.Error("process reported halted after a fatal decode error")
	}
}

func int64SliceEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
