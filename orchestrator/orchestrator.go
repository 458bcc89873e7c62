// Package orchestrator wires one or more process.Process instances into a
// topology (chain or ring, see topology.go), spawns one driver goroutine per
// Process, and exposes the control surface a debugger or GUI driver uses to
// advance them: Step, StepUntil, Buffers, States.
//
// Any number of Processes are wired by Channel links and driven by
// goroutines reading from a per-process control queue, all supervised by one
// errgroup.Group rather than one context.WithCancel/go func pair per
// process.
package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmartin/intcode/breakpoint"
	"github.com/dmartin/intcode/channel"
	"github.com/dmartin/intcode/process"
	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
)

// notificationKind selects what a driver goroutine does with a
// notification.
type notificationKind int

const (
	notifyStep notificationKind = iota
	notifyStepUntil
)

type notification struct {
	kind notificationKind
	bps  breakpoint.Breakpoints
	done chan error
}

// Orchestrator owns a set of Processes, the Channels linking them, and one
// control queue per Process. Construct one with NewPipeline or NewRing.
type Orchestrator struct {
	processes []*process.Process
	links     []*channel.Handle
	control   []chan notification

	statesMu sync.Mutex
	states   []process.Snapshot

	group  *errgroup.Group
	cancel context.CancelFunc
}

// NumProcesses returns how many Processes this Orchestrator drives.
func (o *Orchestrator) NumProcesses() int { return len(o.processes) }

// NextInstruction decodes, without executing, the instruction process i
// will run next. It is a read-only peek, safe to call from a driver
// goroutine that also owns calling Step(i) for that same process, which is
// the pattern cmd/paintrobot and cmd/arcade use to interleave channel I/O
// with single-stepping outside the control-queue machinery.
func (o *Orchestrator) NextInstruction(i int) (process.Instruction, bool, error) {
	return o.processes[i].NextInstruction()
}

// Step sends a single-step notification to process i and waits for it to
// complete, returning whatever error the Step itself produced (nil on a
// normal advance, jump, or halt).
func (o *Orchestrator) Step(i int) error {
	return o.notify(i, notification{kind: notifyStep, done: make(chan error, 1)})
}

// StepUntil runs process i via RunUntil(bps.Matches) and waits for it to
// return, either because a breakpoint fired, the process halted, or a step
// returned an error.
func (o *Orchestrator) StepUntil(i int, bps breakpoint.Breakpoints) error {
	return o.notify(i, notification{kind: notifyStepUntil, bps: bps, done: make(chan error, 1)})
}

func (o *Orchestrator) notify(i int, n notification) error {
	if i < 0 || i >= len(o.processes) {
		return fmt.Errorf("orchestrator: process index %d out of range [0,%d)", i, len(o.processes))
	}
	o.control[i] <- n
	return <-n.done
}

// Buffers returns a snapshot of every inter-process Channel's buffer, in
// link order.
func (o *Orchestrator) Buffers() [][]int64 {
	out := make([][]int64, len(o.links))
	for i, h := range o.links {
		out[i] = h.Snapshot()
	}
	return out
}

// States returns a snapshot of every Process's State, in process order. The
// snapshots are independent copies, safe to read after further stepping.
func (o *Orchestrator) States() []process.Snapshot {
	o.statesMu.Lock()
	defer o.statesMu.Unlock()
	out := make([]process.Snapshot, len(o.states))
	copy(out, o.states)
	return out
}

// publish refreshes the cached snapshot for process i; called by that
// process's driver goroutine immediately after each Step/RunUntil
// completes, so States() always reflects step-granular boundaries, never
// mid-instruction state.
func (o *Orchestrator) publish(i int) {
	o.statesMu.Lock()
	o.states[i] = o.processes[i].State().Snapshot()
	o.statesMu.Unlock()
}

// drive is the per-process driver goroutine body: wait for a notification,
// run it, publish the resulting snapshot, report the error back.
func (o *Orchestrator) drive(ctx context.Context, i int) error {
	p := o.processes[i]
	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-o.control[i]:
			if !ok {
				return nil
			}
			if p.State().Halted() {
				n.done <- nil
				continue
			}

			var err error
			switch n.kind {
			case notifyStep:
				err = p.Step()
			case notifyStepUntil:
				err = p.RunUntil(n.bps.Matches)
			}
			o.publish(i)
			if err != nil {
				glog.Warningf("intcode: orchestrator process %d stopped: %v", i, err)
			}
			n.done <- err
		}
	}
}

// Shutdown closes every control queue and waits for all driver goroutines
// to return. Safe to call once; a second call is a no-op error-free wait.
func (o *Orchestrator) Shutdown() error {
	o.cancel()
	for _, c := range o.control {
		close(c)
	}
	err := o.group.Wait()
	o.control = nil
	return err
}
