package orchestrator

import (
	"context"
	"fmt"

	"github.com/dmartin/intcode/channel"
	"github.com/dmartin/intcode/process"
	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
)

// build wires one process.Process per state, using link to produce the
// i-th inter-process Channel, spawns one driver goroutine per process
// inside an errgroup.Group, and returns the running Orchestrator.
//
// link(i) is called for i in [0, n) and must return the Receiver that feeds
// process i's input and the Sender that process i's output drains into.
// NewPipeline and NewRing differ only in how they build this wiring.
func build(states []*process.State, n int, link func(i int) (channel.Receiver, channel.Sender, *channel.Handle)) (*Orchestrator, error) {
	if n == 0 {
		return nil, fmt.Errorf("orchestrator: topology requires at least one process")
	}

	o := &Orchestrator{
		processes: make([]*process.Process, n),
		links:     make([]*channel.Handle, 0, n),
		control:   make([]chan notification, n),
		states:    make([]process.Snapshot, n),
	}

	for i := 0; i < n; i++ {
		in, out, handle := link(i)
		if handle != nil {
			o.links = append(o.links, handle)
		}
		o.processes[i] = process.New(states[i], in, out)
		o.control[i] = make(chan notification)
		o.states[i] = states[i].Snapshot()
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(ctx)
	o.group = group
	o.cancel = cancel

	for i := 0; i < n; i++ {
		i := i
		group.Go(func() error {
			return o.drive(gctx, i)
		})
	}

	glog.Infof("intcode: orchestrator started with %d process(es)", n)
	return o, nil
}

// NewPipeline wires states into a straight chain: process i's output feeds
// process i+1's input. The first process's input and the last process's
// output are left external, returned as extIn/extOut for a driver to
// connect to its own I/O.
func NewPipeline(states []*process.State, blockOnRecv bool) (o *Orchestrator, extIn channel.Sender, extOut channel.Receiver, err error) {
	n := len(states)
	if n == 0 {
		return nil, channel.Sender{}, channel.Receiver{}, fmt.Errorf("orchestrator: pipeline requires at least one process")
	}

	// One Channel per internal link, plus one for the external input and
	// one for the external output, so every process uniformly gets an
	// (in Receiver, out Sender) pair from link().
	extInHandle, extInSnd, extInRcv := channel.New(blockOnRecv)
	extOutHandle, extOutSnd, extOutRcv := channel.New(blockOnRecv)
	_ = extInHandle
	_ = extOutHandle

	receivers := make([]channel.Receiver, n)
	senders := make([]channel.Sender, n)
	links := make([]*channel.Handle, 0, n-1)

	receivers[0] = extInRcv
	for i := 0; i < n-1; i++ {
		handle, snd, rcv := channel.New(blockOnRecv)
		senders[i] = snd
		receivers[i+1] = rcv
		links = append(links, handle)
	}
	senders[n-1] = extOutSnd

	o, err = build(states, n, func(i int) (channel.Receiver, channel.Sender, *channel.Handle) {
		var h *channel.Handle
		if i < n-1 {
			h = links[i]
		}
		return receivers[i], senders[i], h
	})
	if err != nil {
		return nil, channel.Sender{}, channel.Receiver{}, err
	}
	return o, extInSnd, extOutRcv, nil
}

// NewRing wires states into a closed loop: process i's output feeds process
// (i+1)%n's input, so the last process's output feeds back into the first
// process's input. There is no external I/O; drivers observe the
// ring purely through Orchestrator.Buffers/States and Step/StepUntil.
func NewRing(states []*process.State, blockOnRecv bool) (*Orchestrator, error) {
	n := len(states)
	if n == 0 {
		return nil, fmt.Errorf("orchestrator: ring requires at least one process")
	}

	receivers := make([]channel.Receiver, n)
	senders := make([]channel.Sender, n)
	links := make([]*channel.Handle, n)

	for i := 0; i < n; i++ {
		handle, snd, rcv := channel.New(blockOnRecv)
		links[i] = handle
		senders[i] = snd
		receivers[(i+1)%n] = rcv
	}

	return build(states, n, func(i int) (channel.Receiver, channel.Sender, *channel.Handle) {
		return receivers[i], senders[i], links[i]
	})
}
