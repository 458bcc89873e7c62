// Command paintrobot runs the hull-painting-robot driver program (day 11):
// an Intcode program that repeatedly reads the color of the panel it sits
// on and emits a (paint color, turn direction) pair, then renders the
// painted hull once the program halts.
//
// paintrobot runs the whole program to completion up front, in one
// goroutine, then hands a static game object to ebiten.RunGame — there is
// no live per-frame stepping, because the painting robot's entire
// algorithmic output is a single static image.
package main

import (
	"flag"
	"image/color"

	"github.com/dmartin/intcode/channel"
	"github.com/dmartin/intcode/orchestrator"
	"github.com/dmartin/intcode/process"
	"github.com/dmartin/intcode/program"
	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	programFile  = flag.String("program", "", "Path to the hull-painting-robot Intcode program.")
	startOnWhite = flag.Bool("start_on_white", false, "Whether the robot's starting panel is already white.")
)

type point struct{ x, y int }

const (
	dirUp = iota
	dirRight
	dirDown
	dirLeft
)

var deltas = [4]point{dirUp: {0, -1}, dirRight: {1, 0}, dirDown: {0, 1}, dirLeft: {-1, 0}}

func main() {
	flag.Parse()
	if *programFile == "" {
		glog.Exitf("paintrobot: -program is required")
	}

	state, err := program.Load(*programFile)
	if err != nil {
		glog.Exitf("paintrobot: %v", err)
	}

	orch, extIn, extOut, err := orchestrator.NewPipeline([]*process.State{state}, true)
	if err != nil {
		glog.Exitf("paintrobot: %v", err)
	}
	defer orch.Shutdown()

	painted := make(map[point]int64)
	pos := point{0, 0}
	dir := dirUp
	if *startOnWhite {
		painted[pos] = 1
	}

	var pending []int64
	for {
		inst, ok, err := orch.NextInstruction(0)
		if err != nil {
			glog.Exitf("paintrobot: decode error: %v", err)
		}
		if !ok {
			break
		}

		if inst.Op == process.OpInput {
			if err := extIn.Send(painted[pos]); err != nil {
				glog.Exitf("paintrobot: feeding camera input: %v", err)
			}
		}

		if err := orch.Step(0); err != nil {
			glog.Exitf("paintrobot: step: %v", err)
		}

		if inst.Op == process.OpOutput {
			v, status := extOut.Recv()
			if status != channel.StatusOK {
				glog.Exitf("paintrobot: output channel closed unexpectedly")
			}
			pending = append(pending, v)
			if len(pending) == 2 {
				painted[pos] = pending[0]
				if pending[1] == 0 {
					dir = (dir + 3) % 4 // turn left
				} else {
					dir = (dir + 1) % 4 // turn right
				}
				d := deltas[dir]
				pos = point{pos.x + d.x, pos.y + d.y}
				pending = pending[:0]
			}
		}
	}

	glog.Infof("paintrobot: halted, %d panels painted at least once", len(painted))

	game := &hullView{painted: painted}
	ebiten.SetWindowTitle("paintrobot")
	if err := ebiten.RunGame(game); err != nil {
		glog.Exitf("paintrobot: %v", err)
	}
}

// hullView is a static ebiten.Game rendering the final painted hull.
type hullView struct {
	painted map[point]int64
}

func (h *hullView) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 640, 480
}

func (h *hullView) Update() error { return nil }

func (h *hullView) Draw(screen *ebiten.Image) {
	minX, minY := 0, 0
	for p := range h.painted {
		if p.x < minX {
			minX = p.x
		}
		if p.y < minY {
			minY = p.y
		}
	}

	const scale = 4
	for p, paint := range h.painted {
		if paint == 0 {
			continue
		}
		sx := (p.x - minX) * scale
		sy := (p.y - minY) * scale
		for dx := 0; dx < scale; dx++ {
			for dy := 0; dy < scale; dy++ {
				screen.Set(sx+dx, sy+dy, color.White)
			}
		}
	}
}
