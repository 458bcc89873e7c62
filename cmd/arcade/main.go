// Command arcade runs the breakout-style cabinet driver program (day 13):
// an Intcode program that emits (x, y, tileID) triples to paint the screen
// (or (-1, 0, score) to report score) and reads a joystick position
// (-1/0/1) from the player.
//
// Unlike paintrobot, this program is genuinely interactive: the engine
// loop runs in a background goroutine while ebiten's Update/Draw tick
// independently.
package main

import (
	"flag"
	"image/color"
	"sync"

	"github.com/dmartin/intcode/channel"
	"github.com/dmartin/intcode/orchestrator"
	"github.com/dmartin/intcode/process"
	"github.com/dmartin/intcode/program"
	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	programFile = flag.String("program", "", "Path to the breakout-cabinet Intcode program.")
	freePlay    = flag.Bool("free_play", false, "Set memory[0]=2 (infinite quarters) before running.")
)

type tile struct{ x, y int }

type cabinet struct {
	orch   *orchestrator.Orchestrator
	joy    channel.Sender
	screen channel.Receiver

	mu    sync.Mutex
	tiles map[tile]int64
	score int64
}

func newCabinet(state *process.State) (*cabinet, error) {
	orch, extIn, extOut, err := orchestrator.NewPipeline([]*process.State{state}, true)
	if err != nil {
		return nil, err
	}
	c := &cabinet{orch: orch, joy: extIn, screen: extOut, tiles: make(map[tile]int64)}
	go c.run()
	return c, nil
}

// run drives the Process one instruction at a time, forever, consuming
// Output triples into the tile map and letting Input instructions block on
// the joystick channel fed by Update. Each instruction is peeked with
// NextInstruction and executed with Orchestrator.Step, in its own
// goroutine, so it interleaves with Update's independent per-tick polling.
func (c *cabinet) run() {
	var pending []int64
	for {
		inst, ok, err := c.orch.NextInstruction(0)
		if err != nil {
			glog.Warningf("arcade: decode error: %v", err)
			return
		}
		if !ok {
			glog.Infof("arcade: program halted")
			return
		}

		if err := c.orch.Step(0); err != nil {
			glog.Warningf("arcade: step: %v", err)
			return
		}

		if inst.Op == process.OpOutput {
			v, status := c.screen.Recv()
			if status != channel.StatusOK {
				return
			}
			pending = append(pending, v)
			if len(pending) == 3 {
				c.apply(pending[0], pending[1], pending[2])
				pending = pending[:0]
			}
		}
	}
}

func (c *cabinet) apply(x, y, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if x == -1 && y == 0 {
		c.score = id
		return
	}
	c.tiles[tile{int(x), int(y)}] = id
}

func (c *cabinet) snapshot() (map[tile]int64, int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[tile]int64, len(c.tiles))
	for k, v := range c.tiles {
		out[k] = v
	}
	return out, c.score
}

// Layout, Update, Draw implement ebiten.Game.
func (c *cabinet) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 480, 400
}

func (c *cabinet) Update() error {
	return orchestrator.DefaultJoystick().Poll(c.joy)
}

var tileColors = map[int64]color.Color{
	0: color.Black,
	1: color.Gray{Y: 128},
	2: color.RGBA{R: 200, G: 40, B: 40, A: 255},
	3: color.RGBA{G: 200, A: 255},
	4: color.White,
}

func (c *cabinet) Draw(screen *ebiten.Image) {
	tiles, _ := c.snapshot()
	const scale = 10
	for t, id := range tiles {
		col, ok := tileColors[id]
		if !ok {
			col = color.White
		}
		sx, sy := t.x*scale, t.y*scale
		for dx := 0; dx < scale; dx++ {
			for dy := 0; dy < scale; dy++ {
				screen.Set(sx+dx, sy+dy, col)
			}
		}
	}
}

func main() {
	flag.Parse()
	if *programFile == "" {
		glog.Exitf("arcade: -program is required")
	}

	state, err := program.Load(*programFile)
	if err != nil {
		glog.Exitf("arcade: %v", err)
	}
	if *freePlay {
		state.Write(0, 2)
	}

	c, err := newCabinet(state)
	if err != nil {
		glog.Exitf("arcade: %v", err)
	}
	defer c.orch.Shutdown()

	ebiten.SetWindowTitle("arcade")
	ebiten.SetWindowSize(480, 400)
	if err := ebiten.RunGame(c); err != nil {
		glog.Exitf("arcade: %v", err)
	}
}
