package orchestrator

import (
	"github.com/dmartin/intcode/channel"
	"github.com/hajimehoshi/ebiten/v2"
)

// Joystick adapts ebiten keyboard state into the single-valued joystick
// input the arcade cabinet program expects on its input channel: -1
// (left), 0 (neutral), or 1 (right). There is no shift register here, just
// one Sender fed on every ebiten Update tick.
type Joystick struct {
	Left  ebiten.Key
	Right ebiten.Key
}

// DefaultJoystick binds the arrow keys.
func DefaultJoystick() Joystick {
	return Joystick{Left: ebiten.KeyLeft, Right: ebiten.KeyRight}
}

// Poll reads the current keyboard state and sends the resulting joystick
// value on snd. Intended to be called once per ebiten.Game.Update tick.
func (j Joystick) Poll(snd channel.Sender) error {
	switch {
	case ebiten.IsKeyPressed(j.Left):
		return snd.Send(-1)
	case ebiten.IsKeyPressed(j.Right):
		return snd.Send(1)
	default:
		return snd.Send(0)
	}
}
