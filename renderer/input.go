package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluid/pointer"
)

// Input feeds raylib mouse and touch state into a pointer injector once per
// window frame.
type Input struct {
	in       *pointer.Injector
	touch    *pointer.TouchTracker
	onScreen bool
	lastX    float32
	lastY    float32

	// Blocked reports screen positions owned by UI. Presses there do not
	// create pointers.
	Blocked func(x, y float32) bool
}

// NewInput creates an input poller for in.
func NewInput(in *pointer.Injector) *Input {
	return &Input{in: in, touch: pointer.NewTouchTracker()}
}

// Poll reads the current input state.
func (i *Input) Poll() {
	if n := rl.GetTouchPointCount(); n > 1 || (n == 1 && i.touch.Active() > 0) {
		points := make([]pointer.TouchPoint, 0, n)
		for t := int32(0); t < n; t++ {
			pos := rl.GetTouchPosition(t)
			points = append(points, pointer.TouchPoint{ID: int(rl.GetTouchPointId(t)), X: pos.X, Y: pos.Y})
		}
		i.touch.Sync(i.in, points)
		return
	}
	if i.touch.Active() > 0 {
		i.touch.Sync(i.in, nil)
	}

	if !rl.IsCursorOnScreen() {
		if i.onScreen {
			i.in.Leave(pointer.MouseID)
			i.onScreen = false
		}
		return
	}
	i.onScreen = true

	pos := rl.GetMousePosition()
	switch {
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		if i.Blocked == nil || !i.Blocked(pos.X, pos.Y) {
			i.in.Down(pointer.MouseID, pos.X, pos.Y)
		}
	case rl.IsMouseButtonReleased(rl.MouseButtonLeft):
		i.in.Up(pointer.MouseID)
	case pos.X != i.lastX || pos.Y != i.lastY:
		i.in.Move(pointer.MouseID, pos.X, pos.Y)
	}
	i.lastX, i.lastY = pos.X, pos.Y
}
