package interaction

import rl "github.com/gen2brain/raylib-go/raylib"

// RaylibInput reads the raylib window. It must be used from the window thread.
type RaylibInput struct{}

func (RaylibInput) WindowResized() bool { return rl.IsWindowResized() }

func (RaylibInput) ScreenSize() (int, int) { return rl.GetScreenWidth(), rl.GetScreenHeight() }

func (RaylibInput) CursorOnScreen() bool { return rl.IsCursorOnScreen() }

func (RaylibInput) MousePosition() (float32, float32) {
	pos := rl.GetMousePosition()
	return pos.X, pos.Y
}

func (RaylibInput) ButtonDown() bool { return rl.IsMouseButtonDown(rl.MouseButtonLeft) }

func (RaylibInput) ButtonPressed() bool { return rl.IsMouseButtonPressed(rl.MouseButtonLeft) }

func (RaylibInput) ButtonReleased() bool { return rl.IsMouseButtonReleased(rl.MouseButtonLeft) }

func (RaylibInput) WheelMove() float32 { return rl.GetMouseWheelMove() }
