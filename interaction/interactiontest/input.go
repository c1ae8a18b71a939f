// Package interactiontest provides a scripted window input for tests.
package interactiontest

// Input is a settable interaction.Input. Edge flags (Resized, Pressed,
// Released, Wheel) are cleared by EndFrame.
type Input struct {
	Resized  bool
	W, H     int
	OnScreen bool
	X, Y     float32
	Down     bool
	Pressed  bool
	Released bool
	Wheel    float32
}

// Press moves the cursor to (x, y) and presses the button.
func (in *Input) Press(x, y float32) {
	in.OnScreen, in.X, in.Y = true, x, y
	in.Down, in.Pressed = true, true
}

// Release lets go of the button at the current position.
func (in *Input) Release() {
	in.Down, in.Released = false, true
}

// EndFrame clears the per-frame edge flags.
func (in *Input) EndFrame() {
	in.Resized, in.Pressed, in.Released, in.Wheel = false, false, false, 0
}

func (in *Input) WindowResized() bool { return in.Resized }
func (in *Input) ScreenSize() (int, int) { return in.W, in.H }
func (in *Input) CursorOnScreen() bool { return in.OnScreen }
func (in *Input) MousePosition() (float32, float32) { return in.X, in.Y }
func (in *Input) ButtonDown() bool { return in.Down }
func (in *Input) ButtonPressed() bool { return in.Pressed }
func (in *Input) ButtonReleased() bool { return in.Released }
func (in *Input) WheelMove() float32 { return in.Wheel }
