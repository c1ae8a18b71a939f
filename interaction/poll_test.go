package interaction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trgs-studio/nightreel/interaction"
	"github.com/trgs-studio/nightreel/interaction/interactiontest"
)

func record(b *interaction.Bus, kinds ...interaction.Kind) *[]interaction.Kind {
	var got []interaction.Kind
	for _, k := range kinds {
		b.Subscribe(k, func(ev interaction.Event) { got = append(got, ev.Kind) })
	}
	return &got
}

func poll(p *interaction.Poller, in *interactiontest.Input, now float64) {
	p.Poll(now)
	in.EndFrame()
}

func TestPollerReleaseOutsideWindow(t *testing.T) {
	b := interaction.NewBus()
	got := record(b, interaction.PointerDown, interaction.PointerUp, interaction.PointerLeave)
	in := &interactiontest.Input{}
	p := interaction.NewPoller(b, in)

	in.Press(500, 300)
	poll(p, in, 0)
	assert.True(t, p.Pressed())

	// Drag off the window, then let go out there.
	in.OnScreen = false
	poll(p, in, 16)
	assert.True(t, p.Pressed(), "still held while off screen")
	in.Release()
	poll(p, in, 32)

	assert.False(t, p.Pressed())
	assert.Equal(t, []interaction.Kind{interaction.PointerDown, interaction.PointerLeave, interaction.PointerUp}, *got)
}

func TestPollerMissedReleaseEndsPress(t *testing.T) {
	b := interaction.NewBus()
	got := record(b, interaction.PointerDown, interaction.PointerUp)
	in := &interactiontest.Input{}
	p := interaction.NewPoller(b, in)

	in.Press(100, 100)
	poll(p, in, 0)
	// The release edge was never reported, but the button is up on return.
	in.OnScreen = false
	poll(p, in, 16)
	in.Down = false
	in.OnScreen = true
	poll(p, in, 32)

	assert.Equal(t, []interaction.Kind{interaction.PointerDown, interaction.PointerUp}, *got)
	assert.False(t, p.Pressed())

	// Hover with the button up publishes moves only.
	in.X = 40
	poll(p, in, 48)
	assert.Len(t, *got, 2)
}

func TestPollerClickWithinOneFrame(t *testing.T) {
	b := interaction.NewBus()
	got := record(b, interaction.PointerDown, interaction.PointerUp)
	in := &interactiontest.Input{}
	p := interaction.NewPoller(b, in)

	in.Press(10, 10)
	in.Release()
	poll(p, in, 0)
	assert.Equal(t, []interaction.Kind{interaction.PointerDown, interaction.PointerUp}, *got)
	assert.False(t, p.Pressed())
}

func TestPollerCaptureSwallowsClicks(t *testing.T) {
	b := interaction.NewBus()
	got := record(b, interaction.PointerDown, interaction.PointerUp)
	in := &interactiontest.Input{}
	p := interaction.NewPoller(b, in)
	p.SetCapture(func(x, y float32) bool { return x > 900 })

	in.Press(950, 40)
	poll(p, in, 0)
	in.Release()
	poll(p, in, 16)
	assert.Empty(t, *got)

	in.Press(300, 40)
	poll(p, in, 32)
	in.Release()
	poll(p, in, 48)
	assert.Equal(t, []interaction.Kind{interaction.PointerDown, interaction.PointerUp}, *got)
}

func TestPollerResizeAndWheel(t *testing.T) {
	b := interaction.NewBus()
	var events []interaction.Event
	for _, k := range []interaction.Kind{interaction.Resize, interaction.Wheel} {
		b.Subscribe(k, func(ev interaction.Event) { events = append(events, ev) })
	}
	in := &interactiontest.Input{OnScreen: true}
	p := interaction.NewPoller(b, in)

	in.Resized, in.W, in.H = true, 800, 600
	in.Wheel = 2
	poll(p, in, 5)
	// Same size again is not republished.
	in.Resized, in.W, in.H = true, 800, 600
	poll(p, in, 6)

	if assert.Len(t, events, 2) {
		assert.Equal(t, 800, events[0].Width)
		assert.Equal(t, float32(-2), events[1].DeltaY, "wheel up scrolls back")
		assert.Equal(t, 5.0, events[1].Time)
	}
}
