package gallery

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/trgs-studio/nightreel/interaction"
	"github.com/trgs-studio/nightreel/surface"
	"github.com/trgs-studio/nightreel/surface/surfacetest"
)

func imageItems(t *testing.T, n int) []Item {
	t.Helper()
	dir := t.TempDir()
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			Image: writePNG(t, dir, string(rune('a'+i))+".png", 4+i, 3),
			Text:  "Stop " + string(rune('A'+i)),
		}
	}
	return items
}

func newTestGallery(t *testing.T, items []Item, cfg Config) (*Gallery, *surfacetest.Device, *surfacetest.Host, *interaction.Runtime) {
	t.Helper()
	dev := surfacetest.New()
	host := &surfacetest.Host{W: 640, H: 360}
	rt := interaction.NewRuntime()
	g, err := Initialize(host, dev, rt, items, cfg)
	require.NoError(t, err)
	t.Cleanup(g.Teardown)
	return g, dev, host, rt
}

// ticks runs the frame loop at 60Hz over (from, to].
func ticks(rt *interaction.Runtime, from, to float64) {
	for ts := from + 16; ts <= to; ts += 16 {
		rt.Frames.Tick(ts)
	}
}

func TestGalleryTeardownReleasesEverything(t *testing.T) {
	defer goleak.VerifyNone(t)

	items := imageItems(t, 3)
	items = append(items, Item{Image: items[0].Image}, Item{Text: "no image"})
	curved := DefaultConfig()
	flat := DefaultConfig()
	flat.Bend = 0

	for _, cfg := range []Config{curved, flat} {
		for _, unobservable := range []bool{false, true} {
			dev := surfacetest.New()
			host := &surfacetest.Host{W: 800, H: 450, Unobservable: unobservable}
			rt := interaction.NewRuntime()

			g, err := Initialize(host, dev, rt, items, cfg)
			require.NoError(t, err)
			assert.False(t, rt.Idle())
			ticks(rt, 0, 64)
			g.WaitForImages()
			ticks(rt, 64, 128)
			assert.Positive(t, dev.Live())

			g.Teardown()
			assert.True(t, rt.Idle(), "listeners or frames left attached")
			assert.Zero(t, dev.Live(), "GPU handles retained")
			g.Teardown()
		}
	}
}

func TestGalleryInitializeErrors(t *testing.T) {
	t.Run("no items", func(t *testing.T) {
		dev := surfacetest.New()
		rt := interaction.NewRuntime()
		g, err := Initialize(&surfacetest.Host{W: 10, H: 10}, dev, rt, nil, DefaultConfig())
		assert.ErrorIs(t, err, ErrNoItems)
		assert.Nil(t, g)
		assert.True(t, rt.Idle())
	})

	t.Run("zero size", func(t *testing.T) {
		dev := surfacetest.New()
		rt := interaction.NewRuntime()
		_, err := Initialize(&surfacetest.Host{W: 10, H: 0}, dev, rt, testItems(2), DefaultConfig())
		assert.ErrorIs(t, err, surface.ErrZeroSize)
		assert.True(t, rt.Idle())
		assert.Zero(t, dev.Live())
	})

	t.Run("no context", func(t *testing.T) {
		dev := surfacetest.New()
		dev.NotReady = true
		rt := interaction.NewRuntime()
		_, err := Initialize(&surfacetest.Host{W: 10, H: 10}, dev, rt, testItems(2), DefaultConfig())
		assert.ErrorIs(t, err, surface.ErrNoContext)
		assert.True(t, rt.Idle())
	})

	t.Run("compile failure", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		dev := surfacetest.New()
		dev.FailCompile = true
		rt := interaction.NewRuntime()
		_, err := Initialize(&surfacetest.Host{W: 10, H: 10}, dev, rt, testItems(2), DefaultConfig())
		assert.ErrorIs(t, err, surfacetest.ErrCompile)
		assert.True(t, rt.Idle())
		assert.Zero(t, dev.Live())
	})

	t.Run("nil runtime", func(t *testing.T) {
		_, err := Initialize(&surfacetest.Host{W: 10, H: 10}, surfacetest.New(), nil, testItems(2), DefaultConfig())
		assert.ErrorIs(t, err, interaction.ErrNoRuntime)
	})

	t.Run("teardown of nil gallery", func(t *testing.T) {
		var g *Gallery
		assert.NotPanics(t, g.Teardown)
	})
}

func TestFailingImageDegrades(t *testing.T) {
	items := imageItems(t, 2)
	missing := filepath.Join(t.TempDir(), "missing.png")
	items = append(items, Item{Image: missing, Text: "lost"})

	g, dev, _, rt := newTestGallery(t, items, DefaultConfig())
	g.WaitForImages()
	rt.Frames.Tick(16)

	loaded, failed := g.ImageState(items[0].Image)
	assert.True(t, loaded)
	assert.False(t, failed)
	loaded, failed = g.ImageState(missing)
	assert.False(t, loaded)
	assert.True(t, failed)

	dev.Draws = nil
	rt.Frames.Tick(32)
	require.NotEmpty(t, dev.Draws)
	for _, d := range dev.Draws {
		_, live := dev.Textures[d.Texture]
		assert.True(t, live, "draw samples a released texture %d", d.Texture)
	}

	// Loaded tiles sample the image at its own size.
	sized := false
	for _, d := range dev.Draws {
		if d.Shader != 0 && d.Uniforms["uImageSizes"][0] == 4 {
			sized = true
		}
	}
	assert.True(t, sized, "no tile drew the first image")
}

func TestIndexChangeReported(t *testing.T) {
	var got []int
	cfg := DefaultConfig()
	cfg.ScrollEase = 1
	cfg.OnIndexChange = func(i int) { got = append(got, i) }

	g, _, _, rt := newTestGallery(t, testItems(3), cfg)
	ticks(rt, 0, 160)
	assert.Empty(t, got, "nothing settles without input")

	stride := g.Layout().Stride
	g.Scroller().ScrollTo(stride*2+0.3, 160)
	ticks(rt, 160, 600)
	assert.Equal(t, []int{2}, got)
	assert.Equal(t, 2, g.CenterIndex())
	assert.InDelta(t, stride*2, g.Scroller().Current, 1e-9)

	rt.Bus.Publish(interaction.Event{Kind: interaction.Wheel, DeltaY: 1, Time: 600})
	ticks(rt, 600, 1000)
	assert.Equal(t, []int{2}, got, "a small wheel nudge snaps back to the same item")

	rt.Bus.Publish(interaction.Event{Kind: interaction.PointerDown, X: 400})
	rt.Bus.Publish(interaction.Event{Kind: interaction.PointerMove, X: 400 - float32(stride/(cfg.ScrollSpeed*0.025))})
	rt.Bus.Publish(interaction.Event{Kind: interaction.PointerUp})
	ticks(rt, 1000, 1100)
	assert.Equal(t, []int{2, 0}, got, "dragging one stride forward wraps to the first item")
}

func TestFlatGalleryDrawsUnrotated(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bend = 0
	g, dev, _, rt := newTestGallery(t, testItems(4), cfg)
	g.Scroller().ScrollTo(3.7, 0)
	dev.Draws = nil
	ticks(rt, 0, 96)
	require.NotEmpty(t, dev.Draws)
	for _, d := range dev.Draws {
		assert.Zero(t, d.Quad.Rotation)
	}
	for _, tv := range g.Tiles() {
		assert.Zero(t, tv.Pose.Y)
	}
}

func TestCurvedGalleryTiltsEdgeTiles(t *testing.T) {
	_, dev, _, rt := newTestGallery(t, testItems(4), DefaultConfig())
	dev.Draws = nil
	rt.Frames.Tick(16)
	rotated := 0
	for _, d := range dev.Draws {
		if d.Quad.Rotation != 0 {
			rotated++
		}
	}
	assert.Positive(t, rotated)
}

func TestCaptionsDrawWithDefaultShader(t *testing.T) {
	_, dev, _, rt := newTestGallery(t, testItems(3), DefaultConfig())
	dev.Draws = nil
	rt.Frames.Tick(16)

	var tiles, captions int
	for _, d := range dev.Draws {
		if d.Shader == 0 {
			captions++
			w, h := dev.TextureSize(d.Texture)
			assert.Equal(t, 52, h)
			assert.Greater(t, w, 24)
		} else {
			tiles++
		}
	}
	assert.Positive(t, tiles)
	assert.Equal(t, tiles, captions, "every tile with text draws its caption")

	items := testItems(3)
	for i := range items {
		items[i].Text = ""
	}
	_, dev, _, rt = newTestGallery(t, items, DefaultConfig())
	dev.Draws = nil
	rt.Frames.Tick(16)
	for _, d := range dev.Draws {
		assert.NotZero(t, d.Shader, "captions drawn for items without text")
	}
}

func TestResizeKeepsCentredItem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScrollEase = 1
	g, _, host, rt := newTestGallery(t, testItems(5), cfg)
	before := g.Layout()

	g.Scroller().ScrollTo(before.Stride*3, 0)
	ticks(rt, 0, 400)
	require.Equal(t, 3, g.CenterIndex())

	host.W, host.H = 1000, 720
	ticks(rt, 400, 432)
	after := g.Layout()
	assert.Less(t, after.ViewportW, before.ViewportW)
	assert.InDelta(t, before.Stride, after.Stride, 1e-4, "tile size tracks the viewport height")
	assert.Equal(t, 3, g.CenterIndex())

	host.W, host.H = 640, 1200
	ticks(rt, 432, 464)
	assert.Equal(t, 3, g.CenterIndex())
	assert.InDelta(t, g.Layout().Stride*3, g.Scroller().Current, 1e-6)
}

func TestLayoutFollowsScreen(t *testing.T) {
	g, _, _, _ := newTestGallery(t, testItems(2), DefaultConfig())
	g.Resize(1280, 720)
	l := g.Layout()
	assert.InDelta(t, 16.569, l.ViewportH, 1e-3)
	assert.InDelta(t, 0.6*l.ViewportH, l.TileH, 1e-4)
	assert.InDelta(t, 9.732, l.Stride, 1e-3)
	assert.Equal(t, l.TileW+2, l.Stride)

	g.Resize(0, 720)
	assert.Equal(t, l, g.Layout(), "zero sizes are ignored")
}

func TestImageObserverSeesEveryLoad(t *testing.T) {
	items := imageItems(t, 2)
	missing := filepath.Join(t.TempDir(), "missing.png")
	items = append(items, Item{Image: missing})

	results := map[string]error{}
	rt := interaction.NewRuntime()
	g, err := Initialize(&surfacetest.Host{W: 640, H: 360}, surfacetest.New(), rt, items, DefaultConfig(),
		WithImageObserver(func(src string, err error) { results[src] = err }))
	require.NoError(t, err)
	defer g.Teardown()

	g.WaitForImages()
	rt.Frames.Tick(16)

	require.Len(t, results, 3)
	assert.NoError(t, results[items[0].Image])
	assert.NoError(t, results[items[1].Image])
	assert.Error(t, results[missing])
}
