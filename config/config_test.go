package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/trgs-studio/nightreel/gallery"
	"github.com/trgs-studio/nightreel/starfield"
)

func TestDefaultsMatchPackageDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, starfield.DefaultParams(), cfg.Starfield.Params())
	assert.Equal(t, starfield.DefaultParams(), cfg.Derived.Params)
	assert.Equal(t, gallery.DefaultConfig(), cfg.Gallery.Config())
	assert.Equal(t, int32(1280), cfg.Derived.WindowW)
	assert.Equal(t, int32(720), cfg.Derived.WindowH)
	assert.Equal(t, 4, cfg.Gallery.Workers)
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
starfield:
  density: 2.5
  mouse_repulsion: true
gallery:
  snap_delay: 300ms
telemetry:
  perf_collector_window: 0
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Starfield.Density)
	assert.True(t, cfg.Derived.Params.MouseRepulsion)
	assert.Equal(t, 300*time.Millisecond, cfg.Gallery.Config().SnapDelay)
	assert.Equal(t, 0.45, cfg.Starfield.TwinkleIntensity, "untouched keys keep defaults")
	assert.Equal(t, 60, cfg.Telemetry.PerfCollectorWindow, "non-positive window falls back")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("starfield: [1, 2"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "parsing config file")
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Gallery.Bend = -1.5
	cfg.Starfield.Focal = [2]float64{0.25, 0.75}

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.WriteYAML(path))
	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestGlobalConfig(t *testing.T) {
	prev := global
	t.Cleanup(func() { global = prev })

	global = nil
	assert.Panics(t, func() { Cfg() })
	require.NoError(t, Init(""))
	assert.Equal(t, 60, Cfg().Screen.TargetFPS)
	assert.Error(t, Init(filepath.Join(t.TempDir(), "nope.yaml")))
	assert.NotNil(t, Cfg(), "failed Init keeps the previous config")
}

func TestWindowSizeFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("screen:\n  width: 0\n  height: 900\n"), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int32(1280), cfg.Derived.WindowW)
	assert.Equal(t, int32(720), cfg.Derived.WindowH)

	require.NoError(t, os.WriteFile(path, []byte("screen:\n  width: 1600\n  height: 900\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, int32(1600), cfg.Derived.WindowW)
	assert.Equal(t, int32(900), cfg.Derived.WindowH)
}

func TestWatchReloadsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("starfield:\n  density: 2\n"), 0o644))

	w, err := Watch(context.Background(), path, 50*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	// A broken save is skipped.
	require.NoError(t, os.WriteFile(path, []byte("starfield: [\n"), 0o644))
	require.Eventually(t, func() bool {
		_, failures := w.Stats()
		return failures > 0
	}, 5*time.Second, 10*time.Millisecond)
	select {
	case <-w.Changes():
		t.Fatal("invalid config delivered")
	default:
	}

	require.NoError(t, os.WriteFile(path, []byte("starfield:\n  density: 3\n"), 0o644))
	select {
	case cfg := <-w.Changes():
		assert.Equal(t, 3.0, cfg.Derived.Params.Density)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after a valid save")
	}

	// Other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.yaml"), []byte("x: 1"), 0o644))
	time.Sleep(100 * time.Millisecond)
	reloads, _ := w.Stats()
	assert.Equal(t, 1, reloads)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

func TestWatchMissingDirectory(t *testing.T) {
	_, err := Watch(context.Background(), filepath.Join(t.TempDir(), "gone", "config.yaml"), 0, nil)
	assert.Error(t, err)
}
