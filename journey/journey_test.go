package journey

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trgs-studio/nightreel/gallery"
)

const doc = `
phases:
  - name: Early
    items:
      - {title: One, caption: first, image: one.png}
      - {title: Two, caption: second, image: "https://example.com/two.jpg", alt: the second}
  - name: Late
    items:
      - {title: Three, caption: third, image: /abs/three.png}
      - {title: Four, caption: fourth, image: four.png, placeholder: true}
`

func TestParseResolvesImages(t *testing.T) {
	j, err := Parse([]byte(doc), "/content")
	require.NoError(t, err)
	require.Equal(t, 4, j.Len())

	items := j.Flatten()
	assert.Equal(t, []gallery.Item{
		{Image: filepath.Join("/content", "one.png"), Text: "first", Alt: "One"},
		{Image: "https://example.com/two.jpg", Text: "second", Alt: "the second"},
		{Image: "/abs/three.png", Text: "third", Alt: "Three"},
		{Image: "", Text: "fourth", Alt: "Four"},
	}, items)
}

func TestPhaseAt(t *testing.T) {
	j, err := Parse([]byte(doc), "")
	require.NoError(t, err)

	for idx, want := range map[int]string{0: "Early", 1: "Early", 2: "Late", 3: "Late", 40: "Late"} {
		p, ok := j.PhaseAt(idx)
		require.True(t, ok, idx)
		assert.Equal(t, want, p.Name, "index %d", idx)
	}
	_, ok := j.PhaseAt(-1)
	assert.False(t, ok)
	_, ok = (&Journey{}).PhaseAt(0)
	assert.False(t, ok)
}

func TestOutline(t *testing.T) {
	j, err := Parse([]byte(doc), "")
	require.NoError(t, err)
	lines := j.Outline()
	require.Len(t, lines, 4)
	assert.Equal(t, "Early - One: first", lines[0])
	assert.Equal(t, "Late - Four: fourth", lines[3])
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("phases: []"), "")
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Parse([]byte("phases:\n  - name: ''\n    items: [{title: x}]\n"), "")
	assert.ErrorContains(t, err, "no name")

	_, err = Parse([]byte("phases: {"), "")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadSample(t *testing.T) {
	j, err := Load("")
	require.NoError(t, err)
	assert.Positive(t, j.Len())
	for _, it := range j.Flatten() {
		assert.NotEmpty(t, it.Text)
		assert.NotEmpty(t, it.Alt)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journey.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	j, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "one.png"), j.Flatten()[0].Image)
}
