package replay

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoomview/internal/zoom"
)

const imageScript = `
preset: image
width: 200
height: 200
steps:
  - pinch: {x: 100, y: 100, scales: [1.5, 2]}
  - pan: {dx: 20, dy: 0, frames: 2}
  - back: true
  - pan: {dx: 1, dy: 150}
`

func TestRunImageScript(t *testing.T) {
	s, err := Parse([]byte(imageScript))
	require.NoError(t, err)

	var out bytes.Buffer
	frames, err := Run(s, &out)
	require.NoError(t, err)
	require.Len(t, frames, 4)

	assert.Equal(t, "pinch", frames[0].Label)
	assert.InDelta(t, 2, frames[0].Transform.Scale, 1e-9)
	assert.Equal(t, 1.0, frames[0].Opacity)

	assert.InDelta(t, 10, frames[1].Transform.TranslateX, 1e-9)

	assert.True(t, frames[2].Consumed)
	assert.Equal(t, zoom.Identity, frames[2].Transform)

	require.NotNil(t, frames[3].Swipe)
	assert.Equal(t, zoom.AxisY, frames[3].Swipe.Direction)
	assert.InDelta(t, 200, frames[3].Transform.TranslateY, 1e-9)
	assert.Equal(t, 0.0, frames[3].Opacity)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "consumed=true")
	assert.Contains(t, lines[3], "swipe=y")
}

func TestRunBoxSnapsBack(t *testing.T) {
	s, err := Parse([]byte(`
steps:
  - pinch: {x: 10, y: 10, scales: [3]}
  - double_tap: {x: 50, y: 50}
  - resize: {width: 100, height: 100}
  - reset: true
`))
	require.NoError(t, err)
	assert.Equal(t, 400.0, s.Width)

	frames, err := Run(s, nil)
	require.NoError(t, err)
	for _, f := range frames {
		assert.Equal(t, zoom.Identity, f.Transform, f.Label)
	}
}

func TestRunErrors(t *testing.T) {
	_, err := Run(Script{Preset: "carousel"}, nil)
	assert.Error(t, err)

	_, err = Run(Script{Steps: []Step{{}}}, nil)
	assert.ErrorContains(t, err, "step 1")

	_, err = Run(Script{Steps: []Step{{Pinch: &PinchStep{}}}}, nil)
	assert.ErrorContains(t, err, "without scales")

	_, err = Parse([]byte("steps: ["))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(imageScript), 0o644))
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "image", s.Preset)
	assert.Len(t, s.Steps, 4)

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
