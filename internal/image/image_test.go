package image

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholder(t *testing.T) {
	img := Placeholder(64, 48, 8)
	assert.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())
	assert.NotEqual(t, img.RGBAAt(0, 0), img.RGBAAt(8, 0))
	assert.Equal(t, img.RGBAAt(0, 0), img.RGBAAt(8, 8))
	assert.Equal(t, color.RGBA{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF}, img.RGBAAt(32, 5))
}

func TestLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pic.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, Placeholder(10, 10, 2)))
	require.NoError(t, f.Close())

	img, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dx())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("notes.txt")
	assert.ErrorContains(t, err, "unsupported")

	_, err = Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.jpg")
	require.NoError(t, os.WriteFile(bad, []byte("not a jpeg"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "decode")
}

func TestIsSupportedFormat(t *testing.T) {
	assert.True(t, IsSupportedFormat("a/B.TIF"))
	assert.True(t, IsSupportedFormat("x.webp"))
	assert.False(t, IsSupportedFormat("x.gif"))
}
