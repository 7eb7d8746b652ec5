// Package image loads pictures for the zoom view and generates a placeholder
// when none is given.
package image

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Load decodes the image at path.
func Load(path string) (image.Image, error) {
	if !IsSupportedFormat(path) {
		return nil, fmt.Errorf("unsupported image format: %s", filepath.Ext(path))
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".tiff", ".tif", ".png", ".jpg", ".jpeg", ".bmp", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// Placeholder returns a w×h checkerboard with a cross through the center,
// which makes pan and zoom easy to follow.
func Placeholder(w, h, cell int) *image.RGBA {
	if cell <= 0 {
		cell = 32
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	light := color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
	dark := color.RGBA{R: 0x60, G: 0x60, B: 0x68, A: 0xFF}
	mark := color.RGBA{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := light
			if (x/cell+y/cell)%2 == 1 {
				c = dark
			}
			if x == w/2 || y == h/2 {
				c = mark
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
