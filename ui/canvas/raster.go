package canvas

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"zoomview/internal/zoom"
	"zoomview/pkg/geometry"
)

// FitTransform maps src into a w×h surface, scaled to fit and centered.
func FitTransform(src image.Rectangle, w, h int) geometry.AffineTransform {
	if src.Dx() == 0 || src.Dy() == 0 || w <= 0 || h <= 0 {
		return geometry.Identity()
	}
	f := math.Min(float64(w)/float64(src.Dx()), float64(h)/float64(src.Dy()))
	ox := (float64(w) - f*float64(src.Dx())) / 2
	oy := (float64(h) - f*float64(src.Dy())) / 2
	return geometry.Translation(ox, oy).
		Compose(geometry.Scale(f, f)).
		Compose(geometry.Translation(-float64(src.Min.X), -float64(src.Min.Y)))
}

// PixelTransform converts a transform expressed in device-independent units
// on a surface of the given size into one for a w×h pixel buffer.
func PixelTransform(ts zoom.TransformState, surface zoom.Geometry, w, h int) geometry.AffineTransform {
	px := geometry.NewSize(float64(w), float64(h))
	k := 1.0
	if surface.Width > 0 {
		k = float64(w) / surface.Width
	}
	return zoom.TransformState{
		Scale:      ts.Scale,
		TranslateX: ts.TranslateX * k,
		TranslateY: ts.TranslateY * k,
	}.Affine(px)
}

// Rasterize renders src fitted into a w×h buffer and then transformed by m,
// over a transparent background.
func Rasterize(src image.Image, w, h int, m geometry.AffineTransform) *image.RGBA {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	if src == nil || w <= 0 || h <= 0 {
		return output
	}
	s2d := m.Compose(FitTransform(src.Bounds(), w, h))
	draw.ApproxBiLinear.Transform(output, s2d.Aff3(), src, src.Bounds(), draw.Over, nil)
	return output
}

// withAlpha returns c with its alpha scaled by opacity.
func withAlpha(c color.Color, opacity float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(float64(n.A) * math.Max(0, math.Min(1, opacity))))
	return n
}
