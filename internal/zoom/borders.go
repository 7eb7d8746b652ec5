package zoom

import (
	"math"

	"zoomview/pkg/geometry"
)

// Borders is the outcome of EnforceBorders.
type Borders struct {
	Translate geometry.Point2D
	SnappedX  bool
	SnappedY  bool
}

// Bounds returns the allowed translation range on an axis of the given size
// at scale. For scale > 1, lo is negative and hi positive; at scale 1 both are
// zero.
func Bounds(size, scale float64) (lo, hi float64) {
	hi = (scale - 1) * size / (2 * scale)
	return -hi, hi
}

// EnforceBorders adds delta (in screen units) to the committed translation
// last and clamps each axis so the scaled content keeps covering the
// surface. An axis whose size is not yet known is left unclamped.
func EnforceBorders(last, delta geometry.Point2D, scale float64, surface Geometry) Borders {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	var b Borders
	b.Translate.X, b.SnappedX = clampAxis(last.X+delta.X/scale, surface.Width, scale)
	b.Translate.Y, b.SnappedY = clampAxis(last.Y+delta.Y/scale, surface.Height, scale)
	return b
}

func clampAxis(candidate, size, scale float64) (float64, bool) {
	if size <= 0 {
		return candidate, false
	}
	lo, hi := Bounds(size, scale)
	switch {
	case candidate < lo:
		return lo, true
	case candidate > hi:
		return hi, true
	}
	return candidate, false
}
