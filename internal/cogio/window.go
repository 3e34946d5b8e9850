// Package cogio provides windowed reads against remote Cloud-Optimized
// GeoTIFF assets: only the pixels covering an AOI are fetched, never a full
// scene download.
package cogio

import (
	"math"

	"github.com/kshitijrajsharma/vcube/internal/model"
)

// PixelWindow is an integer pixel-space read window: [Col0, Col0+Width) x
// [Row0, Row0+Height).
type PixelWindow struct {
	Col0, Row0     int
	Width, Height  int
}

// ComputeWindow converts an AOI bounding box already expressed in the COG's
// own CRS (minX, minY, maxX, maxY) into a pixel window against gt, the
// dataset's geotransform. The top-left corner is floored and the
// bottom-right ceiled so the window always fully covers the requested area.
func ComputeWindow(gt model.Affine, minX, minY, maxX, maxY float64) PixelWindow {
	c1, r1 := inverseTransform(gt, minX, maxY) // upper-left geo corner
	c2, r2 := inverseTransform(gt, maxX, minY) // lower-right geo corner

	col0 := int(math.Floor(math.Min(c1, c2)))
	row0 := int(math.Floor(math.Min(r1, r2)))
	col1 := int(math.Ceil(math.Max(c1, c2)))
	row1 := int(math.Ceil(math.Max(r1, r2)))

	return PixelWindow{Col0: col0, Row0: row0, Width: col1 - col0, Height: row1 - row0}
}

// inverseTransform maps a geo coordinate to fractional pixel coordinates
// using the inverse of a north-up affine geotransform (no rotation term,
// which matches every COG this engine reads).
func inverseTransform(gt model.Affine, x, y float64) (col, row float64) {
	col = (x - gt.C) / gt.A
	row = (y - gt.F) / gt.E
	return col, row
}

// OutOfBounds reports whether w falls entirely outside a dataset of the
// given pixel size, or has a non-positive extent — either way there is
// nothing to read and the caller should skip this scene rather than error.
func (w PixelWindow) OutOfBounds(sizeX, sizeY int) bool {
	if w.Width <= 0 || w.Height <= 0 {
		return true
	}
	if w.Col0+w.Width <= 0 || w.Row0+w.Height <= 0 {
		return true
	}
	if w.Col0 >= sizeX || w.Row0 >= sizeY {
		return true
	}
	return false
}

// Clamp restricts w to the dataset's pixel bounds, returning a window safe
// to pass to a band read. Call only after OutOfBounds has returned false.
func (w PixelWindow) Clamp(sizeX, sizeY int) PixelWindow {
	col0 := max(w.Col0, 0)
	row0 := max(w.Row0, 0)
	col1 := min(w.Col0+w.Width, sizeX)
	row1 := min(w.Row0+w.Height, sizeY)
	return PixelWindow{Col0: col0, Row0: row0, Width: col1 - col0, Height: row1 - row0}
}
