// Package render turns computed band-math/aggregate results into the
// output artifacts the API hands back: single-band PNGs, multi-band RGB
// composites, GeoTIFFs, animated GIFs, trend-line plots, and zip bundles.
package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/kshitijrajsharma/vcube/internal/colormap"
)

// Grid is a single band, shape (height, width). NaN marks a missing pixel.
type Grid = [][]float64

// PNG renders a single-band grid as a colorized RGBA PNG using cmap,
// stretching finite values linearly into [0, 1] unless vmin/vmax are
// given explicitly (either may be NaN to mean "derive from data").
func PNG(w io.Writer, grid Grid, cmap string, vmin, vmax float64) error {
	lo, hi := vmin, vmax
	if math.IsNaN(lo) || math.IsNaN(hi) {
		lo, hi = dataRange(grid)
	}
	img := Colorize(grid, cmap, lo, hi)
	return png.Encode(w, img)
}

// Colorize maps every finite value in grid through cmap, stretched from
// [lo, hi] into [0, 1]; NaN pixels are fully transparent.
func Colorize(grid Grid, cmapName string, lo, hi float64) *image.RGBA {
	height := len(grid)
	width := 0
	if height > 0 {
		width = len(grid[0])
	}
	cm := colormap.Get(cmapName)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	span := hi - lo
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := grid[y][x]
			if math.IsNaN(v) {
				continue // leave transparent (zero alpha)
			}
			t := 0.5
			if span != 0 {
				t = (v - lo) / span
			}
			c := cm.At(t)
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// RGBComposite renders three bands (already normalized or raw) as an
// opaque RGB PNG, stretching each channel independently by its own
// finite data range — used for the multi-band identity-passthrough path.
func RGBComposite(w io.Writer, bands [3]Grid) error {
	return png.Encode(w, RGBCompositeImage(bands))
}

// RGBCompositeImage is RGBComposite without the encode step, for callers
// that need the *image.RGBA directly (e.g. an animated GIF frame).
func RGBCompositeImage(bands [3]Grid) *image.RGBA {
	height := len(bands[0])
	width := 0
	if height > 0 {
		width = len(bands[0][0])
	}
	ranges := [3][2]float64{}
	for i, g := range bands {
		lo, hi := dataRange(g)
		ranges[i] = [2]float64{lo, hi}
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var rgb [3]uint8
			var alpha uint8 = 255
			for i := 0; i < 3; i++ {
				v := bands[i][y][x]
				if math.IsNaN(v) {
					alpha = 0
					continue
				}
				lo, hi := ranges[i][0], ranges[i][1]
				t := 0.5
				if hi != lo {
					t = (v - lo) / (hi - lo)
				}
				rgb[i] = stretchByte(t)
			}
			img.SetRGBA(x, y, color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: alpha})
		}
	}
	return img
}

// CompositeBands picks the first three channels of cube for RGBComposite,
// repeating the last available channel when cube has only two — the tile
// processor's and compute pipeline's RGB shortcut never emits a cube with
// fewer than two channels, but three-channel "visual" composites are the
// only case actually produced by the supported sensors.
func CompositeBands(cube [][][]float64) [3]Grid {
	switch len(cube) {
	case 0:
		return [3]Grid{}
	case 1:
		return [3]Grid{cube[0], cube[0], cube[0]}
	case 2:
		return [3]Grid{cube[0], cube[1], cube[1]}
	default:
		return [3]Grid{cube[0], cube[1], cube[2]}
	}
}

// IsMultiChannel reports whether cube has more than one band, the trigger
// for the RGB-composite shortcut instead of a single-band colormap render.
func IsMultiChannel(cube [][][]float64) bool {
	return len(cube) >= 2
}

func dataRange(grid Grid) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range grid {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	return lo, hi
}

func stretchByte(t float64) uint8 {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return uint8(t * 255)
}

