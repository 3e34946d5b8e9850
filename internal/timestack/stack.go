// Package timestack stacks per-scene band-math results along the time axis
// and reduces them with a NaN-aware operator.
package timestack

import (
	"math"
	"sort"

	"github.com/kshitijrajsharma/vcube/internal/model"
)

// Entry pairs one scene's evaluated result with its acquisition time.
type Entry struct {
	Scene  model.Scene
	Result [][][]float64
	CRS    string
}

// Stack sorts entries into ascending-datetime order and pads every result
// to the element-wise maximum shape across the set, filling new cells with
// NaN. Entries whose CRS disagrees with the majority CRS are dropped, and
// their scene IDs are returned as skip reasons rather than silently mixed
// into the stack (see the CRS-mixing open-question decision).
func Stack(entries []Entry) (stacked [][][][]float64, kept []model.Scene, skipped map[string]string) {
	skipped = make(map[string]string)
	if len(entries) == 0 {
		return nil, nil, skipped
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Scene.DateTime.Before(sorted[j].Scene.DateTime)
	})

	refCRS := majorityCRS(sorted)

	var usable []Entry
	for _, e := range sorted {
		if e.CRS != "" && refCRS != "" && e.CRS != refCRS {
			skipped[e.Scene.ID] = "crs " + e.CRS + " does not match stack reference crs " + refCRS
			continue
		}
		usable = append(usable, e)
	}
	if len(usable) == 0 {
		return nil, nil, skipped
	}

	bands, height, width := maxShape(usable)
	stacked = make([][][][]float64, len(usable))
	kept = make([]model.Scene, len(usable))
	for i, e := range usable {
		stacked[i] = padTo(e.Result, bands, height, width)
		kept[i] = e.Scene
	}
	return stacked, kept, skipped
}

func majorityCRS(entries []Entry) string {
	counts := make(map[string]int)
	for _, e := range entries {
		if e.CRS != "" {
			counts[e.CRS]++
		}
	}
	best := ""
	bestCount := 0
	for crs, n := range counts {
		if n > bestCount {
			best, bestCount = crs, n
		}
	}
	return best
}

func maxShape(entries []Entry) (bands, height, width int) {
	for _, e := range entries {
		b := len(e.Result)
		if b > bands {
			bands = b
		}
		for _, plane := range e.Result {
			if len(plane) > height {
				height = len(plane)
			}
			for _, row := range plane {
				if len(row) > width {
					width = len(row)
				}
			}
		}
	}
	return bands, height, width
}

func padTo(cube [][][]float64, bands, height, width int) [][][]float64 {
	out := make([][][]float64, bands)
	for b := 0; b < bands; b++ {
		out[b] = make([][]float64, height)
		for y := 0; y < height; y++ {
			out[b][y] = make([]float64, width)
			for x := 0; x < width; x++ {
				out[b][y][x] = math.NaN()
			}
		}
		if b < len(cube) {
			for y, row := range cube[b] {
				if y >= height {
					break
				}
				for x, v := range row {
					if x >= width {
						break
					}
					out[b][y][x] = v
				}
			}
		}
	}
	return out
}
