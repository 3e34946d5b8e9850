package cogio

// Harmonize downsamples finer-resolution bands to the coarsest band's grid
// using a box-average (never upsampling), matching the original engine's
// rule of picking the lowest resolution among the requested bands as the
// common target. scaleX/scaleY are the finer band's pixel count divided by
// the target grid's pixel count along each axis (equivalently, the target
// pixel size over the finer pixel size); a value of 1 or less leaves the
// band unchanged.
func Harmonize(data [][]float64, scaleX, scaleY float64) [][]float64 {
	if scaleX <= 1 && scaleY <= 1 {
		return data
	}
	if len(data) == 0 {
		return data
	}

	srcH := len(data)
	srcW := len(data[0])
	dstH := int(float64(srcH) / scaleY)
	dstW := int(float64(srcW) / scaleX)
	if dstH <= 0 || dstW <= 0 {
		return data
	}

	out := make([][]float64, dstH)
	for dy := 0; dy < dstH; dy++ {
		out[dy] = make([]float64, dstW)
		sy0 := int(float64(dy) * scaleY)
		sy1 := min(int(float64(dy+1)*scaleY), srcH)
		if sy1 <= sy0 {
			sy1 = sy0 + 1
		}
		for dx := 0; dx < dstW; dx++ {
			sx0 := int(float64(dx) * scaleX)
			sx1 := min(int(float64(dx+1)*scaleX), srcW)
			if sx1 <= sx0 {
				sx1 = sx0 + 1
			}
			out[dy][dx] = boxAverage(data, sx0, sx1, sy0, sy1)
		}
	}
	return out
}

func boxAverage(data [][]float64, sx0, sx1, sy0, sy1 int) float64 {
	sum := 0.0
	n := 0
	for y := sy0; y < sy1 && y < len(data); y++ {
		row := data[y]
		for x := sx0; x < sx1 && x < len(row); x++ {
			sum += row[x]
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// TargetResolution picks the coarsest of a set of per-band pixel sizes,
// returning its index: the original engine never upsamples, so every other
// band gets downsampled toward this one.
func TargetResolution(pixelAreas []float64) int {
	best := 0
	for i, a := range pixelAreas {
		if a > pixelAreas[best] {
			best = i
		}
	}
	return best
}
