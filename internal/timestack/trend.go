package timestack

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// ValueOverTime is one point of the per-date reduced scalar used for the
// trend chart: the whole-scene reduction (not per-pixel) at a given date.
type ValueOverTime struct {
	Date  time.Time
	Value float64
}

// ValuesOverTime reduces every time step of a stack to a single scalar
// (flattening bands/height/width together) using op, pairing each with its
// scene's date — the series the trend chart plots.
func ValuesOverTime(stack [][][][]float64, dates []time.Time, op Operation) []ValueOverTime {
	out := make([]ValueOverTime, 0, len(stack))
	for t, cube := range stack {
		var flat []float64
		for _, plane := range cube {
			for _, row := range plane {
				for _, v := range row {
					if !math.IsNaN(v) {
						flat = append(flat, v)
					}
				}
			}
		}
		v, _ := reduceValues(flat, op)
		d := time.Time{}
		if t < len(dates) {
			d = dates[t]
		}
		out = append(out, ValueOverTime{Date: d, Value: v})
	}
	return out
}

// Trend fits a degree-1 polynomial (ordinary least squares) to the series,
// returning the fitted value at each point's x-position (0..n-1), the same
// shape as np.polyfit(..., 1) followed by evaluating the fit.
func Trend(series []ValueOverTime) []float64 {
	n := len(series)
	if n == 0 {
		return nil
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range series {
		xs[i] = float64(i)
		ys[i] = p.Value
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	fitted := make([]float64, n)
	for i, x := range xs {
		fitted[i] = intercept + slope*x
	}
	return fitted
}
