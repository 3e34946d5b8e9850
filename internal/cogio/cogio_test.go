package cogio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kshitijrajsharma/vcube/internal/model"
)

func TestComputeWindowBasic(t *testing.T) {
	gt := model.Affine{A: 10, B: 0, C: 500000, D: 0, E: -10, F: 4000000}
	win := ComputeWindow(gt, 500100, 3999100, 500300, 3999900)
	assert.Equal(t, 10, win.Col0)
	assert.Equal(t, 10, win.Row0)
	assert.Equal(t, 20, win.Width)
	assert.Equal(t, 80, win.Height)
}

func TestPixelWindowOutOfBounds(t *testing.T) {
	w := PixelWindow{Col0: -100, Row0: -100, Width: 5, Height: 5}
	assert.True(t, w.OutOfBounds(1000, 1000))

	w2 := PixelWindow{Col0: 10, Row0: 10, Width: 5, Height: 5}
	assert.False(t, w2.OutOfBounds(1000, 1000))

	w3 := PixelWindow{Col0: 2000, Row0: 10, Width: 5, Height: 5}
	assert.True(t, w3.OutOfBounds(1000, 1000))

	w4 := PixelWindow{Col0: 5, Row0: 5, Width: 0, Height: 5}
	assert.True(t, w4.OutOfBounds(1000, 1000))
}

func TestPixelWindowClamp(t *testing.T) {
	w := PixelWindow{Col0: -5, Row0: -5, Width: 20, Height: 20}
	clamped := w.Clamp(10, 10)
	assert.Equal(t, 0, clamped.Col0)
	assert.Equal(t, 0, clamped.Row0)
	assert.Equal(t, 10, clamped.Width)
	assert.Equal(t, 10, clamped.Height)
}

func TestHarmonizeNoOpAtScaleOne(t *testing.T) {
	data := [][]float64{{1, 2}, {3, 4}}
	out := Harmonize(data, 1, 1)
	assert.Equal(t, data, out)
}

func TestHarmonizeDownsamplesBoxAverage(t *testing.T) {
	data := [][]float64{
		{1, 1, 2, 2},
		{1, 1, 2, 2},
		{3, 3, 4, 4},
		{3, 3, 4, 4},
	}
	out := Harmonize(data, 2, 2)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, out)
}

func TestTargetResolutionPicksCoarsest(t *testing.T) {
	idx := TargetResolution([]float64{100, 400, 200})
	assert.Equal(t, 1, idx)
}
