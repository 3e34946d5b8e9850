package bandmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndEvalArithmetic(t *testing.T) {
	node, err := Parse("(band1 - band2) / (band1 + band2)")
	require.NoError(t, err)
	v, err := Eval(node, 0.8, 0.2)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, v, 1e-9)
}

func TestDivisionByZeroProducesNaN(t *testing.T) {
	node, err := Parse("band1 / band2")
	require.NoError(t, err)
	v, err := Eval(node, 5, 0)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))
}

func TestPowerIsRightAssociative(t *testing.T) {
	node, err := Parse("2 ** 3 ** 2")
	require.NoError(t, err)
	v, err := Eval(node, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 512, v, 1e-9) // 2**(3**2) = 2**9 = 512, not (2**3)**2 = 64
}

func TestUnaryMinus(t *testing.T) {
	node, err := Parse("-band1")
	require.NoError(t, err)
	v, err := Eval(node, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, -3.0, v)
}

func TestRejectsUnknownIdentifier(t *testing.T) {
	_, err := Parse("band1 + sin(band2)")
	assert.Error(t, err)
}

func TestRejectsTrailingTokens(t *testing.T) {
	_, err := Parse("band1 + band2)")
	assert.Error(t, err)
}

func TestFormulaSqueezesSingleBandCube(t *testing.T) {
	f, err := Compile("band1 + band2")
	require.NoError(t, err)
	band1 := [][][]float64{{{1, 2}, {3, 4}}}
	band2 := [][][]float64{{{10, 20}, {30, 40}}}
	out, err := f.Apply(band1, band2)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, [][]float64{{11, 22}, {33, 44}}, out[0])
}

func TestFormulaIdentityPassesThroughMultiBandCube(t *testing.T) {
	f, err := Compile("band1")
	require.NoError(t, err)
	cube := [][][]float64{
		{{1, 2}, {3, 4}},
		{{5, 6}, {7, 8}},
		{{9, 10}, {11, 12}},
	}
	out, err := f.Apply(cube, nil)
	require.NoError(t, err)
	assert.Equal(t, cube, out)
}

func TestFormulaRejectsMultiBandForNonIdentity(t *testing.T) {
	f, err := Compile("band1 * 2")
	require.NoError(t, err)
	cube := [][][]float64{
		{{1, 2}},
		{{5, 6}},
	}
	_, err = f.Apply(cube, nil)
	assert.Error(t, err)
}
