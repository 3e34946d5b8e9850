package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAOIValidate(t *testing.T) {
	ok := AOI{West: 10, South: 10, East: 11, North: 11}
	require.NoError(t, ok.Validate())

	bad := AOI{West: 11, South: 10, East: 10, North: 11}
	err := bad.Validate()
	require.Error(t, err)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestAOIPolygonIsClosedRing(t *testing.T) {
	a := AOI{West: 0, South: 0, East: 1, North: 1}
	poly := a.Polygon()
	require.Len(t, poly, 1)
	ring := poly[0]
	assert.Equal(t, ring[0], ring[len(ring)-1])
}

func TestWindowResultShape(t *testing.T) {
	var empty WindowResult
	b, h, w := empty.Shape()
	assert.Equal(t, 0, b)
	assert.Equal(t, 0, h)
	assert.Equal(t, 0, w)

	wr := WindowResult{Data: [][][]float64{
		{{1, 2, 3}, {4, 5, 6}},
	}}
	b, h, w = wr.Shape()
	assert.Equal(t, 1, b)
	assert.Equal(t, 2, h)
	assert.Equal(t, 3, w)
}

func TestErrNoScenesContainedWraps(t *testing.T) {
	assert.Contains(t, ErrNoScenesContained.Error(), "boundary")
}
