package geomutil

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshitijrajsharma/vcube/internal/model"
)

func TestContainsStrictlyInsidePolygon(t *testing.T) {
	aoi := model.AOI{West: 10, South: 10, East: 11, North: 11}
	footprint := orb.Polygon{orb.Ring{
		{0, 0}, {20, 0}, {20, 20}, {0, 20}, {0, 0},
	}}
	assert.True(t, Contains(footprint, aoi))
}

func TestContainsFailsWhenAOICrossesBoundary(t *testing.T) {
	aoi := model.AOI{West: 10, South: 10, East: 25, North: 11}
	footprint := orb.Polygon{orb.Ring{
		{0, 0}, {20, 0}, {20, 20}, {0, 20}, {0, 0},
	}}
	assert.False(t, Contains(footprint, aoi))
}

func TestContainsRejectsNonPolygonGeometry(t *testing.T) {
	aoi := model.AOI{West: 10, South: 10, East: 11, North: 11}
	assert.False(t, Contains(orb.Point{10.5, 10.5}, aoi))
}

func TestIntersectsNilGeometry(t *testing.T) {
	aoi := model.AOI{West: 0, South: 0, East: 1, North: 1}
	assert.False(t, Intersects(nil, aoi))
}

func TestWebMercatorTileBoundsRoundTrip(t *testing.T) {
	b := WebMercatorTileBounds(0, 0, 1)
	require.InDelta(t, -180.0, b.West, 1e-9)
	require.InDelta(t, 0.0, b.East, 1e-9)
	require.Greater(t, b.North, b.South)

	x, y := TileForLatLng(-90, 45, 1)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
}

func TestWebMercatorTileBoundsGlobalCoverage(t *testing.T) {
	b := WebMercatorTileBounds(0, 0, 0)
	assert.InDelta(t, -180.0, b.West, 1e-9)
	assert.InDelta(t, 180.0, b.East, 1e-9)
	assert.Greater(t, b.North, 85.0)
	assert.Less(t, b.South, -85.0)
}
