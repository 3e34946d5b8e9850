// Package geomutil provides geometry helpers built on paulmach/orb: AOI/bbox
// construction, footprint containment, and Web-Mercator tile math.
package geomutil

import (
	"encoding/json"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/kshitijrajsharma/vcube/internal/model"
)

// Intersects reports whether geom (a scene footprint, typically a Polygon
// or MultiPolygon decoded from STAC GeoJSON) intersects the AOI bound at
// all. Used for the first-pass filter before the stricter containment test.
func Intersects(geom orb.Geometry, aoi model.AOI) bool {
	if geom == nil {
		return false
	}
	return aoi.Bound().Intersects(geom.Bound())
}

// Contains reports whether geom strictly contains the AOI rectangle, i.e.
// every corner of the AOI lies within the scene footprint. STAC scene
// footprints are polygons or multipolygons; any other geometry type cannot
// strictly contain an area and returns false.
func Contains(geom orb.Geometry, aoi model.AOI) bool {
	corners := aoiCorners(aoi)
	switch g := geom.(type) {
	case orb.Polygon:
		for _, c := range corners {
			if !planar.PolygonContains(g, c) {
				return false
			}
		}
		return true
	case orb.MultiPolygon:
		for _, c := range corners {
			if !multiPolygonContains(g, c) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func multiPolygonContains(mp orb.MultiPolygon, pt orb.Point) bool {
	for _, poly := range mp {
		if planar.PolygonContains(poly, pt) {
			return true
		}
	}
	return false
}

func aoiCorners(aoi model.AOI) [4]orb.Point {
	return [4]orb.Point{
		{aoi.West, aoi.South},
		{aoi.East, aoi.South},
		{aoi.East, aoi.North},
		{aoi.West, aoi.North},
	}
}

// WebMercatorTileBounds converts an XYZ tile coordinate to its WGS84
// bounding box (west, south, east, north), using the standard slippy-map
// tile scheme (origin top-left, y increasing southward).
func WebMercatorTileBounds(x, y, z int) model.AOI {
	n := math.Exp2(float64(z))
	west := float64(x)/n*360.0 - 180.0
	east := float64(x+1)/n*360.0 - 180.0
	north := mercatorInverseLat(float64(y) / n)
	south := mercatorInverseLat(float64(y+1) / n)
	return model.AOI{West: west, South: south, East: east, North: north}
}

func mercatorInverseLat(yFrac float64) float64 {
	rad := math.Atan(math.Sinh(math.Pi * (1 - 2*yFrac)))
	return rad * 180.0 / math.Pi
}

// TilePolygon returns the WGS84 closed ring bounding the XYZ tile x/y/z,
// suitable for a STAC `intersects` search against the tile's true footprint
// rather than its bbox.
func TilePolygon(x, y, z int) orb.Polygon {
	b := WebMercatorTileBounds(x, y, z)
	return orb.Polygon{orb.Ring{
		{b.West, b.South},
		{b.East, b.South},
		{b.East, b.North},
		{b.West, b.North},
		{b.West, b.South},
	}}
}

// TilePolygonGeoJSON encodes the tile's polygon as a GeoJSON geometry,
// ready to pass as the `intersects` field of a STAC search request.
func TilePolygonGeoJSON(x, y, z int) (json.RawMessage, error) {
	b, err := geojson.NewGeometry(TilePolygon(x, y, z)).MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}

// TileForLatLng returns the XYZ tile coordinate containing (lng, lat) at
// zoom z, the inverse of WebMercatorTileBounds.
func TileForLatLng(lng, lat float64, z int) (x, y int) {
	n := math.Exp2(float64(z))
	x = int(math.Floor((lng + 180.0) / 360.0 * n))
	latRad := lat * math.Pi / 180.0
	y = int(math.Floor((1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n))
	return x, y
}
