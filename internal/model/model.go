// Package model holds the data types shared across the vcube pipeline:
// area-of-interest geometry, scene descriptors, band requests, windowed
// reads, and aggregate results.
package model

import (
	"time"

	"github.com/paulmach/orb"
)

// Sensor identifies which STAC collection family a scene belongs to.
type Sensor string

const (
	SensorSentinel2 Sensor = "sentinel-2-l2a"
	SensorLandsat   Sensor = "landsat-c2-l2"
)

// AOI is an axis-aligned bounding box in WGS84 decimal degrees.
type AOI struct {
	West, South, East, North float64
}

// Validate checks the AOI invariants from the data model: west<east,
// south<north, all finite.
func (a AOI) Validate() error {
	for _, v := range []float64{a.West, a.South, a.East, a.North} {
		if v != v || v > 1e18 || v < -1e18 { // NaN/overflow guard, cheap finiteness check
			return &ValidationError{Msg: "bbox coordinates must be finite"}
		}
	}
	if a.West >= a.East {
		return &ValidationError{Msg: "bbox west must be < east"}
	}
	if a.South >= a.North {
		return &ValidationError{Msg: "bbox south must be < north"}
	}
	return nil
}

// Bound returns the AOI as an orb.Bound.
func (a AOI) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{a.West, a.South}, Max: orb.Point{a.East, a.North}}
}

// Polygon returns the AOI rectangle as a closed orb.Polygon ring.
func (a AOI) Polygon() orb.Polygon {
	return orb.Polygon{a.Bound().ToRing()}
}

// Scene is an immutable record returned by the catalog client.
type Scene struct {
	ID         string
	DateTime   time.Time
	CloudCover float64
	Geometry   orb.Geometry
	Assets     map[string]string // band name -> signed COG URL
	Sensor     Sensor

	// WRSPath/WRSRow carry the Landsat WRS path/row parsed from
	// properties. Sentinel-2 overlap dedup reads the MGRS substrings
	// embedded in ID instead.
	WRSPath int
	WRSRow  int
}

// BandRequest describes the per-pixel formula to evaluate.
type BandRequest struct {
	Band1   string
	Band2   string // empty if unused
	Formula string
}

// WindowResult is the output of a windowed COG read: a float64 array of
// shape (bands, height, width), plus the georeferencing needed to place it
// and re-emit it.
type WindowResult struct {
	Data       [][][]float64 // [band][row][col]
	CRS        string
	Transform  Affine
	SourceURL  string
}

// Shape returns (bands, height, width).
func (w WindowResult) Shape() (int, int, int) {
	if len(w.Data) == 0 {
		return 0, 0, 0
	}
	if len(w.Data[0]) == 0 {
		return len(w.Data), 0, 0
	}
	return len(w.Data), len(w.Data[0]), len(w.Data[0][0])
}

// Affine is a 2x3 affine transform: x' = a*col + b*row + c, y' = d*col + e*row + f.
type Affine struct {
	A, B, C, D, E, F float64
}

// Origin returns the coordinate the transform maps pixel (0,0) to.
func (t Affine) Origin() (x, y float64) {
	return t.C, t.F
}

// SceneResult pairs a scene with the band-math result computed for it.
type SceneResult struct {
	Scene     Scene
	Result    [][][]float64 // [band][row][col]
	CRS       string
	Transform Affine
}

// Aggregate is the time-stack reduction output.
type Aggregate struct {
	Array      [][][]float64 // [band][row][col]
	CRS        string
	Transform  Affine
	Operation  string
	SceneCount int
	DateStart  time.Time
	DateEnd    time.Time
}
