// Package scenefilter narrows a raw STAC search result down to the scenes
// the rest of the pipeline should actually read: strict AOI containment,
// sensor-specific overlap dedup, and (optionally) a cadence-based smart
// subsample over long time ranges.
package scenefilter

import (
	"github.com/kshitijrajsharma/vcube/internal/geomutil"
	"github.com/kshitijrajsharma/vcube/internal/model"
)

// FilterContained keeps only scenes whose footprint strictly contains aoi.
func FilterContained(scenes []model.Scene, aoi model.AOI) []model.Scene {
	out := make([]model.Scene, 0, len(scenes))
	for _, s := range scenes {
		if geomutil.Contains(s.Geometry, aoi) {
			out = append(out, s)
		}
	}
	return out
}
