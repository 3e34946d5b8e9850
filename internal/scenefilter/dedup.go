package scenefilter

import (
	"github.com/kshitijrajsharma/vcube/internal/model"
	"github.com/kshitijrajsharma/vcube/internal/sensor"
)

// Dedup removes overlapping scenes using the sensor's capability record. It
// is a thin dispatch: the actual grouping/keep-best logic lives in
// internal/sensor, one function per sensor family.
func Dedup(scenes []model.Scene, s model.Sensor) []model.Scene {
	capRec, ok := sensor.For(s)
	if !ok || capRec.Dedup == nil {
		return scenes
	}
	return capRec.Dedup(scenes)
}
