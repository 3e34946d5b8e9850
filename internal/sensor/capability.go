// Package sensor defines the capability record that lets the sensor-agnostic
// pipeline core (scene filtering, extraction, band-math) behave correctly
// for each supported satellite program without branching on sensor identity
// throughout the codebase.
package sensor

import "github.com/kshitijrajsharma/vcube/internal/model"

// Capability describes everything the rest of the engine needs to know
// about one sensor family: which STAC collection it lives in, how to
// deduplicate overlapping scenes, and which band names are valid.
type Capability struct {
	Sensor     model.Sensor
	Collection string

	// BandLabels maps a canonical band key to a human-readable label, e.g.
	// "red" -> "Red - 10m". Used both for validation error messages and the
	// /bands/{sensor} listing endpoint.
	BandLabels map[string]string

	// Dedup removes overlapping scenes from a candidate list, keeping one
	// scene per the sensor's natural grouping key (MGRS zone+date for
	// Sentinel-2, path/row+date for Landsat).
	Dedup func([]model.Scene) []model.Scene
}

// registry holds the built-in capability records, keyed by model.Sensor.
var registry = map[model.Sensor]Capability{
	model.SensorSentinel2: sentinel2Capability,
	model.SensorLandsat:   landsatCapability,
}

// For returns the capability record for s, and whether one was found.
func For(s model.Sensor) (Capability, bool) {
	c, ok := registry[s]
	return c, ok
}

// InvalidBands returns the keys in bands that are not in the capability's
// whitelist (nil when all are valid), for a caller to format into a
// ValidationError.
func (c Capability) InvalidBands(bands []string) []string {
	var invalid []string
	for _, b := range bands {
		if _, ok := c.BandLabels[b]; !ok {
			invalid = append(invalid, b)
		}
	}
	return invalid
}
