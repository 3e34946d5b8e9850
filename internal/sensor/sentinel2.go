package sensor

import (
	"strings"

	"github.com/kshitijrajsharma/vcube/internal/model"
)

var sentinel2Capability = Capability{
	Sensor:     model.SensorSentinel2,
	Collection: "sentinel-2-l2a",
	BandLabels: map[string]string{
		"red":      "Red - 10m",
		"green":    "Green - 10m",
		"blue":     "Blue - 10m",
		"nir":      "NIR 1 - 10m",
		"swir22":   "SWIR 2.2μm - 20m",
		"rededge2": "Red Edge 2 - 20m",
		"rededge3": "Red Edge 3 - 20m",
		"rededge1": "Red Edge 1 - 20m",
		"swir16":   "SWIR 1.6μm - 20m",
		"wvp":      "Water Vapour (WVP)",
		"nir08":    "NIR 2 - 20m",
		"aot":      "Aerosol optical thickness (AOT)",
		"coastal":  "Coastal - 60m",
		"nir09":    "NIR 3 - 60m",
	},
	Dedup: dedupSentinel2,
}

// dedupSentinel2 keeps only scenes from the MGRS UTM zone with the most
// candidate scenes (the zone actually covering the AOI), then keeps one
// scene per calendar date within that zone.
//
// Sentinel-2 scene IDs look like "S2A_36MZE_20240105_0_L2A": splitting on
// "_" gives the MGRS tile at index 1, whose first two characters are the
// UTM zone number.
func dedupSentinel2(scenes []model.Scene) []model.Scene {
	if len(scenes) == 0 {
		return nil
	}

	zoneCounts := make(map[string]int)
	for _, s := range scenes {
		zone := mgrsZone(s.ID)
		zoneCounts[zone]++
	}

	maxZone := ""
	maxCount := -1
	for zone, count := range zoneCounts {
		if count > maxCount {
			maxZone, maxCount = zone, count
		}
	}

	seen := make(map[string]bool)
	out := make([]model.Scene, 0, len(scenes))
	for _, s := range scenes {
		if mgrsZone(s.ID) != maxZone {
			continue
		}
		date := s.DateTime.Format("2006-01-02")
		if seen[date] {
			continue
		}
		seen[date] = true
		out = append(out, s)
	}
	return out
}

func mgrsZone(id string) string {
	parts := strings.Split(id, "_")
	if len(parts) < 2 || len(parts[1]) < 2 {
		return ""
	}
	return parts[1][:2]
}
