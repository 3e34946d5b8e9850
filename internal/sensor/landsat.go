package sensor

import (
	"fmt"

	"github.com/kshitijrajsharma/vcube/internal/model"
)

var landsatCapability = Capability{
	Sensor:     model.SensorLandsat,
	Collection: "landsat-c2-l2",
	BandLabels: map[string]string{
		"red":    "Red",
		"green":  "Green",
		"blue":   "Blue",
		"nir08":  "Near Infrared",
		"swir16": "Short-wave Infrared 1.6μm",
		"swir22": "Short-wave Infrared 2.2μm",
		"lwir11": "Thermal Infrared",
		"coastal": "Coastal/Aerosol",
	},
	Dedup: dedupLandsat,
}

// dedupLandsat groups scenes by calendar date and WRS path/row, keeping
// only the least-cloudy scene in each group.
func dedupLandsat(scenes []model.Scene) []model.Scene {
	if len(scenes) == 0 {
		return nil
	}

	groups := make(map[string][]model.Scene)
	var order []string
	for _, s := range scenes {
		key := fmt.Sprintf("%s_%d_%d", s.DateTime.Format("2006-01-02"), s.WRSPath, s.WRSRow)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], s)
	}

	out := make([]model.Scene, 0, len(order))
	for _, key := range order {
		out = append(out, leastCloudy(groups[key]))
	}
	return out
}

func leastCloudy(scenes []model.Scene) model.Scene {
	best := scenes[0]
	for _, s := range scenes[1:] {
		if s.CloudCover < best.CloudCover {
			best = s
		}
	}
	return best
}

// ParseLandsatDate extracts the acquisition date from a Landsat asset URL's
// path, which carries it as the 4th underscore-delimited segment of the
// scene identifier component (e.g. "LC09_L2SP_146040_20241230_..." ->
// "20241230"). Returns empty string if the segment is absent or malformed.
func ParseLandsatDate(assetPath string) string {
	var sceneID string
	start := -1
	for i := len(assetPath) - 1; i >= 0; i-- {
		if assetPath[i] == '/' {
			start = i + 1
			break
		}
	}
	if start == -1 {
		sceneID = assetPath
	} else {
		sceneID = assetPath[start:]
	}

	segments := splitUnderscore(sceneID)
	if len(segments) < 4 {
		return ""
	}
	date := segments[3]
	if len(date) != 8 {
		return ""
	}
	return date[:4] + "-" + date[4:6] + "-" + date[6:8]
}

func splitUnderscore(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '_' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
