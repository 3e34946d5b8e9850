package scenefilter

import (
	"sort"
	"time"

	"github.com/kshitijrajsharma/vcube/internal/model"
)

// cadenceFor picks a minimum spacing between kept scenes based on the total
// span of the request: wider ranges get sparser sampling so a multi-year
// time-stack doesn't try to read thousands of scenes.
func cadenceFor(totalDays int) time.Duration {
	switch {
	case totalDays <= 90:
		return 4 * 24 * time.Hour
	case totalDays <= 365:
		return 15 * 24 * time.Hour
	case totalDays <= 2*365:
		return 30 * 24 * time.Hour
	case totalDays <= 3*365:
		return 45 * 24 * time.Hour
	default:
		return 60 * 24 * time.Hour
	}
}

// SmartFilter subsamples scenes to at most one per cadence window, keeping
// the least-cloudy scene within each window. Scenes are processed in
// ascending datetime order regardless of input order; on a cloud-cover tie
// the earlier scene in the window wins, since it is examined first and
// ties never replace the running best.
func SmartFilter(scenes []model.Scene, start, end time.Time) []model.Scene {
	if len(scenes) == 0 {
		return nil
	}

	sorted := make([]model.Scene, len(scenes))
	copy(sorted, scenes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].DateTime.Before(sorted[j].DateTime) })

	cadence := cadenceFor(int(end.Sub(start).Hours() / 24))

	var out []model.Scene
	var windowStart time.Time
	var best *model.Scene
	haveWindow := false

	for i := range sorted {
		s := sorted[i]
		day := dateOnly(s.DateTime)
		if !haveWindow || !day.Before(windowStart.Add(cadence)) {
			if best != nil {
				out = append(out, *best)
			}
			best = &sorted[i]
			windowStart = day
			haveWindow = true
			continue
		}
		if s.CloudCover < best.CloudCover {
			best = &sorted[i]
		}
	}
	if best != nil {
		out = append(out, *best)
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
