package scenefilter

import (
	"strings"

	"github.com/kshitijrajsharma/vcube/internal/model"
)

// LatestPerGrid keeps only the most recent scene per Sentinel-2 MGRS grid
// tile (the 2nd underscore-delimited segment of the scene ID), used by the
// single-tile XYZ pipeline where only the freshest image per tile matters
// rather than a full time-stack.
func LatestPerGrid(scenes []model.Scene) []model.Scene {
	latest := make(map[string]model.Scene)
	var order []string
	for _, s := range scenes {
		grid := gridOf(s.ID)
		cur, ok := latest[grid]
		if !ok {
			order = append(order, grid)
		}
		if !ok || s.DateTime.After(cur.DateTime) {
			latest[grid] = s
		}
	}
	out := make([]model.Scene, 0, len(order))
	for _, g := range order {
		out = append(out, latest[g])
	}
	return out
}

func gridOf(id string) string {
	parts := strings.Split(id, "_")
	if len(parts) < 2 {
		return id
	}
	return parts[1]
}
