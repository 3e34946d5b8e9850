package scenefilter

import (
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshitijrajsharma/vcube/internal/model"
)

func TestFilterContained(t *testing.T) {
	aoi := model.AOI{West: 10, South: 10, East: 11, North: 11}
	footprint := orb.Polygon{orb.Ring{{0, 0}, {20, 0}, {20, 20}, {0, 20}, {0, 0}}}
	scenes := []model.Scene{
		{ID: "in", Geometry: footprint},
		{ID: "out", Geometry: orb.Polygon{orb.Ring{{50, 50}, {51, 50}, {51, 51}, {50, 51}, {50, 50}}}},
	}
	out := FilterContained(scenes, aoi)
	require.Len(t, out, 1)
	assert.Equal(t, "in", out[0].ID)
}

func mkScene(id, date string, cloud float64) model.Scene {
	d, _ := time.Parse("2006-01-02", date)
	return model.Scene{ID: id, DateTime: d, CloudCover: cloud, Sensor: model.SensorSentinel2}
}

func TestSmartFilterAppliesShortRangeCadence(t *testing.T) {
	start, _ := time.Parse("2006-01-02", "2024-01-01")
	end, _ := time.Parse("2006-01-02", "2024-01-31") // 30 days -> 4 day cadence
	scenes := []model.Scene{
		mkScene("a", "2024-01-01", 50),
		mkScene("b", "2024-01-02", 10), // within 4d window of a, lower cloud -> replaces
		mkScene("c", "2024-01-10", 5),  // new window
	}
	out := SmartFilter(scenes, start, end)
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[0].ID)
	assert.Equal(t, "c", out[1].ID)
}

func TestSmartFilterEmpty(t *testing.T) {
	start, _ := time.Parse("2006-01-02", "2024-01-01")
	end, _ := time.Parse("2006-01-02", "2024-01-31")
	assert.Nil(t, SmartFilter(nil, start, end))
}

func TestLatestPerGrid(t *testing.T) {
	t1, _ := time.Parse("2006-01-02", "2024-01-01")
	t2, _ := time.Parse("2006-01-02", "2024-01-10")
	scenes := []model.Scene{
		{ID: "S2A_36MZE_old", DateTime: t1},
		{ID: "S2A_36MZE_new", DateTime: t2},
		{ID: "S2A_37ABC_only", DateTime: t1},
	}
	out := LatestPerGrid(scenes)
	require.Len(t, out, 2)
	ids := []string{out[0].ID, out[1].ID}
	assert.Contains(t, ids, "S2A_36MZE_new")
	assert.Contains(t, ids, "S2A_37ABC_only")
}
