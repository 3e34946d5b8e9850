package sensor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshitijrajsharma/vcube/internal/model"
)

func scene(id string, dt string, cloud float64) model.Scene {
	t, _ := time.Parse("2006-01-02", dt)
	return model.Scene{ID: id, DateTime: t, CloudCover: cloud, Sensor: model.SensorSentinel2}
}

func TestDedupSentinel2KeepsMajorityZoneOnePerDate(t *testing.T) {
	scenes := []model.Scene{
		scene("S2A_36MZE_2024-01-05_0_L2A", "2024-01-05", 5),
		scene("S2A_36MZE_2024-01-10_0_L2A", "2024-01-10", 5),
		scene("S2A_37ABC_2024-01-06_0_L2A", "2024-01-06", 5),
		scene("S2A_36MZE_2024-01-10_0_L2A_dup", "2024-01-10", 1),
	}
	out := dedupSentinel2(scenes)
	require.Len(t, out, 2)
	assert.Equal(t, "S2A_36MZE_2024-01-05_0_L2A", out[0].ID)
	assert.Equal(t, "S2A_36MZE_2024-01-10_0_L2A", out[1].ID) // first occurrence wins, not least-cloudy
}

func TestDedupLandsatKeepsLeastCloudyPerPathRowDate(t *testing.T) {
	t1, _ := time.Parse("2006-01-02", "2024-01-05")
	scenes := []model.Scene{
		{ID: "a", DateTime: t1, CloudCover: 40, WRSPath: 146, WRSRow: 40},
		{ID: "b", DateTime: t1, CloudCover: 10, WRSPath: 146, WRSRow: 40},
		{ID: "c", DateTime: t1, CloudCover: 5, WRSPath: 147, WRSRow: 41},
	}
	out := dedupLandsat(scenes)
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[0].ID)
	assert.Equal(t, "c", out[1].ID)
}

func TestInvalidBands(t *testing.T) {
	cap, ok := For(model.SensorSentinel2)
	require.True(t, ok)
	invalid := cap.InvalidBands([]string{"red", "bogus"})
	assert.Equal(t, []string{"bogus"}, invalid)
}

func TestParseLandsatDate(t *testing.T) {
	d := ParseLandsatDate("https://example.com/LC09_L2SP_146040_20241230_02_T1_SR_B4.TIF")
	assert.Equal(t, "2024-12-30", d)

	assert.Equal(t, "", ParseLandsatDate("too_short"))
}
