package timestack

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshitijrajsharma/vcube/internal/model"
)

func entry(id, date, crs string, v float64) Entry {
	d, _ := time.Parse("2006-01-02", date)
	return Entry{
		Scene:  model.Scene{ID: id, DateTime: d},
		Result: [][][]float64{{{v}}},
		CRS:    crs,
	}
}

func TestStackSortsAndPads(t *testing.T) {
	entries := []Entry{
		entry("b", "2024-01-10", "EPSG:32645", 2),
		entry("a", "2024-01-05", "EPSG:32645", 1),
	}
	stacked, kept, skipped := Stack(entries)
	require.Len(t, stacked, 2)
	assert.Empty(t, skipped)
	assert.Equal(t, "a", kept[0].ID)
	assert.Equal(t, "b", kept[1].ID)
	assert.Equal(t, 1.0, stacked[0][0][0][0])
	assert.Equal(t, 2.0, stacked[1][0][0][0])
}

func TestStackSkipsMismatchedCRS(t *testing.T) {
	entries := []Entry{
		entry("a", "2024-01-05", "EPSG:32645", 1),
		entry("b", "2024-01-06", "EPSG:32645", 2),
		entry("c", "2024-01-07", "EPSG:32644", 3),
	}
	stacked, kept, skipped := Stack(entries)
	require.Len(t, stacked, 2)
	require.Len(t, kept, 2)
	require.Contains(t, skipped, "c")
}

func TestReduceMeanIgnoresNaN(t *testing.T) {
	stack := [][][][]float64{
		{{{1, math.NaN()}}},
		{{{3, 5}}},
	}
	out, err := Reduce(stack, OpMean)
	require.NoError(t, err)
	assert.Equal(t, 2.0, out[0][0][0])
	assert.Equal(t, 5.0, out[0][0][1])
}

func TestReduceMedianEvenCountAverages(t *testing.T) {
	v := median([]float64{1, 2, 3, 4})
	assert.Equal(t, 2.5, v)
}

func TestReduceAllNaNStaysNaN(t *testing.T) {
	stack := [][][][]float64{
		{{{math.NaN()}}},
	}
	out, err := Reduce(stack, OpMean)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out[0][0][0]))
}

func TestValidOperation(t *testing.T) {
	assert.True(t, ValidOperation("median"))
	assert.True(t, ValidOperation("mode"))
	assert.False(t, ValidOperation("bogus"))
}

func TestTrendFitsLinearSeries(t *testing.T) {
	d1, _ := time.Parse("2006-01-02", "2024-01-01")
	d2, _ := time.Parse("2006-01-02", "2024-01-02")
	d3, _ := time.Parse("2006-01-02", "2024-01-03")
	series := []ValueOverTime{
		{Date: d1, Value: 1},
		{Date: d2, Value: 2},
		{Date: d3, Value: 3},
	}
	fitted := Trend(series)
	require.Len(t, fitted, 3)
	assert.InDelta(t, 1.0, fitted[0], 1e-6)
	assert.InDelta(t, 2.0, fitted[1], 1e-6)
	assert.InDelta(t, 3.0, fitted[2], 1e-6)
}
