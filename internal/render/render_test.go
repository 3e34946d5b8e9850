package render

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshitijrajsharma/vcube/internal/timestack"
)

func TestPNGEncodesColorizedGrid(t *testing.T) {
	grid := Grid{
		{0, 1},
		{math.NaN(), 0.5},
	}
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, grid, "gray", math.NaN(), math.NaN()))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())

	_, _, _, a := img.At(0, 1).RGBA()
	assert.Equal(t, uint32(0), a, "NaN pixel must be transparent")
}

func TestRGBCompositeStretchesEachChannel(t *testing.T) {
	red := Grid{{0, 10}}
	green := Grid{{5, 5}}
	blue := Grid{{0, 1}}
	var buf bytes.Buffer
	require.NoError(t, RGBComposite(&buf, [3]Grid{red, green, blue}))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
}

func TestOverlayAddsLabelWithoutMutatingSource(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 32))
	out := Overlay(src, "2024-01-05")
	assert.NotSame(t, src, out)
	assert.Equal(t, src.Bounds(), out.Bounds())
}

func TestGIFRejectsEmptyFrames(t *testing.T) {
	var buf bytes.Buffer
	err := GIF(&buf, nil, 50)
	assert.Error(t, err)
}

func TestGIFEncodesFrames(t *testing.T) {
	frames := []Frame{
		{Image: image.NewRGBA(image.Rect(0, 0, 4, 4)), Label: "a"},
		{Image: image.NewRGBA(image.Rect(0, 0, 4, 4)), Label: "b"},
	}
	var buf bytes.Buffer
	require.NoError(t, GIF(&buf, frames, 25))
	assert.Greater(t, buf.Len(), 0)
}

func TestZipFilesBundlesAndRemoves(t *testing.T) {
	dir := t.TempDir()
	f1 := filepath.Join(dir, "a.txt")
	f2 := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(f1, []byte("one"), 0644))
	require.NoError(t, os.WriteFile(f2, []byte("two"), 0644))

	zipPath := filepath.Join(dir, "out.zip")
	require.NoError(t, ZipFiles([]string{f1, f2}, zipPath, true))

	info, err := os.Stat(zipPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	_, err = os.Stat(f1)
	assert.True(t, os.IsNotExist(err))
}

func TestTrendPlotSavesFile(t *testing.T) {
	series := []timestack.ValueOverTime{
		{Value: 1},
		{Value: 2},
		{Value: 3},
	}
	fitted := []float64{1, 2, 3}
	path := filepath.Join(t.TempDir(), "trend.png")
	require.NoError(t, TrendPlot(path, series, fitted, "NDVI trend", "NDVI"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
