package tileproc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshitijrajsharma/vcube/internal/model"
	"github.com/kshitijrajsharma/vcube/internal/stac"
)

func TestCacheGetSetAndExpiry(t *testing.T) {
	c := NewCache(10*time.Millisecond, 10)
	c.Put("a", []byte("png-bytes"), "scene-1")

	png, sceneID, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte("png-bytes"), png)
	assert.Equal(t, "scene-1", sceneID)

	time.Sleep(20 * time.Millisecond)
	_, _, ok = c.Get("a")
	assert.False(t, ok, "entry should have expired")
}

func TestCacheEvictsOldestAtCapacity(t *testing.T) {
	c := NewCache(time.Minute, 2)
	c.Put("a", []byte("1"), "s1")
	c.Put("b", []byte("2"), "s2")
	c.Put("c", []byte("3"), "s3")

	assert.LessOrEqual(t, c.Len(), 2)
	_, _, ok := c.Get("a")
	assert.False(t, ok, "oldest entry should have been evicted")
	_, _, ok = c.Get("c")
	assert.True(t, ok)
}

func TestGenerateRejectsOutOfRangeZoom(t *testing.T) {
	p := NewProcessor(stac.NewClient(stac.Config{}), nil, NewCache(time.Minute, 10))

	base := Request{
		X: 1, Y: 2,
		Sensor: model.SensorSentinel2,
		Band:   model.BandRequest{Band1: "red", Formula: "band1"},
	}

	tooLow := base
	tooLow.Z = MinZoom - 1
	_, err := p.generate(context.Background(), tooLow)
	require.Error(t, err)
	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)

	tooHigh := base
	tooHigh.Z = MaxZoom + 1
	_, err = p.generate(context.Background(), tooHigh)
	require.Error(t, err)
	assert.ErrorAs(t, err, &verr)
}

func TestRequestKeyDistinguishesParams(t *testing.T) {
	base := Request{
		X: 1, Y: 2, Z: 3,
		Sensor: model.SensorSentinel2,
		Band:   model.BandRequest{Band1: "red", Band2: "nir", Formula: "(band2-band1)/(band2+band1)"},
	}
	other := base
	other.Z = 4

	assert.Equal(t, base.Key(), base.Key())
	assert.NotEqual(t, base.Key(), other.Key())
}
