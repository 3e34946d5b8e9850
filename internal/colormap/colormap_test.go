package colormap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFallsBackToDefault(t *testing.T) {
	assert.Equal(t, "RdYlGn", Get("").Name)
	assert.Equal(t, "RdYlGn", Get("does-not-exist").Name)
	assert.Equal(t, "viridis", Get("viridis").Name)
}

func TestAtClampsAndInterpolates(t *testing.T) {
	cm := Get("gray")
	black := cm.At(-1)
	white := cm.At(2)
	mid := cm.At(0.5)
	assert.Equal(t, uint8(0), black.R)
	assert.Equal(t, uint8(255), white.R)
	assert.InDelta(t, 127, int(mid.R), 1)
}
