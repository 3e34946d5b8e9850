package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 5*time.Minute, cfg.TileCacheTTL)
	assert.Equal(t, 10000, cfg.TileCacheMaxEntries)
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 24*time.Hour, cfg.ExpiryDuration)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
}

func TestLoadRejectsMalformedInt(t *testing.T) {
	t.Setenv("WORKERS", "not-a-number")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("WORKERS", "8")
	t.Setenv("S3_OUTPUT_BUCKET", "my-bucket")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "my-bucket", cfg.S3OutputBucket)
}
