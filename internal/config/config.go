// Package config loads vcube's runtime settings from environment
// variables, with defaults for everything optional.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every environment-tunable setting the engine, tile
// pipeline, and HTTP surface need at startup.
type Config struct {
	// STACRootSentinel2/STACRootLandsat override the default STAC
	// endpoints per collection (Earth Search for Sentinel-2, Planetary
	// Computer for Landsat), for pointing at a mirror or a self-hosted
	// catalog during testing.
	STACRootSentinel2 string
	STACRootLandsat   string

	// PCSigningEndpoint holds the Planetary Computer SAS-signing endpoint
	// read from PC_SIGNING_ENDPOINT. It is not passed to the STAC client,
	// whose signer uses its own built-in endpoint.
	PCSigningEndpoint string

	// Workers holds the per-scene concurrency read from WORKERS. It is not
	// passed to the compute pipeline, which takes its worker count from the
	// CLI --workers flag or the HTTP request body.
	Workers int

	// TileCacheTTL and TileCacheMaxEntries bound the in-memory XYZ tile
	// cache's freshness window and soft capacity.
	TileCacheTTL        time.Duration
	TileCacheMaxEntries int

	// RedisURL, when set, switches the tile cache from the in-memory LRU
	// to the Redis-backed internal/cache implementation.
	RedisURL string

	// S3OutputBucket, when set, publishes finished job output
	// directories to S3 via internal/objectstore.
	S3OutputBucket string
	S3OutputPrefix string
	AWSRegion      string

	// RequestTimeout bounds a single compute/extract/tile request's
	// wall-clock budget.
	RequestTimeout time.Duration

	// ExpiryDuration bounds how long a batch job's output directory is
	// kept on disk before the serve command's cleanup loop removes it.
	ExpiryDuration time.Duration
}

// Load reads Config from the environment, applying defaults for anything
// unset. It never panics; a malformed numeric/duration value is reported
// as an error rather than silently ignored.
func Load() (Config, error) {
	cfg := Config{
		STACRootSentinel2:   envOr("STAC_ROOT_SENTINEL2", "https://earth-search.aws.element84.com/v1"),
		STACRootLandsat:     envOr("STAC_ROOT_LANDSAT", "https://planetarycomputer.microsoft.com/api/stac/v1"),
		PCSigningEndpoint:   envOr("PC_SIGNING_ENDPOINT", "https://planetarycomputer.microsoft.com/api/sas/v1/sign"),
		RedisURL:            os.Getenv("REDIS_URL"),
		S3OutputBucket:      os.Getenv("S3_OUTPUT_BUCKET"),
		S3OutputPrefix:      envOr("S3_OUTPUT_PREFIX", "vcube"),
		AWSRegion:           envOr("AWS_REGION", "us-east-1"),
		TileCacheMaxEntries: 10000,
	}

	var err error
	if cfg.Workers, err = envInt("WORKERS", 4); err != nil {
		return Config{}, err
	}
	if cfg.TileCacheTTL, err = envDuration("TILE_CACHE_TTL", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.TileCacheMaxEntries, err = envInt("TILE_CACHE_MAX_ENTRIES", cfg.TileCacheMaxEntries); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout, err = envDuration("REQUEST_TIMEOUT", 120*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.ExpiryDuration, err = envDuration("EXPIRY_DURATION", 24*time.Hour); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be a duration (e.g. \"90s\"): %w", key, err)
	}
	return d, nil
}
