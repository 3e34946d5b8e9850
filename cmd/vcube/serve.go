package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kshitijrajsharma/vcube/internal/cache"
	"github.com/kshitijrajsharma/vcube/internal/extract"
	"github.com/kshitijrajsharma/vcube/internal/httpapi"
	"github.com/kshitijrajsharma/vcube/internal/objectstore"
	"github.com/kshitijrajsharma/vcube/internal/pipeline"
	"github.com/kshitijrajsharma/vcube/internal/tileproc"
)

func newServeCmd() *cobra.Command {
	var (
		addr       string
		outputRoot string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API: compute, extract, and tile endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(outputRoot, 0o755); err != nil {
				return err
			}

			tileCache := newTileCache()

			store, err := objectstore.New(context.Background(), objectstore.Config{
				Bucket: cfg.S3OutputBucket,
				Prefix: cfg.S3OutputPrefix,
				Region: cfg.AWSRegion,
			})
			if err != nil {
				return err
			}
			if store != nil {
				slog.Info("serve: S3 artifact publishing enabled", "bucket", cfg.S3OutputBucket)
			}

			srv := &httpapi.Server{
				Pipeline:       pipeline.New(catalog, reader),
				Tiles:          tileproc.NewProcessor(catalog, reader, tileCache),
				Extractor:      extract.NewExtractor(catalog, reader),
				Catalog:        catalog,
				Reader:         reader,
				Store:          store,
				OutputRoot:     outputRoot,
				RequestTimeout: cfg.RequestTimeout,
			}

			stopCleanup := make(chan struct{})
			go runExpiryLoop(outputRoot, cfg.ExpiryDuration, stopCleanup)
			defer close(stopCleanup)

			httpSrv := &http.Server{
				Addr:         addr,
				Handler:      srv.Routes(),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: cfg.RequestTimeout + 15*time.Second,
				IdleTimeout:  60 * time.Second,
			}

			go func() {
				slog.Info("serve: listening", "addr", addr)
				if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					slog.Error("serve: listen failed", "error", err)
					os.Exit(1)
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			slog.Info("serve: shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return httpSrv.Shutdown(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&outputRoot, "output-root", envOr("OUTPUT_ROOT", "./output"), "root directory for per-job output directories")

	return cmd
}

// newTileCache picks the in-memory LRU or, when REDIS_URL is configured,
// the Redis-backed implementation, so multi-replica deployments can share
// tile cache hits without code changes elsewhere.
func newTileCache() tileproc.TileCache {
	if cfg.RedisURL == "" {
		return tileproc.NewCache(cfg.TileCacheTTL, cfg.TileCacheMaxEntries)
	}
	redisCache, err := cache.New(cfg.RedisURL, cfg.TileCacheTTL)
	if err != nil {
		slog.Warn("serve: redis tile cache unavailable, falling back to in-memory", "error", err)
		return tileproc.NewCache(cfg.TileCacheTTL, cfg.TileCacheMaxEntries)
	}
	return cache.Adapter{Cache: redisCache}
}

// runExpiryLoop removes job output directories older than expiry once an
// hour, carried from the reference implementation's EXPIRY_DURATION_HOURS
// cleanup sweep.
func runExpiryLoop(outputRoot string, expiry time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			expireJobDirs(outputRoot, expiry)
		}
	}
}

func expireJobDirs(outputRoot string, expiry time.Duration) {
	entries, err := os.ReadDir(outputRoot)
	if err != nil {
		slog.Error("serve: expiry scan failed", "error", err)
		return
	}
	cutoff := time.Now().Add(-expiry)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		dir := filepath.Join(outputRoot, e.Name())
		if err := os.RemoveAll(dir); err != nil {
			slog.Error("serve: expiry removal failed", "dir", dir, "error", err)
			continue
		}
		slog.Info("serve: expired job output removed", "dir", dir)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
