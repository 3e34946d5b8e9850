// Package objectstore publishes rendered compute/extract artifacts to S3
// when a bucket is configured, so a caller can hand back a durable URL
// instead of (or alongside) the local output directory.
package objectstore

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"
)

// Config names the bucket and key prefix artifacts are published under.
type Config struct {
	Bucket string
	Prefix string
	Region string
}

// Store uploads local files to S3 under Config.Bucket/Config.Prefix.
type Store struct {
	cfg    Config
	client *s3.Client
}

// New loads the default AWS credential chain and wires a Store. Returns
// (nil, nil) when cfg.Bucket is empty, since publishing is optional: a
// caller should treat a nil *Store as "no object storage configured" and
// skip the upload step entirely rather than treating this as an error.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("objectstore: load aws config: %w", err)
	}
	return &Store{cfg: cfg, client: s3.NewFromConfig(awsCfg)}, nil
}

// PutFile uploads the file at localPath under the configured prefix plus
// jobID, returning the s3:// URL it was written to.
func (s *Store) PutFile(ctx context.Context, jobID, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("objectstore: open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("objectstore: stat %s: %w", localPath, err)
	}

	key := s.keyFor(jobID, filepath.Base(localPath))
	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	start := time.Now()
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("objectstore: put %s: %w", key, err)
	}
	slog.Info("objectstore upload complete",
		"key", key, "size", humanize.Bytes(uint64(info.Size())), "elapsed", time.Since(start))

	return fmt.Sprintf("s3://%s/%s", s.cfg.Bucket, key), nil
}

// PutFiles uploads every path in paths and returns their s3:// URLs in the
// same order, stopping at the first failure.
func (s *Store) PutFiles(ctx context.Context, jobID string, paths []string) ([]string, error) {
	urls := make([]string, 0, len(paths))
	for _, p := range paths {
		u, err := s.PutFile(ctx, jobID, p)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}

func (s *Store) keyFor(jobID, baseName string) string {
	prefix := strings.Trim(s.cfg.Prefix, "/")
	if prefix == "" {
		return fmt.Sprintf("%s/%s", jobID, baseName)
	}
	return fmt.Sprintf("%s/%s/%s", prefix, jobID, baseName)
}
