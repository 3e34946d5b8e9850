package httpapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/kshitijrajsharma/vcube/internal/model"
	"github.com/kshitijrajsharma/vcube/internal/pipeline"
	"github.com/kshitijrajsharma/vcube/internal/timestack"
)

// computeRequest mirrors the compute(cfg) entry point's field set.
type computeRequest struct {
	Sensor      model.Sensor `json:"sensor"`
	Bbox        [4]float64   `json:"bbox"`
	StartDate   string       `json:"start_date"`
	EndDate     string       `json:"end_date"`
	CloudCover  float64      `json:"cloud_cover"`
	Band1       string       `json:"band1"`
	Band2       string       `json:"band2"`
	Formula     string       `json:"formula"`
	Operation   string       `json:"operation"`
	Timeseries  bool         `json:"timeseries"`
	Colormap    string       `json:"colormap"`
	Workers     int          `json:"workers"`
	SmartFilter bool         `json:"smart_filter"`
}

type computeResponse struct {
	JobID            string            `json:"job_id"`
	OutputDir        string            `json:"output_dir"`
	AggregateGeoTIFF string            `json:"aggregate_geotiff"`
	AggregatePNG     string            `json:"aggregate_png"`
	TrendPNG         string            `json:"trend_png,omitempty"`
	GIFPath          string            `json:"gif_path,omitempty"`
	ZipPath          string            `json:"zip_path,omitempty"`
	SceneCount       int               `json:"scene_count"`
	SkippedScenes    map[string]string `json:"skipped_scenes,omitempty"`
	PublishedURLs    []string          `json:"published_urls,omitempty"`
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	var req computeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &model.ValidationError{Msg: "malformed request body", Err: err})
		return
	}

	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}

	jobID := uuid.NewString()
	outputDir := filepath.Join(s.OutputRoot, jobID)
	logger, logFile, err := newJobLogger(outputDir)
	if err != nil {
		writeError(w, fmt.Errorf("httpapi: job log: %w", err))
		return
	}
	if logFile != nil {
		defer logFile.Close()
	}

	resp, err := s.Pipeline.Run(r.Context(), pipeline.Request{
		Sensor:      req.Sensor,
		Bbox:        model.AOI{West: req.Bbox[0], South: req.Bbox[1], East: req.Bbox[2], North: req.Bbox[3]},
		Start:       start,
		End:         end,
		CloudCover:  req.CloudCover,
		Band:        model.BandRequest{Band1: req.Band1, Band2: req.Band2, Formula: req.Formula},
		Operation:   timestack.Operation(req.Operation),
		Timeseries:  req.Timeseries,
		Colormap:    req.Colormap,
		OutputDir:   outputDir,
		Workers:     req.Workers,
		SmartFilter: req.SmartFilter,
		Logger:      logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	artifacts := make([]string, 0, 5)
	for _, p := range []string{resp.AggregateGeoTIFF, resp.AggregatePNG, resp.TrendPNG, resp.GIFPath, resp.ZipPath} {
		if p != "" {
			artifacts = append(artifacts, p)
		}
	}

	writeJSON(w, http.StatusOK, computeResponse{
		JobID:            jobID,
		OutputDir:        outputDir,
		AggregateGeoTIFF: resp.AggregateGeoTIFF,
		AggregatePNG:     resp.AggregatePNG,
		TrendPNG:         resp.TrendPNG,
		GIFPath:          resp.GIFPath,
		ZipPath:          resp.ZipPath,
		SceneCount:       resp.SceneCount,
		SkippedScenes:    resp.SkippedScenes,
		PublishedURLs:    s.publish(r, jobID, artifacts),
	})
}

// parseDateRange accepts "2006-01-02" dates and rejects an inverted or
// malformed range.
func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	const layout = "2006-01-02"
	start, err := time.Parse(layout, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, &model.ValidationError{Msg: "start_date must be YYYY-MM-DD", Err: err}
	}
	end, err := time.Parse(layout, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, &model.ValidationError{Msg: "end_date must be YYYY-MM-DD", Err: err}
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, &model.ValidationError{Msg: "start_date must be before end_date"}
	}
	return start, end, nil
}

// newJobLogger opens a per-job log sink under outputDir/job.log, routing
// job diagnostics there instead of mutating process-global stdout. The
// returned file is nil (and the logger falls back to slog.Default) if the
// directory could not be created in time for the log file to be opened;
// the pipeline itself creates OutputDir again idempotently.
func newJobLogger(outputDir string) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return slog.Default(), nil, nil
	}
	f, err := os.OpenFile(filepath.Join(outputDir, "job.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return slog.Default(), nil, nil
	}
	return slog.New(slog.NewJSONHandler(f, nil)), f, nil
}
