package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/kshitijrajsharma/vcube/internal/extract"
	"github.com/kshitijrajsharma/vcube/internal/model"
)

// extractRequest mirrors the extract(cfg) entry point's field set. Dates
// is a [start, end] pair in "2006-01-02" form, matching computeRequest.
type extractRequest struct {
	Sensor      model.Sensor `json:"sensor"`
	Bbox        [4]float64   `json:"bbox"`
	Dates       [2]string    `json:"dates"`
	CloudCover  float64      `json:"cloud_cover"`
	BandsList   []string     `json:"bands_list"`
	Workers     int          `json:"workers"`
	ZipOutput   bool         `json:"zip_output"`
	SmartFilter bool         `json:"smart_filter"`
}

type extractResponse struct {
	JobID         string                `json:"job_id"`
	OutputDir     string                `json:"output_dir"`
	Scenes        []extract.SceneOutput `json:"scenes"`
	PublishedURLs []string              `json:"published_urls,omitempty"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &model.ValidationError{Msg: "malformed request body", Err: err})
		return
	}

	start, end, err := parseDateRange(req.Dates[0], req.Dates[1])
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

	results, err := s.Extractor.Run(r.Context(), extract.Job{
		Sensor:      req.Sensor,
		Bbox:        model.AOI{West: req.Bbox[0], South: req.Bbox[1], East: req.Bbox[2], North: req.Bbox[3]},
		Start:       start,
		End:         end,
		Bands:       req.BandsList,
		CloudCover:  req.CloudCover,
		SmartFilter: req.SmartFilter,
		OutputDir:   outputDir,
		ZipOutput:   req.ZipOutput,
		Logger:      logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	paths := make([]string, len(results))
	for i, scene := range results {
		paths[i] = scene.Path
	}

	writeJSON(w, http.StatusOK, extractResponse{
		JobID:         jobID,
		OutputDir:     outputDir,
		Scenes:        results,
		PublishedURLs: s.publish(r, jobID, paths),
	})
}
