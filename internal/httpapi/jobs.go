package httpapi

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/kshitijrajsharma/vcube/internal/model"
)

type fileEntry struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type listFilesResponse struct {
	JobID string      `json:"job_id"`
	Files []fileEntry `json:"files"`
}

// handleListFiles is a read-only directory listing over one job's output
// directory, carried from the reference implementation's /list-files
// endpoint. No job orchestration state is involved: the job directory's
// existence on disk is the only source of truth.
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	dir, err := s.jobDir(jobID)
	if err != nil {
		writeError(w, err)
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		writeError(w, &model.NoResultsError{Msg: "job output directory not found"})
		return
	}

	files := make([]fileEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, fileEntry{Name: e.Name(), Size: info.Size()})
	}

	writeJSON(w, http.StatusOK, listFilesResponse{JobID: jobID, Files: files})
}

// handleLogs streams a job's per-job log sink (job.log), the explicit
// replacement for the reference implementation's global stdout
// redirection during batch jobs.
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	dir, err := s.jobDir(jobID)
	if err != nil {
		writeError(w, err)
		return
	}

	logPath := filepath.Join(dir, "job.log")
	f, err := os.Open(logPath)
	if err != nil {
		writeError(w, &model.NoResultsError{Msg: "job log not found"})
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/jsonl")
	io.Copy(w, f)
}

// jobDir resolves jobID to its output directory, rejecting path traversal
// (a job ID is always a uuid.NewString() value, never caller-supplied
// path segments).
func (s *Server) jobDir(jobID string) (string, error) {
	if jobID == "" || filepath.Base(jobID) != jobID {
		return "", &model.ValidationError{Msg: "invalid job id"}
	}
	return filepath.Join(s.OutputRoot, jobID), nil
}
