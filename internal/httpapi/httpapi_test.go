package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshitijrajsharma/vcube/internal/extract"
	"github.com/kshitijrajsharma/vcube/internal/pipeline"
	"github.com/kshitijrajsharma/vcube/internal/stac"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	outputRoot := t.TempDir()
	catalog := stac.NewClient(stac.Config{})
	return &Server{
		Pipeline:   pipeline.New(catalog, nil),
		Extractor:  extract.NewExtractor(catalog, nil),
		Catalog:    catalog,
		OutputRoot: outputRoot,
	}, outputRoot
}

func TestHandleComputeRejectsMalformedBody(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compute", bytes.NewBufferString("not-json"))
	w := httptest.NewRecorder()

	s.handleCompute(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleComputeRejectsBadDateRange(t *testing.T) {
	s, _ := newTestServer(t)
	body, _ := json.Marshal(computeRequest{
		Sensor:    "sentinel-2-l2a",
		Bbox:      [4]float64{0, 0, 1, 1},
		StartDate: "2025-01-01",
		EndDate:   "2024-01-01",
		Band1:     "red",
		Formula:   "band1",
		Operation: "mean",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compute", bytes.NewBuffer(body))
	w := httptest.NewRecorder()

	s.handleCompute(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleExtractRejectsUnknownSensor(t *testing.T) {
	s, _ := newTestServer(t)
	body, _ := json.Marshal(extractRequest{
		Sensor:    "not-a-sensor",
		Bbox:      [4]float64{0, 0, 1, 1},
		Dates:     [2]string{"2024-01-01", "2024-02-01"},
		BandsList: []string{"red"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", bytes.NewBuffer(body))
	w := httptest.NewRecorder()

	s.handleExtract(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleBandsListsSentinel2Whitelist(t *testing.T) {
	s, _ := newTestServer(t)
	r := s.Routes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bands/sentinel-2-l2a", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp bandsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Bands)
}

func TestHandleBandsRejectsUnknownSensor(t *testing.T) {
	s, _ := newTestServer(t)
	r := s.Routes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bands/not-a-sensor", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleListFilesReturnsJobContents(t *testing.T) {
	s, outputRoot := newTestServer(t)
	jobDir := filepath.Join(outputRoot, "job-1")
	require.NoError(t, os.MkdirAll(jobDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(jobDir, "custom_band_mean_aggregate.tif"), []byte("x"), 0o644))

	r := s.Routes()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/job-1/files", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp listFilesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Files, 1)
}

func TestHandleListFilesRejectsPathTraversal(t *testing.T) {
	s, _ := newTestServer(t)
	r := s.Routes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/../etc/files", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.NotEqual(t, http.StatusOK, w.Code)
}

func TestHandleLogsReturns404WhenMissing(t *testing.T) {
	s, outputRoot := newTestServer(t)
	require.NoError(t, os.MkdirAll(filepath.Join(outputRoot, "job-2"), 0o755))

	r := s.Routes()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/job-2/logs", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthCheck(t *testing.T) {
	s, _ := newTestServer(t)
	r := s.Routes()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
