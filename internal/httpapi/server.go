// Package httpapi exposes vcube's batch compute, tile, and extract
// operations over HTTP: a thin chi router translating JSON/query requests
// into internal/pipeline, internal/tileproc, and internal/extract calls,
// plus read-only introspection over each job's output directory.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/kshitijrajsharma/vcube/internal/cogio"
	"github.com/kshitijrajsharma/vcube/internal/extract"
	custommw "github.com/kshitijrajsharma/vcube/internal/middleware"
	"github.com/kshitijrajsharma/vcube/internal/model"
	"github.com/kshitijrajsharma/vcube/internal/objectstore"
	"github.com/kshitijrajsharma/vcube/internal/pipeline"
	"github.com/kshitijrajsharma/vcube/internal/stac"
	"github.com/kshitijrajsharma/vcube/internal/tileproc"
)

// Server wires the batch, tile, and extract pipelines behind one router.
// All three share the same catalog client and COG reader (and therefore
// the reader's dataset LRU), so a single deployment never opens the same
// remote COG twice for concurrent requests that happen to overlap.
type Server struct {
	Pipeline  *pipeline.Pipeline
	Tiles     *tileproc.Processor
	Extractor *extract.Extractor
	Catalog   *stac.Client
	Reader    *cogio.Reader

	// Store publishes job output directories to S3 when configured; nil
	// means publishing is disabled and only the local OutputRoot path is
	// returned to callers.
	Store *objectstore.Store

	OutputRoot     string
	RequestTimeout time.Duration
	CORSOrigins    []string
}

// Routes builds the chi router: middleware chain, CORS, health check,
// swagger UI, and the versioned API surface.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.Logger)
	r.Use(custommw.Recoverer)
	r.Use(custommw.Timeout(s.timeout()))

	origins := s.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(custommw.ContentType("application/json"))
		r.Post("/compute", s.handleCompute)
		r.Post("/extract", s.handleExtract)
		r.Get("/bands/{sensor}", s.handleBands)
		r.Get("/jobs/{jobID}/files", s.handleListFiles)
		r.Get("/jobs/{jobID}/logs", s.handleLogs)
	})

	// The XYZ tile route serves raw PNG bytes, not JSON, so it sits
	// outside the ContentType("application/json") group.
	r.Get("/tiles/{sensor}/{z}/{x}/{y}.png", s.handleTile)

	return r
}

func (s *Server) timeout() time.Duration {
	if s.RequestTimeout <= 0 {
		return pipeline.DefaultDeadline
	}
	return s.RequestTimeout
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// publish uploads paths to S3 under jobID when s.Store is configured,
// returning the resulting s3:// URLs. A nil Store or an empty paths list
// is a no-op; an upload failure is logged but never fails the request,
// since publishing is an optional durability step on top of the local
// output directory the caller already has.
func (s *Server) publish(r *http.Request, jobID string, paths []string) []string {
	if s.Store == nil || len(paths) == 0 {
		return nil
	}
	urls, err := s.Store.PutFiles(r.Context(), jobID, paths)
	if err != nil {
		slog.Error("httpapi: artifact publish failed", "job_id", jobID, "error", err)
		return nil
	}
	return urls
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("httpapi: failed to encode response", "error", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps the engine's error kinds to HTTP status codes per the
// error handling design: validation failures are 400, a catalog/render
// failure is a 502, an empty result set is 404, and a context deadline
// is reported as a 504 gateway timeout.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case isValidationError(err):
		status = http.StatusBadRequest
	case isNoResultsError(err):
		status = http.StatusNotFound
	case isCatalogOrRenderError(err):
		status = http.StatusBadGateway
	case isDeadlineError(err):
		status = http.StatusGatewayTimeout
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func isValidationError(err error) bool {
	var verr *model.ValidationError
	return errors.As(err, &verr)
}

func isNoResultsError(err error) bool {
	var nerr *model.NoResultsError
	return errors.As(err, &nerr)
}

func isCatalogOrRenderError(err error) bool {
	var cerr *model.CatalogError
	var rerr *model.RenderError
	var rderr *model.ReaderError
	return errors.As(err, &cerr) || errors.As(err, &rerr) || errors.As(err, &rderr)
}

func isDeadlineError(err error) bool {
	var terr *model.TimeoutError
	return errors.As(err, &terr) || errors.Is(err, context.DeadlineExceeded)
}
