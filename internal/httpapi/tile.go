package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kshitijrajsharma/vcube/internal/model"
	"github.com/kshitijrajsharma/vcube/internal/tileproc"
	"github.com/kshitijrajsharma/vcube/internal/timestack"
)

// handleTile renders one XYZ tile, mirroring generate_tile(req): the
// z/x/y coordinate comes from the path, the band-math/filter parameters
// from the query string.
func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	x, err := strconv.Atoi(chi.URLParam(r, "x"))
	if err != nil {
		writeError(w, &model.ValidationError{Msg: "x must be an integer"})
		return
	}
	y, err := strconv.Atoi(chi.URLParam(r, "y"))
	if err != nil {
		writeError(w, &model.ValidationError{Msg: "y must be an integer"})
		return
	}
	z, err := strconv.Atoi(chi.URLParam(r, "z"))
	if err != nil {
		writeError(w, &model.ValidationError{Msg: "z must be an integer"})
		return
	}

	q := r.URL.Query()
	start, end, err := parseDateRange(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeError(w, err)
		return
	}
	cloudCover, _ := strconv.ParseFloat(q.Get("cloud_cover"), 64)
	latest, _ := strconv.ParseBool(q.Get("latest"))

	colormap := q.Get("colormap")
	if colormap == "" {
		colormap = "RdYlGn"
	}

	result, err := s.Tiles.Generate(r.Context(), tileproc.Request{
		X: x, Y: y, Z: z,
		Sensor:     model.Sensor(chi.URLParam(r, "sensor")),
		Start:      start,
		End:        end,
		CloudCover: cloudCover,
		Band:       model.BandRequest{Band1: q.Get("band1"), Band2: q.Get("band2"), Formula: q.Get("formula")},
		Colormap:   colormap,
		Latest:     latest,
		Operation:  timestack.Operation(q.Get("operation")),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Scene-Id", result.SceneID)
	w.Write(result.PNG)
}
