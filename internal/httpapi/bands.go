package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kshitijrajsharma/vcube/internal/model"
	"github.com/kshitijrajsharma/vcube/internal/sensor"
)

type bandEntry struct {
	Band  string `json:"band"`
	Label string `json:"label"`
}

type bandsResponse struct {
	Sensor     model.Sensor `json:"sensor"`
	Collection string       `json:"collection"`
	Bands      []bandEntry  `json:"bands"`
}

// handleBands serves the static per-sensor band whitelist and
// human-readable labels, a pure local lookup with no outbound STAC call.
func (s *Server) handleBands(w http.ResponseWriter, r *http.Request) {
	sensorName := model.Sensor(chi.URLParam(r, "sensor"))
	capRec, ok := sensor.For(sensorName)
	if !ok {
		writeError(w, &model.ValidationError{Msg: "unknown sensor"})
		return
	}

	bands := make([]bandEntry, 0, len(capRec.BandLabels))
	for band, label := range capRec.BandLabels {
		bands = append(bands, bandEntry{Band: band, Label: label})
	}

	writeJSON(w, http.StatusOK, bandsResponse{
		Sensor:     capRec.Sensor,
		Collection: capRec.Collection,
		Bands:      bands,
	})
}
