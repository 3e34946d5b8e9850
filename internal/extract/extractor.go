// Package extract implements the multi-band GeoTIFF export operation: for
// each scene surviving search/filter/dedup, read every requested band at
// its native resolution, harmonize them all onto the coarsest band's
// grid, and write one per-scene GeoTIFF (optionally bundled into a zip).
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/kshitijrajsharma/vcube/internal/cogio"
	"github.com/kshitijrajsharma/vcube/internal/model"
	"github.com/kshitijrajsharma/vcube/internal/render"
	"github.com/kshitijrajsharma/vcube/internal/scenefilter"
	"github.com/kshitijrajsharma/vcube/internal/sensor"
	"github.com/kshitijrajsharma/vcube/internal/stac"
)

// Job is a validated multi-band extraction request.
type Job struct {
	Sensor      model.Sensor
	Bbox        model.AOI
	Start, End  time.Time
	Bands       []string
	CloudCover  float64
	SmartFilter bool
	OutputDir   string
	ZipOutput   bool

	// Logger receives per-job progress diagnostics, an explicit sink
	// rather than process-global stdout redirection. Defaults to
	// slog.Default() when nil.
	Logger *slog.Logger
}

// SceneOutput records one scene's exported GeoTIFF path, for the zip
// step and the API response.
type SceneOutput struct {
	SceneID string
	Path    string
}

// Extractor runs a multi-band extraction job against a catalog and reader.
type Extractor struct {
	catalog *stac.Client
	reader  *cogio.Reader
}

// NewExtractor wires an Extractor around shared catalog/reader instances.
func NewExtractor(catalog *stac.Client, reader *cogio.Reader) *Extractor {
	return &Extractor{catalog: catalog, reader: reader}
}

// Run validates the band whitelist, searches/filters/dedups scenes, and
// exports one GeoTIFF per surviving scene, returning every output written.
func (e *Extractor) Run(ctx context.Context, job Job) ([]SceneOutput, error) {
	capRec, ok := sensor.For(job.Sensor)
	if !ok {
		return nil, &model.ValidationError{Msg: fmt.Sprintf("unknown sensor %q", job.Sensor)}
	}
	if invalid := capRec.InvalidBands(job.Bands); len(invalid) > 0 {
		return nil, &model.ValidationError{Msg: fmt.Sprintf(
			"invalid band names: %v (must be one of the %s band set)", invalid, job.Sensor)}
	}
	if err := job.Bbox.Validate(); err != nil {
		return nil, err
	}
	log := job.Logger
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("extract: output dir: %w", err)
	}

	scenes, err := e.catalog.Search(ctx, stac.SearchParams{
		Collection: capRec.Collection,
		Bbox:       job.Bbox,
		Start:      job.Start,
		End:        job.End,
		CloudCover: job.CloudCover,
	})
	if err != nil {
		return nil, &model.CatalogError{Msg: "extract search failed", Err: err}
	}

	scenes = scenefilter.FilterContained(scenes, job.Bbox)
	if len(scenes) == 0 {
		return nil, model.ErrNoScenesContained
	}
	scenes = scenefilter.Dedup(scenes, job.Sensor)
	if job.SmartFilter {
		scenes = scenefilter.SmartFilter(scenes, job.Start, job.End)
	}
	log.Info("extract: scenes after filter/dedup", "count", len(scenes))

	results := make([]SceneOutput, 0, len(scenes))
	for _, sc := range scenes {
		out, err := e.extractScene(ctx, job, sc)
		if err != nil {
			log.Warn("extract: scene skipped", "scene", sc.ID, "reason", err.Error())
			continue // one unreadable scene must not fail the whole batch
		}
		results = append(results, out)
	}
	if len(results) == 0 {
		return nil, &model.NoResultsError{Msg: "no scene had a readable band inside the requested area"}
	}
	log.Info("extract: job complete", "scenes", len(results), "output_dir", job.OutputDir)

	if job.ZipOutput {
		paths := make([]string, len(results))
		for i, r := range results {
			paths[i] = r.Path
		}
		zipPath := filepath.Join(job.OutputDir, "tiff_files.zip")
		if err := render.ZipFiles(paths, zipPath, true); err != nil {
			return nil, &model.RenderError{Format: "zip", Err: err}
		}
	}

	return results, nil
}

func (e *Extractor) extractScene(ctx context.Context, job Job, sc model.Scene) (SceneOutput, error) {
	type bandRead struct {
		name      string
		data      [][]float64
		area      float64
		crs       string
		transform model.Affine
	}
	reads := make([]bandRead, 0, len(job.Bands))

	for _, band := range job.Bands {
		url, ok := sc.Assets[band]
		if !ok {
			continue
		}
		w, _, err := e.reader.ReadWindow(ctx, url, job.Bbox)
		if err != nil {
			continue
		}
		if len(w.Data) == 0 {
			continue
		}
		reads = append(reads, bandRead{name: band, data: w.Data[0], area: math.Abs(w.Transform.A * w.Transform.E), crs: w.CRS, transform: w.Transform})
	}
	if len(reads) == 0 {
		return SceneOutput{}, fmt.Errorf("extract: no readable bands for scene %s", sc.ID)
	}

	areas := make([]float64, len(reads))
	for i, r := range reads {
		areas[i] = r.area
	}
	coarsest := cogio.TargetResolution(areas)
	targetH := len(reads[coarsest].data)
	targetW := 0
	if targetH > 0 {
		targetW = len(reads[coarsest].data[0])
	}

	stacked := make([][][]float64, len(reads))
	descriptions := make([]string, len(reads))
	for i, r := range reads {
		h := len(r.data)
		w := 0
		if h > 0 {
			w = len(r.data[0])
		}
		descriptions[i] = r.name
		if h == 0 || w == 0 || (h == targetH && w == targetW) {
			stacked[i] = r.data
			continue
		}
		scaleX := float64(w) / float64(targetW)
		scaleY := float64(h) / float64(targetH)
		stacked[i] = cogio.Harmonize(r.data, scaleX, scaleY)
	}

	outPath := filepath.Join(job.OutputDir, fmt.Sprintf("%s_bands_export.tif", sc.ID))
	if err := render.GeoTIFFWithDescriptions(outPath, stacked, reads[coarsest].crs, reads[coarsest].transform, descriptions); err != nil {
		return SceneOutput{}, err
	}
	return SceneOutput{SceneID: sc.ID, Path: outPath}, nil
}
