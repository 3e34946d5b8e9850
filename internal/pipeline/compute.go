// Package pipeline orchestrates the batch compute() operation: search,
// filter, dedup, per-scene band-math (bounded worker pool), time-stack
// aggregation, and output rendering (GeoTIFF + colorized PNG + trend
// chart, plus an animated GIF and zip bundle when a timeseries is
// requested).
package pipeline

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/kshitijrajsharma/vcube/internal/bandmath"
	"github.com/kshitijrajsharma/vcube/internal/cogio"
	"github.com/kshitijrajsharma/vcube/internal/model"
	"github.com/kshitijrajsharma/vcube/internal/render"
	"github.com/kshitijrajsharma/vcube/internal/scenefilter"
	"github.com/kshitijrajsharma/vcube/internal/sensor"
	"github.com/kshitijrajsharma/vcube/internal/stac"
	"github.com/kshitijrajsharma/vcube/internal/timestack"
)

// DefaultDeadline bounds the wall-clock time a single compute request may
// take end to end, matching the request-level timeout budget.
const DefaultDeadline = 120 * time.Second

// Request is a validated compute() job.
type Request struct {
	Sensor      model.Sensor
	Bbox        model.AOI
	Start, End  time.Time
	CloudCover  float64
	Band        model.BandRequest
	Operation   timestack.Operation
	Timeseries  bool
	Colormap    string
	OutputDir   string
	Workers     int
	SmartFilter bool
	Deadline    time.Duration

	// Logger receives per-job progress and skip diagnostics. It is an
	// explicit sink rather than process-global stdout redirection, so a
	// caller (e.g. internal/httpapi) can route it to a per-job log file.
	// Defaults to slog.Default() when nil.
	Logger *slog.Logger
}

// Response is everything compute() produced: the aggregate GeoTIFF/PNG and
// the trend chart, and, when Timeseries was requested, the animated GIF
// and a zip bundle of the per-scene GeoTIFF intermediates.
type Response struct {
	AggregateGeoTIFF string
	AggregatePNG     string
	TrendPNG         string
	GIFPath          string
	ZipPath          string
	SceneCount       int
	SkippedScenes    map[string]string // scene ID -> reason (e.g. CRS mismatch)
}

// Pipeline runs compute() requests against a shared catalog and reader.
type Pipeline struct {
	catalog *stac.Client
	reader  *cogio.Reader
}

// New wires a Pipeline around shared catalog/reader instances.
func New(catalog *stac.Client, reader *cogio.Reader) *Pipeline {
	return &Pipeline{catalog: catalog, reader: reader}
}

type sceneCompute struct {
	scene     model.Scene
	result    [][][]float64
	crs       string
	transform model.Affine
}

// Run executes one compute() request end to end.
func (p *Pipeline) Run(ctx context.Context, req Request) (Response, error) {
	if req.Band.Band1 == "" {
		return Response{}, &model.ValidationError{Msg: "band1 is required"}
	}
	if err := req.Bbox.Validate(); err != nil {
		return Response{}, err
	}
	log := req.Logger
	if log == nil {
		log = slog.Default()
	}

	deadline := req.Deadline
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	capRec, ok := sensor.For(req.Sensor)
	if !ok {
		return Response{}, &model.ValidationError{Msg: fmt.Sprintf("unknown sensor %q", req.Sensor)}
	}
	bands := []string{req.Band.Band1}
	if req.Band.Band2 != "" {
		bands = append(bands, req.Band.Band2)
	}
	if invalid := capRec.InvalidBands(bands); len(invalid) > 0 {
		return Response{}, &model.ValidationError{Msg: fmt.Sprintf("unsupported bands for %s: %v", req.Sensor, invalid)}
	}

	if req.Operation == "" {
		if !req.Timeseries {
			return Response{}, &model.ValidationError{Msg: "operation is required when timeseries is false"}
		}
		req.Operation = timestack.OpMean
	}
	if !timestack.ValidOperation(string(req.Operation)) {
		return Response{}, &model.ValidationError{Msg: fmt.Sprintf("unknown operation %q", req.Operation)}
	}

	formula, err := bandmath.Compile(req.Band.Formula)
	if err != nil {
		return Response{}, &model.ValidationError{Msg: err.Error()}
	}

	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return Response{}, fmt.Errorf("pipeline: output dir: %w", err)
	}

	scenes, err := p.catalog.Search(ctx, stac.SearchParams{
		Collection: capRec.Collection,
		Bbox:       req.Bbox,
		Start:      req.Start,
		End:        req.End,
		CloudCover: req.CloudCover,
	})
	if err != nil {
		return Response{}, &model.CatalogError{Msg: "compute search failed", Err: err}
	}
	log.Info("compute: catalog search complete", "candidates", len(scenes))

	scenes = scenefilter.FilterContained(scenes, req.Bbox)
	if len(scenes) == 0 {
		return Response{}, model.ErrNoScenesContained
	}
	scenes = scenefilter.Dedup(scenes, req.Sensor)
	if req.SmartFilter {
		scenes = scenefilter.SmartFilter(scenes, req.Start, req.End)
	}
	log.Info("compute: scenes after filter/dedup", "count", len(scenes))

	computed := p.computeScenes(ctx, req, formula, scenes)
	if len(computed) == 0 {
		return Response{}, &model.NoResultsError{Msg: "no scene could be read and evaluated inside the requested area"}
	}
	if skipped := len(scenes) - len(computed); skipped > 0 {
		log.Warn("compute: scenes skipped by per-scene read/formula failure", "skipped", skipped)
	}

	sort.Slice(computed, func(i, j int) bool {
		return computed[i].scene.DateTime.Before(computed[j].scene.DateTime)
	})

	resp := Response{SceneCount: len(computed)}

	entries := make([]timestack.Entry, len(computed))
	for i, c := range computed {
		entries[i] = timestack.Entry{Scene: c.scene, Result: c.result, CRS: c.crs}
	}
	stacked, kept, skipped := timestack.Stack(entries)
	resp.SkippedScenes = skipped
	for id, reason := range skipped {
		log.Warn("compute: scene skipped from stack", "scene", id, "reason", reason)
	}
	if len(stacked) == 0 {
		return Response{}, &model.NoResultsError{Msg: "no scene left to stack after the CRS check"}
	}

	aggregate, err := timestack.Reduce(stacked, req.Operation)
	if err != nil {
		return Response{}, &model.RenderError{Format: "aggregate", Err: err}
	}

	refTransform := computed[0].transform
	refCRS := computed[0].crs

	aggTif := filepath.Join(req.OutputDir, fmt.Sprintf("custom_band_%s_aggregate.tif", req.Operation))
	if err := render.GeoTIFF(aggTif, aggregate, refCRS, refTransform); err != nil {
		return Response{}, &model.RenderError{Format: "geotiff", Err: err}
	}
	resp.AggregateGeoTIFF = aggTif

	aggPNG := filepath.Join(req.OutputDir, fmt.Sprintf("custom_band_%s_aggregate_colormap.png", req.Operation))
	pngFile, err := os.Create(aggPNG)
	if err != nil {
		return Response{}, fmt.Errorf("pipeline: create png: %w", err)
	}
	err = renderGridOrComposite(pngFile, aggregate, req)
	pngFile.Close()
	if err != nil {
		return Response{}, &model.RenderError{Format: "png", Err: err}
	}
	resp.AggregatePNG = aggPNG

	dates := make([]time.Time, len(kept))
	for i, sc := range kept {
		dates[i] = sc.DateTime
	}
	series := timestack.ValuesOverTime(stacked, dates, req.Operation)
	fitted := timestack.Trend(series)
	trendPNG := filepath.Join(req.OutputDir, "values_over_time.png")
	if err := render.TrendPlot(trendPNG, series, fitted, fmt.Sprintf("%s value over time", req.Operation), string(req.Operation)); err == nil {
		resp.TrendPNG = trendPNG
	}

	if req.Timeseries {
		if err := p.renderTimeseries(req, computed, &resp); err != nil {
			return Response{}, err
		}
	}

	log.Info("compute: job complete", "scenes", resp.SceneCount, "output_dir", req.OutputDir)
	return resp, nil
}

func (p *Pipeline) renderTimeseries(req Request, computed []sceneCompute, resp *Response) error {
	frames := make([]render.Frame, 0, len(computed))
	tifPaths := make([]string, 0, len(computed))

	for _, c := range computed {
		tifPath := filepath.Join(req.OutputDir, fmt.Sprintf("%s_result.tif", c.scene.ID))
		if err := render.GeoTIFF(tifPath, c.result, c.crs, c.transform); err != nil {
			continue
		}
		tifPaths = append(tifPaths, tifPath)

		var img *image.RGBA
		if req.Band.Band2 == "" && req.Band.Formula == "band1" && render.IsMultiChannel(c.result) {
			img = render.RGBCompositeImage(render.CompositeBands(c.result))
		} else {
			lo, hi := gridRange(c.result[0])
			img = render.Colorize(c.result[0], req.Colormap, lo, hi)
		}
		frames = append(frames, render.Frame{Image: img, Label: c.scene.ID})
	}

	if len(frames) == 0 {
		return nil
	}

	gifPath := filepath.Join(req.OutputDir, "output.gif")
	gifFile, err := os.Create(gifPath)
	if err != nil {
		return fmt.Errorf("pipeline: create gif: %w", err)
	}
	err = render.GIF(gifFile, frames, 100)
	gifFile.Close()
	if err != nil {
		return &model.RenderError{Format: "gif", Err: err}
	}
	resp.GIFPath = gifPath

	zipPath := filepath.Join(req.OutputDir, "tiff_files.zip")
	if err := render.ZipFiles(tifPaths, zipPath, true); err != nil {
		return &model.RenderError{Format: "zip", Err: err}
	}
	resp.ZipPath = zipPath
	return nil
}

func (p *Pipeline) computeScenes(ctx context.Context, req Request, formula *bandmath.Formula, scenes []model.Scene) []sceneCompute {
	workers := req.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan model.Scene, len(scenes))
	results := make(chan *sceneCompute, len(scenes))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range jobs {
				res := p.computeOne(ctx, req, formula, sc)
				results <- res
			}
		}()
	}

	for _, sc := range scenes {
		jobs <- sc
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]sceneCompute, 0, len(scenes))
	for res := range results {
		if res != nil {
			out = append(out, *res)
		}
	}
	return out
}

func (p *Pipeline) computeOne(ctx context.Context, req Request, formula *bandmath.Formula, sc model.Scene) *sceneCompute {
	band1URL, ok := sc.Assets[req.Band.Band1]
	if !ok {
		return nil
	}
	w1, inBounds, err := p.reader.ReadWindow(ctx, band1URL, req.Bbox)
	if err != nil || !inBounds {
		return nil
	}

	var band2Cube [][][]float64
	if req.Band.Band2 != "" {
		band2URL, ok := sc.Assets[req.Band.Band2]
		if !ok {
			return nil
		}
		w2, inBounds, err := p.reader.ReadWindow(ctx, band2URL, req.Bbox)
		if err != nil || !inBounds {
			return nil
		}
		band2Cube = w2.Data
	}

	result, err := formula.Apply(w1.Data, band2Cube)
	if err != nil {
		return nil
	}
	return &sceneCompute{scene: sc, result: result, crs: w1.CRS, transform: w1.Transform}
}

// renderGridOrComposite writes cube as a colorized single-band PNG, unless
// the RGB shortcut applies (a bare "band1" formula with no band2 passed a
// multi-channel cube straight through), in which case it writes an RGB
// composite of the first three channels instead.
func renderGridOrComposite(w io.Writer, cube [][][]float64, req Request) error {
	if req.Band.Band2 == "" && req.Band.Formula == "band1" && render.IsMultiChannel(cube) {
		return render.RGBComposite(w, render.CompositeBands(cube))
	}
	nan := math.NaN()
	return render.PNG(w, cube[0], req.Colormap, nan, nan)
}

// gridRange returns the finite min/max of grid, ignoring NaN, for use as a
// per-frame colorization stretch when no fixed range is configured.
func gridRange(grid render.Grid) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range grid {
		for _, v := range row {
			if v != v {
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	return lo, hi
}
