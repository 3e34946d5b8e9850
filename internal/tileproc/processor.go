package tileproc

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kshitijrajsharma/vcube/internal/bandmath"
	"github.com/kshitijrajsharma/vcube/internal/cogio"
	"github.com/kshitijrajsharma/vcube/internal/geomutil"
	"github.com/kshitijrajsharma/vcube/internal/model"
	"github.com/kshitijrajsharma/vcube/internal/render"
	"github.com/kshitijrajsharma/vcube/internal/scenefilter"
	"github.com/kshitijrajsharma/vcube/internal/sensor"
	"github.com/kshitijrajsharma/vcube/internal/stac"
	"github.com/kshitijrajsharma/vcube/internal/timestack"
)

// Request is the single-tile XYZ request: a z/x/y coordinate plus the
// same band-math/filter parameters the batch compute operation accepts.
type Request struct {
	X, Y, Z    int
	Sensor     model.Sensor
	Start, End time.Time
	CloudCover float64
	Band       model.BandRequest
	Colormap   string
	Latest     bool // true: single most-recent scene; false: time-stack aggregate
	Operation  timestack.Operation
}

// Key returns the request's cache key, unique per distinct tile content.
func (r Request) Key() string {
	return fmt.Sprintf("%s/%d/%d/%d/%s/%s/%s/%.1f/%s/%s/%t/%s/%s",
		r.Sensor, r.Z, r.X, r.Y,
		r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"),
		r.Band.Band1, r.CloudCover, r.Band.Band2, r.Band.Formula, r.Latest, r.Operation, r.Colormap)
}

// Result is a rendered tile and the scene it was cut from (or, for a
// time-stack tile, the most recent contributing scene).
type Result struct {
	PNG     []byte
	SceneID string
}

// Processor renders XYZ tiles on demand: search, filter, windowed-read,
// band-math/aggregate, colorize, cache.
type Processor struct {
	catalog *stac.Client
	reader  *cogio.Reader
	cache   TileCache
	sf      singleflight.Group
}

// NewProcessor wires a tile processor around shared catalog/reader/cache
// instances (the same cogio.Reader used by the batch pipeline, so its LRU
// dataset cache is shared rather than duplicated per tile request). cache
// may be the in-memory Cache or a cache.Cache Adapter.
func NewProcessor(catalog *stac.Client, reader *cogio.Reader, cache TileCache) *Processor {
	return &Processor{catalog: catalog, reader: reader, cache: cache}
}

// Generate renders the tile for req, serving from cache when possible and
// collapsing concurrent identical requests into one computation.
func (p *Processor) Generate(ctx context.Context, req Request) (Result, error) {
	key := req.Key()
	if png, sceneID, ok := p.cache.Get(key); ok {
		return Result{PNG: png, SceneID: sceneID}, nil
	}

	out, err, _ := p.sf.Do(key, func() (interface{}, error) {
		res, err := p.generate(ctx, req)
		if err != nil {
			return nil, err
		}
		p.cache.Put(key, res.PNG, res.SceneID)
		return res, nil
	})
	if err != nil {
		return Result{}, err
	}
	return out.(Result), nil
}

// MinZoom and MaxZoom bound the accepted XYZ zoom levels: below MinZoom a
// tile covers too much ground for a meaningful band-math render, and above
// MaxZoom the COG's native resolution no longer supports a sharper tile.
const (
	MinZoom = 10
	MaxZoom = 23
)

func (p *Processor) generate(ctx context.Context, req Request) (Result, error) {
	if req.Z < MinZoom || req.Z > MaxZoom {
		return Result{}, &model.ValidationError{Msg: fmt.Sprintf("zoom %d out of range [%d, %d]", req.Z, MinZoom, MaxZoom)}
	}

	capRec, ok := sensor.For(req.Sensor)
	if !ok {
		return Result{}, &model.ValidationError{Msg: fmt.Sprintf("unknown sensor %q", req.Sensor)}
	}
	bands := []string{req.Band.Band1}
	if req.Band.Band2 != "" {
		bands = append(bands, req.Band.Band2)
	}
	if invalid := capRec.InvalidBands(bands); len(invalid) > 0 {
		return Result{}, &model.ValidationError{Msg: fmt.Sprintf("unsupported bands for %s: %v", req.Sensor, invalid)}
	}

	aoi := geomutil.WebMercatorTileBounds(req.X, req.Y, req.Z)

	tileGeometry, err := geomutil.TilePolygonGeoJSON(req.X, req.Y, req.Z)
	if err != nil {
		return Result{}, &model.CatalogError{Msg: "encoding tile geometry", Err: err}
	}
	scenes, err := p.catalog.SearchIntersects(ctx, stac.SearchParams{
		Collection: capRec.Collection,
		Bbox:       aoi,
		Start:      req.Start,
		End:        req.End,
		CloudCover: req.CloudCover,
	}, tileGeometry)
	if err != nil {
		return Result{}, &model.CatalogError{Msg: "tile search failed", Err: err}
	}
	if len(scenes) == 0 {
		return Result{}, &model.NoResultsError{Msg: "the catalog returned no scene for this tile"}
	}

	scenes = scenefilter.FilterContained(scenes, aoi)
	if len(scenes) == 0 {
		return Result{}, model.ErrNoScenesContained
	}

	if req.Latest {
		scenes = scenefilter.LatestPerGrid(scenes)
		if len(scenes) == 0 {
			return Result{}, model.ErrNoScenesContained
		}
		scenes = scenes[:1]
	} else {
		scenes = scenefilter.Dedup(scenes, req.Sensor)
		scenes = scenefilter.SmartFilter(scenes, req.Start, req.End)
	}

	formula, err := bandmath.Compile(req.Band.Formula)
	if err != nil {
		return Result{}, &model.ValidationError{Msg: err.Error()}
	}

	type sceneRead struct {
		scene  model.Scene
		result [][][]float64
		crs    string
	}
	reads := make([]sceneRead, 0, len(scenes))
	for _, sc := range scenes {
		band1URL, ok := sc.Assets[req.Band.Band1]
		if !ok {
			continue
		}
		w1, inBounds, err := p.reader.ReadTile(ctx, band1URL, req.X, req.Y, req.Z)
		if err != nil || !inBounds {
			continue
		}
		var band2Cube [][][]float64
		if req.Band.Band2 != "" {
			if band2URL, ok := sc.Assets[req.Band.Band2]; ok {
				if w2, _, err := p.reader.ReadTile(ctx, band2URL, req.X, req.Y, req.Z); err == nil {
					band2Cube = w2.Data
				}
			}
		}
		result, err := formula.Apply(w1.Data, band2Cube)
		if err != nil {
			continue
		}
		reads = append(reads, sceneRead{scene: sc, result: result, crs: w1.CRS})
	}
	if len(reads) == 0 {
		return Result{}, &model.NoResultsError{Msg: "no scene could be read and evaluated for this tile"}
	}

	var cube [][][]float64
	var sceneID string

	if req.Latest {
		cube = reads[0].result
		sceneID = reads[0].scene.ID
	} else {
		entries := make([]timestack.Entry, len(reads))
		for i, r := range reads {
			entries[i] = timestack.Entry{Scene: r.scene, Result: r.result, CRS: r.crs}
		}
		stacked, kept, _ := timestack.Stack(entries)
		reduced, err := timestack.Reduce(stacked, req.Operation)
		if err != nil {
			return Result{}, &model.RenderError{Format: "tile", Err: err}
		}
		cube = reduced
		if len(kept) > 0 {
			sceneID = kept[len(kept)-1].ID
		}
	}

	var buf bytes.Buffer
	// RGB shortcut: a bare "band1" formula with no band2 can pass a
	// multi-channel tile (e.g. a "visual" composite asset) through
	// unevaluated, in which case the colormap is bypassed entirely.
	if req.Band.Band2 == "" && req.Band.Formula == "band1" && render.IsMultiChannel(cube) {
		if err := render.RGBComposite(&buf, render.CompositeBands(cube)); err != nil {
			return Result{}, &model.RenderError{Format: "png", Err: err}
		}
	} else if err := render.PNG(&buf, cube[0], req.Colormap, math.NaN(), math.NaN()); err != nil {
		return Result{}, &model.RenderError{Format: "png", Err: err}
	}

	return Result{PNG: buf.Bytes(), SceneID: sceneID}, nil
}
