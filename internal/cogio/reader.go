package cogio

import (
	"context"
	"fmt"
	"sync"

	"github.com/airbusgeo/godal"
	"golang.org/x/sync/singleflight"

	"github.com/kshitijrajsharma/vcube/internal/model"
)

// gdalMu serializes all GDAL calls: GDAL/libtiff keep internal global state
// that is not safe for concurrent access across datasets, matching the
// teacher's GLO90Reader.
var gdalMu sync.Mutex

// openDataset holds a single open remote COG, guarded by its own mutex so
// concurrent reads of different windows within the same asset don't race.
type openDataset struct {
	mu  sync.Mutex
	ds  *godal.Dataset
	gt  model.Affine
	crs string
	sr  *godal.SpatialRef
	sx  int
	sy  int
}

// Reader performs windowed reads against remote COG assets over
// `/vsicurl/`, caching open datasets and collapsing concurrent opens of the
// same URL via singleflight — the same pattern as GLO90Reader, generalized
// from a fixed local tile grid to arbitrary remote scene URLs.
type Reader struct {
	cache   *lruCache
	sfGroup singleflight.Group
}

// NewReader builds a Reader with an LRU cache capped at maxOpenDatasets
// concurrently open GDAL datasets.
func NewReader(maxOpenDatasets int) *Reader {
	godal.RegisterAll()
	return &Reader{cache: newLRUCache(maxOpenDatasets)}
}

// Close releases every cached dataset.
func (r *Reader) Close() {
	r.cache.closeAll()
}

// ReadWindow reads the pixel window of url covering aoi, reprojecting aoi
// into the dataset's own CRS first. Every band the dataset has is read
// (most STAC assets are single-band COGs, but an RGB "visual" composite
// asset has three, and the caller's band-math formula decides whether a
// multi-band result is actually usable). Returns an empty result with
// ok=false and a nil error when the window falls entirely outside the
// raster, so callers can skip the scene instead of treating it as an
// error.
func (r *Reader) ReadWindow(ctx context.Context, url string, aoi model.AOI) (model.WindowResult, bool, error) {
	od, err := r.open(url)
	if err != nil {
		return model.WindowResult{}, false, &model.ReaderError{URL: url, Err: err}
	}

	minX, minY, maxX, maxY, err := reprojectAOI(od.sr, aoi)
	if err != nil {
		return model.WindowResult{}, false, &model.ReaderError{URL: url, Err: fmt.Errorf("reprojecting aoi: %w", err)}
	}

	win := ComputeWindow(od.gt, minX, minY, maxX, maxY)
	if win.OutOfBounds(od.sx, od.sy) {
		return model.WindowResult{}, false, nil
	}
	win = win.Clamp(od.sx, od.sy)

	od.mu.Lock()
	data, err := readAllBands(od.ds, win)
	od.mu.Unlock()
	if err != nil {
		return model.WindowResult{}, false, &model.ReaderError{URL: url, Err: err}
	}

	transform := model.Affine{
		A: od.gt.A, B: od.gt.B,
		C: od.gt.C + float64(win.Col0)*od.gt.A,
		D: od.gt.D, E: od.gt.E,
		F: od.gt.F + float64(win.Row0)*od.gt.E,
	}

	return model.WindowResult{
		Data:      data,
		CRS:       od.crs,
		Transform: transform,
		SourceURL: url,
	}, true, nil
}

func (r *Reader) open(url string) (*openDataset, error) {
	if od, ok := r.cache.get(url); ok {
		return od, nil
	}

	result, err, _ := r.sfGroup.Do(url, func() (interface{}, error) {
		if od, ok := r.cache.get(url); ok {
			return od, nil
		}

		gdalMu.Lock()
		ds, err := godal.Open(vsicurl(url))
		if err != nil {
			gdalMu.Unlock()
			return nil, fmt.Errorf("opening %s: %w", url, err)
		}

		gt, err := ds.GeoTransform()
		if err != nil {
			ds.Close()
			gdalMu.Unlock()
			return nil, fmt.Errorf("reading geotransform: %w", err)
		}

		sr := ds.SpatialRef()
		structure := ds.Structure()
		projection := ds.Projection()
		gdalMu.Unlock()

		od := &openDataset{
			ds:  ds,
			gt:  model.Affine{A: gt[1], B: gt[2], C: gt[0], D: gt[4], E: gt[5], F: gt[3]},
			crs: projection,
			sr:  sr,
			sx:  structure.SizeX,
			sy:  structure.SizeY,
		}
		r.cache.put(url, od)
		return od, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*openDataset), nil
}

// vsicurl wraps a plain https URL for GDAL's cURL-backed virtual file
// system, which supports ranged reads so only the requested window is
// fetched over the network.
func vsicurl(url string) string {
	return "/vsicurl/" + url
}

// readAllBands reads every band of ds over win, in band order, so a
// single-band COG yields a one-channel cube and a multi-band composite
// (e.g. an RGB "visual" asset) yields one channel per band.
func readAllBands(ds *godal.Dataset, win PixelWindow) ([][][]float64, error) {
	bands := ds.Bands()
	if len(bands) == 0 {
		return nil, fmt.Errorf("dataset has no bands")
	}

	cube := make([][][]float64, len(bands))
	for i, band := range bands {
		buf := make([]float64, win.Width*win.Height)
		if err := band.Read(win.Col0, win.Row0, buf, win.Width, win.Height); err != nil {
			return nil, fmt.Errorf("reading band %d: %w", i+1, err)
		}
		out := make([][]float64, win.Height)
		for row := 0; row < win.Height; row++ {
			out[row] = buf[row*win.Width : (row+1)*win.Width]
		}
		cube[i] = out
	}
	return cube, nil
}

// reprojectAOI converts aoi (always WGS84 lon/lat, x/y order) into the
// dataset's own CRS, returning its bounding box there.
func reprojectAOI(dstSR *godal.SpatialRef, aoi model.AOI) (minX, minY, maxX, maxY float64, err error) {
	srcSR, err := godal.NewSpatialRefFromEPSG(4326)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	defer srcSR.Close()

	if err := srcSR.SetCoordinateOutputOrder(godal.OutputXY); err != nil {
		return 0, 0, 0, 0, err
	}

	trn, err := godal.NewTransform(srcSR, dstSR)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	defer trn.Close()

	xs := []float64{aoi.West, aoi.East, aoi.East, aoi.West}
	ys := []float64{aoi.South, aoi.South, aoi.North, aoi.North}
	if err := trn.TransformEx(xs, ys, make([]float64, 4), nil); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("transforming coordinates: %w", err)
	}

	minX, maxX = xs[0], xs[0]
	minY, maxY = ys[0], ys[0]
	for i := 1; i < 4; i++ {
		minX = minf(minX, xs[i])
		maxX = maxf(maxX, xs[i])
		minY = minf(minY, ys[i])
		maxY = maxf(maxY, ys[i])
	}
	return minX, minY, maxX, maxY, nil
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
