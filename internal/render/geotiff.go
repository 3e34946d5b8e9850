package render

import (
	"fmt"

	"github.com/airbusgeo/godal"

	"github.com/kshitijrajsharma/vcube/internal/model"
)

// NoDataValue marks missing pixels in emitted Float64 GeoTIFFs; the
// in-memory rasters mark them with NaN, which is replaced by this value
// on write.
const NoDataValue = -9999

// GeoTIFF writes data (shape bands/height/width, NaN for missing pixels)
// to path as a single GTiff dataset georeferenced by crs/transform.
func GeoTIFF(path string, data [][][]float64, crs string, transform model.Affine) error {
	return GeoTIFFWithDescriptions(path, data, crs, transform, nil)
}

// GeoTIFFWithDescriptions is GeoTIFF plus a per-band description (e.g. the
// source band name), written via the band's SetDescription so downstream
// GIS tools can label bands in a multi-band export without guessing from
// band order.
func GeoTIFFWithDescriptions(path string, data [][][]float64, crs string, transform model.Affine, descriptions []string) error {
	bands := len(data)
	if bands == 0 {
		return fmt.Errorf("geotiff: no bands to write")
	}
	height := len(data[0])
	width := 0
	if height > 0 {
		width = len(data[0][0])
	}

	ds, err := godal.Create(godal.GTiff, path, bands, godal.Float64, width, height,
		godal.CreationOption("TILED=YES", "COMPRESS=DEFLATE"))
	if err != nil {
		return fmt.Errorf("geotiff: create %s: %w", path, err)
	}
	defer ds.Close()

	if err := ds.SetGeoTransform([6]float64{
		transform.C, transform.A, transform.B,
		transform.F, transform.D, transform.E,
	}); err != nil {
		return fmt.Errorf("geotiff: set geotransform: %w", err)
	}

	if crs != "" {
		sr, err := spatialRefFromCRS(crs)
		if err != nil {
			return fmt.Errorf("geotiff: spatial ref %s: %w", crs, err)
		}
		defer sr.Close()
		if err := ds.SetSpatialRef(sr); err != nil {
			return fmt.Errorf("geotiff: set spatial ref: %w", err)
		}
	}

	bandObjs := ds.Bands()
	for b := 0; b < bands; b++ {
		flat := flattenWithNoData(data[b], width, height)
		if err := bandObjs[b].SetNoData(NoDataValue); err != nil {
			return fmt.Errorf("geotiff: set nodata band %d: %w", b, err)
		}
		if err := bandObjs[b].Write(0, 0, flat, width, height); err != nil {
			return fmt.Errorf("geotiff: write band %d: %w", b, err)
		}
		if b < len(descriptions) && descriptions[b] != "" {
			bandObjs[b].SetDescription(descriptions[b])
		}
	}
	return nil
}

func flattenWithNoData(plane [][]float64, width, height int) []float64 {
	flat := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := plane[y][x]
			if v != v { // NaN
				v = NoDataValue
			}
			flat[y*width+x] = v
		}
	}
	return flat
}

func spatialRefFromCRS(crs string) (*godal.SpatialRef, error) {
	return godal.NewSpatialRefFromWKT(crs)
}
