package cogio

import (
	"context"

	"github.com/kshitijrajsharma/vcube/internal/geomutil"
	"github.com/kshitijrajsharma/vcube/internal/model"
)

// ReadTile is a convenience wrapper for the single-tile XYZ pipeline: it
// converts a slippy-map tile coordinate to its AOI and delegates to
// ReadWindow.
func (r *Reader) ReadTile(ctx context.Context, url string, x, y, z int) (model.WindowResult, bool, error) {
	aoi := geomutil.WebMercatorTileBounds(x, y, z)
	return r.ReadWindow(ctx, url, aoi)
}
