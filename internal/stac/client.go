package stac

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/kshitijrajsharma/vcube/internal/model"
)

// Config overrides the default catalog roots, mostly for tests and
// self-hosted STAC mirrors.
type Config struct {
	EarthSearchRoot       string
	PlanetaryComputerRoot string
	HTTPClient            *http.Client
	Logger                *slog.Logger
}

// Client searches STAC catalogs and returns decoded Scene records.
type Client struct {
	cfg    Config
	http   *http.Client
	log    *slog.Logger
	signer *Signer
}

// NewClient builds a Client from cfg, filling in sane defaults: a 30s HTTP
// client and slog.Default() as the logger when unset.
func NewClient(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   cfg.HTTPClient,
		log:    cfg.Logger,
		signer: NewSigner(cfg.HTTPClient),
	}
}

// SearchParams describes a bounded scene search.
type SearchParams struct {
	Collection string
	Bbox       model.AOI
	Start      time.Time
	End        time.Time
	CloudCover float64 // exclusive upper bound, eo:cloud_cover < CloudCover
}

// Search queries the STAC API for every page of results matching params,
// following `links[rel=next]` until exhausted, and decodes each feature
// into a model.Scene. Assets from Planetary Computer are SAS-signed before
// being returned.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]model.Scene, error) {
	root := c.rootFor(params.Collection)
	searchURL := root + "/search"

	body := searchRequest{
		Collections: []string{params.Collection},
		Datetime: fmt.Sprintf("%sT00:00:00Z/%sT23:59:59Z",
			params.Start.Format("2006-01-02"), params.End.Format("2006-01-02")),
		Query:  searchQuery{CloudCover: cloudCoverFilter{LessThan: params.CloudCover}},
		Bbox:   []float64{params.Bbox.West, params.Bbox.South, params.Bbox.East, params.Bbox.North},
		Limit:  100,
		SortBy: []sortEntry{{Field: "properties.datetime", Direction: "desc"}},
	}

	var scenes []model.Scene
	var nextBody json.RawMessage
	page := 0
	for {
		page++
		payload, err := requestBody(body, nextBody)
		if err != nil {
			return nil, &model.CatalogError{Msg: "encoding search request", Err: err}
		}

		resp, err := c.post(ctx, searchURL, payload)
		if err != nil {
			return nil, &model.CatalogError{Msg: "searching " + params.Collection, Err: err}
		}

		c.log.Debug("stac search page", "collection", params.Collection, "page", page, "features", len(resp.Features))

		sign := needsSigning(root)
		for _, f := range resp.Features {
			scene, err := decodeFeature(f, params.Collection)
			if err != nil {
				c.log.Warn("skipping malformed feature", "id", f.ID, "error", err)
				continue
			}
			if sign {
				if err := c.signer.SignAssets(ctx, scene.Assets); err != nil {
					c.log.Warn("signing failed, skipping scene", "id", f.ID, "error", err)
					continue
				}
			}
			scenes = append(scenes, scene)
		}

		next := findNextLink(resp.Links)
		if next == nil {
			break
		}
		nextBody = next.Body
	}

	return scenes, nil
}

func (c *Client) post(ctx context.Context, url string, payload []byte) (*searchResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response body: %w", err)
	}
	return &out, nil
}

func requestBody(base searchRequest, nextBody json.RawMessage) ([]byte, error) {
	if nextBody != nil {
		return nextBody, nil
	}
	return json.Marshal(base)
}

func findNextLink(links []link) *link {
	for i := range links {
		if links[i].Rel == "next" {
			return &links[i]
		}
	}
	return nil
}

func decodeFeature(f feature, collection string) (model.Scene, error) {
	t, err := time.Parse(time.RFC3339, f.Properties.Datetime)
	if err != nil {
		return model.Scene{}, fmt.Errorf("parsing datetime %q: %w", f.Properties.Datetime, err)
	}

	var geom orb.Geometry
	if len(f.Geometry) > 0 {
		g, err := geojson.UnmarshalGeometry(f.Geometry)
		if err != nil {
			return model.Scene{}, fmt.Errorf("decoding geometry: %w", err)
		}
		geom = g.Geometry()
	}

	assets := make(map[string]string, len(f.Assets))
	for k, a := range f.Assets {
		assets[k] = a.Href
	}

	sensor := model.SensorSentinel2
	if collection[:7] == "landsat" {
		sensor = model.SensorLandsat
	}

	scene := model.Scene{
		ID:         f.ID,
		DateTime:   t,
		CloudCover: f.Properties.CloudCover,
		Geometry:   geom,
		Assets:     assets,
		Sensor:     sensor,
	}
	if f.Properties.LandsatPath != nil {
		scene.WRSPath = *f.Properties.LandsatPath
	}
	if f.Properties.LandsatRow != nil {
		scene.WRSRow = *f.Properties.LandsatRow
	}
	return scene, nil
}
