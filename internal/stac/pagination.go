package stac

import (
	"context"
	"encoding/json"

	"github.com/kshitijrajsharma/vcube/internal/model"
)

// SearchIntersects behaves like Search but constrains results to scenes
// whose footprint intersects an arbitrary polygon rather than a plain bbox,
// mirroring the original engine's geometry-aware search variant used when
// the AOI is not a simple rectangle.
func (c *Client) SearchIntersects(ctx context.Context, params SearchParams, geometry json.RawMessage) ([]model.Scene, error) {
	root := c.rootFor(params.Collection)
	searchURL := root + "/search"

	body := searchRequest{
		Collections: []string{params.Collection},
		Datetime: params.Start.Format("2006-01-02") + "T00:00:00Z/" +
			params.End.Format("2006-01-02") + "T23:59:59Z",
		Query:      searchQuery{CloudCover: cloudCoverFilter{LessThan: params.CloudCover}},
		Intersects: geometry,
		Limit:      100,
		SortBy:     []sortEntry{{Field: "properties.datetime", Direction: "desc"}},
	}

	var scenes []model.Scene
	var nextBody json.RawMessage
	sign := needsSigning(root)
	for {
		payload, err := requestBody(body, nextBody)
		if err != nil {
			return nil, &model.CatalogError{Msg: "encoding search request", Err: err}
		}
		resp, err := c.post(ctx, searchURL, payload)
		if err != nil {
			return nil, &model.CatalogError{Msg: "searching " + params.Collection, Err: err}
		}
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
