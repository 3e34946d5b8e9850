package stac

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshitijrajsharma/vcube/internal/model"
)

func featurePayload(id, datetime string, cloudCover float64) feature {
	geom := json.RawMessage(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}`)
	return feature{
		ID:       id,
		Geometry: geom,
		Properties: properties{
			Datetime:   datetime,
			CloudCover: cloudCover,
		},
		Assets: map[string]asset{
			"red": {Href: "https://example.com/" + id + "/red.tif"},
		},
	}
}

func TestSearchSinglePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := searchResponse{
			Features: []feature{featurePayload("scene-1", "2024-01-05T00:00:00Z", 10)},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient(Config{EarthSearchRoot: srv.URL})
	scenes, err := c.Search(t.Context(), SearchParams{
		Collection: "sentinel-2-l2a",
		Bbox:       model.AOI{West: 0, South: 0, East: 1, North: 1},
		Start:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		CloudCover: 30,
	})
	require.NoError(t, err)
	require.Len(t, scenes, 1)
	assert.Equal(t, "scene-1", scenes[0].ID)
	assert.Equal(t, model.SensorSentinel2, scenes[0].Sensor)
	assert.Equal(t, "https://example.com/scene-1/red.tif", scenes[0].Assets["red"])
}

func TestSearchFollowsNextLink(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			resp := searchResponse{
				Features: []feature{featurePayload("scene-1", "2024-01-05T00:00:00Z", 10)},
				Links: []link{
					{Rel: "next", Body: json.RawMessage(`{"collections":["sentinel-2-l2a"],"limit":100,"sortby":[]}`)},
				},
			}
			_ = json.NewEncoder(w).Encode(resp)
			return
		}
		resp := searchResponse{
			Features: []feature{featurePayload("scene-2", "2024-01-06T00:00:00Z", 12)},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient(Config{EarthSearchRoot: srv.URL})
	scenes, err := c.Search(t.Context(), SearchParams{
		Collection: "sentinel-2-l2a",
		Bbox:       model.AOI{West: 0, South: 0, East: 1, North: 1},
		Start:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		CloudCover: 30,
	})
	require.NoError(t, err)
	require.Len(t, scenes, 2)
	assert.Equal(t, 2, calls)
}

func TestSearchSkipsMalformedFeature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bad := featurePayload("bad", "not-a-date", 10)
		good := featurePayload("good", "2024-01-05T00:00:00Z", 10)
		resp := searchResponse{Features: []feature{bad, good}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient(Config{EarthSearchRoot: srv.URL})
	scenes, err := c.Search(t.Context(), SearchParams{
		Collection: "sentinel-2-l2a",
		Bbox:       model.AOI{West: 0, South: 0, East: 1, North: 1},
		Start:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		CloudCover: 30,
	})
	require.NoError(t, err)
	require.Len(t, scenes, 1)
	assert.Equal(t, "good", scenes[0].ID)
}

func TestRootForRoutesLandsatToPlanetaryComputer(t *testing.T) {
	c := NewClient(Config{})
	assert.Contains(t, c.rootFor("landsat-c2-l2"), "planetarycomputer")
	assert.Contains(t, c.rootFor("sentinel-2-l2a"), "earth-search")
}
