package stac

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Signer requests short-lived SAS tokens for Planetary Computer assets.
// Assets on that catalog are served from private blob storage; the href
// in the STAC item is useless until signed.
type Signer struct {
	http *http.Client
	root string
}

// NewSigner builds a Signer against the default Planetary Computer SAS
// endpoint, reusing the given HTTP client.
func NewSigner(httpClient *http.Client) *Signer {
	return &Signer{http: httpClient, root: "https://planetarycomputer.microsoft.com/api/sas/v1/sign"}
}

type signResponse struct {
	Href string `json:"href"`
}

// SignAssets mutates assets in place, replacing each href with its signed
// equivalent. Assets already carrying a SAS token (a "?" query string) are
// left untouched.
func (s *Signer) SignAssets(ctx context.Context, assets map[string]string) error {
	for band, href := range assets {
		if u, err := url.Parse(href); err == nil && u.RawQuery != "" {
			continue
		}
		signed, err := s.sign(ctx, href)
		if err != nil {
			return fmt.Errorf("signing asset %s: %w", band, err)
		}
		assets[band] = signed
	}
	return nil
}

func (s *Signer) sign(ctx context.Context, href string) (string, error) {
	endpoint := s.root + "?href=" + url.QueryEscape(href)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("sas sign endpoint returned status %d", resp.StatusCode)
	}
	var out signResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding sign response: %w", err)
	}
	return out.Href, nil
}
