package stac

import "strings"

const (
	earthSearchURL = "https://earth-search.aws.element84.com/v1"
	plantryCompURL = "https://planetarycomputer.microsoft.com/api/stac/v1"
)

// rootFor picks the STAC catalog root for a collection: Landsat collections
// live on Planetary Computer, everything else defaults to Earth Search.
// Both roots are overridable via Config for testing and self-hosted mirrors.
func (c *Client) rootFor(collection string) string {
	if strings.HasPrefix(collection, "landsat") {
		if c.cfg.PlanetaryComputerRoot != "" {
			return c.cfg.PlanetaryComputerRoot
		}
		return plantryCompURL
	}
	if c.cfg.EarthSearchRoot != "" {
		return c.cfg.EarthSearchRoot
	}
	return earthSearchURL
}

// needsSigning reports whether assets returned from this root require a
// Planetary Computer SAS-token signing round trip before they can be opened.
func needsSigning(root string) bool {
	return strings.Contains(root, "planetarycomputer.microsoft.com")
}
