// Package colormap provides a small set of matplotlib-style named
// colormaps for rendering single-band results as RGB images.
package colormap

import "image/color"

// Colormap maps a value in [0, 1] to an RGB color via piecewise-linear
// interpolation between a fixed list of control-point colors.
type Colormap struct {
	Name   string
	Points []color.RGBA
}

// At returns the interpolated color for t, a value in [0, 1]. Values
// outside the range are clamped.
func (c Colormap) At(t float64) color.RGBA {
	if t <= 0 {
		return c.Points[0]
	}
	if t >= 1 {
		return c.Points[len(c.Points)-1]
	}
	segments := len(c.Points) - 1
	pos := t * float64(segments)
	i := int(pos)
	if i >= segments {
		i = segments - 1
	}
	frac := pos - float64(i)
	return lerp(c.Points[i], c.Points[i+1], frac)
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: lerpByte(a.R, b.R, t),
		G: lerpByte(a.G, b.G, t),
		B: lerpByte(a.B, b.B, t),
		A: 255,
	}
}

func lerpByte(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// registry holds the built-in colormaps, keyed by their matplotlib name.
var registry = map[string]Colormap{
	"RdYlGn": {
		Name: "RdYlGn",
		Points: []color.RGBA{
			{165, 0, 38, 255},
			{215, 48, 39, 255},
			{244, 109, 67, 255},
			{253, 174, 97, 255},
			{254, 224, 139, 255},
			{255, 255, 191, 255},
			{217, 239, 139, 255},
			{166, 217, 106, 255},
			{102, 189, 99, 255},
			{26, 152, 80, 255},
			{0, 104, 55, 255},
		},
	},
	"viridis": {
		Name: "viridis",
		Points: []color.RGBA{
			{68, 1, 84, 255},
			{72, 40, 120, 255},
			{62, 74, 137, 255},
			{49, 104, 142, 255},
			{38, 130, 142, 255},
			{31, 158, 137, 255},
			{53, 183, 121, 255},
			{109, 205, 89, 255},
			{180, 222, 44, 255},
			{253, 231, 37, 255},
		},
	},
	"gray": {
		Name: "gray",
		Points: []color.RGBA{
			{0, 0, 0, 255},
			{255, 255, 255, 255},
		},
	},
}

// Get looks up a named colormap, falling back to RdYlGn (the engine's
// default) when name is empty or unknown.
func Get(name string) Colormap {
	if name == "" {
		return registry["RdYlGn"]
	}
	if cm, ok := registry[name]; ok {
		return cm
	}
	return registry["RdYlGn"]
}

// Names lists the built-in colormap names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	return names
}
