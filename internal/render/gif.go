package render

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
)

// Frame is one time-step of an animated sequence: a rendered RGBA image
// plus the label to stamp on it (the batch pipeline passes the scene ID).
type Frame struct {
	Image *image.RGBA
	Label string
}

// GIF encodes frames as an animated GIF, one frame per scene, each shown
// for delayCentis hundredths of a second. Frames are Floyd-Steinberg
// dithered into a global palette (palette.Plan9). The animation's canvas
// is the first frame's size; frames are not resized to a common size.
func GIF(w io.Writer, frames []Frame, delayCentis int) error {
	if len(frames) == 0 {
		return fmt.Errorf("gif: no frames to encode")
	}
	if delayCentis < 1 {
		delayCentis = 1
	}

	images := make([]*image.Paletted, 0, len(frames))
	delays := make([]int, 0, len(frames))
	disposals := make([]byte, 0, len(frames))

	width, height := frames[0].Image.Bounds().Dx(), frames[0].Image.Bounds().Dy()

	for _, f := range frames {
		src := f.Image
		if f.Label != "" {
			src = Overlay(src, f.Label)
		}
		bounds := src.Bounds()
		paletted := image.NewPaletted(bounds, palette.Plan9)
		draw.FloydSteinberg.Draw(paletted, bounds, src, image.Point{})
		images = append(images, paletted)
		delays = append(delays, delayCentis)
		disposals = append(disposals, gif.DisposalBackground)
	}

	return gif.EncodeAll(w, &gif.GIF{
		Image:     images,
		Delay:     delays,
		Disposal:  disposals,
		Config:    image.Config{Width: width, Height: height, ColorModel: color.Palette(images[0].Palette)},
	})
}
