package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var overlayFace = basicfont.Face7x13

// Overlay stamps text (typically a scene ID or acquisition date) in the
// bottom-right corner of img and returns a new image; img itself is left
// untouched. A drop shadow keeps the label legible over bright imagery.
func Overlay(img *image.RGBA, text string) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw := func(dst *image.RGBA) {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				dst.Set(x, y, img.At(x, y))
			}
		}
	}
	draw(out)

	const padding = 8
	advance := font.MeasureString(overlayFace, text).Ceil()
	x := bounds.Max.X - advance - padding
	y := bounds.Max.Y - padding

	shadow := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(color.RGBA{0, 0, 0, 200}),
		Face: overlayFace,
		Dot:  fixed.P(x+1, y+1),
	}
	shadow.DrawString(text)

	label := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(color.White),
		Face: overlayFace,
		Dot:  fixed.P(x, y),
	}
	label.DrawString(text)

	return out
}
