package images

import (
	"image"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

const (
	stampLineHeight = 15.0
	stampPadding    = 6.0
	stampBaseWidth  = 460.0
)

// Stamp burns a translucent caption strip with the given lines into the
// bottom of img, so the evidence stays attributable once cropped out of the
// report.
func Stamp(img *image.RGBA, lines ...string) {
	if len(lines) == 0 {
		return
	}
	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())

	dc := gg.NewContextForRGBA(img)
	dc.SetFontFace(basicfont.Face7x13)

	// basicfont is a fixed 13px bitmap face, scale it with the image.
	scale := math.Max(1, w/stampBaseWidth)
	dc.Scale(scale, scale)
	sw, sh := w/scale, h/scale

	strip := float64(len(lines))*stampLineHeight + stampPadding
	dc.SetRGBA(0, 0, 0, 0.55)
	dc.DrawRectangle(0, sh-strip, sw, strip)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	for i, line := range lines {
		dc.DrawString(line, stampPadding, sh-strip+float64(i+1)*stampLineHeight)
	}
}
