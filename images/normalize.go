package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"violation-report/canvas"
)

const jpegQuality = 85

// GetImageOrientation extracts the EXIF orientation from JPEG data.
// Anything unreadable counts as upright.
func GetImageOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return 1
	}
	return v
}

// CorrectImageOrientation returns img turned upright for an EXIF orientation.
func CorrectImageOrientation(img image.Image, orientation int) image.Image {
	if orientation < 2 || orientation > 8 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	// Orientations 5-8 swap the axes.
	dw, dh := w, h
	if orientation >= 5 {
		dw, dh = h, w
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var nx, ny int
			switch orientation {
			case 2: // mirror horizontal
				nx, ny = w-1-x, y
			case 3: // rotate 180
				nx, ny = w-1-x, h-1-y
			case 4: // mirror vertical
				nx, ny = x, h-1-y
			case 5: // transpose
				nx, ny = y, x
			case 6: // rotate 90 clockwise
				nx, ny = h-1-y, x
			case 7: // transverse
				nx, ny = h-1-y, w-1-x
			case 8: // rotate 90 counter-clockwise
				nx, ny = y, w-1-x
			}
			dst.Set(nx, ny, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

// Decode decodes JPEG, PNG, GIF or WebP data, turns it upright, flattens any
// transparency onto white and scales it to fit maxDimension (0 keeps size).
func Decode(data []byte, maxDimension int) (*image.RGBA, error) {
	orientation := GetImageOrientation(data)

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if orientation != 1 {
		img = CorrectImageOrientation(img, orientation)
	}
	return toRGB(img, maxDimension), nil
}

// toRGB returns an opaque copy of img no larger than maxDimension on either
// side, preserving aspect ratio.
func toRGB(img image.Image, maxDimension int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if maxDimension > 0 && (w > maxDimension || h > maxDimension) {
		scale := float64(maxDimension) / float64(w)
		if s := float64(maxDimension) / float64(h); s < scale {
			scale = s
		}
		w = max(1, min(maxDimension, int(float64(w)*scale)))
		h = max(1, min(maxDimension, int(float64(h)*scale)))
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	}
	return dst
}

// EncodeRaster encodes img as a JPEG raster for placement.
func EncodeRaster(key string, img *image.RGBA) (*canvas.Raster, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &canvas.Raster{
		Key:    key,
		Data:   buf.Bytes(),
		Format: "JPG",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}
