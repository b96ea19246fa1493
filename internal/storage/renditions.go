package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"github.com/anonto42/social-pod/backend/internal/models"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrUndecodableImage = errors.New("image could not be decoded")

// DefaultMaxPixels caps the canvas an upload may declare before it is decoded.
const DefaultMaxPixels int64 = 40_000_000

// RenditionSpec describes one generated variant. Square variants are cropped
// to fill Size x Size; the others are limited to Size pixels wide.
type RenditionSpec struct {
	Name   string
	Size   int
	Square bool
}

// PhotoRenditions are the variants stored for every uploaded photo.
var PhotoRenditions = []RenditionSpec{
	{Name: models.SizeThumbSmall, Size: 50, Square: true},
	{Name: models.SizeThumbMedium, Size: 100, Square: true},
	{Name: models.SizeThumbLarge, Size: 300, Square: true},
	{Name: models.SizeScaledFull, Size: 700},
}

// Rendition is an encoded variant of an image.
type Rendition struct {
	Name        string
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// Renditions decodes data and encodes every variant in specs. It returns the
// original dimensions alongside the variants. Images whose header declares
// more than maxPixels pixels are rejected without decoding; maxPixels <= 0
// means DefaultMaxPixels.
func Renditions(data []byte, specs []RenditionSpec, maxPixels int64) (width, height int, out []Rendition, err error) {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%w: %v", ErrUndecodableImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, nil, ErrUndecodableImage
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return 0, 0, nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrUndecodableImage, cfg.Width, cfg.Height, maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%w: %v", ErrUndecodableImage, err)
	}
	bounds := img.Bounds()
	width, height = bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return 0, 0, nil, ErrUndecodableImage
	}

	usePNG := format == "png" || format == "gif"
	for _, spec := range specs {
		var variant image.Image
		if spec.Square {
			variant = fill(img, spec.Size)
		} else {
			variant = limitWidth(img, spec.Size)
		}

		var buf bytes.Buffer
		r := Rendition{Name: spec.Name, Width: variant.Bounds().Dx(), Height: variant.Bounds().Dy()}
		if usePNG {
			err = png.Encode(&buf, variant)
			r.ContentType, r.Ext = "image/png", ".png"
		} else {
			err = jpeg.Encode(&buf, variant, &jpeg.Options{Quality: 85})
			r.ContentType, r.Ext = "image/jpeg", ".jpg"
		}
		if err != nil {
			return 0, 0, nil, fmt.Errorf("failed to encode %s: %w", spec.Name, err)
		}
		r.Data = buf.Bytes()
		out = append(out, r)
	}
	return width, height, out, nil
}

// fill center-crops img to a square and scales it to size x size.
func fill(img image.Image, size int) image.Image {
	b := img.Bounds()
	side := min(b.Dx(), b.Dy())
	crop := image.Rect(0, 0, side, side).Add(image.Pt(
		b.Min.X+(b.Dx()-side)/2,
		b.Min.Y+(b.Dy()-side)/2,
	))

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, crop, draw.Over, nil)
	return dst
}

// limitWidth scales img down to maxWidth keeping its aspect ratio. Narrower
// images are returned unscaled.
func limitWidth(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxWidth {
		return img
	}
	h := calculateHeight(b.Dx(), b.Dy(), maxWidth)
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func calculateHeight(origWidth, origHeight, width int) int {
	h := origHeight * width / origWidth
	if h < 1 {
		h = 1
	}
	return h
}
