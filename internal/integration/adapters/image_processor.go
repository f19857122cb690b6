package adapters

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/dispatch-hub/backend/internal/application/adapter"
)

// DefaultMaxSourcePixels bounds the pixel count of a stored image that will be decoded.
const DefaultMaxSourcePixels = 40_000_000

// imageProcessor decodes any registered format and re-encodes as PNG.
type imageProcessor struct {
	scaler    draw.Scaler
	encoder   *png.Encoder
	maxPixels int
}

// NewImageProcessor creates an image processor using Catmull-Rom resampling.
// Stored images larger than maxPixels are rejected before decoding; a
// non-positive maxPixels uses DefaultMaxSourcePixels.
func NewImageProcessor(maxPixels int) adapter.ImageProcessor {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxSourcePixels
	}
	return &imageProcessor{
		scaler:    draw.CatmullRom,
		encoder:   &png.Encoder{CompressionLevel: png.BestSpeed},
		maxPixels: maxPixels,
	}
}

// Open decodes the image stored at path.
func (p *imageProcessor) Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > p.maxPixels/cfg.Height {
		return nil, fmt.Errorf("image %s is %dx%d, above the %d pixel limit", path, cfg.Width, cfg.Height, p.maxPixels)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decoded %s image %s is empty", format, path)
	}
	return img, nil
}

// ResizeExact scales img to exactly width x height.
func (p *imageProcessor) ResizeExact(img image.Image, width, height int) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	p.scaler.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Encode serializes img as PNG.
func (p *imageProcessor) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.encoder.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
