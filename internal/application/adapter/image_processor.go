// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import "image"

// ImageProcessor decodes, resizes and encodes raster images.
type ImageProcessor interface {
	// Open decodes the image stored at path.
	Open(path string) (image.Image, error)

	// ResizeExact scales img to exactly width x height, ignoring aspect ratio.
	ResizeExact(img image.Image, width, height int) image.Image

	// Encode serializes img into a lossless format.
	Encode(img image.Image) ([]byte, error)
}
