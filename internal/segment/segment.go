// Package segment defines the contract to the external segmentation model.
// The model itself (u2net, isnet, rmbg...) is a black box behind an HTTP
// service; this package only consumes its output as a raw alpha mask.
package segment

import (
	"context"
	"image"
)

// Segmenter produces a raw alpha mask for an image. Injected into the
// pipeline callers so the refinement stages stay testable without any
// model loaded.
type Segmenter interface {
	Segment(ctx context.Context, img image.Image) (*image.Gray, error)
}
