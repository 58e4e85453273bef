// Package model provides data-structs for internal app-usage
package model

import (
	"errors"
	"image"
	"image/color"
)

// Лимиты опций - вынесены в константы чтобы валидация и CLI-подсказки не разъезжались
const (
	MinKernelSize    = 1
	MaxKernelSize    = 15
	DefaultKernel    = 3
	MaxFeatherRadius = 10
	DefaultFeather   = 2
)

// RefinementOptions describes the post-processing stages applied to a raw
// segmentation mask. Zero value disables everything; use DefaultOptions for
// the settings the upload variants shipped with.
type RefinementOptions struct {
	EnhanceEdges  bool
	KernelSize    int
	FeatherRadius int
	AlphaMatting  bool
	RemoveSpill   bool
}

func DefaultOptions() RefinementOptions {
	return RefinementOptions{
		EnhanceEdges:  true,
		KernelSize:    DefaultKernel,
		FeatherRadius: DefaultFeather,
	}
}

// Validate checks option ranges once at the boundary - stages themselves
// assume values are already in range.
func (o RefinementOptions) Validate() error {
	if o.EnhanceEdges {
		if o.KernelSize < MinKernelSize || o.KernelSize > MaxKernelSize {
			return ErrInvalidKernel
		}
		if o.KernelSize%2 == 0 {
			return ErrInvalidKernel
		}
	}
	if o.FeatherRadius < 0 || o.FeatherRadius > MaxFeatherRadius {
		return ErrInvalidFeather
	}
	return nil
}

// Background describes what the refined subject is composed onto.
// Both fields nil means transparent output (alpha = refined mask).
// Image wins over Color when both are set.
type Background struct {
	Color *color.NRGBA
	Image image.Image
}

// CompositeResult is the final output of the pipeline: the composed image
// plus the refined mask used to produce it. Not persisted here - encoding
// and storage belong to the caller.
type CompositeResult struct {
	Image *image.NRGBA
	Mask  *image.Gray
}

//--------------------

var (
	ErrDimensionMismatch error = errors.New("mask dimensions do not match image dimensions")
	ErrInvalidKernel     error = errors.New("kernel size must be an odd number between 1 and 15")
	ErrInvalidFeather    error = errors.New("feather radius must be between 0 and 10")
	ErrEmptyMask         error = errors.New("empty/nil mask provided")
	ErrEmptySource       error = errors.New("empty/nil source image provided")
	ErrNoAlphaChannel    error = errors.New("image carries no alpha channel")
	ErrIncorrectBG       error = errors.New("incorrect background specification")
	ErrUnsupportedFormat error = errors.New("unsupported image format")
)

//--------------------

const (
	JPEG = "image/jpeg"
	PNG  = "image/png"
	WEBP = "image/webp"
)

var GetImageFileExt = map[string]string{
	JPEG: ".jpg",
	PNG:  ".png",
	WEBP: ".webp",
}

// InImageExtMap - допустимые расширения входных файлов (webp декодируется через x/image)
var InImageExtMap = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}
