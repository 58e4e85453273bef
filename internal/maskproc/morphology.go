// Package maskproc provides operations over alpha masks: morphological edge
// enhancement, feathering, trimap-based matting and final composition.
package maskproc

import (
	"image"

	"github.com/UnendingLoop/MaskRefiner/internal/model"
)

// Dilate returns a new mask where every pixel takes the maximum value inside
// a kernel×kernel window. Grows foreground regions.
func Dilate(mask *image.Gray, kernel int) *image.Gray {
	return rankFilter(mask, kernel, true)
}

// Erode returns a new mask where every pixel takes the minimum value inside
// a kernel×kernel window. Shrinks foreground regions.
func Erode(mask *image.Gray, kernel int) *image.Gray {
	return rankFilter(mask, kernel, false)
}

// Close fills small holes in the foreground: dilate then erode.
func Close(mask *image.Gray, kernel int) *image.Gray {
	return Erode(Dilate(mask, kernel), kernel)
}

// Open removes small foreground specks: erode then dilate.
func Open(mask *image.Gray, kernel int) *image.Gray {
	return Dilate(Erode(mask, kernel), kernel)
}

// EnhanceEdges cleans up segmentation noise: closing first to fill gaps
// (hair strands etc), then opening to drop spurious specks. Closing goes
// first - the other way around opening would remove detail that closing
// can no longer restore.
func EnhanceEdges(mask *image.Gray, kernelSize int) (*image.Gray, error) {
	if mask == nil {
		return nil, model.ErrEmptyMask
	}
	if kernelSize < model.MinKernelSize || kernelSize > model.MaxKernelSize || kernelSize%2 == 0 {
		return nil, model.ErrInvalidKernel
	}

	return Open(Close(mask, kernelSize), kernelSize), nil
}

// rankFilter - общая реализация дилатации/эрозии: max или min по окну.
// Край картинки обрезает окно, значения за границей не участвуют.
func rankFilter(mask *image.Gray, kernel int, takeMax bool) *image.Gray {
	mask = anchorGray(mask)
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))

	r := kernel / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var best uint8
			if !takeMax {
				best = 255
			}
			for ky := -r; ky <= r; ky++ {
				ny := y + ky
				if ny < 0 || ny >= h {
					continue
				}
				row := ny * mask.Stride
				for kx := -r; kx <= r; kx++ {
					nx := x + kx
					if nx < 0 || nx >= w {
						continue
					}
					v := mask.Pix[row+nx]
					if takeMax {
						if v > best {
							best = v
						}
					} else if v < best {
						best = v
					}
				}
			}
			out.Pix[y*out.Stride+x] = best
		}
	}
	return out
}

// anchorGray returns the mask re-anchored at the origin so raw Pix indexing
// is safe; masks produced by this package are already anchored.
func anchorGray(mask *image.Gray) *image.Gray {
	if mask.Rect.Min == (image.Point{}) {
		return mask
	}
	out := image.NewGray(image.Rect(0, 0, mask.Rect.Dx(), mask.Rect.Dy()))
	for y := 0; y < mask.Rect.Dy(); y++ {
		for x := 0; x < mask.Rect.Dx(); x++ {
			out.Pix[y*out.Stride+x] = mask.GrayAt(mask.Rect.Min.X+x, mask.Rect.Min.Y+y).Y
		}
	}
	return out
}
