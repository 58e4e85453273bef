package maskproc

import (
	"image"

	"github.com/UnendingLoop/MaskRefiner/internal/model"
)

// matteWindow - радиус окна выборки цветов вокруг неизвестного пикселя
const matteWindow = 10

// AlphaMatte re-estimates opacity inside the unknown band of a trimap built
// from the mask. For every unknown pixel the mean foreground and background
// colors are sampled from the definite regions within a local window and the
// pixel is classified by closeness to each; definite pixels are pinned to
// 0/255. Boundary pixels always fall inside the unknown band, so the merged
// result has no discontinuity at trimap borders.
func AlphaMatte(img image.Image, mask *image.Gray) (*image.Gray, error) {
	if img == nil {
		return nil, model.ErrEmptySource
	}
	if mask == nil {
		return nil, model.ErrEmptyMask
	}
	if !sameSize(img.Bounds(), mask.Bounds()) {
		return nil, model.ErrDimensionMismatch
	}

	src := toNRGBA(img)
	tri := BuildTrimap(mask)
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*tri.Stride + x
			switch tri.Pix[i] {
			case TrimapForeground:
				out.Pix[y*out.Stride+x] = 255
			case TrimapBackground:
				out.Pix[y*out.Stride+x] = 0
			default:
				out.Pix[y*out.Stride+x] = estimateOpacity(src, tri, mask, x, y)
			}
		}
	}
	return out, nil
}

// estimateOpacity классифицирует неизвестный пиксель по расстоянию его цвета
// до средних цветов уверенных областей в окне. Если в окне нет одной из
// областей - решаем по той, что есть; нет обеих - оставляем исходное
// значение маски.
func estimateOpacity(src *image.NRGBA, tri, mask *image.Gray, x, y int) uint8 {
	w, h := tri.Rect.Dx(), tri.Rect.Dy()

	var fgR, fgG, fgB, fgN int
	var bgR, bgG, bgB, bgN int

	for ky := -matteWindow; ky <= matteWindow; ky++ {
		ny := y + ky
		if ny < 0 || ny >= h {
			continue
		}
		for kx := -matteWindow; kx <= matteWindow; kx++ {
			nx := x + kx
			if nx < 0 || nx >= w {
				continue
			}
			cls := tri.Pix[ny*tri.Stride+nx]
			if cls == TrimapUnknown {
				continue
			}
			p := ny*src.Stride + nx*4
			r, g, bl := int(src.Pix[p]), int(src.Pix[p+1]), int(src.Pix[p+2])
			if cls == TrimapForeground {
				fgR += r
				fgG += g
				fgB += bl
				fgN++
			} else {
				bgR += r
				bgG += g
				bgB += bl
				bgN++
			}
		}
	}

	switch {
	case fgN == 0 && bgN == 0:
		return mask.GrayAt(mask.Rect.Min.X+x, mask.Rect.Min.Y+y).Y
	case fgN == 0:
		return 0
	case bgN == 0:
		return 255
	}

	p := y*src.Stride + x*4
	r, g, bl := int(src.Pix[p]), int(src.Pix[p+1]), int(src.Pix[p+2])

	distFg := colorDistSq(r, g, bl, fgR/fgN, fgG/fgN, fgB/fgN)
	distBg := colorDistSq(r, g, bl, bgR/bgN, bgG/bgN, bgB/bgN)
	if distFg+distBg == 0 {
		return mask.GrayAt(mask.Rect.Min.X+x, mask.Rect.Min.Y+y).Y
	}

	// Ближе к фону -> прозрачнее, ближе к переднему плану -> плотнее
	alpha := 255 * distBg / (distFg + distBg)
	return uint8(alpha)
}

func colorDistSq(r1, g1, b1, r2, g2, b2 int) int {
	dr, dg, db := r1-r2, g1-g2, b1-b2
	return dr*dr + dg*dg + db*db
}

func sameSize(a, b image.Rectangle) bool {
	return a.Dx() == b.Dx() && a.Dy() == b.Dy()
}
