package maskproc

import (
	"image"
	"image/draw"

	"github.com/UnendingLoop/MaskRefiner/internal/model"
	"github.com/disintegration/imaging"
)

// Composite applies the refined mask to the source image. Without a
// background the result is transparent: RGB unchanged, alpha taken from the
// mask. With a background (solid color or image, image wins) the source is
// alpha-blended over it per pixel: out = a*fg + (1-a)*bg. Fully opaque and
// fully transparent pixels come through without loss.
func Composite(img image.Image, mask *image.Gray, bg *model.Background) (*model.CompositeResult, error) {
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
	mask = anchorGray(mask)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	if bg == nil || (bg.Image == nil && bg.Color == nil) {
		// Прозрачный вывод: альфа из маски, RGB без изменений
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				p := y*src.Stride + x*4
				o := y*out.Stride + x*4
				out.Pix[o] = src.Pix[p]
				out.Pix[o+1] = src.Pix[p+1]
				out.Pix[o+2] = src.Pix[p+2]
				out.Pix[o+3] = mask.Pix[y*mask.Stride+x]
			}
		}
		return &model.CompositeResult{Image: out, Mask: mask}, nil
	}

	bgPix := backgroundPixels(bg, w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := y*src.Stride + x*4
			g := y*bgPix.Stride + x*4
			o := y*out.Stride + x*4
			a := int(mask.Pix[y*mask.Stride+x])
			out.Pix[o] = blend(src.Pix[p], bgPix.Pix[g], a)
			out.Pix[o+1] = blend(src.Pix[p+1], bgPix.Pix[g+1], a)
			out.Pix[o+2] = blend(src.Pix[p+2], bgPix.Pix[g+2], a)
			out.Pix[o+3] = 255
		}
	}
	return &model.CompositeResult{Image: out, Mask: mask}, nil
}

// blend смешивает один канал: a=255 даёт ровно fg, a=0 - ровно bg
func blend(fg, bg uint8, a int) uint8 {
	return uint8((int(fg)*a + int(bg)*(255-a)) / 255)
}

// backgroundPixels renders the replacement background at the target size:
// a background image is resized to match the source, a solid color fills
// the whole plane.
func backgroundPixels(bg *model.Background, w, h int) *image.NRGBA {
	if bg.Image != nil {
		resized := imaging.Resize(bg.Image, w, h, imaging.Lanczos)
		return toNRGBA(resized)
	}

	fill := image.NewNRGBA(image.Rect(0, 0, w, h))
	c := *bg.Color
	for i := 0; i < len(fill.Pix); i += 4 {
		fill.Pix[i] = c.R
		fill.Pix[i+1] = c.G
		fill.Pix[i+2] = c.B
		fill.Pix[i+3] = 255
	}
	return fill
}

// toNRGBA нормализует произвольное изображение в NRGBA с нулевой точкой
// отсчёта - дальше можно безопасно ходить по Pix напрямую
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
