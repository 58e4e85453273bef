package maskproc

import (
	"image"

	"github.com/UnendingLoop/MaskRefiner/internal/model"
	"github.com/disintegration/imaging"
)

// Feather softens the mask edge with a Gaussian blur over the alpha channel
// only - RGB is untouched by design, so the edge gets a gradual opacity
// transition without color bleeding. Radius 0 is identity and returns the
// input as-is without allocating.
func Feather(mask *image.Gray, radius int) (*image.Gray, error) {
	if mask == nil {
		return nil, model.ErrEmptyMask
	}
	if radius < 0 || radius > model.MaxFeatherRadius {
		return nil, model.ErrInvalidFeather
	}
	if radius == 0 {
		return mask, nil
	}

	// imaging работает с цветными изображениями - после блюра забираем
	// обратно один канал
	blurred := imaging.Blur(mask, float64(radius))
	return channelToGray(blurred), nil
}

// channelToGray collapses an NRGBA produced from a grayscale source back to
// a single-channel mask (R==G==B there, so R is enough).
func channelToGray(img *image.NRGBA) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Pix[y*out.Stride+x] = img.Pix[y*img.Stride+x*4]
		}
	}
	return out
}
