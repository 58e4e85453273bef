package maskproc

import "image"

// RemoveColorSpill suppresses background color bleeding into the
// semi-transparent rim of a cut-out: RGB of partially opaque pixels is
// scaled by their alpha, so the halo the old background leaves around
// feathered edges fades to neutral instead of tinting the composite.
// Fully opaque and fully transparent pixels are untouched. Returns a new
// image, the input is not modified.
func RemoveColorSpill(img *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(img.Rect)
	copy(out.Pix, img.Pix)

	for i := 0; i < len(out.Pix); i += 4 {
		a := out.Pix[i+3]
		if a == 0 || a == 255 {
			continue
		}
		out.Pix[i] = uint8(int(out.Pix[i]) * int(a) / 255)
		out.Pix[i+1] = uint8(int(out.Pix[i+1]) * int(a) / 255)
		out.Pix[i+2] = uint8(int(out.Pix[i+2]) * int(a) / 255)
	}
	return out
}
