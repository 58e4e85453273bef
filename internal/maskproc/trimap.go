package maskproc

import "image"

// Trimap pixel classes. Every pixel of a built trimap holds exactly one of
// these three values.
const (
	TrimapBackground uint8 = 0
	TrimapUnknown    uint8 = 128
	TrimapForeground uint8 = 255
)

// Пороги и ядра подобраны под типичные маски u2net/rmbg: эрозия даёт
// уверенный передний план, дилатация - уверенный фон, остальное - зона
// неопределённости вокруг контура.
const (
	trimapErodeKernel  = 9
	trimapDilateKernel = 19
	trimapFgThreshold  = 200
	trimapBgThreshold  = 50
)

// BuildTrimap partitions the mask into definite foreground (eroded mask
// above the high threshold), definite background (dilated mask below the low
// threshold) and an unknown band in between. The three classes partition
// every pixel; the band width follows from the erode/dilate kernel sizes -
// too wide is slow to matte, too narrow fails on soft materials.
func BuildTrimap(mask *image.Gray) *image.Gray {
	eroded := Erode(mask, trimapErodeKernel)
	dilated := Dilate(mask, trimapDilateKernel)

	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	tri := image.NewGray(image.Rect(0, 0, w, h))
	for i := range tri.Pix {
		switch {
		case eroded.Pix[i] > trimapFgThreshold:
			tri.Pix[i] = TrimapForeground
		case dilated.Pix[i] < trimapBgThreshold:
			tri.Pix[i] = TrimapBackground
		default:
			tri.Pix[i] = TrimapUnknown
		}
	}
	return tri
}
