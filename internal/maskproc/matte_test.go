package maskproc

import (
	"image"
	"testing"

	"github.com/UnendingLoop/MaskRefiner/internal/model"
	"github.com/stretchr/testify/require"
)

// halfAndHalf - левая половина красная (объект), правая синяя (фон),
// маска повторяет разбиение
func halfAndHalf(t *testing.T, size int) (*image.NRGBA, *image.Gray) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	mask := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			p := y*img.Stride + x*4
			if x < size/2 {
				img.Pix[p] = 255
				mask.Pix[y*mask.Stride+x] = 255
			} else {
				img.Pix[p+2] = 255
			}
			img.Pix[p+3] = 255
		}
	}
	return img, mask
}

func TestAlphaMatte_Validation(t *testing.T) {
	img, mask := halfAndHalf(t, 60)

	tests := []struct {
		name    string
		img     image.Image
		mask    *image.Gray
		wantErr error
	}{
		{name: "nil image", img: nil, mask: mask, wantErr: model.ErrEmptySource},
		{name: "nil mask", img: img, mask: nil, wantErr: model.ErrEmptyMask},
		{name: "size mismatch", img: img, mask: uniformMask(t, 10, 10, 0), wantErr: model.ErrDimensionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AlphaMatte(tt.img, tt.mask)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAlphaMatte_DefiniteRegionsPinned(t *testing.T) {
	img, mask := halfAndHalf(t, 60)

	out, err := AlphaMatte(img, mask)

	require.NoError(t, err)
	require.Equal(t, mask.Bounds(), out.Bounds())
	// далеко от границы трикарта обязана быть уверенной
	require.EqualValues(t, 255, out.Pix[30*out.Stride+5], "deep foreground must stay opaque")
	require.EqualValues(t, 0, out.Pix[30*out.Stride+55], "deep background must stay transparent")
}

func TestAlphaMatte_UnknownBandFollowsColor(t *testing.T) {
	img, mask := halfAndHalf(t, 60)

	out, err := AlphaMatte(img, mask)
	require.NoError(t, err)

	// пиксели зоны неопределённости классифицируются по цвету:
	// красный у границы уходит к объекту, синий - к фону
	require.Greater(t, out.Pix[30*out.Stride+28], uint8(200), "red unknown pixel must lean foreground")
	require.Less(t, out.Pix[30*out.Stride+32], uint8(55), "blue unknown pixel must lean background")
}

func TestBuildTrimap_PartitionsEveryPixel(t *testing.T) {
	mask := centerSquareMask(t, 80, 40)

	tri := BuildTrimap(mask)

	counts := map[uint8]int{}
	for _, v := range tri.Pix {
		counts[v]++
	}
	require.Len(t, counts, 3, "trimap must contain exactly FG, BG and unknown")
	require.Positive(t, counts[TrimapForeground])
	require.Positive(t, counts[TrimapBackground])
	require.Positive(t, counts[TrimapUnknown])
	require.Equal(t, len(tri.Pix), counts[0]+counts[128]+counts[255])
}
