package maskproc

import (
	"image"
	"testing"

	"github.com/UnendingLoop/MaskRefiner/internal/model"
	"github.com/stretchr/testify/require"
)

func uniformMask(t *testing.T, w, h int, v uint8) *image.Gray {
	t.Helper()

	m := image.NewGray(image.Rect(0, 0, w, h))
	for i := range m.Pix {
		m.Pix[i] = v
	}
	return m
}

func centerSquareMask(t *testing.T, size, inner int) *image.Gray {
	t.Helper()

	m := image.NewGray(image.Rect(0, 0, size, size))
	lo := (size - inner) / 2
	hi := lo + inner
	for y := lo; y < hi; y++ {
		for x := lo; x < hi; x++ {
			m.Pix[y*m.Stride+x] = 255
		}
	}
	return m
}

func TestEnhanceEdges_Validation(t *testing.T) {
	mask := uniformMask(t, 10, 10, 255)

	tests := []struct {
		name    string
		mask    *image.Gray
		kernel  int
		wantErr error
	}{
		{name: "nil mask", mask: nil, kernel: 3, wantErr: model.ErrEmptyMask},
		{name: "zero kernel", mask: mask, kernel: 0, wantErr: model.ErrInvalidKernel},
		{name: "even kernel", mask: mask, kernel: 4, wantErr: model.ErrInvalidKernel},
		{name: "oversized kernel", mask: mask, kernel: 17, wantErr: model.ErrInvalidKernel},
		{name: "negative kernel", mask: mask, kernel: -3, wantErr: model.ErrInvalidKernel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EnhanceEdges(tt.mask, tt.kernel)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEnhanceEdges_PreservesDimensions(t *testing.T) {
	mask := centerSquareMask(t, 64, 30)

	out, err := EnhanceEdges(mask, 3)

	require.NoError(t, err)
	require.Equal(t, mask.Bounds().Dx(), out.Bounds().Dx())
	require.Equal(t, mask.Bounds().Dy(), out.Bounds().Dy())
}

func TestClose_FillsHole(t *testing.T) {
	mask := uniformMask(t, 20, 20, 255)
	mask.Pix[10*mask.Stride+10] = 0 // одиночная дырка

	out := Close(mask, 3)

	require.EqualValues(t, 255, out.Pix[10*out.Stride+10])
}

func TestOpen_RemovesSpeck(t *testing.T) {
	mask := uniformMask(t, 20, 20, 0)
	mask.Pix[10*mask.Stride+10] = 255 // одиночный шум

	out := Open(mask, 3)

	require.EqualValues(t, 0, out.Pix[10*out.Stride+10])
}

func TestEnhanceEdges_NoiseCleanup(t *testing.T) {
	mask := centerSquareMask(t, 64, 30)
	mask.Pix[2*mask.Stride+2] = 255   // шум в фоне
	mask.Pix[32*mask.Stride+32] = 0   // дырка в фигуре

	out, err := EnhanceEdges(mask, 3)

	require.NoError(t, err)
	require.EqualValues(t, 0, out.Pix[2*out.Stride+2], "background speck must be removed")
	require.EqualValues(t, 255, out.Pix[32*out.Stride+32], "foreground hole must be filled")
}

// Морфология не строго идемпотентна, но на уже очищенной маске повторный
// проход не должен менять почти ничего.
func TestEnhanceEdges_SecondPassBounded(t *testing.T) {
	mask := centerSquareMask(t, 100, 50)
	mask.Pix[5*mask.Stride+5] = 255
	mask.Pix[50*mask.Stride+50] = 0

	once, err := EnhanceEdges(mask, 3)
	require.NoError(t, err)
	twice, err := EnhanceEdges(once, 3)
	require.NoError(t, err)

	diff := 0
	for i := range once.Pix {
		if once.Pix[i] != twice.Pix[i] {
			diff++
		}
	}
	require.LessOrEqual(t, diff, len(once.Pix)/100, "second pass changed too many pixels")
}
