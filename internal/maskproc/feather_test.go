package maskproc

import (
	"testing"

	"github.com/UnendingLoop/MaskRefiner/internal/model"
	"github.com/stretchr/testify/require"
)

func TestFeather_ZeroRadiusIsIdentity(t *testing.T) {
	mask := centerSquareMask(t, 40, 20)

	out, err := Feather(mask, 0)

	require.NoError(t, err)
	require.Same(t, mask, out, "radius 0 must return the input without allocation")
}

func TestFeather_Validation(t *testing.T) {
	mask := uniformMask(t, 10, 10, 128)

	tests := []struct {
		name   string
		radius int
	}{
		{name: "negative radius", radius: -1},
		{name: "radius above max", radius: model.MaxFeatherRadius + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Feather(mask, tt.radius)
			require.ErrorIs(t, err, model.ErrInvalidFeather)
		})
	}

	_, err := Feather(nil, 2)
	require.ErrorIs(t, err, model.ErrEmptyMask)
}

func TestFeather_SoftensHardEdge(t *testing.T) {
	mask := centerSquareMask(t, 100, 50) // 255 внутри квадрата 25..75

	out, err := Feather(mask, 2)
	require.NoError(t, err)

	require.Equal(t, mask.Bounds(), out.Bounds())

	edge := out.Pix[50*out.Stride+25] // граница квадрата
	require.Greater(t, edge, uint8(0), "edge pixel must not be fully transparent")
	require.Less(t, edge, uint8(255), "edge pixel must not be fully opaque")

	require.EqualValues(t, 255, out.Pix[50*out.Stride+50], "center must stay opaque")
	require.EqualValues(t, 0, out.Pix[0*out.Stride+0], "far corner must stay transparent")
}
