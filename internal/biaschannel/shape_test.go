package biaschannel

import (
	"testing"

	"github.com/bityangke/deeplab-public/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveShapesImage(t *testing.T) {
	d, err := DeriveShapes(Image, tensor.Shape{2, 21, 5, 7}, tensor.Shape{2, 3, 1, 1})
	require.NoError(t, err)

	assert.Equal(t, Dims{N: 2, C: 21, H: 5, W: 7, MaxLabels: 3, LabelType: Image}, d)
	assert.Equal(t, tensor.Shape{2, 21, 5, 7}, d.OutputShape())
	assert.Equal(t, tensor.Shape{2, 3, 1, 1}, d.LabelShape())
	assert.Equal(t, 35, d.Spatial())
	assert.Equal(t, (1*21+4)*35, d.PlaneOffset(1, 4))
}

func TestDeriveShapesPixel(t *testing.T) {
	d, err := DeriveShapes(Pixel, tensor.Shape{1, 3, 4, 6}, tensor.Shape{1, 1, 4, 6})
	require.NoError(t, err)

	assert.Equal(t, 1, d.MaxLabels)
	assert.Equal(t, tensor.Shape{1, 3, 4, 6}, d.OutputShape())
	assert.Equal(t, tensor.Shape{1, 1, 4, 6}, d.LabelShape())
}

func TestDeriveShapesErrors(t *testing.T) {
	tests := []struct {
		name       string
		lt         LabelType
		activation tensor.Shape
		label      tensor.Shape
	}{
		{"activation not 4D", Image, tensor.Shape{2, 3, 4}, tensor.Shape{2, 1, 1, 1}},
		{"label not 4D", Image, tensor.Shape{2, 3, 4, 4}, tensor.Shape{2, 1}},
		{"zero dim activation", Image, tensor.Shape{2, 0, 4, 4}, tensor.Shape{2, 1, 1, 1}},
		{"batch mismatch", Image, tensor.Shape{2, 3, 4, 4}, tensor.Shape{3, 1, 1, 1}},
		{"no label slots", Image, tensor.Shape{2, 3, 4, 4}, tensor.Shape{2, 0, 1, 1}},
		{"image label not 1x1", Image, tensor.Shape{2, 3, 4, 4}, tensor.Shape{2, 2, 4, 4}},
		{"pixel label channels", Pixel, tensor.Shape{2, 3, 4, 4}, tensor.Shape{2, 2, 4, 4}},
		{"pixel label height", Pixel, tensor.Shape{2, 3, 4, 4}, tensor.Shape{2, 1, 3, 4}},
		{"pixel label width", Pixel, tensor.Shape{2, 3, 4, 4}, tensor.Shape{2, 1, 4, 5}},
		{"pixel batch mismatch", Pixel, tensor.Shape{2, 3, 4, 4}, tensor.Shape{1, 1, 4, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeriveShapes(tt.lt, tt.activation, tt.label)
			assert.ErrorIs(t, err, ErrShapeMismatch)
		})
	}
}

func TestDeriveShapesUnknownLabelType(t *testing.T) {
	_, err := DeriveShapes(LabelType(9), tensor.Shape{1, 2, 2, 2}, tensor.Shape{1, 1, 1, 1})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestCheckBuffers(t *testing.T) {
	d, err := DeriveShapes(Image, tensor.Shape{1, 3, 2, 2}, tensor.Shape{1, 2, 1, 1})
	require.NoError(t, err)

	x, _ := tensor.NewRaw(tensor.Shape{1, 3, 2, 2}, tensor.Float32, tensor.CPU)
	l, _ := tensor.NewRaw(tensor.Shape{1, 2, 1, 1}, tensor.Float32, tensor.CPU)
	out, _ := tensor.NewRaw(tensor.Shape{1, 3, 2, 2}, tensor.Float32, tensor.CPU)
	require.NoError(t, d.CheckBuffers(x, l, out))

	wrongOut, _ := tensor.NewRaw(tensor.Shape{1, 3, 2, 3}, tensor.Float32, tensor.CPU)
	assert.ErrorIs(t, d.CheckBuffers(x, l, wrongOut), ErrShapeMismatch)

	wrongLabel, _ := tensor.NewRaw(tensor.Shape{1, 3, 1, 1}, tensor.Float32, tensor.CPU)
	assert.ErrorIs(t, d.CheckBuffers(x, wrongLabel, out), ErrShapeMismatch)

	outF64, _ := tensor.NewRaw(tensor.Shape{1, 3, 2, 2}, tensor.Float64, tensor.CPU)
	assert.ErrorIs(t, d.CheckBuffers(x, l, outF64), ErrShapeMismatch)

	intAct, _ := tensor.NewRaw(tensor.Shape{1, 3, 2, 2}, tensor.Int32, tensor.CPU)
	assert.ErrorIs(t, d.CheckBuffers(intAct, l, out), ErrUnsupported)

	assert.ErrorIs(t, d.CheckBuffers(nil, l, out), ErrShapeMismatch)
}
