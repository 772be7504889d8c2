package biaschannel

import (
	"testing"

	"github.com/bityangke/deeplab-public/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayerLifecycle(t *testing.T) {
	l, err := NewLayer(Config{BgBias: 1, FgBias: 2, LabelType: Image})
	require.NoError(t, err)

	_, ok := l.Dims()
	assert.False(t, ok)

	x := ramp(t, tensor.Shape{1, 3, 2, 2})
	label := labelsOf(t, tensor.Shape{1, 1, 1, 1}, 2)
	out, _ := tensor.NewRaw(tensor.Shape{1, 3, 2, 2}, tensor.Float32, tensor.CPU)

	assert.ErrorIs(t, l.Forward(x, label, out), ErrNotReshaped)

	shape, err := l.Reshape(x.Shape(), label.Shape())
	require.NoError(t, err)
	assert.Equal(t, x.Shape(), shape)

	require.NoError(t, l.Forward(x, label, out))
	assert.Equal(t, x.AsFloat32()[8]+2, out.AsFloat32()[8])

	grad, _ := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, l.Backward(out, grad, []bool{true, false}))
	assert.Equal(t, out.AsFloat32(), grad.AsFloat32())
}

func TestLayerReshapeOnNewShapes(t *testing.T) {
	l, err := NewLayer(Config{BgBias: 1, FgBias: 1, LabelType: Pixel})
	require.NoError(t, err)

	_, err = l.Reshape(tensor.Shape{1, 2, 2, 2}, tensor.Shape{1, 1, 2, 2})
	require.NoError(t, err)

	// A forward with new shapes but no reshape is rejected.
	x := ramp(t, tensor.Shape{2, 2, 3, 3})
	label, _ := tensor.NewRaw(tensor.Shape{2, 1, 3, 3}, tensor.Float32, tensor.CPU)
	out, _ := tensor.NewRaw(x.Shape(), tensor.Float32, tensor.CPU)
	assert.ErrorIs(t, l.Forward(x, label, out), ErrShapeMismatch)

	_, err = l.Reshape(x.Shape(), label.Shape())
	require.NoError(t, err)
	require.NoError(t, l.Forward(x, label, out))

	// Label 0 everywhere: only the background channel moves.
	in, got := x.AsFloat32(), out.AsFloat32()
	for i := 0; i < 9; i++ {
		assert.Equal(t, in[i]+1, got[i])
		assert.Equal(t, in[9+i], got[9+i])
	}
}

func TestLayerFailedReshapeInvalidates(t *testing.T) {
	l, err := NewLayer(DefaultConfig())
	require.NoError(t, err)

	_, err = l.Reshape(tensor.Shape{1, 2, 2, 2}, tensor.Shape{1, 1, 1, 1})
	require.NoError(t, err)
	_, err = l.Reshape(tensor.Shape{1, 2, 2, 2}, tensor.Shape{2, 1, 1, 1})
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, ok := l.Dims()
	assert.False(t, ok)
}

func TestLayerApply(t *testing.T) {
	l, err := NewLayer(Config{BgBias: 0.25, FgBias: 0.75})
	require.NoError(t, err)

	x := ramp(t, tensor.Shape{2, 2, 1, 1})
	label := labelsOf(t, tensor.Shape{2, 2, 1, 1}, 0, 1, 1, -1)

	out, err := l.Apply(x, label)
	require.NoError(t, err)

	in := x.AsFloat32()
	assert.Equal(t, []float32{in[0] + 0.25, in[1] + 0.75, in[2], in[3] + 0.75}, out.AsFloat32())

	_, err = l.Apply(x, labelsOf(t, tensor.Shape{1, 1, 1, 1}, 0))
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = l.Apply(nil, label)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNewLayerInvalidConfig(t *testing.T) {
	_, err := NewLayer(Config{BgBias: 1, FgBias: -3})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
