package ops

import (
	"testing"

	"github.com/bityangke/deeplab-public/internal/backend/cpu"
	"github.com/bityangke/deeplab-public/internal/biaschannel"
	"github.com/bityangke/deeplab-public/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBiasChannelOp(t *testing.T) {
	backend := cpu.New()
	op, err := biaschannel.New(biaschannel.DefaultConfig())
	require.NoError(t, err)

	act, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, 2, 1, 2}, tensor.CPU)
	require.NoError(t, err)
	lab, err := tensor.FromSlice([]float32{1}, tensor.Shape{1, 1, 1, 1}, tensor.CPU)
	require.NoError(t, err)
	out, err := tensor.NewRaw(act.Shape(), tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	bc := NewBiasChannelOp(op, act, lab, out)

	t.Run("Inputs", func(t *testing.T) {
		inputs := bc.Inputs()
		require.Len(t, inputs, 1)
		assert.Same(t, act, inputs[0])
		assert.Same(t, out, bc.Output())
		assert.Same(t, lab, bc.Label())
	})

	t.Run("Backward", func(t *testing.T) {
		grad, err := tensor.FromSlice([]float32{0.5, -1, 2, 7}, act.Shape(), tensor.CPU)
		require.NoError(t, err)

		grads := bc.Backward(grad, backend)
		require.Len(t, grads, 1)
		assert.NotSame(t, grad, grads[0])
		assert.Equal(t, grad.AsFloat32(), grads[0].AsFloat32())
		assert.Equal(t, tensor.CPU, grads[0].Device())
	})

	t.Run("BackwardShapeMismatch", func(t *testing.T) {
		grad, err := tensor.NewRaw(tensor.Shape{1, 2, 2, 2}, tensor.Float32, tensor.CPU)
		require.NoError(t, err)
		assert.Panics(t, func() { bc.Backward(grad, backend) })
	})
}
