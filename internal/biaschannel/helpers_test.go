package biaschannel

import (
	"math/rand"
	"testing"

	"github.com/bityangke/deeplab-public/internal/tensor"
	"github.com/stretchr/testify/require"
)

// ramp returns a float32 tensor whose element i holds float32(i)/8.
func ramp(t *testing.T, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	data := make([]float32, shape.NumElements())
	for i := range data {
		data[i] = float32(i) / 8
	}
	x, err := tensor.FromSlice(data, shape, tensor.CPU)
	require.NoError(t, err)
	return x
}

func labelsOf(t *testing.T, shape tensor.Shape, values ...float32) *tensor.RawTensor {
	t.Helper()
	l, err := tensor.FromSlice(values, shape, tensor.CPU)
	require.NoError(t, err)
	return l
}

// randomInputs builds activations and valid labels (with some ignored entries).
func randomInputs(t *testing.T, rng *rand.Rand, lt LabelType, n, c, h, w, maxLabels int) (*tensor.RawTensor, *tensor.RawTensor) {
	t.Helper()
	act := make([]float32, n*c*h*w)
	for i := range act {
		act[i] = rng.Float32()*4 - 2
	}
	x, err := tensor.FromSlice(act, tensor.Shape{n, c, h, w}, tensor.CPU)
	require.NoError(t, err)

	var shape tensor.Shape
	if lt == Pixel {
		shape = tensor.Shape{n, 1, h, w}
	} else {
		shape = tensor.Shape{n, maxLabels, 1, 1}
	}
	lab := make([]float32, shape.NumElements())
	for i := range lab {
		if rng.Intn(5) == 0 {
			lab[i] = PaddingLabel
		} else {
			lab[i] = float32(rng.Intn(c))
		}
	}
	l, err := tensor.FromSlice(lab, shape, tensor.CPU)
	require.NoError(t, err)
	return x, l
}

func mustOperator(t *testing.T, cfg Config, opts ...Option) *Operator {
	t.Helper()
	op, err := New(cfg, opts...)
	require.NoError(t, err)
	return op
}

// run derives shapes, allocates an output and runs Forward.
func run(t *testing.T, op *Operator, x, label *tensor.RawTensor) (*tensor.RawTensor, error) {
	t.Helper()
	d, err := op.DeriveShapes(x.Shape(), label.Shape())
	require.NoError(t, err)
	out, err := op.NewOutput(d, x.DType(), x.Device())
	require.NoError(t, err)
	return out, op.Forward(d, x, label, out)
}
