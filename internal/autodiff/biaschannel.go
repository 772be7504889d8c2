package autodiff

import (
	"fmt"

	"github.com/bityangke/deeplab-public/internal/autodiff/ops"
	"github.com/bityangke/deeplab-public/internal/biaschannel"
	"github.com/bityangke/deeplab-public/internal/tensor"
)

// BiasChannel runs op forward on freshly allocated output and records the
// operation on the tape.
func (t *GradientTape) BiasChannel(op *biaschannel.Operator, activation, label *tensor.RawTensor) (*tensor.RawTensor, error) {
	if activation == nil || label == nil {
		return nil, fmt.Errorf("biaschannel: forward: %w: nil input", biaschannel.ErrShapeMismatch)
	}
	d, err := op.DeriveShapes(activation.Shape(), label.Shape())
	if err != nil {
		return nil, err
	}
	out, err := op.NewOutput(d, activation.DType(), activation.Device())
	if err != nil {
		return nil, err
	}
	if err := op.Forward(d, activation, label, out); err != nil {
		return nil, err
	}
	t.Record(ops.NewBiasChannelOp(op, activation, label, out))
	return out, nil
}
