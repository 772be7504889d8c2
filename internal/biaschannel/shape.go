package biaschannel

import (
	"fmt"

	"github.com/bityangke/deeplab-public/internal/tensor"
)

// Dims holds the shape-dependent quantities derived from the inputs.
type Dims struct {
	N, C, H, W int
	MaxLabels  int // Label slots per sample (image mode); 1 in pixel mode
	LabelType  LabelType
}

// Spatial returns H*W.
func (d Dims) Spatial() int {
	return d.H * d.W
}

// OutputShape returns (N, C, H, W), the shape of the output and gradient buffers.
func (d Dims) OutputShape() tensor.Shape {
	return tensor.Shape{d.N, d.C, d.H, d.W}
}

// LabelShape returns the label shape these dims were derived from.
func (d Dims) LabelShape() tensor.Shape {
	if d.LabelType == Pixel {
		return tensor.Shape{d.N, 1, d.H, d.W}
	}
	return tensor.Shape{d.N, d.MaxLabels, 1, 1}
}

// PlaneOffset returns the flat index of output[n, c, 0, 0].
func (d Dims) PlaneOffset(n, c int) int {
	return (n*d.C + c) * d.Spatial()
}

// DeriveShapes checks the activation and label shapes against each other and the label type.
func DeriveShapes(lt LabelType, activation, label tensor.Shape) (Dims, error) {
	n, c, h, w, err := activation.NCHW()
	if err != nil {
		return Dims{}, fmt.Errorf("%w: activations: %w", ErrShapeMismatch, err)
	}
	if err := activation.Validate(); err != nil {
		return Dims{}, fmt.Errorf("%w: activations: %w", ErrShapeMismatch, err)
	}
	ln, lc, lh, lw, err := label.NCHW()
	if err != nil {
		return Dims{}, fmt.Errorf("%w: labels: %w", ErrShapeMismatch, err)
	}

	if ln != n {
		return Dims{}, fmt.Errorf("%w: input channels incompatible in num: labels %d vs activations %d",
			ErrShapeMismatch, ln, n)
	}
	if lc < 1 {
		return Dims{}, fmt.Errorf("%w: label blob needs to be non-empty, got %d channels", ErrShapeMismatch, lc)
	}

	switch lt {
	case Image:
		if lh != 1 || lw != 1 {
			return Dims{}, fmt.Errorf("%w: image labels must be %dx1x1 per sample, got spatial %dx%d",
				ErrShapeMismatch, lc, lh, lw)
		}
	case Pixel:
		if lc != 1 {
			return Dims{}, fmt.Errorf("%w: pixel labels must have 1 channel, got %d", ErrShapeMismatch, lc)
		}
		if lh != h || lw != w {
			return Dims{}, fmt.Errorf("%w: pixel labels spatial %dx%d, activations %dx%d",
				ErrShapeMismatch, lh, lw, h, w)
		}
	default:
		return Dims{}, fmt.Errorf("%w: unexpected label type %v", ErrInvalidConfig, lt)
	}

	return Dims{N: n, C: c, H: h, W: w, MaxLabels: lc, LabelType: lt}, nil
}

// CheckBuffers verifies that the tensors handed to Forward match d.
func (d Dims) CheckBuffers(activation, label, output *tensor.RawTensor) error {
	if activation == nil || label == nil || output == nil {
		return fmt.Errorf("%w: nil tensor", ErrShapeMismatch)
	}
	want := d.OutputShape()
	if !activation.Shape().Equal(want) {
		return fmt.Errorf("%w: activations %v, reshaped for %v", ErrShapeMismatch, activation.Shape(), want)
	}
	if !output.Shape().Equal(want) {
		return fmt.Errorf("%w: output %v, want %v", ErrShapeMismatch, output.Shape(), want)
	}
	if !label.Shape().Equal(d.LabelShape()) {
		return fmt.Errorf("%w: labels %v, reshaped for %v", ErrShapeMismatch, label.Shape(), d.LabelShape())
	}
	if !activation.DType().IsFloat() {
		return fmt.Errorf("%w: activations must be float32 or float64, got %s", ErrUnsupported, activation.DType())
	}
	if output.DType() != activation.DType() {
		return fmt.Errorf("%w: output dtype %s, activations %s", ErrShapeMismatch, output.DType(), activation.DType())
	}
	return nil
}
