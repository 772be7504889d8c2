package cpu

import (
	"fmt"

	"github.com/bityangke/deeplab-public/internal/biaschannel"
	"github.com/bityangke/deeplab-public/internal/parallel"
	"github.com/bityangke/deeplab-public/internal/tensor"
)

// BiasChannelKernel is the parallel CPU forward kernel of the bias-channel operator.
//
// Image mode validates all label slots first, then copies and biases every
// (sample, channel) plane on its own goroutine. A plane applies the slots that
// name it in slot order, so results match biaschannel.Reference bit for bit.
// Pixel mode runs biaschannel.ForwardPixel unchanged after a parallel copy.
type BiasChannelKernel struct {
	backend *CPUBackend
}

// BiasChannel returns the bias-channel kernel bound to this backend.
func (cpu *CPUBackend) BiasChannel() *BiasChannelKernel {
	return &BiasChannelKernel{backend: cpu}
}

// Name returns the kernel name.
func (k *BiasChannelKernel) Name() string {
	return "cpu"
}

// Forward implements biaschannel.Kernel.
func (k *BiasChannelKernel) Forward(p biaschannel.Params, d biaschannel.Dims, activation, label, output *tensor.RawTensor) (biaschannel.Stats, error) {
	cfg := k.backend.parallel

	if p.LabelType() == biaschannel.Pixel {
		copyPlanes(d, activation, output, cfg)
		return biaschannel.ForwardPixel(p, d, label, output)
	}

	labels, st, err := biaschannel.ResolveImageLabels(p, d, label)
	if err != nil {
		return st, err
	}

	switch activation.DType() {
	case tensor.Float32:
		biasPlanes(p, d, labels, activation.AsFloat32(), output.AsFloat32(), cfg)
	case tensor.Float64:
		biasPlanes(p, d, labels, activation.AsFloat64(), output.AsFloat64(), cfg)
	default:
		panic(fmt.Sprintf("biasChannel: unsupported dtype %s", activation.DType()))
	}
	return st, nil
}

// biasPlanes writes out[n, c] = in[n, c] + every bias whose slot names c.
func biasPlanes[T float32 | float64](p biaschannel.Params, d biaschannel.Dims, labels []int, in, out []T, cfg parallel.Config) {
	spatial := d.Spatial()
	bg, fg := T(p.BgBias()), T(p.FgBias())

	parallel.ForBatch(d.N, d.C, func(n, c int) {
		off := d.PlaneOffset(n, c)
		dst := out[off : off+spatial]
		copy(dst, in[off:off+spatial])

		bias := fg
		if c == 0 {
			bias = bg
		}
		for _, l := range labels[n*d.MaxLabels : (n+1)*d.MaxLabels] {
			if l == c {
				addScalarInplace(dst, bias)
			}
		}
	}, cfg)
}

// copyPlanes copies activation into output one (sample, channel) plane per task.
func copyPlanes(d biaschannel.Dims, activation, output *tensor.RawTensor, cfg parallel.Config) {
	src, dst := activation.Data(), output.Data()
	planeBytes := d.Spatial() * activation.DType().Size()
	parallel.ForBatch(d.N, d.C, func(n, c int) {
		off := d.PlaneOffset(n, c) * activation.DType().Size()
		copy(dst[off:off+planeBytes], src[off:off+planeBytes])
	}, cfg)
}

func addScalarInplace[T float32 | float64](dst []T, s T) {
	for i := range dst {
		dst[i] += s
	}
}
