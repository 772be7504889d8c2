package biaschannel

import (
	"fmt"
	"math"

	"github.com/bityangke/deeplab-public/internal/tensor"
)

// Stats summarizes the label entries consumed by one forward pass.
type Stats struct {
	Biased  int // Entries that added at least one bias
	Ignored int // Entries skipped through the ignore set
}

// Kernel is one execution strategy for the forward pass.
//
// Implementations must leave activation and label untouched, overwrite every
// element of output, and produce the same values as Reference for any input.
// Shapes have already been checked against d when Forward is called.
type Kernel interface {
	Name() string
	Forward(p Params, d Dims, activation, label, output *tensor.RawTensor) (Stats, error)
}

// Reference is the sequential CPU kernel every other kernel is checked against.
type Reference struct{}

// Name returns the kernel name.
func (Reference) Name() string {
	return "reference"
}

// Forward copies activation into output and adds the label-driven biases.
func (Reference) Forward(p Params, d Dims, activation, label, output *tensor.RawTensor) (Stats, error) {
	if err := output.CopyFrom(activation); err != nil {
		return Stats{}, fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}

	if p.LabelType() == Pixel {
		return ForwardPixel(p, d, label, output)
	}

	var st Stats
	spatial := d.Spatial()
	labels, err := Labels(label)
	if err != nil {
		return st, err
	}
	for n := 0; n < d.N; n++ {
		for j := 0; j < d.MaxLabels; j++ {
			l := labels[n*d.MaxLabels+j]
			if p.Ignored(l) {
				st.Ignored++
				continue
			}
			if l < 0 || l >= d.C {
				return st, &LabelError{Sample: n, Position: j, Value: l, Channels: d.C}
			}
			AddBias(output, d.PlaneOffset(n, l), spatial, p.BiasFor(l))
			st.Biased++
		}
	}
	return st, nil
}

// ForwardPixel adds pixel-mode biases into output, which must already hold the activations.
//
// A pixel labeled 0 adds the background bias to channel 0. A pixel labeled with a
// foreground channel k adds the background bias to channel 0 and the foreground
// bias to channel k, both at that pixel only.
func ForwardPixel(p Params, d Dims, label, output *tensor.RawTensor) (Stats, error) {
	labels, err := Labels(label)
	if err != nil {
		return Stats{}, err
	}
	switch output.DType() {
	case tensor.Float32:
		return forwardPixel(p, d, labels, output.AsFloat32())
	case tensor.Float64:
		return forwardPixel(p, d, labels, output.AsFloat64())
	default:
		panic(fmt.Sprintf("bias: unsupported dtype %s", output.DType()))
	}
}

func forwardPixel[T float32 | float64](p Params, d Dims, labels []int, out []T) (Stats, error) {
	var st Stats
	spatial := d.Spatial()
	bg, fg := T(p.BgBias()), T(p.FgBias())

	for n := 0; n < d.N; n++ {
		lab := labels[n*spatial : (n+1)*spatial]
		top := out[d.PlaneOffset(n, 0):d.PlaneOffset(n+1, 0)]
		for j, l := range lab {
			switch {
			case p.Ignored(l):
				st.Ignored++
				continue
			case l == 0:
				top[j] += bg
			case l > 0 && l < d.C:
				top[j] += bg
				top[l*spatial+j] += fg
			default:
				return st, &LabelError{Sample: n, Position: j, Value: l, Channels: d.C}
			}
			st.Biased++
		}
	}
	return st, nil
}

// Labels converts a label tensor of any dtype to ints, truncating toward zero.
// Values with no integer form (NaN, ±Inf, beyond the int range) are rejected
// with a *LabelError.
func Labels(label *tensor.RawTensor) ([]int, error) {
	out := make([]int, label.NumElements())
	perSample := 1
	if s := label.Shape(); len(s) > 0 && s[0] > 0 {
		perSample = label.NumElements() / s[0]
	}
	for i := range out {
		if label.DType() != tensor.Int32 {
			if v := label.Float(i); !representable(v) {
				return nil, &LabelError{Sample: i / perSample, Position: i % perSample, Raw: v, NotInteger: true}
			}
		}
		out[i] = label.Int(i)
	}
	return out, nil
}

func representable(v float64) bool {
	return !math.IsNaN(v) && v >= -maxIntFloat && v < maxIntFloat
}

// maxIntFloat is 2^63 (or 2^31) as a float64: the first value past math.MaxInt.
const maxIntFloat = -float64(math.MinInt)

// ResolveImageLabels validates every image-mode label slot up front.
// The result has N*MaxLabels entries in sample-major order; ignored slots are -1.
func ResolveImageLabels(p Params, d Dims, label *tensor.RawTensor) ([]int, Stats, error) {
	var st Stats
	resolved, err := Labels(label)
	if err != nil {
		return nil, st, err
	}
	for i, l := range resolved {
		if p.Ignored(l) {
			resolved[i] = -1
			st.Ignored++
			continue
		}
		if l < 0 || l >= d.C {
			return nil, st, &LabelError{Sample: i / d.MaxLabels, Position: i % d.MaxLabels, Value: l, Channels: d.C}
		}
		resolved[i] = l
		st.Biased++
	}
	return resolved, st, nil
}

// AddBias adds bias to count consecutive elements of t starting at offset.
func AddBias(t *tensor.RawTensor, offset, count int, bias float64) {
	switch t.DType() {
	case tensor.Float32:
		addScalarFloat32(t.AsFloat32()[offset:offset+count], float32(bias))
	case tensor.Float64:
		addScalarFloat64(t.AsFloat64()[offset:offset+count], bias)
	default:
		panic(fmt.Sprintf("bias: unsupported dtype %s", t.DType()))
	}
}

func addScalarFloat32(dst []float32, s float32) {
	for i := range dst {
		dst[i] += s
	}
}

func addScalarFloat64(dst []float64, s float64) {
	for i := range dst {
		dst[i] += s
	}
}
