package operators

import (
	"fmt"

	"github.com/bityangke/deeplab-public/internal/biaschannel"
	"github.com/bityangke/deeplab-public/internal/tensor"
)

// Attribute names of the BiasChannel node.
const (
	AttrBgBias      = "bg_bias"
	AttrFgBias      = "fg_bias"
	AttrLabelType   = "label_type"
	AttrIgnoreLabel = "ignore_label"
)

// BiasChannelConfig reads the operator configuration from node attributes.
// Missing attributes keep biaschannel.DefaultConfig values. The biases may be
// FLOAT or INT, label_type a string ("IMAGE", "PIXEL") or an int (0 image,
// 1 pixel), and ignore_label INTS or a single INT. Any other attribute type
// is an ErrInvalidConfig.
func BiasChannelConfig(node *Node) (biaschannel.Config, error) {
	cfg := biaschannel.DefaultConfig()
	var err error
	if cfg.BgBias, err = biasAttr(node, AttrBgBias, cfg.BgBias); err != nil {
		return cfg, err
	}
	if cfg.FgBias, err = biasAttr(node, AttrFgBias, cfg.FgBias); err != nil {
		return cfg, err
	}

	if a := GetAttr(node, AttrLabelType); a != nil {
		switch a.Type {
		case AttrString:
			lt, err := biaschannel.ParseLabelType(string(a.S))
			if err != nil {
				return cfg, err
			}
			cfg.LabelType = lt
		case AttrInt:
			if a.I != int64(biaschannel.Image) && a.I != int64(biaschannel.Pixel) {
				return cfg, fmt.Errorf("%w: label_type %d", biaschannel.ErrInvalidConfig, a.I)
			}
			cfg.LabelType = biaschannel.LabelType(a.I)
		default:
			return cfg, fmt.Errorf("%w: label_type has attribute type %d", biaschannel.ErrInvalidConfig, a.Type)
		}
	}

	if a := GetAttr(node, AttrIgnoreLabel); a != nil {
		switch a.Type {
		case AttrInts:
			for _, l := range a.Ints {
				cfg.IgnoreLabels = append(cfg.IgnoreLabels, int(l))
			}
		case AttrInt:
			cfg.IgnoreLabels = append(cfg.IgnoreLabels, int(a.I))
		default:
			return cfg, fmt.Errorf("%w: ignore_label has attribute type %d", biaschannel.ErrInvalidConfig, a.Type)
		}
	}
	return cfg, cfg.Validate()
}

func biasAttr(node *Node, name string, defaultVal float64) (float64, error) {
	a := GetAttr(node, name)
	if a == nil {
		return defaultVal, nil
	}
	switch a.Type {
	case AttrFloat:
		return float64(a.F), nil
	case AttrInt:
		return float64(a.I), nil
	default:
		return defaultVal, fmt.Errorf("%w: %s has attribute type %d", biaschannel.ErrInvalidConfig, name, a.Type)
	}
}

// handleBiasChannel runs inputs [activation, label] through the operator and
// returns [output] allocated on the context's device.
func handleBiasChannel(ctx *Context, node *Node, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if len(inputs) != 2 {
		return nil, fmt.Errorf("bias channel requires 2 inputs, got %d", len(inputs))
	}
	cfg, err := BiasChannelConfig(node)
	if err != nil {
		return nil, fmt.Errorf("bias channel %q: %w", node.Name, err)
	}
	op, err := biaschannel.New(cfg, biaschannel.WithKernel(ctx.kernel()))
	if err != nil {
		return nil, err
	}

	activation, label := inputs[0], inputs[1]
	if activation == nil || label == nil {
		return nil, fmt.Errorf("bias channel %q: %w: nil input", node.Name, biaschannel.ErrShapeMismatch)
	}
	d, err := op.DeriveShapes(activation.Shape(), label.Shape())
	if err != nil {
		return nil, err
	}
	out, err := op.NewOutput(d, activation.DType(), ctx.device())
	if err != nil {
		return nil, err
	}
	if err := op.Forward(d, activation, label, out); err != nil {
		return nil, err
	}
	return []*tensor.RawTensor{out}, nil
}
