package biaschannel

import (
	"fmt"
	"slices"
	"strings"
)

// LabelType selects how the label tensor is interpreted.
type LabelType int

const (
	// Image labels are a fixed-length list of channel indices per sample: (N, L, 1, 1).
	Image LabelType = iota
	// Pixel labels hold one channel index per spatial position: (N, 1, H, W).
	Pixel
)

// String returns the configuration name of the label type.
func (lt LabelType) String() string {
	switch lt {
	case Image:
		return "IMAGE"
	case Pixel:
		return "PIXEL"
	default:
		return fmt.Sprintf("LabelType(%d)", int(lt))
	}
}

// ParseLabelType accepts "IMAGE" or "PIXEL" in any case.
func ParseLabelType(s string) (LabelType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IMAGE":
		return Image, nil
	case "PIXEL":
		return Pixel, nil
	default:
		return 0, fmt.Errorf("%w: unknown label type %q", ErrInvalidConfig, s)
	}
}

// PaddingLabel fills unused slots of fixed-length image label lists.
// It is always part of the ignore set.
const PaddingLabel = -1

// Config is the user-facing operator configuration.
type Config struct {
	BgBias       float64   // Added to the background channel 0
	FgBias       float64   // Added to foreground channels 1..C-1
	LabelType    LabelType // Image or Pixel
	IgnoreLabels []int     // Label values skipped in addition to PaddingLabel
}

// DefaultConfig returns a unit-bias image-mode configuration.
func DefaultConfig() Config {
	return Config{
		BgBias:    1,
		FgBias:    1,
		LabelType: Image,
	}
}

// Validate checks the static invariants of the configuration.
func (c Config) Validate() error {
	if c.BgBias < 0 {
		return fmt.Errorf("%w: bg bias needs to be non-negative, got %v", ErrInvalidConfig, c.BgBias)
	}
	if c.FgBias < 0 {
		return fmt.Errorf("%w: fg bias needs to be non-negative, got %v", ErrInvalidConfig, c.FgBias)
	}
	if c.LabelType != Image && c.LabelType != Pixel {
		return fmt.Errorf("%w: unexpected label type %v", ErrInvalidConfig, c.LabelType)
	}
	return nil
}

// Params is the validated, immutable form of Config.
// It is safe to share between goroutines.
type Params struct {
	bgBias    float64
	fgBias    float64
	labelType LabelType
	ignore    map[int]struct{}
}

// NewParams validates cfg and builds the ignore set (cfg.IgnoreLabels plus PaddingLabel).
func NewParams(cfg Config) (Params, error) {
	if err := cfg.Validate(); err != nil {
		return Params{}, err
	}

	ignore := make(map[int]struct{}, len(cfg.IgnoreLabels)+1)
	ignore[PaddingLabel] = struct{}{}
	for _, l := range cfg.IgnoreLabels {
		ignore[l] = struct{}{}
	}

	return Params{
		bgBias:    cfg.BgBias,
		fgBias:    cfg.FgBias,
		labelType: cfg.LabelType,
		ignore:    ignore,
	}, nil
}

// BgBias returns the background bias.
func (p Params) BgBias() float64 { return p.bgBias }

// FgBias returns the foreground bias.
func (p Params) FgBias() float64 { return p.fgBias }

// LabelType returns the label interpretation mode.
func (p Params) LabelType() LabelType { return p.labelType }

// Ignored reports whether label is in the ignore set.
func (p Params) Ignored(label int) bool {
	_, ok := p.ignore[label]
	return ok
}

// IgnoreLabels returns the ignore set in ascending order.
func (p Params) IgnoreLabels() []int {
	out := make([]int, 0, len(p.ignore))
	for l := range p.ignore {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

// BiasFor returns the image-mode bias of a valid channel label.
func (p Params) BiasFor(label int) float64 {
	if label == 0 {
		return p.bgBias
	}
	return p.fgBias
}
