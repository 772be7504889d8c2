package biaschannel

import (
	"errors"
	"fmt"
)

// Common errors. Every error returned by this package wraps one of them.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrInvalidLabel  = errors.New("unexpected label")
	ErrUnsupported   = errors.New("unsupported operation")
	ErrNotReshaped   = errors.New("forward before reshape")
)

// LabelError reports a label value that is neither ignored nor a valid channel.
type LabelError struct {
	Sample   int // Batch index n
	Position int // Label slot (image mode) or flattened spatial index (pixel mode)
	Value    int // Offending label value
	Channels int // Channel count C of the activations

	// NotInteger is set when the stored label has no integer form; Raw holds it.
	NotInteger bool
	Raw        float64
}

// Error implements the error interface.
func (e *LabelError) Error() string {
	if e.NotInteger {
		return fmt.Sprintf("unexpected label %v at sample %d, position %d (not representable as an integer)",
			e.Raw, e.Sample, e.Position)
	}
	return fmt.Sprintf("unexpected label %d at sample %d, position %d (valid range [0, %d))",
		e.Value, e.Sample, e.Position, e.Channels)
}

// Unwrap makes errors.Is(err, ErrInvalidLabel) hold.
func (e *LabelError) Unwrap() error {
	return ErrInvalidLabel
}
