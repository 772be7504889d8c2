// Copyright 2025 The deeplab-public Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package biaschannel provides the channel-biasing operator.
//
// Given (N, C, H, W) activations and companion labels, the operator adds a
// background bias to channel 0 and a foreground bias to the other channels
// named by the labels. Labels are read per image, (N, L, 1, 1), or per pixel,
// (N, 1, H, W). The gradient passes through to the activations unchanged.
//
// Example:
//
//	import (
//	    "github.com/bityangke/deeplab-public/backend/cpu"
//	    "github.com/bityangke/deeplab-public/biaschannel"
//	)
//
//	cfg := biaschannel.Config{BgBias: 1, FgBias: 2, LabelType: biaschannel.Image, IgnoreLabels: []int{255}}
//	layer, err := biaschannel.NewLayer(cfg, biaschannel.WithKernel(cpu.New().BiasChannel()))
//	if err != nil {
//	    return err
//	}
//	out, err := layer.Apply(activations, labels)
package biaschannel

import "github.com/bityangke/deeplab-public/internal/biaschannel"

// Config is the operator configuration.
type Config = biaschannel.Config

// LabelType selects how labels are read.
type LabelType = biaschannel.LabelType

// Label types.
const (
	Image = biaschannel.Image
	Pixel = biaschannel.Pixel
)

// PaddingLabel is always ignored.
const PaddingLabel = biaschannel.PaddingLabel

// Params is a validated, immutable configuration.
type Params = biaschannel.Params

// Dims holds the quantities derived from the input shapes.
type Dims = biaschannel.Dims

// Kernel is one forward execution strategy.
type Kernel = biaschannel.Kernel

// Reference is the sequential kernel other kernels are checked against.
type Reference = biaschannel.Reference

// Stats summarizes the label entries of one forward pass.
type Stats = biaschannel.Stats

// Operator is the stateless, concurrency-safe operator.
type Operator = biaschannel.Operator

// Layer is the stateful setup/reshape/forward/backward adapter.
type Layer = biaschannel.Layer

// Option customizes an Operator.
type Option = biaschannel.Option

// LabelError reports an out-of-range label.
type LabelError = biaschannel.LabelError

// Errors returned by the operator. Test with errors.Is.
var (
	ErrInvalidConfig = biaschannel.ErrInvalidConfig
	ErrShapeMismatch = biaschannel.ErrShapeMismatch
	ErrInvalidLabel  = biaschannel.ErrInvalidLabel
	ErrUnsupported   = biaschannel.ErrUnsupported
	ErrNotReshaped   = biaschannel.ErrNotReshaped
)

// DefaultConfig returns a unit-bias image-mode configuration.
func DefaultConfig() Config {
	return biaschannel.DefaultConfig()
}

// ParseLabelType accepts "IMAGE" or "PIXEL" in any case.
func ParseLabelType(s string) (LabelType, error) {
	return biaschannel.ParseLabelType(s)
}

// New validates cfg and returns an Operator.
func New(cfg Config, opts ...Option) (*Operator, error) {
	return biaschannel.New(cfg, opts...)
}

// NewLayer validates cfg and returns a Layer awaiting its first Reshape.
func NewLayer(cfg Config, opts ...Option) (*Layer, error) {
	return biaschannel.NewLayer(cfg, opts...)
}

// WithKernel selects the forward kernel. The default is Reference.
func WithKernel(k Kernel) Option {
	return biaschannel.WithKernel(k)
}
