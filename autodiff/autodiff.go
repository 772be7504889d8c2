// Copyright 2025 The deeplab-public Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides a gradient tape for hosts that train through the
// bias-channel operator.
//
// Example:
//
//	tape := autodiff.NewGradientTape()
//	tape.StartRecording()
//	out, err := tape.BiasChannel(op, activations, labels)
//	// ... loss and its gradient dOut ...
//	grads := tape.Backward(dOut, backend)
//	dActivations := grads[activations]
package autodiff

import "github.com/bityangke/deeplab-public/internal/autodiff"

// GradientTape records operations and replays them in reverse.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new, non-recording gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}
