// Copyright 2025 The deeplab-public Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend for the bias-channel operator.
//
// The GPU kernel is built on Windows only; on other platforms New returns
// ErrNotAvailable. Callers are expected to fall back to backend/cpu:
//
//	gpu, err := webgpu.New()
//	if err != nil {
//	    // use cpu.New() instead
//	}
//	defer gpu.Release()
//	op, err := biaschannel.New(cfg, biaschannel.WithKernel(gpu.BiasChannel()))
package webgpu

import (
	"github.com/bityangke/deeplab-public/internal/backend/webgpu"
	"github.com/bityangke/deeplab-public/tensor"
)

// Backend represents the WebGPU backend implementation.
type Backend = webgpu.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// ErrNotAvailable is returned by New when no WebGPU device can be used.
var ErrNotAvailable = webgpu.ErrNotAvailable

// New creates a new WebGPU backend.
// The caller must Release it when done.
func New() (*Backend, error) {
	return webgpu.New()
}
