// Copyright 2025 The deeplab-public Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/bityangke/deeplab-public/internal/backend/cpu"
	"github.com/bityangke/deeplab-public/internal/parallel"
	"github.com/bityangke/deeplab-public/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend using all CPUs.
func New() *Backend {
	return internalcpu.New()
}

// NewWithWorkers creates a CPU backend limited to workers goroutines.
// workers == 1 runs every kernel sequentially; workers <= 0 uses all CPUs.
func NewWithWorkers(workers int) *Backend {
	return internalcpu.NewWithConfig(parallel.DefaultConfig().WithWorkers(workers))
}
