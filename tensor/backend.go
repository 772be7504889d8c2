// Copyright 2025 The deeplab-public Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/bityangke/deeplab-public/internal/tensor"

// Backend identifies a compute backend.
//
// Implementations:
//   - backend/cpu: Pure Go, parallel over (sample, channel) planes
//   - backend/webgpu: GPU compute via WebGPU (Windows)
type Backend = tensor.Backend
