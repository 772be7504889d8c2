// Package webgpu implements the WebGPU backend for GPU-accelerated tensor operations.
// Uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO WebGPU bindings.
//
// The GPU path is only built on Windows. Elsewhere New always returns
// ErrNotAvailable and callers fall back to the CPU backend.
package webgpu

import "errors"

// ErrNotAvailable is returned when no WebGPU device can be used.
var ErrNotAvailable = errors.New("webgpu: backend not available")

// workgroupSize must match @workgroup_size in the shaders.
const workgroupSize = 256

// maxWorkgroupsPerDim is the WebGPU default limit for one dispatch dimension.
const maxWorkgroupsPerDim = 65535
