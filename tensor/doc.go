// Copyright 2025 The deeplab-public Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the tensor types the bias-channel operator works on.
//
// A RawTensor is a contiguous row-major buffer of float32, float64 or int32
// values with an N-dimensional Shape. Activations and outputs are float32 or
// float64 (N, C, H, W) tensors; labels may use any of the three types and are
// truncated toward zero when read.
//
// Example:
//
//	import "github.com/bityangke/deeplab-public/tensor"
//
//	act, _ := tensor.NewRaw(tensor.Shape{2, 21, 65, 65}, tensor.Float32, tensor.CPU)
//	lab, _ := tensor.FromSlice([]float32{0, 15, -1}, tensor.Shape{1, 3, 1, 1}, tensor.CPU)
package tensor
