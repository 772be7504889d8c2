// Copyright 2025 The deeplab-public Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for the bias-channel operator.
//
// # Overview
//
// The backend's kernel splits image-mode work across goroutines, one
// (sample, channel) plane per task, and returns the same values as the
// sequential reference kernel.
//
// # Basic Usage
//
//	import (
//	    "github.com/bityangke/deeplab-public/backend/cpu"
//	    "github.com/bityangke/deeplab-public/biaschannel"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    op, err := biaschannel.New(biaschannel.DefaultConfig(),
//	        biaschannel.WithKernel(backend.BiasChannel()))
//	    ...
//	}
package cpu
