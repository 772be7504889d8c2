//go:build !windows

package webgpu

import (
	"github.com/bityangke/deeplab-public/internal/biaschannel"
	"github.com/bityangke/deeplab-public/internal/tensor"
)

// Backend is unavailable on this platform.
type Backend struct{}

// New always fails with ErrNotAvailable on this platform.
func New() (*Backend, error) {
	return nil, ErrNotAvailable
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "WebGPU"
}

// Device returns the compute device.
func (b *Backend) Device() tensor.Device {
	return tensor.WebGPU
}

// Release is a no-op.
func (b *Backend) Release() {}

// BiasChannelKernel rejects every call on this platform.
type BiasChannelKernel struct{}

// BiasChannel returns a kernel whose Forward fails with ErrNotAvailable.
func (b *Backend) BiasChannel() *BiasChannelKernel {
	return &BiasChannelKernel{}
}

// Name returns the kernel name.
func (k *BiasChannelKernel) Name() string {
	return "webgpu"
}

// Forward implements biaschannel.Kernel.
func (k *BiasChannelKernel) Forward(biaschannel.Params, biaschannel.Dims, *tensor.RawTensor, *tensor.RawTensor, *tensor.RawTensor) (biaschannel.Stats, error) {
	return biaschannel.Stats{}, ErrNotAvailable
}
