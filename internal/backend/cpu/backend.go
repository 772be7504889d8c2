// Package cpu implements the CPU backend and its data-parallel kernels.
package cpu

import (
	"github.com/bityangke/deeplab-public/internal/parallel"
	"github.com/bityangke/deeplab-public/internal/tensor"
)

// CPUBackend runs kernels on the host, splitting work across goroutines.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// New creates a new CPU backend using all CPUs.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Parallel returns the parallelism settings.
func (cpu *CPUBackend) Parallel() parallel.Config {
	return cpu.parallel
}
