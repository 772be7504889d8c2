//go:build windows

package webgpu

import (
	"fmt"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
)

// pipeline returns the cached compute pipeline for name, compiling code on first use.
func (b *Backend) pipeline(name, code string) *wgpu.ComputePipeline {
	b.mu.RLock()
	p, ok := b.pipelines[name]
	b.mu.RUnlock()
	if ok {
		return p
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.pipelines[name]; ok {
		return p
	}
	shader := b.device.CreateShaderModuleWGSL(code)
	b.shaders[name] = shader
	p = b.device.CreateComputePipelineSimple(nil, shader, "main")
	b.pipelines[name] = p
	return p
}

// upload creates a buffer holding data. size is rounded up to a multiple of
// 16 bytes so the same helper serves storage and uniform bindings.
func (b *Backend) upload(data []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, uint64) {
	size := (uint64(len(data)) + 15) &^ 15

	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	mapped := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(unsafe.Slice((*byte)(mapped), size), data)
	buffer.Unmap()

	return buffer, size
}

// download copies size bytes of src into dst through a staging buffer.
func (b *Backend) download(src *wgpu.Buffer, dst []byte) error {
	size := uint64(len(dst))
	staging := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer staging.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(src, 0, staging, 0, size)
	b.queue.Submit(encoder.Finish(nil))

	if err := staging.MapAsync(b.device, wgpu.MapModeRead, 0, size); err != nil {
		return fmt.Errorf("webgpu: map staging buffer: %w", err)
	}
	mapped := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(dst, unsafe.Slice((*byte)(mapped), size))
	staging.Unmap()
	return nil
}
