//go:build windows

package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/bityangke/deeplab-public/internal/biaschannel"
	"github.com/bityangke/deeplab-public/internal/tensor"
	"github.com/go-webgpu/webgpu/wgpu"
)

// BiasChannelKernel runs the image-mode bias-channel forward pass on the GPU.
//
// Pixel mode and float64 activations run biaschannel.Reference on the host.
type BiasChannelKernel struct {
	backend *Backend
}

// BiasChannel returns the bias-channel kernel bound to this backend.
func (b *Backend) BiasChannel() *BiasChannelKernel {
	return &BiasChannelKernel{backend: b}
}

// Name returns the kernel name.
func (k *BiasChannelKernel) Name() string {
	return "webgpu"
}

// Forward implements biaschannel.Kernel.
func (k *BiasChannelKernel) Forward(p biaschannel.Params, d biaschannel.Dims, activation, label, output *tensor.RawTensor) (biaschannel.Stats, error) {
	if p.LabelType() == biaschannel.Pixel || activation.DType() != tensor.Float32 {
		return biaschannel.Reference{}.Forward(p, d, activation, label, output)
	}

	labels, st, err := biaschannel.ResolveImageLabels(p, d, label)
	if err != nil {
		return st, err
	}
	if err := k.backend.runBiasChannel(p, d, labels, activation, output); err != nil {
		return st, err
	}
	return st, nil
}

func (b *Backend) runBiasChannel(p biaschannel.Params, d biaschannel.Dims, labels []int, activation, output *tensor.RawTensor) error {
	numElements := activation.NumElements()
	pipeline := b.pipeline("bias_channel", biasChannelShader)

	labelData := make([]byte, 4*len(labels))
	for i, l := range labels {
		//nolint:gosec // G115: labels are -1 or channel indices
		binary.LittleEndian.PutUint32(labelData[4*i:], uint32(int32(l)))
	}

	x, y, rowStride := dispatchSize(numElements)
	params := make([]byte, 32)
	for i, v := range []int{numElements, d.C, d.Spatial(), d.MaxLabels} {
		//nolint:gosec // G115: dims come from tensor shapes that fit in memory
		binary.LittleEndian.PutUint32(params[4*i:], uint32(v))
	}
	binary.LittleEndian.PutUint32(params[16:20], rowStride)
	binary.LittleEndian.PutUint32(params[20:24], math.Float32bits(float32(p.BgBias())))
	binary.LittleEndian.PutUint32(params[24:28], math.Float32bits(float32(p.FgBias())))

	bufferInput, inputSize := b.upload(activation.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferInput.Release()
	bufferLabels, labelSize := b.upload(labelData, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferLabels.Release()
	bufferParams, paramSize := b.upload(params, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	defer bufferParams.Release()

	bufferResult := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  inputSize,
	})
	defer bufferResult.Release()

	bindGroup := b.device.CreateBindGroupSimple(pipeline.GetBindGroupLayout(0), []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferInput, 0, inputSize),
		wgpu.BufferBindingEntry(1, bufferLabels, 0, labelSize),
		wgpu.BufferBindingEntry(2, bufferResult, 0, inputSize),
		wgpu.BufferBindingEntry(3, bufferParams, 0, paramSize),
	})
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(x, y, 1)
	pass.End()
	b.queue.Submit(encoder.Finish(nil))

	if err := b.download(bufferResult, output.Data()); err != nil {
		return fmt.Errorf("webgpu: bias channel: %w", err)
	}
	return nil
}
