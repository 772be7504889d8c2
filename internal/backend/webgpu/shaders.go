package webgpu

// biasChannelShader copies the activations and adds, for every image-mode
// label slot of the element's sample that names the element's channel, the
// channel's bias. Slots are applied in order; ignored slots hold -1.
//
// Dispatch is 2D when the element count exceeds one dimension's worth of
// workgroups; row_stride is the number of invocations per y row.
const biasChannelShader = `
struct Params {
    size: u32,
    channels: u32,
    spatial: u32,
    max_labels: u32,
    row_stride: u32,
    bg_bias: f32,
    fg_bias: f32,
    _pad: u32,
}

@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read> labels: array<i32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.y * params.row_stride + global_id.x;
    if (idx >= params.size) {
        return;
    }

    let plane = idx / params.spatial;
    let c = i32(plane % params.channels);
    let n = plane / params.channels;

    var bias = params.fg_bias;
    if (c == 0) {
        bias = params.bg_bias;
    }

    var v = input[idx];
    let base = n * params.max_labels;
    for (var j: u32 = 0u; j < params.max_labels; j = j + 1u) {
        if (labels[base + j] == c) {
            v = v + bias;
        }
    }
    result[idx] = v;
}
`
