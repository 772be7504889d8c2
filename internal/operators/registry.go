package operators

import (
	"fmt"
	"slices"

	"github.com/bityangke/deeplab-public/internal/biaschannel"
	"github.com/bityangke/deeplab-public/internal/tensor"
)

// OpHandler processes a node and returns output tensors.
type OpHandler func(ctx *Context, node *Node, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error)

// Context provides the execution environment for operators.
type Context struct {
	// Backend owns the device outputs are allocated on. Nil means CPU.
	Backend tensor.Backend
	// Kernel runs the bias-channel forward pass. Nil means biaschannel.Reference.
	Kernel biaschannel.Kernel
}

func (ctx *Context) device() tensor.Device {
	if ctx == nil || ctx.Backend == nil {
		return tensor.CPU
	}
	return ctx.Backend.Device()
}

func (ctx *Context) kernel() biaschannel.Kernel {
	if ctx == nil || ctx.Kernel == nil {
		return biaschannel.Reference{}
	}
	return ctx.Kernel
}

// Registry maps operator types to handler functions.
// Registration is not synchronized; register everything before executing concurrently.
type Registry struct {
	handlers map[string]OpHandler
}

// NewRegistry creates a new operator registry with all supported operators.
func NewRegistry() *Registry {
	r := &Registry{
		handlers: make(map[string]OpHandler),
	}
	r.Register("BiasChannel", handleBiasChannel)
	r.Register("Identity", handleIdentity)
	return r
}

// Register adds a custom operator handler, replacing any previous one.
func (r *Registry) Register(opType string, handler OpHandler) {
	r.handlers[opType] = handler
}

// Get returns the handler for an operator type.
func (r *Registry) Get(opType string) (OpHandler, bool) {
	h, ok := r.handlers[opType]
	return h, ok
}

// Execute runs an operator with the given inputs.
func (r *Registry) Execute(ctx *Context, node *Node, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	handler, ok := r.handlers[node.OpType]
	if !ok {
		return nil, fmt.Errorf("unsupported operator: %s", node.OpType)
	}
	return handler(ctx, node, inputs)
}

// SupportedOps returns all supported operator types in sorted order.
func (r *Registry) SupportedOps() []string {
	ops := make([]string, 0, len(r.handlers))
	for op := range r.handlers {
		ops = append(ops, op)
	}
	slices.Sort(ops)
	return ops
}

func handleIdentity(_ *Context, _ *Node, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("identity requires 1 input, got %d", len(inputs))
	}
	return inputs, nil
}
