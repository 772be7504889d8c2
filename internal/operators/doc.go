// Package operators maps named operator nodes to tensor operations.
//
// The package provides a registry of operator handlers keyed by op type, so a
// host that executes a graph of nodes can look the bias-channel operator up
// next to its own operators. Each handler validates inputs and attributes,
// then delegates to the operator and the kernel carried by the Context.
//
// Registered operators:
//   - BiasChannel: label-driven channel biasing (attributes bg_bias, fg_bias,
//     label_type, ignore_label)
//   - Identity: pass-through
package operators
