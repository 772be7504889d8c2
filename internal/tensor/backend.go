package tensor

// Backend identifies a compute backend.
// Operators keep their own per-backend kernels; the backend only names the
// device their buffers live on.
//
// Implementations:
//   - CPU: pure Go, optionally parallel across the batch
//   - WebGPU: native GPU through go-webgpu (windows builds)
type Backend interface {
	Name() string
	Device() Device
}
