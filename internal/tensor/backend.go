package tensor

// Backend is the compute interface tensor operations dispatch to.
//
// Dimension arguments are canonical (non-negative) by the time a backend sees
// them; Tensor methods resolve negative indices first. Backends panic on shape
// or dtype misuse, mirroring how graph construction errors surface during
// model building rather than being threaded through every op.
type Backend interface {
	// Element-wise arithmetic with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// MatMul contracts the last dimension of a against a 2-D matrix:
	// [..., K] @ [K, N] -> [..., N].
	MatMul(a, b *RawTensor) *RawTensor

	// Element-wise scalar arithmetic.
	AddScalar(x *RawTensor, s float64) *RawTensor
	MulScalar(x *RawTensor, s float64) *RawTensor

	// Element-wise math and activations.
	Exp(x *RawTensor) *RawTensor
	Sqrt(x *RawTensor) *RawTensor
	Relu(x *RawTensor) *RawTensor
	Elu(x *RawTensor) *RawTensor

	// Reductions. Sum reduces everything to a 1-element scalar tensor.
	Sum(x *RawTensor) *RawTensor
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor

	// Shape manipulation.
	Reshape(x *RawTensor, shape Shape) *RawTensor
	Unsqueeze(x *RawTensor, dim int) *RawTensor
	Squeeze(x *RawTensor, dim int) *RawTensor

	// Stack joins equally-shaped tensors along a new dimension at dim;
	// Unstack is its inverse, removing dimension dim.
	Stack(xs []*RawTensor, dim int) *RawTensor
	Unstack(x *RawTensor, dim int) []*RawTensor

	// Metadata.
	Name() string
	Device() Device
}
