// Package tensor is the public API of the tensor substrate: shapes, typed
// tensors, and the backend interface the model builders compose over.
//
// Example:
//
//	b := cpu.New()
//	x := tensor.Randn[float64](tensor.Shape{8, 16}, b)
//	y := x.Relu()
package tensor

import (
	"golang.org/x/exp/rand"

	"github.com/b2220333/google-research/internal/tensor"
)

// DType is the constraint for supported tensor element types.
type DType = tensor.DType

// DataType is the runtime type tag carried by a RawTensor.
type DataType = tensor.DataType

// Supported element types.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// Device identifies where tensor data lives.
type Device = tensor.Device

// Supported devices.
const (
	CPU Device = tensor.CPU
)

// Shape holds tensor dimensions, outermost first.
type Shape = tensor.Shape

// RawTensor is the untyped representation backends operate on.
type RawTensor = tensor.RawTensor

// Backend is the compute interface tensor operations dispatch to.
type Backend = tensor.Backend

// Tensor is a typed tensor bound to a compute backend.
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// New wraps a RawTensor with a typed handle.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}

// FromSlice creates a tensor by copying data into a fresh buffer.
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice[T, B](data, shape, b)
}

// Zeros creates a zero-filled tensor.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T, B](shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Ones[T, B](shape, b)
}

// Full creates a tensor filled with value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full[T, B](shape, value, b)
}

// Randn creates a tensor with standard normal values.
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Randn[T, B](shape, b)
}

// RandnFrom creates a tensor with standard normal values drawn from src.
func RandnFrom[T DType, B Backend](shape Shape, src rand.Source, b B) *Tensor[T, B] {
	return tensor.RandnFrom[T, B](shape, src, b)
}

// Stack joins equally-shaped tensors along a new dimension at dim.
func Stack[T DType, B Backend](ts []*Tensor[T, B], dim int) *Tensor[T, B] {
	return tensor.Stack(ts, dim)
}

// BroadcastShapes resolves the NumPy-style broadcast of two shapes.
func BroadcastShapes(a, b Shape) (Shape, error) {
	return tensor.BroadcastShapes(a, b)
}
