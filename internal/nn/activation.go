package nn

import (
	"github.com/b2220333/google-research/internal/tensor"
)

// ReLU applies the element-wise rectifier max(x, 0).
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] { return &ReLU[B]{} }

// Forward applies the rectifier.
func (r *ReLU[B]) Forward(x *tensor.Tensor[float64, B]) *tensor.Tensor[float64, B] {
	return x.Relu()
}

// Parameters returns nil; ReLU has no trainable parameters.
func (r *ReLU[B]) Parameters() []*Parameter[B] { return nil }

// ELU applies the element-wise exponential linear unit:
// x for x > 0, exp(x)-1 otherwise.
type ELU[B tensor.Backend] struct{}

// NewELU creates an ELU activation module.
func NewELU[B tensor.Backend]() *ELU[B] { return &ELU[B]{} }

// Forward applies the exponential linear unit.
func (e *ELU[B]) Forward(x *tensor.Tensor[float64, B]) *tensor.Tensor[float64, B] {
	return x.Elu()
}

// Parameters returns nil; ELU has no trainable parameters.
func (e *ELU[B]) Parameters() []*Parameter[B] { return nil }
