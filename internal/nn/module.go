// Package nn provides the neural-network building blocks the embedding
// architectures are assembled from: parameters, initializers, linear layers
// with optional max-norm weight clipping, batch normalization, dropout, and
// activations.
//
// Layers operate on float64 tensors. Modules that behave differently during
// training (batch norm, dropout) implement Trainable; everything else is
// mode-independent.
package nn

import (
	"github.com/b2220333/google-research/internal/tensor"
)

// Module is the base interface for network components.
type Module[B tensor.Backend] interface {
	// Forward computes the module output for the given input.
	Forward(x *tensor.Tensor[float64, B]) *tensor.Tensor[float64, B]

	// Parameters returns the module's trainable parameters, if any.
	Parameters() []*Parameter[B]
}

// Trainable is implemented by modules whose forward pass depends on whether
// the model is training (batch norm, dropout).
type Trainable interface {
	SetTraining(training bool)
}

// SetTraining switches a module into or out of training mode when the module
// supports it; other modules are left untouched.
func SetTraining[B tensor.Backend](m Module[B], training bool) {
	if t, ok := any(m).(Trainable); ok {
		t.SetTraining(training)
	}
}
