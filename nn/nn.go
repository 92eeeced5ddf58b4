// Package nn is the public API of the neural-network building blocks used
// by the embedding models: linear layers with optional max-norm weight
// clipping, batch normalization, dropout, activations, and initializers.
package nn

import (
	"golang.org/x/exp/rand"

	"github.com/b2220333/google-research/internal/nn"
	"github.com/b2220333/google-research/internal/tensor"
)

// Module is the base interface for network components.
type Module[B tensor.Backend] = nn.Module[B]

// Trainable is implemented by modules whose forward pass depends on
// training mode.
type Trainable = nn.Trainable

// Parameter is a named trainable tensor.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// Initializer produces an initialized tensor of the given shape.
type Initializer[B tensor.Backend] = nn.Initializer[B]

// Linear is a fully connected layer computing y = x @ W + b.
type Linear[B tensor.Backend] = nn.Linear[B]

// LinearOption configures a Linear layer.
type LinearOption[B tensor.Backend] = nn.LinearOption[B]

// BatchNorm normalizes the feature dimension across leading dimensions.
type BatchNorm[B tensor.Backend] = nn.BatchNorm[B]

// Dropout zeroes activations with a fixed probability during training.
type Dropout[B tensor.Backend] = nn.Dropout[B]

// ReLU applies the element-wise rectifier.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// ELU applies the element-wise exponential linear unit.
type ELU[B tensor.Backend] = nn.ELU[B]

// NewParameter wraps an initialized tensor as a named parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float64, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// NewLinear creates a Linear layer.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B, opts ...LinearOption[B]) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend, opts...)
}

// WithWeightMaxNorm clips the effective weight to the given Frobenius norm.
func WithWeightMaxNorm[B tensor.Backend](maxNorm float64) LinearOption[B] {
	return nn.WithWeightMaxNorm[B](maxNorm)
}

// WithWeightInit overrides the weight initializer.
func WithWeightInit[B tensor.Backend](init Initializer[B]) LinearOption[B] {
	return nn.WithWeightInit[B](init)
}

// WithBiasInit overrides the bias initializer.
func WithBiasInit[B tensor.Backend](init Initializer[B]) LinearOption[B] {
	return nn.WithBiasInit[B](init)
}

// NewBatchNorm creates a BatchNorm layer with the TF default momentum and
// epsilon.
func NewBatchNorm[B tensor.Backend](numFeatures int, backend B) *BatchNorm[B] {
	return nn.NewBatchNorm(numFeatures, backend)
}

// NewDropout creates a Dropout layer.
func NewDropout[B tensor.Backend](rate float64, src rand.Source) *Dropout[B] {
	return nn.NewDropout[B](rate, src)
}

// NewReLU creates a ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] { return nn.NewReLU[B]() }

// NewELU creates an ELU activation module.
func NewELU[B tensor.Backend]() *ELU[B] { return nn.NewELU[B]() }

// HeNormal initializes with a truncated normal of stddev sqrt(2 / fan_in).
func HeNormal[B tensor.Backend](shape tensor.Shape, b B) *tensor.Tensor[float64, B] {
	return nn.HeNormal[B](shape, b)
}

// Zeros initializes with zeros.
func Zeros[B tensor.Backend](shape tensor.Shape, b B) *tensor.Tensor[float64, B] {
	return nn.Zeros[B](shape, b)
}

// Ones initializes with ones.
func Ones[B tensor.Backend](shape tensor.Shape, b B) *tensor.Tensor[float64, B] {
	return nn.Ones[B](shape, b)
}

// TruncatedNormal returns a truncated-normal initializer.
func TruncatedNormal[B tensor.Backend](stddev float64, src rand.Source) Initializer[B] {
	return nn.TruncatedNormal[B](stddev, src)
}

// SetTraining switches a module into or out of training mode when
// supported.
func SetTraining[B tensor.Backend](m Module[B], training bool) {
	nn.SetTraining(m, training)
}
