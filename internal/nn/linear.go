package nn

import (
	"fmt"
	"math"

	"github.com/b2220333/google-research/internal/tensor"
)

// Linear is a fully connected layer computing y = x @ W + b with weight
// shape [in_features, out_features].
//
// Inputs may have any rank >= 1 as long as the last dimension matches
// in_features; leading dimensions are preserved.
//
// When a positive max norm is configured, the effective weight is clipped to
// that Frobenius norm at forward time: W' = W * maxNorm / ||W|| whenever
// ||W|| exceeds maxNorm. The stored parameter is left untouched.
type Linear[B tensor.Backend] struct {
	inFeatures    int
	outFeatures   int
	weightMaxNorm float64
	weight        *Parameter[B]
	bias          *Parameter[B]
	backend       B
}

// LinearOption configures a Linear layer.
type LinearOption[B tensor.Backend] func(*linearOptions[B])

type linearOptions[B tensor.Backend] struct {
	weightMaxNorm float64
	weightInit    Initializer[B]
	biasInit      Initializer[B]
}

// WithWeightMaxNorm clips the effective weight to the given Frobenius norm
// at forward time. Non-positive values disable clipping.
func WithWeightMaxNorm[B tensor.Backend](maxNorm float64) LinearOption[B] {
	return func(o *linearOptions[B]) { o.weightMaxNorm = maxNorm }
}

// WithWeightInit overrides the weight initializer (default He normal).
func WithWeightInit[B tensor.Backend](init Initializer[B]) LinearOption[B] {
	return func(o *linearOptions[B]) { o.weightInit = init }
}

// WithBiasInit overrides the bias initializer (default He normal).
func WithBiasInit[B tensor.Backend](init Initializer[B]) LinearOption[B] {
	return func(o *linearOptions[B]) { o.biasInit = init }
}

// NewLinear creates a Linear layer. Both weight and bias default to
// He-normal initialization.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B, opts ...LinearOption[B]) *Linear[B] {
	o := linearOptions[B]{
		weightInit: HeNormal[B],
		biasInit:   HeNormal[B],
	}
	for _, opt := range opts {
		opt(&o)
	}
	weight := o.weightInit(tensor.Shape{inFeatures, outFeatures}, backend)
	bias := o.biasInit(tensor.Shape{outFeatures}, backend)
	return &Linear[B]{
		inFeatures:    inFeatures,
		outFeatures:   outFeatures,
		weightMaxNorm: o.weightMaxNorm,
		weight:        NewParameter("weight", weight),
		bias:          NewParameter("bias", bias),
		backend:       backend,
	}
}

// Forward computes y = x @ W + b for input shape [..., in_features].
func (l *Linear[B]) Forward(x *tensor.Tensor[float64, B]) *tensor.Tensor[float64, B] {
	shape := x.Shape()
	if len(shape) < 1 || shape[len(shape)-1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input shape [..., %d], got %v", l.inFeatures, shape))
	}
	return x.MatMul(l.effectiveWeight()).Add(l.bias.Tensor())
}

// effectiveWeight applies max-norm clipping when configured.
func (l *Linear[B]) effectiveWeight() *tensor.Tensor[float64, B] {
	w := l.weight.Tensor()
	if l.weightMaxNorm <= 0 {
		return w
	}
	norm := math.Sqrt(w.Mul(w).Sum().Item())
	if norm <= l.weightMaxNorm {
		return w
	}
	return w.MulScalar(l.weightMaxNorm / norm)
}

// Parameters returns the weight and bias.
func (l *Linear[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.weight, l.bias}
}

// Weight returns the weight parameter, shaped [in_features, out_features].
func (l *Linear[B]) Weight() *Parameter[B] { return l.weight }

// Bias returns the bias parameter, shaped [out_features].
func (l *Linear[B]) Bias() *Parameter[B] { return l.bias }

// InFeatures returns the input feature count.
func (l *Linear[B]) InFeatures() int { return l.inFeatures }

// OutFeatures returns the output feature count.
func (l *Linear[B]) OutFeatures() int { return l.outFeatures }
