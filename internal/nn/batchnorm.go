package nn

import (
	"fmt"

	"github.com/b2220333/google-research/internal/tensor"
)

// Batch-norm defaults, matching tf.layers.batch_normalization.
const (
	DefaultBatchNormMomentum = 0.99
	DefaultBatchNormEpsilon  = 1e-3
)

// BatchNorm normalizes the last (feature) dimension across all leading
// dimensions, with learnable per-feature scale and shift.
//
// In training mode the batch statistics are used and folded into running
// estimates; in eval mode the running estimates are used. New layers start
// in eval mode.
type BatchNorm[B tensor.Backend] struct {
	numFeatures int
	momentum    float64
	epsilon     float64
	gamma       *Parameter[B]
	beta        *Parameter[B]
	runningMean *tensor.Tensor[float64, B]
	runningVar  *tensor.Tensor[float64, B]
	training    bool
	backend     B
}

// NewBatchNorm creates a BatchNorm layer over numFeatures features with the
// TF default momentum and epsilon. Gamma starts at ones, beta at zeros,
// running statistics at mean 0 / variance 1.
func NewBatchNorm[B tensor.Backend](numFeatures int, backend B) *BatchNorm[B] {
	shape := tensor.Shape{numFeatures}
	return &BatchNorm[B]{
		numFeatures: numFeatures,
		momentum:    DefaultBatchNormMomentum,
		epsilon:     DefaultBatchNormEpsilon,
		gamma:       NewParameter("gamma", tensor.Ones[float64](shape, backend)),
		beta:        NewParameter("beta", tensor.Zeros[float64](shape, backend)),
		runningMean: tensor.Zeros[float64](shape, backend),
		runningVar:  tensor.Ones[float64](shape, backend),
		backend:     backend,
	}
}

// SetTraining switches between batch statistics and running statistics.
func (bn *BatchNorm[B]) SetTraining(training bool) { bn.training = training }

// Forward normalizes input shape [..., num_features].
func (bn *BatchNorm[B]) Forward(x *tensor.Tensor[float64, B]) *tensor.Tensor[float64, B] {
	shape := x.Shape()
	if len(shape) < 1 || shape[len(shape)-1] != bn.numFeatures {
		panic(fmt.Sprintf("BatchNorm.Forward: expected input shape [..., %d], got %v", bn.numFeatures, shape))
	}

	mean, variance := bn.runningMean, bn.runningVar
	if bn.training {
		flat := x.Reshape(-1, bn.numFeatures)
		mean = flat.MeanDim(0, false)
		centered := flat.Sub(mean)
		variance = centered.Mul(centered).MeanDim(0, false)
		bn.updateRunning(mean, variance)
	}

	normalized := x.Sub(mean).Div(variance.AddScalar(bn.epsilon).Sqrt())
	return normalized.Mul(bn.gamma.Tensor()).Add(bn.beta.Tensor())
}

// updateRunning folds batch statistics into the running estimates:
// running = momentum * running + (1 - momentum) * batch.
func (bn *BatchNorm[B]) updateRunning(mean, variance *tensor.Tensor[float64, B]) {
	bn.runningMean = bn.runningMean.MulScalar(bn.momentum).Add(mean.MulScalar(1 - bn.momentum))
	bn.runningVar = bn.runningVar.MulScalar(bn.momentum).Add(variance.MulScalar(1 - bn.momentum))
}

// Parameters returns gamma and beta. Running statistics are not trainable.
func (bn *BatchNorm[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{bn.gamma, bn.beta}
}

// RunningMean returns the running mean estimate, shaped [num_features].
func (bn *BatchNorm[B]) RunningMean() *tensor.Tensor[float64, B] { return bn.runningMean }

// RunningVar returns the running variance estimate, shaped [num_features].
func (bn *BatchNorm[B]) RunningVar() *tensor.Tensor[float64, B] { return bn.runningVar }
