package models

import (
	"golang.org/x/exp/rand"

	"github.com/b2220333/google-research/internal/nn"
	"github.com/b2220333/google-research/internal/tensor"
)

// GaussianEmbedder produces Gaussian (mixture) embeddings: one mean and
// stddev vector per component, plus optional Monte Carlo samples.
//
// Stddev heads go through ELU(x) + 1 so stddevs are strictly positive.
type GaussianEmbedder[B tensor.Backend] struct {
	model         *SimpleModel[B]
	numComponents int
	embeddingSize int
	numSamples    int
	src           rand.Source
}

// NewGaussianEmbedder creates a Gaussian embedder. cfg.NumSamples > 0
// enables sampling; cfg.Seed makes the samples reproducible.
func NewGaussianEmbedder[B tensor.Backend](
	featureDim, numComponents, embeddingSize int,
	cfg Config[B],
	backend B,
) (*GaussianEmbedder[B], error) {
	outputSizes := make(map[string][]int, 2*numComponents)
	for c := 0; c < numComponents; c++ {
		outputSizes[componentKey(KeyEmbeddingMeans, c)] = []int{embeddingSize}
		outputSizes[componentKey(KeyEmbeddingStddevs, c)] = []int{embeddingSize}
	}
	model, err := NewSimpleModel(featureDim, outputSizes, cfg.NumBottleneckNodes, cfg.Base, backend)
	if err != nil {
		return nil, err
	}
	e := &GaussianEmbedder[B]{
		model:         model,
		numComponents: numComponents,
		embeddingSize: embeddingSize,
		numSamples:    cfg.NumSamples,
	}
	if cfg.Seed != 0 {
		e.src = rand.NewSource(cfg.Seed)
	}
	return e, nil
}

// forward runs the embedder on one batch of features [..., feature_dim].
//
// Outputs: KeyEmbeddingMeans and KeyEmbeddingStddevs [..., C, D], plus
// KeyEmbeddingSamples [..., C, S, D] when sampling is enabled.
func (e *GaussianEmbedder[B]) forward(x *tensor.Tensor[float64, B]) (TensorMap[B], TensorMap[B]) {
	componentOutputs, activations := e.model.Forward(x)

	means := make([]*tensor.Tensor[float64, B], e.numComponents)
	stddevs := make([]*tensor.Tensor[float64, B], e.numComponents)
	var samples []*tensor.Tensor[float64, B]
	if e.numSamples > 0 {
		samples = make([]*tensor.Tensor[float64, B], e.numComponents)
	}

	for c := 0; c < e.numComponents; c++ {
		means[c] = componentOutputs[componentKey(KeyEmbeddingMeans, c)]
		stddevs[c] = componentOutputs[componentKey(KeyEmbeddingStddevs, c)].Elu().AddScalar(1)
		if e.numSamples > 0 {
			samples[c] = SampleGaussians(means[c], stddevs[c], e.numSamples, e.src)
		}
	}

	outputs := TensorMap[B]{
		KeyEmbeddingMeans:   tensor.Stack(means, -2),
		KeyEmbeddingStddevs: tensor.Stack(stddevs, -2),
	}
	if e.numSamples > 0 {
		outputs[KeyEmbeddingSamples] = tensor.Stack(samples, -3)
	}
	return outputs, activations
}

// Embed runs the embedder with rank dispatch; see Embed for the contract.
func (e *GaussianEmbedder[B]) Embed(x *tensor.Tensor[float64, B]) (TensorMap[B], TensorMap[B], error) {
	return embed[B](e.forward, x)
}

// SetTraining switches batch-norm and dropout behavior.
func (e *GaussianEmbedder[B]) SetTraining(training bool) { e.model.SetTraining(training) }

// Parameters returns all trainable parameters.
func (e *GaussianEmbedder[B]) Parameters() []*nn.Parameter[B] { return e.model.Parameters() }

// NumComponents returns the number of mixture components.
func (e *GaussianEmbedder[B]) NumComponents() int { return e.numComponents }

// EmbeddingSize returns the embedding dimensionality.
func (e *GaussianEmbedder[B]) EmbeddingSize() int { return e.embeddingSize }

// NumSamples returns the configured sample count.
func (e *GaussianEmbedder[B]) NumSamples() int { return e.numSamples }
