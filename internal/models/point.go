package models

import (
	"github.com/b2220333/google-research/internal/nn"
	"github.com/b2220333/google-research/internal/tensor"
)

// PointEmbedder produces deterministic coordinate embeddings: one mean
// vector per embedding component.
type PointEmbedder[B tensor.Backend] struct {
	model         *SimpleModel[B]
	numComponents int
	embeddingSize int
}

// NewPointEmbedder creates a point embedder with numComponents components
// of embeddingSize dimensions each.
func NewPointEmbedder[B tensor.Backend](
	featureDim, numComponents, embeddingSize int,
	cfg Config[B],
	backend B,
) (*PointEmbedder[B], error) {
	outputSizes := make(map[string][]int, numComponents)
	for c := 0; c < numComponents; c++ {
		outputSizes[componentKey(KeyEmbeddingMeans, c)] = []int{embeddingSize}
	}
	model, err := NewSimpleModel(featureDim, outputSizes, cfg.NumBottleneckNodes, cfg.Base, backend)
	if err != nil {
		return nil, err
	}
	return &PointEmbedder[B]{
		model:         model,
		numComponents: numComponents,
		embeddingSize: embeddingSize,
	}, nil
}

// forward runs the embedder on one batch of features [..., feature_dim] and
// stacks the per-component heads into KeyEmbeddingMeans [..., C, D].
func (e *PointEmbedder[B]) forward(x *tensor.Tensor[float64, B]) (TensorMap[B], TensorMap[B]) {
	componentOutputs, activations := e.model.Forward(x)

	means := make([]*tensor.Tensor[float64, B], e.numComponents)
	for c := 0; c < e.numComponents; c++ {
		means[c] = componentOutputs[componentKey(KeyEmbeddingMeans, c)]
	}
	outputs := TensorMap[B]{
		KeyEmbeddingMeans: tensor.Stack(means, -2),
	}
	return outputs, activations
}

// Embed runs the embedder with rank dispatch; see Embed for the contract.
func (e *PointEmbedder[B]) Embed(x *tensor.Tensor[float64, B]) (TensorMap[B], TensorMap[B], error) {
	return embed[B](e.forward, x)
}

// SetTraining switches batch-norm and dropout behavior.
func (e *PointEmbedder[B]) SetTraining(training bool) { e.model.SetTraining(training) }

// Parameters returns all trainable parameters.
func (e *PointEmbedder[B]) Parameters() []*nn.Parameter[B] { return e.model.Parameters() }

// NumComponents returns the number of embedding components.
func (e *PointEmbedder[B]) NumComponents() int { return e.numComponents }

// EmbeddingSize returns the embedding dimensionality.
func (e *PointEmbedder[B]) EmbeddingSize() int { return e.embeddingSize }
