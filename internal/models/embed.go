package models

import (
	"fmt"

	"github.com/b2220333/google-research/internal/nn"
	"github.com/b2220333/google-research/internal/tensor"
)

// Embedder is the common interface of the embedding models.
//
// Embed accepts input features of rank 2 [batch, feature_dim] or rank 3
// [batch, num_instances, feature_dim]. Rank-3 inputs run the same embedder
// (shared weights) once per instance along dimension 1 and restack every
// output and activation at dimension 1; other ranks return an error.
type Embedder[B tensor.Backend] interface {
	Embed(x *tensor.Tensor[float64, B]) (outputs, activations TensorMap[B], err error)
	SetTraining(training bool)
	Parameters() []*nn.Parameter[B]
}

// NewEmbedder creates an embedder of the given type.
func NewEmbedder[B tensor.Backend](
	embeddingType EmbeddingType,
	featureDim, numComponents, embeddingSize int,
	cfg Config[B],
	backend B,
) (Embedder[B], error) {
	switch embeddingType {
	case EmbeddingTypePoint:
		return NewPointEmbedder(featureDim, numComponents, embeddingSize, cfg, backend)
	case EmbeddingTypeGaussian:
		return NewGaussianEmbedder(featureDim, numComponents, embeddingSize, cfg, backend)
	default:
		return nil, fmt.Errorf("unsupported embedding type: %q", embeddingType)
	}
}

// forwardFunc is one rank-2 embedder pass.
type forwardFunc[B tensor.Backend] func(x *tensor.Tensor[float64, B]) (TensorMap[B], TensorMap[B])

// embed implements the shared rank dispatch over an embedder forward pass.
func embed[B tensor.Backend](forward forwardFunc[B], x *tensor.Tensor[float64, B]) (TensorMap[B], TensorMap[B], error) {
	switch x.Rank() {
	case 2:
		outputs, activations := forward(x)
		return outputs, activations, nil
	case 3:
		instances := x.Unstack(1)
		instanceOutputs := make([]TensorMap[B], len(instances))
		instanceActivations := make([]TensorMap[B], len(instances))
		for i, instance := range instances {
			instanceOutputs[i], instanceActivations[i] = forward(instance)
		}
		return restack(instanceOutputs), restack(instanceActivations), nil
	default:
		return nil, nil, fmt.Errorf("input features must have rank 2 or 3, got %d", x.Rank())
	}
}

// restack joins per-instance tensor maps back along dimension 1.
func restack[B tensor.Backend](maps []TensorMap[B]) TensorMap[B] {
	out := make(TensorMap[B], len(maps[0]))
	for key := range maps[0] {
		parts := make([]*tensor.Tensor[float64, B], len(maps))
		for i, m := range maps {
			parts[i] = m[key]
		}
		out[key] = tensor.Stack(parts, 1)
	}
	return out
}
