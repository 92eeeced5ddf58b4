// Package models is the public API of the pose-embedding model builders.
//
// Example:
//
//	b := cpu.New()
//	embedder, err := models.NewEmbedder(models.EmbeddingTypeGaussian,
//	    featureDim, 4, 16, models.DefaultConfig[*cpu.Backend](), b)
//	if err != nil { ... }
//	outputs, activations, err := embedder.Embed(features)
package models

import (
	"golang.org/x/exp/rand"

	"github.com/b2220333/google-research/internal/models"
	"github.com/b2220333/google-research/internal/tensor"
)

// Output and activation keys.
const (
	KeyEmbeddingMeans        = models.KeyEmbeddingMeans
	KeyEmbeddingStddevs      = models.KeyEmbeddingStddevs
	KeyEmbeddingSamples      = models.KeyEmbeddingSamples
	KeyBaseActivations       = models.KeyBaseActivations
	KeyBottleneckActivations = models.KeyBottleneckActivations
)

// EmbeddingType selects an embedder family.
type EmbeddingType = models.EmbeddingType

// Supported embedding types.
const (
	EmbeddingTypePoint    EmbeddingType = models.EmbeddingTypePoint
	EmbeddingTypeGaussian EmbeddingType = models.EmbeddingTypeGaussian
)

// TensorMap holds named model outputs or activations.
type TensorMap[B tensor.Backend] = models.TensorMap[B]

// BaseConfig parameterizes the residual fully-connected base network.
type BaseConfig[B tensor.Backend] = models.BaseConfig[B]

// Config parameterizes a complete embedder.
type Config[B tensor.Backend] = models.Config[B]

// SimpleBase is the residual fully-connected base network.
type SimpleBase[B tensor.Backend] = models.SimpleBase[B]

// SimpleModel is the base network with named output heads.
type SimpleModel[B tensor.Backend] = models.SimpleModel[B]

// PointEmbedder produces deterministic coordinate embeddings.
type PointEmbedder[B tensor.Backend] = models.PointEmbedder[B]

// GaussianEmbedder produces Gaussian (mixture) embeddings.
type GaussianEmbedder[B tensor.Backend] = models.GaussianEmbedder[B]

// Embedder is the common interface of the embedding models.
type Embedder[B tensor.Backend] = models.Embedder[B]

// DefaultBaseConfig returns the standard base architecture.
func DefaultBaseConfig[B tensor.Backend]() BaseConfig[B] {
	return models.DefaultBaseConfig[B]()
}

// DefaultConfig returns an embedder config with the default base network.
func DefaultConfig[B tensor.Backend]() Config[B] {
	return models.DefaultConfig[B]()
}

// NewSimpleBase creates the base network.
func NewSimpleBase[B tensor.Backend](featureDim int, cfg BaseConfig[B], backend B) (*SimpleBase[B], error) {
	return models.NewSimpleBase(featureDim, cfg, backend)
}

// NewSimpleModel creates a model with named output heads.
func NewSimpleModel[B tensor.Backend](
	featureDim int,
	outputSizes map[string][]int,
	numBottleneckNodes int,
	cfg BaseConfig[B],
	backend B,
) (*SimpleModel[B], error) {
	return models.NewSimpleModel(featureDim, outputSizes, numBottleneckNodes, cfg, backend)
}

// NewPointEmbedder creates a point embedder.
func NewPointEmbedder[B tensor.Backend](
	featureDim, numComponents, embeddingSize int,
	cfg Config[B],
	backend B,
) (*PointEmbedder[B], error) {
	return models.NewPointEmbedder(featureDim, numComponents, embeddingSize, cfg, backend)
}

// NewGaussianEmbedder creates a Gaussian embedder.
func NewGaussianEmbedder[B tensor.Backend](
	featureDim, numComponents, embeddingSize int,
	cfg Config[B],
	backend B,
) (*GaussianEmbedder[B], error) {
	return models.NewGaussianEmbedder(featureDim, numComponents, embeddingSize, cfg, backend)
}

// NewEmbedder creates an embedder of the given type.
func NewEmbedder[B tensor.Backend](
	embeddingType EmbeddingType,
	featureDim, numComponents, embeddingSize int,
	cfg Config[B],
	backend B,
) (Embedder[B], error) {
	return models.NewEmbedder(embeddingType, featureDim, numComponents, embeddingSize, cfg, backend)
}

// SampleGaussians draws Monte Carlo samples via mean + stddev * eps.
func SampleGaussians[B tensor.Backend](
	means, stddevs *tensor.Tensor[float64, B],
	numSamples int,
	src rand.Source,
) *tensor.Tensor[float64, B] {
	return models.SampleGaussians(means, stddevs, numSamples, src)
}
