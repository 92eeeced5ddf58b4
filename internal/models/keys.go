// Package models builds the pose-embedding architectures: a residual
// fully-connected base network, an output-head model with an optional
// bottleneck, and point / Gaussian-mixture embedders with rank dispatch over
// an optional instance dimension.
package models

import "fmt"

// Output keys of the embedding models.
const (
	// KeyEmbeddingMeans maps to component means, shape [..., C, D].
	KeyEmbeddingMeans = "embedding_means"
	// KeyEmbeddingStddevs maps to component stddevs, shape [..., C, D].
	KeyEmbeddingStddevs = "embedding_stddevs"
	// KeyEmbeddingSamples maps to component samples, shape [..., C, S, D].
	KeyEmbeddingSamples = "embedding_samples"
)

// Activation keys of the embedding models.
const (
	// KeyBaseActivations maps to the base network output, shape [..., H].
	KeyBaseActivations = "base_activations"
	// KeyBottleneckActivations maps to the bottleneck output when a
	// bottleneck layer is configured.
	KeyBottleneckActivations = "bottleneck_activations"
)

// EmbeddingType selects an embedder family.
type EmbeddingType string

// Supported embedding types.
const (
	EmbeddingTypePoint    EmbeddingType = "point"
	EmbeddingTypeGaussian EmbeddingType = "gaussian"
)

// componentKey scopes an output key to one embedding component.
func componentKey(key string, c int) string {
	return fmt.Sprintf("C%d/%s", c, key)
}
