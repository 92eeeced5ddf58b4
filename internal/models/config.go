package models

import (
	"github.com/b2220333/google-research/internal/nn"
	"github.com/b2220333/google-research/internal/tensor"
)

// BaseConfig parameterizes the residual fully-connected base network.
//
// Start from DefaultBaseConfig; zero-valued counts are normalized back to
// the defaults. Dropout and max-norm clipping default to off, which differs
// from the simple-baseline paper on purpose.
type BaseConfig[B tensor.Backend] struct {
	// NumHiddenNodes is the width of every fully-connected layer.
	NumHiddenNodes int
	// WeightMaxNorm clips effective linear weights to this Frobenius norm
	// when positive.
	WeightMaxNorm float64
	// UseBatchNorm inserts batch normalization after each hidden linear
	// layer.
	UseBatchNorm bool
	// DropoutRate drops hidden activations during training when positive.
	DropoutRate float64
	// NumFCsPerBlock is the number of fully-connected layers per residual
	// block.
	NumFCsPerBlock int
	// NumFCBlocks is the number of residual blocks.
	NumFCBlocks int
	// WeightInit and BiasInit initialize linear layers (default He normal).
	WeightInit nn.Initializer[B]
	BiasInit   nn.Initializer[B]
}

// DefaultBaseConfig returns the standard base architecture: 1024-wide
// layers, two blocks of two layers, batch norm on, dropout and weight
// clipping off.
func DefaultBaseConfig[B tensor.Backend]() BaseConfig[B] {
	return BaseConfig[B]{
		NumHiddenNodes: 1024,
		UseBatchNorm:   true,
		NumFCsPerBlock: 2,
		NumFCBlocks:    2,
	}
}

// normalized fills zero-valued fields with their defaults.
func (c BaseConfig[B]) normalized() BaseConfig[B] {
	if c.NumHiddenNodes == 0 {
		c.NumHiddenNodes = 1024
	}
	if c.NumFCsPerBlock == 0 {
		c.NumFCsPerBlock = 2
	}
	if c.NumFCBlocks == 0 {
		c.NumFCBlocks = 2
	}
	if c.WeightInit == nil {
		c.WeightInit = nn.HeNormal[B]
	}
	if c.BiasInit == nil {
		c.BiasInit = nn.HeNormal[B]
	}
	return c
}

// linearOptions translates the config into Linear layer options.
func (c BaseConfig[B]) linearOptions() []nn.LinearOption[B] {
	return []nn.LinearOption[B]{
		nn.WithWeightMaxNorm[B](c.WeightMaxNorm),
		nn.WithWeightInit[B](c.WeightInit),
		nn.WithBiasInit[B](c.BiasInit),
	}
}

// Config parameterizes a complete embedder.
type Config[B tensor.Backend] struct {
	// Base configures the shared fully-connected base network.
	Base BaseConfig[B]
	// NumBottleneckNodes inserts a bottleneck linear layer before the
	// output heads when positive.
	NumBottleneckNodes int
	// NumSamples is the Monte Carlo sample count per Gaussian component.
	// Non-positive skips sampling. Ignored by point embedders.
	NumSamples int
	// Seed seeds Gaussian sampling when non-zero.
	Seed uint64
}

// DefaultConfig returns an embedder config with the default base network,
// no bottleneck, and sampling off.
func DefaultConfig[B tensor.Backend]() Config[B] {
	return Config[B]{Base: DefaultBaseConfig[B]()}
}
