package models

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/b2220333/google-research/internal/tensor"
)

// SampleGaussians draws numSamples Monte Carlo samples per distribution via
// the reparameterization mean + stddev * eps with eps ~ N(0, 1).
//
// means and stddevs are shaped [..., D]; the result is [..., S, D]. A nil
// src uses the shared global source.
func SampleGaussians[B tensor.Backend](
	means, stddevs *tensor.Tensor[float64, B],
	numSamples int,
	src rand.Source,
) *tensor.Tensor[float64, B] {
	if !means.Shape().Equal(stddevs.Shape()) {
		panic(fmt.Sprintf("SampleGaussians: means shape %v != stddevs shape %v", means.Shape(), stddevs.Shape()))
	}
	if numSamples <= 0 {
		panic(fmt.Sprintf("SampleGaussians: sample count must be positive, got %d", numSamples))
	}
	rank := means.Rank()
	shape := means.Shape()
	epsShape := append(shape[:rank-1].Clone(), numSamples, shape[rank-1])
	eps := tensor.RandnFrom[float64](epsShape, src, means.Backend())

	m := means.Unsqueeze(rank - 1)   // [..., 1, D]
	s := stddevs.Unsqueeze(rank - 1) // [..., 1, D]
	return m.Add(s.Mul(eps))
}
