package nn

import (
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/b2220333/google-research/internal/tensor"
)

// Initializer produces an initialized tensor of the given shape.
type Initializer[B tensor.Backend] func(shape tensor.Shape, b B) *tensor.Tensor[float64, B]

// HeNormal initializes with a truncated normal of stddev sqrt(2 / fan_in),
// the default weight and bias initializer of the embedding models.
//
// Fan-in follows the TF convention: the second-to-last dimension for
// matrices, the single dimension for vectors.
func HeNormal[B tensor.Backend](shape tensor.Shape, b B) *tensor.Tensor[float64, B] {
	fanIn := shape[len(shape)-1]
	if len(shape) >= 2 {
		fanIn = shape[len(shape)-2]
	}
	return TruncatedNormal[B](math.Sqrt(2/float64(fanIn)), nil)(shape, b)
}

// Zeros initializes with zeros.
func Zeros[B tensor.Backend](shape tensor.Shape, b B) *tensor.Tensor[float64, B] {
	return tensor.Zeros[float64](shape, b)
}

// Ones initializes with ones.
func Ones[B tensor.Backend](shape tensor.Shape, b B) *tensor.Tensor[float64, B] {
	return tensor.Ones[float64](shape, b)
}

// TruncatedNormal returns an initializer drawing from N(0, stddev²) with
// values beyond two standard deviations redrawn. A nil src uses the shared
// global source.
func TruncatedNormal[B tensor.Backend](stddev float64, src rand.Source) Initializer[B] {
	return func(shape tensor.Shape, b B) *tensor.Tensor[float64, B] {
		t := tensor.Zeros[float64](shape, b)
		dist := distuv.Normal{Mu: 0, Sigma: stddev, Src: src}
		data := t.Data()
		for i := range data {
			v := dist.Rand()
			for math.Abs(v) > 2*stddev {
				v = dist.Rand()
			}
			data[i] = v
		}
		return t
	}
}
