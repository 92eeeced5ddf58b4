package nn

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/b2220333/google-research/internal/tensor"
)

// Dropout zeroes each element with probability rate during training and
// rescales the survivors by 1/(1-rate), so expected activations match eval
// mode. Outside training mode (the default) it is the identity.
type Dropout[B tensor.Backend] struct {
	rate     float64
	training bool
	rng      *rand.Rand
}

// NewDropout creates a Dropout layer. A nil src uses the shared global
// source; pass a seeded source for reproducible masks.
func NewDropout[B tensor.Backend](rate float64, src rand.Source) *Dropout[B] {
	if rate < 0 || rate >= 1 {
		panic(fmt.Sprintf("NewDropout: rate %v outside [0, 1)", rate))
	}
	d := &Dropout[B]{rate: rate}
	if src != nil {
		d.rng = rand.New(src)
	}
	return d
}

// SetTraining enables or disables the dropout mask.
func (d *Dropout[B]) SetTraining(training bool) { d.training = training }

// Forward applies the dropout mask in training mode.
func (d *Dropout[B]) Forward(x *tensor.Tensor[float64, B]) *tensor.Tensor[float64, B] {
	if !d.training || d.rate <= 0 {
		return x
	}
	keep := 1 - d.rate
	out := x.Clone()
	data := out.Data()
	for i := range data {
		if d.uniform() < d.rate {
			data[i] = 0
		} else {
			data[i] /= keep
		}
	}
	return out
}

func (d *Dropout[B]) uniform() float64 {
	if d.rng != nil {
		return d.rng.Float64()
	}
	return rand.Float64()
}

// Parameters returns nil; dropout has no trainable parameters.
func (d *Dropout[B]) Parameters() []*Parameter[B] { return nil }
