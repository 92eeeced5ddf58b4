package nn_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/b2220333/google-research/internal/backend/cpu"
	"github.com/b2220333/google-research/internal/nn"
	"github.com/b2220333/google-research/internal/tensor"
)

func TestLinearForward(t *testing.T) {
	b := cpu.New()

	layer := nn.NewLinear(2, 2, b)
	// W = [[1, 3], [2, 4]], rows are input features.
	copy(layer.Weight().Tensor().Data(), []float64{1, 3, 2, 4})
	copy(layer.Bias().Tensor().Data(), []float64{0.5, 1})

	x, err := tensor.FromSlice([]float64{1, 1}, tensor.Shape{1, 2}, b)
	require.NoError(t, err)

	got := layer.Forward(x)
	assert.Equal(t, tensor.Shape{1, 2}, got.Shape())
	assert.InDeltaSlice(t, []float64{3.5, 8}, got.Data(), 1e-9)
}

func TestLinearForwardRank3(t *testing.T) {
	b := cpu.New()

	layer := nn.NewLinear(3, 5, b)
	x := tensor.Randn[float64](tensor.Shape{2, 4, 3}, b)

	got := layer.Forward(x)
	assert.Equal(t, tensor.Shape{2, 4, 5}, got.Shape())
}

func TestLinearForwardWrongFeatures(t *testing.T) {
	b := cpu.New()

	layer := nn.NewLinear(3, 5, b)
	x := tensor.Zeros[float64](tensor.Shape{2, 4}, b)
	assert.Panics(t, func() { layer.Forward(x) })
}

func TestLinearWeightMaxNorm(t *testing.T) {
	b := cpu.New()

	layer := nn.NewLinear(2, 2, b,
		nn.WithWeightMaxNorm[*cpu.Backend](1),
		nn.WithBiasInit[*cpu.Backend](nn.Zeros[*cpu.Backend]),
	)
	// ||W|| = 2, twice the allowed norm, so the effective weight halves.
	copy(layer.Weight().Tensor().Data(), []float64{1, 1, 1, 1})

	x, err := tensor.FromSlice([]float64{1, 0}, tensor.Shape{1, 2}, b)
	require.NoError(t, err)

	got := layer.Forward(x)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, got.Data(), 1e-9)

	// The stored parameter is not modified by clipping.
	assert.Equal(t, []float64{1, 1, 1, 1}, layer.Weight().Tensor().Data())
}

func TestLinearWeightMaxNormInactiveBelowBound(t *testing.T) {
	b := cpu.New()

	layer := nn.NewLinear(2, 1, b,
		nn.WithWeightMaxNorm[*cpu.Backend](10),
		nn.WithBiasInit[*cpu.Backend](nn.Zeros[*cpu.Backend]),
	)
	copy(layer.Weight().Tensor().Data(), []float64{3, 4})

	x, err := tensor.FromSlice([]float64{1, 1}, tensor.Shape{1, 2}, b)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{7}, layer.Forward(x).Data(), 1e-9)
}

func TestLinearCustomInit(t *testing.T) {
	b := cpu.New()

	layer := nn.NewLinear(4, 3, b,
		nn.WithWeightInit[*cpu.Backend](nn.Zeros[*cpu.Backend]),
		nn.WithBiasInit[*cpu.Backend](nn.Ones[*cpu.Backend]),
	)
	x := tensor.Randn[float64](tensor.Shape{2, 4}, b)

	got := layer.Forward(x)
	assert.Equal(t, []float64{1, 1, 1, 1, 1, 1}, got.Data())

	params := layer.Parameters()
	require.Len(t, params, 2)
	assert.Equal(t, "weight", params[0].Name())
	assert.Equal(t, "bias", params[1].Name())
}

func TestHeNormalBounds(t *testing.T) {
	b := cpu.New()

	w := nn.HeNormal[*cpu.Backend](tensor.Shape{100, 50}, b)
	assert.Equal(t, tensor.Shape{100, 50}, w.Shape())

	// Truncated at two stddevs with stddev = sqrt(2/100).
	bound := 2 * math.Sqrt(2.0/100)
	nonzero := 0
	for _, v := range w.Data() {
		assert.LessOrEqual(t, math.Abs(v), bound)
		if v != 0 {
			nonzero++
		}
	}
	assert.Greater(t, nonzero, 0)
}

func TestTruncatedNormalReproducible(t *testing.T) {
	b := cpu.New()

	init1 := nn.TruncatedNormal[*cpu.Backend](0.5, rand.NewSource(11))
	init2 := nn.TruncatedNormal[*cpu.Backend](0.5, rand.NewSource(11))
	assert.Equal(t, init1(tensor.Shape{8}, b).Data(), init2(tensor.Shape{8}, b).Data())
}

func TestBatchNormTraining(t *testing.T) {
	b := cpu.New()

	bn := nn.NewBatchNorm(2, b)
	bn.SetTraining(true)

	x, err := tensor.FromSlice([]float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	}, tensor.Shape{4, 2}, b)
	require.NoError(t, err)

	got := bn.Forward(x)
	require.Equal(t, tensor.Shape{4, 2}, got.Shape())

	// Per-feature batch mean should be ~0 after normalization.
	colMean := got.MeanDim(0, false)
	assert.InDelta(t, 0, colMean.Data()[0], 1e-9)
	assert.InDelta(t, 0, colMean.Data()[1], 1e-9)

	// Running statistics fold in the batch with momentum 0.99.
	assert.InDelta(t, 0.01*2.5, bn.RunningMean().Data()[0], 1e-9)
	assert.InDelta(t, 0.01*25, bn.RunningMean().Data()[1], 1e-9)
	assert.InDelta(t, 0.99*1+0.01*1.25, bn.RunningVar().Data()[0], 1e-9)
}

func TestBatchNormEvalUsesRunningStats(t *testing.T) {
	b := cpu.New()

	bn := nn.NewBatchNorm(3, b)
	x := tensor.Randn[float64](tensor.Shape{5, 3}, b)

	// Fresh running stats are mean 0 / var 1, so eval mode is x / sqrt(1+eps).
	got := bn.Forward(x)
	scale := 1 / math.Sqrt(1+nn.DefaultBatchNormEpsilon)
	for i, v := range x.Data() {
		assert.InDelta(t, v*scale, got.Data()[i], 1e-9)
	}
}

func TestBatchNormRank3(t *testing.T) {
	b := cpu.New()

	bn := nn.NewBatchNorm(4, b)
	bn.SetTraining(true)
	x := tensor.Randn[float64](tensor.Shape{2, 3, 4}, b)

	got := bn.Forward(x)
	assert.Equal(t, tensor.Shape{2, 3, 4}, got.Shape())
}

func TestDropoutEvalIsIdentity(t *testing.T) {
	b := cpu.New()

	d := nn.NewDropout[*cpu.Backend](0.5, rand.NewSource(3))
	x := tensor.Randn[float64](tensor.Shape{4, 4}, b)
	assert.Equal(t, x.Data(), d.Forward(x).Data())
}

func TestDropoutTraining(t *testing.T) {
	b := cpu.New()

	d := nn.NewDropout[*cpu.Backend](0.5, rand.NewSource(3))
	d.SetTraining(true)

	x := tensor.Ones[float64](tensor.Shape{1000}, b)
	got := d.Forward(x)

	zeros := 0
	for _, v := range got.Data() {
		switch v {
		case 0:
			zeros++
		case 2: // kept units scale by 1/(1-rate)
		default:
			t.Fatalf("unexpected dropout output %v", v)
		}
	}
	assert.Greater(t, zeros, 300)
	assert.Less(t, zeros, 700)

	// The input is untouched.
	assert.Equal(t, 1.0, x.At(0))
}

func TestDropoutRateValidation(t *testing.T) {
	assert.Panics(t, func() { nn.NewDropout[*cpu.Backend](1, nil) })
	assert.Panics(t, func() { nn.NewDropout[*cpu.Backend](-0.1, nil) })
}

func TestActivationModules(t *testing.T) {
	b := cpu.New()

	x, err := tensor.FromSlice([]float64{-1, 0, 2}, tensor.Shape{3}, b)
	require.NoError(t, err)

	relu := nn.NewReLU[*cpu.Backend]()
	assert.Equal(t, []float64{0, 0, 2}, relu.Forward(x).Data())
	assert.Empty(t, relu.Parameters())

	elu := nn.NewELU[*cpu.Backend]()
	got := elu.Forward(x).Data()
	assert.InDelta(t, math.Exp(-1)-1, got[0], 1e-9)
	assert.Equal(t, []float64{0, 2}, got[1:])
}

func TestSetTraining(t *testing.T) {
	b := cpu.New()

	bn := nn.NewBatchNorm(2, b)
	nn.SetTraining[*cpu.Backend](bn, true)

	// Training mode now normalizes with batch statistics.
	x, err := tensor.FromSlice([]float64{1, 1, 3, 3}, tensor.Shape{2, 2}, b)
	require.NoError(t, err)
	got := bn.Forward(x)
	assert.InDelta(t, 0, got.Data()[0]+got.Data()[2], 1e-9)

	// ReLU does not implement Trainable; SetTraining is a no-op.
	nn.SetTraining[*cpu.Backend](nn.NewReLU[*cpu.Backend](), true)
}
