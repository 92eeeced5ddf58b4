package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/b2220333/google-research/internal/backend/cpu"
	"github.com/b2220333/google-research/internal/models"
	"github.com/b2220333/google-research/internal/nn"
	"github.com/b2220333/google-research/internal/tensor"
)

// smallBase keeps test networks tiny.
func smallBase() models.BaseConfig[*cpu.Backend] {
	return models.BaseConfig[*cpu.Backend]{
		NumHiddenNodes: 8,
		UseBatchNorm:   true,
		NumFCsPerBlock: 2,
		NumFCBlocks:    2,
	}
}

// constantBase makes forward passes fully deterministic: zero weights, unit
// biases, no normalization.
func constantBase() models.BaseConfig[*cpu.Backend] {
	cfg := smallBase()
	cfg.UseBatchNorm = false
	cfg.WeightInit = nn.Zeros[*cpu.Backend]
	cfg.BiasInit = nn.Ones[*cpu.Backend]
	return cfg
}

func TestSimpleBaseShapes(t *testing.T) {
	b := cpu.New()

	base, err := models.NewSimpleBase(6, smallBase(), b)
	require.NoError(t, err)
	assert.Equal(t, 6, base.FeatureDim())
	assert.Equal(t, 8, base.HiddenDim())

	got := base.Forward(tensor.Randn[float64](tensor.Shape{4, 6}, b))
	assert.Equal(t, tensor.Shape{4, 8}, got.Shape())

	got = base.Forward(tensor.Randn[float64](tensor.Shape{4, 3, 6}, b))
	assert.Equal(t, tensor.Shape{4, 3, 8}, got.Shape())
}

func TestSimpleBaseInvalidFeatureDim(t *testing.T) {
	b := cpu.New()

	_, err := models.NewSimpleBase(0, smallBase(), b)
	assert.Error(t, err)
}

func TestSimpleBaseResidualConnections(t *testing.T) {
	b := cpu.New()

	base, err := models.NewSimpleBase(6, constantBase(), b)
	require.NoError(t, err)

	// With zero weights and unit biases every layer outputs ones, so each of
	// the two residual blocks adds one on top of the input layer's ones.
	got := base.Forward(tensor.Randn[float64](tensor.Shape{2, 6}, b))
	for _, v := range got.Data() {
		assert.Equal(t, 3.0, v)
	}
}

func TestSimpleBaseParameterCount(t *testing.T) {
	b := cpu.New()

	base, err := models.NewSimpleBase(6, smallBase(), b)
	require.NoError(t, err)

	// 5 fc layers (input + 2 blocks * 2), each with weight, bias, gamma, beta.
	assert.Len(t, base.Parameters(), 5*4)
}

func TestSimpleModelForward(t *testing.T) {
	b := cpu.New()

	model, err := models.NewSimpleModel(6, map[string][]int{
		"alpha": {5},
		"beta":  {7},
	}, 0, smallBase(), b)
	require.NoError(t, err)

	outputs, activations := model.Forward(tensor.Randn[float64](tensor.Shape{4, 6}, b))
	require.Len(t, outputs, 2)
	assert.Equal(t, tensor.Shape{4, 5}, outputs["alpha"].Shape())
	assert.Equal(t, tensor.Shape{4, 7}, outputs["beta"].Shape())

	require.Len(t, activations, 1)
	assert.Equal(t, tensor.Shape{4, 8}, activations[models.KeyBaseActivations].Shape())
}

func TestSimpleModelBottleneck(t *testing.T) {
	b := cpu.New()

	model, err := models.NewSimpleModel(6, map[string][]int{"out": {5}}, 3, smallBase(), b)
	require.NoError(t, err)

	outputs, activations := model.Forward(tensor.Randn[float64](tensor.Shape{4, 6}, b))
	assert.Equal(t, tensor.Shape{4, 5}, outputs["out"].Shape())
	assert.Equal(t, tensor.Shape{4, 8}, activations[models.KeyBaseActivations].Shape())
	assert.Equal(t, tensor.Shape{4, 3}, activations[models.KeyBottleneckActivations].Shape())
}

func TestSimpleModelMultiDimHead(t *testing.T) {
	b := cpu.New()

	model, err := models.NewSimpleModel(6, map[string][]int{"points": {4, 3}}, 0, smallBase(), b)
	require.NoError(t, err)

	outputs, _ := model.Forward(tensor.Randn[float64](tensor.Shape{2, 6}, b))
	assert.Equal(t, tensor.Shape{2, 4, 3}, outputs["points"].Shape())
}

func TestSimpleModelValidation(t *testing.T) {
	b := cpu.New()

	_, err := models.NewSimpleModel(6, nil, 0, smallBase(), b)
	assert.Error(t, err)

	_, err = models.NewSimpleModel(6, map[string][]int{"out": {}}, 0, smallBase(), b)
	assert.Error(t, err)

	_, err = models.NewSimpleModel(6, map[string][]int{"out": {4, 0}}, 0, smallBase(), b)
	assert.Error(t, err)
}

func TestPointEmbedder(t *testing.T) {
	b := cpu.New()

	cfg := models.Config[*cpu.Backend]{Base: smallBase()}
	e, err := models.NewPointEmbedder(6, 3, 4, cfg, b)
	require.NoError(t, err)
	assert.Equal(t, 3, e.NumComponents())
	assert.Equal(t, 4, e.EmbeddingSize())

	outputs, activations, err := e.Embed(tensor.Randn[float64](tensor.Shape{5, 6}, b))
	require.NoError(t, err)

	require.Len(t, outputs, 1)
	assert.Equal(t, tensor.Shape{5, 3, 4}, outputs[models.KeyEmbeddingMeans].Shape())
	assert.Contains(t, activations, models.KeyBaseActivations)
	assert.NotEmpty(t, e.Parameters())
}

func TestGaussianEmbedder(t *testing.T) {
	b := cpu.New()

	cfg := models.Config[*cpu.Backend]{Base: smallBase(), NumSamples: 10, Seed: 42}
	e, err := models.NewGaussianEmbedder(6, 2, 4, cfg, b)
	require.NoError(t, err)
	assert.Equal(t, 10, e.NumSamples())

	outputs, _, err := e.Embed(tensor.Randn[float64](tensor.Shape{3, 6}, b))
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{3, 2, 4}, outputs[models.KeyEmbeddingMeans].Shape())
	assert.Equal(t, tensor.Shape{3, 2, 4}, outputs[models.KeyEmbeddingStddevs].Shape())
	assert.Equal(t, tensor.Shape{3, 2, 10, 4}, outputs[models.KeyEmbeddingSamples].Shape())

	// ELU(x) + 1 keeps stddevs strictly positive.
	for _, v := range outputs[models.KeyEmbeddingStddevs].Data() {
		assert.Greater(t, v, 0.0)
	}
}

func TestGaussianEmbedderNoSampling(t *testing.T) {
	b := cpu.New()

	cfg := models.Config[*cpu.Backend]{Base: smallBase()}
	e, err := models.NewGaussianEmbedder(6, 2, 4, cfg, b)
	require.NoError(t, err)

	outputs, _, err := e.Embed(tensor.Randn[float64](tensor.Shape{3, 6}, b))
	require.NoError(t, err)
	assert.NotContains(t, outputs, models.KeyEmbeddingSamples)
}

func TestGaussianEmbedderConstantStddev(t *testing.T) {
	b := cpu.New()

	cfg := models.Config[*cpu.Backend]{Base: constantBase()}
	e, err := models.NewGaussianEmbedder(6, 1, 4, cfg, b)
	require.NoError(t, err)

	outputs, _, err := e.Embed(tensor.Randn[float64](tensor.Shape{2, 6}, b))
	require.NoError(t, err)

	// Raw head output is the unit bias, so stddev = elu(1) + 1 = 2.
	for _, v := range outputs[models.KeyEmbeddingStddevs].Data() {
		assert.Equal(t, 2.0, v)
	}
	for _, v := range outputs[models.KeyEmbeddingMeans].Data() {
		assert.Equal(t, 1.0, v)
	}
}

func TestSampleGaussians(t *testing.T) {
	b := cpu.New()

	means := tensor.Randn[float64](tensor.Shape{3, 4}, b)
	stddevs := tensor.Ones[float64](tensor.Shape{3, 4}, b)

	got := models.SampleGaussians(means, stddevs, 5, rand.NewSource(9))
	assert.Equal(t, tensor.Shape{3, 5, 4}, got.Shape())

	again := models.SampleGaussians(means, stddevs, 5, rand.NewSource(9))
	assert.Equal(t, got.Data(), again.Data())
}

func TestSampleGaussiansZeroStddev(t *testing.T) {
	b := cpu.New()

	means, err := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2}, b)
	require.NoError(t, err)
	stddevs := tensor.Zeros[float64](tensor.Shape{2, 2}, b)

	got := models.SampleGaussians(means, stddevs, 3, nil)
	require.Equal(t, tensor.Shape{2, 3, 2}, got.Shape())
	for i := 0; i < 2; i++ {
		for s := 0; s < 3; s++ {
			assert.Equal(t, means.At(i, 0), got.At(i, s, 0))
			assert.Equal(t, means.At(i, 1), got.At(i, s, 1))
		}
	}
}

func TestSampleGaussiansValidation(t *testing.T) {
	b := cpu.New()

	means := tensor.Zeros[float64](tensor.Shape{2, 2}, b)
	assert.Panics(t, func() {
		models.SampleGaussians(means, tensor.Zeros[float64](tensor.Shape{2, 3}, b), 1, nil)
	})
	assert.Panics(t, func() {
		models.SampleGaussians(means, means, 0, nil)
	})
}

func TestNewEmbedder(t *testing.T) {
	b := cpu.New()
	cfg := models.Config[*cpu.Backend]{Base: smallBase()}

	e, err := models.NewEmbedder(models.EmbeddingTypePoint, 6, 1, 4, cfg, b)
	require.NoError(t, err)
	assert.IsType(t, &models.PointEmbedder[*cpu.Backend]{}, e)

	e, err = models.NewEmbedder(models.EmbeddingTypeGaussian, 6, 1, 4, cfg, b)
	require.NoError(t, err)
	assert.IsType(t, &models.GaussianEmbedder[*cpu.Backend]{}, e)

	_, err = models.NewEmbedder("laplacian", 6, 1, 4, cfg, b)
	assert.ErrorContains(t, err, "laplacian")
}

func TestEmbedRank3(t *testing.T) {
	b := cpu.New()

	cfg := models.Config[*cpu.Backend]{Base: smallBase(), NumBottleneckNodes: 3}
	e, err := models.NewPointEmbedder(6, 2, 4, cfg, b)
	require.NoError(t, err)

	outputs, activations, err := e.Embed(tensor.Randn[float64](tensor.Shape{5, 3, 6}, b))
	require.NoError(t, err)

	// The instance dimension is preserved in every output and activation.
	assert.Equal(t, tensor.Shape{5, 3, 2, 4}, outputs[models.KeyEmbeddingMeans].Shape())
	assert.Equal(t, tensor.Shape{5, 3, 8}, activations[models.KeyBaseActivations].Shape())
	assert.Equal(t, tensor.Shape{5, 3, 3}, activations[models.KeyBottleneckActivations].Shape())
}

func TestEmbedRank3SharesWeights(t *testing.T) {
	b := cpu.New()

	cfg := models.Config[*cpu.Backend]{Base: smallBase()}
	cfg.Base.UseBatchNorm = false
	e, err := models.NewPointEmbedder(4, 1, 3, cfg, b)
	require.NoError(t, err)

	// Two identical instances per example must embed identically.
	instance := []float64{1, -2, 0.5, 3}
	x, err := tensor.FromSlice(append(append([]float64(nil), instance...), instance...), tensor.Shape{1, 2, 4}, b)
	require.NoError(t, err)

	outputs, _, err := e.Embed(x)
	require.NoError(t, err)

	means := outputs[models.KeyEmbeddingMeans]
	require.Equal(t, tensor.Shape{1, 2, 1, 3}, means.Shape())
	assert.Equal(t, means.Data()[:3], means.Data()[3:])
}

func TestEmbedRejectsOtherRanks(t *testing.T) {
	b := cpu.New()

	cfg := models.Config[*cpu.Backend]{Base: smallBase()}
	e, err := models.NewPointEmbedder(6, 1, 4, cfg, b)
	require.NoError(t, err)

	_, _, err = e.Embed(tensor.Randn[float64](tensor.Shape{6}, b))
	assert.ErrorContains(t, err, "rank 2 or 3")

	_, _, err = e.Embed(tensor.Randn[float64](tensor.Shape{2, 2, 2, 6}, b))
	assert.ErrorContains(t, err, "rank 2 or 3")
}

func TestSetTrainingPropagates(t *testing.T) {
	b := cpu.New()

	cfg := models.Config[*cpu.Backend]{Base: smallBase()}
	e, err := models.NewPointEmbedder(4, 1, 3, cfg, b)
	require.NoError(t, err)

	x := tensor.Randn[float64](tensor.Shape{4, 4}, b)

	evalOut, _, err := e.Embed(x)
	require.NoError(t, err)

	// Training mode switches batch norm to batch statistics, which changes
	// the constant hidden activations and therefore the outputs.
	e.SetTraining(true)
	trainOut, _, err := e.Embed(x)
	require.NoError(t, err)

	assert.NotEqual(t,
		evalOut[models.KeyEmbeddingMeans].Data(),
		trainOut[models.KeyEmbeddingMeans].Data(),
	)
}
