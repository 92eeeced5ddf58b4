package models

import (
	"fmt"

	"github.com/b2220333/google-research/internal/nn"
	"github.com/b2220333/google-research/internal/tensor"
)

// fcLayer is one hidden unit of the base network:
// Linear -> optional BatchNorm -> ReLU -> Dropout.
type fcLayer[B tensor.Backend] struct {
	linear  *nn.Linear[B]
	norm    *nn.BatchNorm[B]
	relu    *nn.ReLU[B]
	dropout *nn.Dropout[B]
}

func newFCLayer[B tensor.Backend](inFeatures int, cfg BaseConfig[B], backend B) *fcLayer[B] {
	l := &fcLayer[B]{
		linear: nn.NewLinear(inFeatures, cfg.NumHiddenNodes, backend, cfg.linearOptions()...),
		relu:   nn.NewReLU[B](),
	}
	if cfg.UseBatchNorm {
		l.norm = nn.NewBatchNorm(cfg.NumHiddenNodes, backend)
	}
	if cfg.DropoutRate > 0 {
		l.dropout = nn.NewDropout[B](cfg.DropoutRate, nil)
	}
	return l
}

func (l *fcLayer[B]) forward(x *tensor.Tensor[float64, B]) *tensor.Tensor[float64, B] {
	net := l.linear.Forward(x)
	if l.norm != nil {
		net = l.norm.Forward(net)
	}
	net = l.relu.Forward(net)
	if l.dropout != nil {
		net = l.dropout.Forward(net)
	}
	return net
}

func (l *fcLayer[B]) setTraining(training bool) {
	if l.norm != nil {
		l.norm.SetTraining(training)
	}
	if l.dropout != nil {
		l.dropout.SetTraining(training)
	}
}

func (l *fcLayer[B]) parameters() []*nn.Parameter[B] {
	params := l.linear.Parameters()
	if l.norm != nil {
		params = append(params, l.norm.Parameters()...)
	}
	return params
}

// fcBlock is a residual block of fully-connected layers: the input is added
// back to the output of the layer stack.
type fcBlock[B tensor.Backend] struct {
	layers []*fcLayer[B]
}

func newFCBlock[B tensor.Backend](cfg BaseConfig[B], backend B) *fcBlock[B] {
	layers := make([]*fcLayer[B], cfg.NumFCsPerBlock)
	for i := range layers {
		layers[i] = newFCLayer(cfg.NumHiddenNodes, cfg, backend)
	}
	return &fcBlock[B]{layers: layers}
}

func (b *fcBlock[B]) forward(x *tensor.Tensor[float64, B]) *tensor.Tensor[float64, B] {
	net := x
	for _, l := range b.layers {
		net = l.forward(net)
	}
	return net.Add(x)
}

// SimpleBase is the residual fully-connected base network of the
// simple-baseline architecture: an input layer projecting features to the
// hidden width, followed by residual blocks.
//
// Reference: Martinez et al., A Simple Yet Effective Baseline for 3D Human
// Pose Estimation, https://arxiv.org/pdf/1705.03098.pdf.
type SimpleBase[B tensor.Backend] struct {
	cfg        BaseConfig[B]
	featureDim int
	inputLayer *fcLayer[B]
	blocks     []*fcBlock[B]
}

// NewSimpleBase creates the base network for inputs with featureDim
// features.
func NewSimpleBase[B tensor.Backend](featureDim int, cfg BaseConfig[B], backend B) (*SimpleBase[B], error) {
	if featureDim <= 0 {
		return nil, fmt.Errorf("new simple base: feature dimension must be positive, got %d", featureDim)
	}
	cfg = cfg.normalized()
	base := &SimpleBase[B]{
		cfg:        cfg,
		featureDim: featureDim,
		inputLayer: newFCLayer(featureDim, cfg, backend),
		blocks:     make([]*fcBlock[B], cfg.NumFCBlocks),
	}
	for i := range base.blocks {
		base.blocks[i] = newFCBlock(cfg, backend)
	}
	return base, nil
}

// Forward maps input features [..., feature_dim] to base activations
// [..., num_hidden_nodes].
func (s *SimpleBase[B]) Forward(x *tensor.Tensor[float64, B]) *tensor.Tensor[float64, B] {
	net := s.inputLayer.forward(x)
	for _, block := range s.blocks {
		net = block.forward(net)
	}
	return net
}

// SetTraining switches batch-norm and dropout behavior in all layers.
func (s *SimpleBase[B]) SetTraining(training bool) {
	s.inputLayer.setTraining(training)
	for _, block := range s.blocks {
		for _, l := range block.layers {
			l.setTraining(training)
		}
	}
}

// Parameters returns all trainable parameters of the base network.
func (s *SimpleBase[B]) Parameters() []*nn.Parameter[B] {
	params := s.inputLayer.parameters()
	for _, block := range s.blocks {
		for _, l := range block.layers {
			params = append(params, l.parameters()...)
		}
	}
	return params
}

// FeatureDim returns the expected input feature dimension.
func (s *SimpleBase[B]) FeatureDim() int { return s.featureDim }

// HiddenDim returns the base output width.
func (s *SimpleBase[B]) HiddenDim() int { return s.cfg.NumHiddenNodes }
