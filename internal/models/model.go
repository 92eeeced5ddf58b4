package models

import (
	"fmt"
	"sort"

	"github.com/b2220333/google-research/internal/nn"
	"github.com/b2220333/google-research/internal/tensor"
)

// TensorMap holds named model outputs or activations.
type TensorMap[B tensor.Backend] map[string]*tensor.Tensor[float64, B]

// SimpleModel is the base network with named output heads: base ->
// optional bottleneck linear layer -> one linear head per output name.
//
// Head sizes may be multi-dimensional; the head projects to the flattened
// size and the output's last dimension is reshaped back into the size dims.
type SimpleModel[B tensor.Backend] struct {
	base       *SimpleBase[B]
	bottleneck *nn.Linear[B]
	headNames  []string
	heads      map[string]*nn.Linear[B]
	headSizes  map[string][]int
}

// NewSimpleModel creates a model for inputs with featureDim features and
// the given output head sizes. NumBottleneckNodes > 0 inserts a
// dimensionality-reduction linear layer (no norm or activation) shared by
// all heads.
func NewSimpleModel[B tensor.Backend](
	featureDim int,
	outputSizes map[string][]int,
	numBottleneckNodes int,
	cfg BaseConfig[B],
	backend B,
) (*SimpleModel[B], error) {
	if len(outputSizes) == 0 {
		return nil, fmt.Errorf("new simple model: no output sizes")
	}
	base, err := NewSimpleBase(featureDim, cfg, backend)
	if err != nil {
		return nil, err
	}
	cfg = cfg.normalized()

	m := &SimpleModel[B]{
		base:      base,
		heads:     make(map[string]*nn.Linear[B], len(outputSizes)),
		headSizes: make(map[string][]int, len(outputSizes)),
	}
	headIn := cfg.NumHiddenNodes
	if numBottleneckNodes > 0 {
		m.bottleneck = nn.NewLinear(cfg.NumHiddenNodes, numBottleneckNodes, backend, cfg.linearOptions()...)
		headIn = numBottleneckNodes
	}

	for name := range outputSizes {
		m.headNames = append(m.headNames, name)
	}
	sort.Strings(m.headNames)
	for _, name := range m.headNames {
		size := outputSizes[name]
		if len(size) == 0 {
			return nil, fmt.Errorf("new simple model: output %q has empty size", name)
		}
		flat := 1
		for _, d := range size {
			if d <= 0 {
				return nil, fmt.Errorf("new simple model: output %q has invalid size %v", name, size)
			}
			flat *= d
		}
		m.heads[name] = nn.NewLinear(headIn, flat, backend, cfg.linearOptions()...)
		m.headSizes[name] = append([]int(nil), size...)
	}
	return m, nil
}

// Forward computes all heads for input [..., feature_dim].
//
// The returned outputs map one entry per head, shaped [..., size...]. The
// activations map always holds KeyBaseActivations and, when a bottleneck is
// configured, KeyBottleneckActivations.
func (m *SimpleModel[B]) Forward(x *tensor.Tensor[float64, B]) (TensorMap[B], TensorMap[B]) {
	net := m.base.Forward(x)
	activations := TensorMap[B]{KeyBaseActivations: net}

	if m.bottleneck != nil {
		net = m.bottleneck.Forward(net)
		activations[KeyBottleneckActivations] = net
	}

	outputs := make(TensorMap[B], len(m.heads))
	for _, name := range m.headNames {
		out := m.heads[name].Forward(net)
		if size := m.headSizes[name]; len(size) > 1 {
			shape := out.Shape()
			dims := append([]int(nil), shape[:len(shape)-1]...)
			dims = append(dims, size...)
			out = out.Reshape(dims...)
		}
		outputs[name] = out
	}
	return outputs, activations
}

// SetTraining switches batch-norm and dropout behavior.
func (m *SimpleModel[B]) SetTraining(training bool) {
	m.base.SetTraining(training)
}

// Parameters returns all trainable parameters.
func (m *SimpleModel[B]) Parameters() []*nn.Parameter[B] {
	params := m.base.Parameters()
	if m.bottleneck != nil {
		params = append(params, m.bottleneck.Parameters()...)
	}
	for _, name := range m.headNames {
		params = append(params, m.heads[name].Parameters()...)
	}
	return params
}
