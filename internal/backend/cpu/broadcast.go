package cpu

import (
	"github.com/b2220333/google-research/internal/tensor"
)

// broadcastStrides maps a source shape onto an output shape, producing
// strides where broadcast (size-1 or missing) dimensions get stride 0.
func broadcastStrides(in, out tensor.Shape) []int {
	strides := make([]int, len(out))
	orig := in.Strides()
	offset := len(out) - len(in)
	for i := range out {
		j := i - offset
		if j < 0 || in[j] == 1 {
			strides[i] = 0
			continue
		}
		strides[i] = orig[j]
	}
	return strides
}

// sourceIndex maps a flat output index to a flat source index given the
// output strides and broadcast-adjusted source strides.
func sourceIndex(outIdx int, outStrides, srcStrides []int) int {
	idx := 0
	for i := range outStrides {
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]
		idx += coord * srcStrides[i]
	}
	return idx
}
