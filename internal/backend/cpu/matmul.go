package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/b2220333/google-research/internal/tensor"
)

// MatMul contracts the last dimension of a against a 2-D matrix b:
// [..., K] @ [K, N] -> [..., N]. Leading dimensions of a are collapsed into
// one batch of rows, multiplied with gonum's dense kernel, and restored.
func (c *Backend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("matmul: dtype mismatch %s vs %s", a.DType(), b.DType()))
	}
	bShape := b.Shape()
	if len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: rhs must be 2-D, got shape %v", bShape))
	}
	aShape := a.Shape()
	if len(aShape) < 1 {
		panic("matmul: lhs must have at least one dimension")
	}
	k, n := bShape[0], bShape[1]
	if aShape[len(aShape)-1] != k {
		panic(fmt.Sprintf("matmul: inner dimensions differ: %v @ %v", aShape, bShape))
	}
	m := a.NumElements() / k

	lhs := mat.NewDense(m, k, asFloat64(a))
	rhs := mat.NewDense(k, n, asFloat64(b))
	var prod mat.Dense
	prod.Mul(lhs, rhs)

	outShape := append(aShape[:len(aShape)-1].Clone(), n)
	out := tensor.MustNewRaw(outShape, a.DType(), c.device)
	setFromFloat64(out, prod.RawMatrix().Data)
	return out
}

// asFloat64 returns the tensor data as a float64 slice, converting float32
// tensors into a fresh slice.
func asFloat64(x *tensor.RawTensor) []float64 {
	if x.DType() == tensor.Float64 {
		return x.AsFloat64()
	}
	src := x.AsFloat32()
	dst := make([]float64, len(src))
	for i, v := range src {
		dst[i] = float64(v)
	}
	return dst
}

// setFromFloat64 fills a tensor from a float64 slice of equal length.
func setFromFloat64(x *tensor.RawTensor, data []float64) {
	if x.DType() == tensor.Float64 {
		copy(x.AsFloat64(), data)
		return
	}
	dst := x.AsFloat32()
	for i, v := range data {
		dst[i] = float32(v)
	}
}
