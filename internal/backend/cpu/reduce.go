package cpu

import (
	"fmt"

	"github.com/b2220333/google-research/internal/tensor"
)

// Sum reduces all elements to a 1-element scalar tensor.
func (c *Backend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	total := 0.0
	for i := 0; i < x.NumElements(); i++ {
		total += x.Float64At(i)
	}
	out := tensor.MustNewRaw(tensor.Shape{1}, x.DType(), c.device)
	out.SetFloat64At(0, total)
	return out
}

// MeanDim averages along a canonical (non-negative) dimension.
func (c *Backend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("meandim: dimension %d out of range for shape %v", dim, shape))
	}

	outer := 1
	for _, d := range shape[:dim] {
		outer *= d
	}
	size := shape[dim]
	inner := 1
	for _, d := range shape[dim+1:] {
		inner *= d
	}

	var outShape tensor.Shape
	if keepDim {
		outShape = shape.Clone()
		outShape[dim] = 1
	} else {
		outShape = append(shape[:dim].Clone(), shape[dim+1:]...)
		if len(outShape) == 0 {
			outShape = tensor.Shape{1}
		}
	}
	out := tensor.MustNewRaw(outShape, x.DType(), c.device)

	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			sum := 0.0
			for s := 0; s < size; s++ {
				sum += x.Float64At((o*size+s)*inner + in)
			}
			out.SetFloat64At(o*inner+in, sum/float64(size))
		}
	}
	return out
}
