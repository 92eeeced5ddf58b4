package cpu

import (
	"fmt"

	"github.com/b2220333/google-research/internal/tensor"
)

// Reshape returns a view of x under a new shape with equal element count.
func (c *Backend) Reshape(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return x.WithShape(shape)
}

// Unsqueeze inserts a size-1 dimension at a canonical dim in [0, rank].
func (c *Backend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim > len(shape) {
		panic(fmt.Sprintf("unsqueeze: dimension %d out of range for shape %v", dim, shape))
	}
	out := make(tensor.Shape, 0, len(shape)+1)
	out = append(out, shape[:dim]...)
	out = append(out, 1)
	out = append(out, shape[dim:]...)
	return x.WithShape(out)
}

// Squeeze removes a size-1 dimension at a canonical dim.
func (c *Backend) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("squeeze: dimension %d out of range for shape %v", dim, shape))
	}
	if shape[dim] != 1 {
		panic(fmt.Sprintf("squeeze: dimension %d of shape %v has size %d", dim, shape, shape[dim]))
	}
	out := append(shape[:dim].Clone(), shape[dim+1:]...)
	return x.WithShape(out)
}

// Stack joins equally-shaped tensors along a new dimension at a canonical
// dim in [0, rank].
func (c *Backend) Stack(xs []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(xs) == 0 {
		panic("stack: no tensors")
	}
	shape := xs[0].Shape()
	dtype := xs[0].DType()
	for _, x := range xs[1:] {
		if !x.Shape().Equal(shape) || x.DType() != dtype {
			panic(fmt.Sprintf("stack: mismatched tensor %v (%s), want %v (%s)",
				x.Shape(), x.DType(), shape, dtype))
		}
	}
	if dim < 0 || dim > len(shape) {
		panic(fmt.Sprintf("stack: dimension %d out of range for shape %v", dim, shape))
	}

	outShape := make(tensor.Shape, 0, len(shape)+1)
	outShape = append(outShape, shape[:dim]...)
	outShape = append(outShape, len(xs))
	outShape = append(outShape, shape[dim:]...)
	out := tensor.MustNewRaw(outShape, dtype, c.device)

	outer := 1
	for _, d := range shape[:dim] {
		outer *= d
	}
	inner := 1
	for _, d := range shape[dim:] {
		inner *= d
	}
	for o := 0; o < outer; o++ {
		for j, x := range xs {
			dstBase := (o*len(xs) + j) * inner
			srcBase := o * inner
			for i := 0; i < inner; i++ {
				out.SetFloat64At(dstBase+i, x.Float64At(srcBase+i))
			}
		}
	}
	return out
}

// Unstack splits x along a canonical dim into tensors with that dimension
// removed.
func (c *Backend) Unstack(x *tensor.RawTensor, dim int) []*tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("unstack: dimension %d out of range for shape %v", dim, shape))
	}

	partShape := append(shape[:dim].Clone(), shape[dim+1:]...)
	if len(partShape) == 0 {
		partShape = tensor.Shape{1}
	}
	count := shape[dim]
	outer := 1
	for _, d := range shape[:dim] {
		outer *= d
	}
	inner := 1
	for _, d := range shape[dim+1:] {
		inner *= d
	}

	parts := make([]*tensor.RawTensor, count)
	for j := 0; j < count; j++ {
		parts[j] = tensor.MustNewRaw(partShape, x.DType(), c.device)
		for o := 0; o < outer; o++ {
			srcBase := (o*count + j) * inner
			dstBase := o * inner
			for i := 0; i < inner; i++ {
				parts[j].SetFloat64At(dstBase+i, x.Float64At(srcBase+i))
			}
		}
	}
	return parts
}
