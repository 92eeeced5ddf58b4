package cpu

import (
	"fmt"
	"math"

	"github.com/b2220333/google-research/internal/tensor"
)

// binary applies f element-wise over two tensors with broadcasting.
func (c *Backend) binary(name string, a, b *tensor.RawTensor, f func(x, y float64) float64) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", name, a.DType(), b.DType()))
	}

	if a.Shape().Equal(b.Shape()) {
		out := tensor.MustNewRaw(a.Shape(), a.DType(), c.device)
		if a.DType() == tensor.Float64 {
			x, y, dst := a.AsFloat64(), b.AsFloat64(), out.AsFloat64()
			for i := range dst {
				dst[i] = f(x[i], y[i])
			}
			return out
		}
		x, y, dst := a.AsFloat32(), b.AsFloat32(), out.AsFloat32()
		for i := range dst {
			dst[i] = float32(f(float64(x[i]), float64(y[i])))
		}
		return out
	}

	outShape, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}
	out := tensor.MustNewRaw(outShape, a.DType(), c.device)
	outStrides := outShape.Strides()
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)
	for i := 0; i < out.NumElements(); i++ {
		av := a.Float64At(sourceIndex(i, outStrides, aStrides))
		bv := b.Float64At(sourceIndex(i, outStrides, bStrides))
		out.SetFloat64At(i, f(av, bv))
	}
	return out
}

// unary applies f element-wise.
func (c *Backend) unary(x *tensor.RawTensor, f func(v float64) float64) *tensor.RawTensor {
	out := tensor.MustNewRaw(x.Shape(), x.DType(), c.device)
	if x.DType() == tensor.Float64 {
		src, dst := x.AsFloat64(), out.AsFloat64()
		for i := range dst {
			dst[i] = f(src[i])
		}
		return out
	}
	src, dst := x.AsFloat32(), out.AsFloat32()
	for i := range dst {
		dst[i] = float32(f(float64(src[i])))
	}
	return out
}

// Add performs element-wise addition with broadcasting.
func (c *Backend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binary("add", a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (c *Backend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binary("sub", a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (c *Backend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binary("mul", a, b, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (c *Backend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binary("div", a, b, func(x, y float64) float64 { return x / y })
}

// AddScalar adds s to every element.
func (c *Backend) AddScalar(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	return c.unary(x, func(v float64) float64 { return v + s })
}

// MulScalar multiplies every element by s.
func (c *Backend) MulScalar(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	return c.unary(x, func(v float64) float64 { return v * s })
}

// Exp computes the element-wise exponential.
func (c *Backend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unary(x, math.Exp)
}

// Sqrt computes the element-wise square root.
func (c *Backend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unary(x, math.Sqrt)
}

// Relu computes element-wise max(v, 0).
func (c *Backend) Relu(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unary(x, func(v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// Elu computes the element-wise exponential linear unit.
func (c *Backend) Elu(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unary(x, func(v float64) float64 {
		if v > 0 {
			return v
		}
		return math.Exp(v) - 1
	})
}
