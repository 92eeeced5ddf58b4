package tensor

// Add performs element-wise addition with broadcasting.
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Add(t.raw, other.raw), t.backend)
}

// Sub performs element-wise subtraction with broadcasting.
func (t *Tensor[T, B]) Sub(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Sub(t.raw, other.raw), t.backend)
}

// Mul performs element-wise multiplication with broadcasting.
func (t *Tensor[T, B]) Mul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Mul(t.raw, other.raw), t.backend)
}

// Div performs element-wise division with broadcasting.
func (t *Tensor[T, B]) Div(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Div(t.raw, other.raw), t.backend)
}

// MatMul contracts the last dimension against a 2-D matrix:
// [..., K] @ [K, N] -> [..., N].
func (t *Tensor[T, B]) MatMul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.MatMul(t.raw, other.raw), t.backend)
}

// AddScalar adds a scalar to every element.
func (t *Tensor[T, B]) AddScalar(s float64) *Tensor[T, B] {
	return New[T, B](t.backend.AddScalar(t.raw, s), t.backend)
}

// MulScalar multiplies every element by a scalar.
func (t *Tensor[T, B]) MulScalar(s float64) *Tensor[T, B] {
	return New[T, B](t.backend.MulScalar(t.raw, s), t.backend)
}

// Exp computes the element-wise exponential.
func (t *Tensor[T, B]) Exp() *Tensor[T, B] {
	return New[T, B](t.backend.Exp(t.raw), t.backend)
}

// Sqrt computes the element-wise square root.
func (t *Tensor[T, B]) Sqrt() *Tensor[T, B] {
	return New[T, B](t.backend.Sqrt(t.raw), t.backend)
}

// Relu computes element-wise max(x, 0).
func (t *Tensor[T, B]) Relu() *Tensor[T, B] {
	return New[T, B](t.backend.Relu(t.raw), t.backend)
}

// Elu computes the element-wise exponential linear unit:
// x for x > 0, exp(x)-1 otherwise.
func (t *Tensor[T, B]) Elu() *Tensor[T, B] {
	return New[T, B](t.backend.Elu(t.raw), t.backend)
}

// Sum reduces all elements to a 1-element tensor.
func (t *Tensor[T, B]) Sum() *Tensor[T, B] {
	return New[T, B](t.backend.Sum(t.raw), t.backend)
}

// MeanDim averages along dim (negative indices count from the end).
func (t *Tensor[T, B]) MeanDim(dim int, keepDim bool) *Tensor[T, B] {
	d := normDim(dim, t.Rank())
	return New[T, B](t.backend.MeanDim(t.raw, d, keepDim), t.backend)
}

// Reshape returns the tensor viewed under a new shape with the same element
// count. A single -1 dimension is inferred.
func (t *Tensor[T, B]) Reshape(dims ...int) *Tensor[T, B] {
	shape := inferReshape(t.Shape(), dims)
	return New[T, B](t.backend.Reshape(t.raw, shape), t.backend)
}

// Unsqueeze inserts a size-1 dimension at dim. dim may be negative and may
// refer to one past the last dimension.
func (t *Tensor[T, B]) Unsqueeze(dim int) *Tensor[T, B] {
	d := normDim(dim, t.Rank()+1)
	return New[T, B](t.backend.Unsqueeze(t.raw, d), t.backend)
}

// Squeeze removes a size-1 dimension at dim.
func (t *Tensor[T, B]) Squeeze(dim int) *Tensor[T, B] {
	d := normDim(dim, t.Rank())
	return New[T, B](t.backend.Squeeze(t.raw, d), t.backend)
}

// Stack joins equally-shaped tensors along a new dimension at dim.
func Stack[T DType, B Backend](ts []*Tensor[T, B], dim int) *Tensor[T, B] {
	if len(ts) == 0 {
		panic("Stack: no tensors")
	}
	d := normDim(dim, ts[0].Rank()+1)
	raws := make([]*RawTensor, len(ts))
	for i, t := range ts {
		raws[i] = t.raw
	}
	return New[T, B](ts[0].backend.Stack(raws, d), ts[0].backend)
}

// Unstack splits the tensor along dim into tensors with that dimension
// removed.
func (t *Tensor[T, B]) Unstack(dim int) []*Tensor[T, B] {
	d := normDim(dim, t.Rank())
	raws := t.backend.Unstack(t.raw, d)
	out := make([]*Tensor[T, B], len(raws))
	for i, r := range raws {
		out[i] = New[T, B](r, t.backend)
	}
	return out
}

// inferReshape resolves an optional single -1 dimension against the source
// element count and validates the result.
func inferReshape(src Shape, dims []int) Shape {
	shape := make(Shape, len(dims))
	copy(shape, dims)
	infer := -1
	known := 1
	for i, d := range shape {
		if d == -1 {
			if infer >= 0 {
				panic("Reshape: more than one -1 dimension")
			}
			infer = i
			continue
		}
		known *= d
	}
	if infer >= 0 {
		if known == 0 || src.NumElements()%known != 0 {
			panic("Reshape: cannot infer dimension")
		}
		shape[infer] = src.NumElements() / known
	}
	return shape
}
