package tensor

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Zeros creates a zero-filled tensor.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	raw, err := NewRaw(shape, dataTypeOf[T](), b.Device())
	if err != nil {
		panic(err)
	}
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full[T, B](shape, 1, b)
}

// Full creates a tensor filled with value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn creates a tensor with standard normal values drawn from the shared
// source. Use RandnFrom when reproducibility matters.
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return RandnFrom[T, B](shape, nil, b)
}

// RandnFrom creates a tensor with standard normal values drawn from src.
// A nil src falls back to the shared global source.
func RandnFrom[T DType, B Backend](shape Shape, src rand.Source, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	data := t.Data()
	for i := range data {
		data[i] = T(dist.Rand())
	}
	return t
}
