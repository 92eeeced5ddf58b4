package tensor

import "fmt"

// Shape holds tensor dimensions, outermost first.
type Shape []int

// NumElements returns the total element count. A scalar shape has one element.
func (s Shape) NumElements() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Validate reports an error if any dimension is non-positive.
func (s Shape) Validate() error {
	for i, d := range s {
		if d <= 0 {
			return fmt.Errorf("shape %v: dimension %d is %d, must be positive", s, i, d)
		}
	}
	return nil
}

// Equal reports whether two shapes have identical dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	c := make(Shape, len(s))
	copy(c, s)
	return c
}

// Strides returns row-major strides for the shape.
func (s Shape) Strides() []int {
	strides := make([]int, len(s))
	acc := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= s[i]
	}
	return strides
}

// BroadcastShapes resolves the NumPy-style broadcast of two shapes: dimensions
// are aligned from the right and must be equal or 1. Returns an error when the
// shapes are incompatible.
func BroadcastShapes(a, b Shape) (Shape, error) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(Shape, n)
	for i := 0; i < n; i++ {
		ad, bd := 1, 1
		if j := len(a) - n + i; j >= 0 {
			ad = a[j]
		}
		if j := len(b) - n + i; j >= 0 {
			bd = b[j]
		}
		switch {
		case ad == bd, bd == 1:
			out[i] = ad
		case ad == 1:
			out[i] = bd
		default:
			return nil, fmt.Errorf("cannot broadcast %v with %v: dimension %d (%d vs %d)", a, b, i, ad, bd)
		}
	}
	return out, nil
}

// normDim resolves a possibly negative dimension index against a rank.
// Panics when the index is out of range.
func normDim(dim, rank int) int {
	d := dim
	if d < 0 {
		d += rank
	}
	if d < 0 || d >= rank {
		panic(fmt.Sprintf("dimension %d out of range for rank %d", dim, rank))
	}
	return d
}
