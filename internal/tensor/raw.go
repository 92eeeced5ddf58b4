package tensor

import "fmt"

// Device identifies where tensor data lives and which backend computes on it.
type Device int

// Supported devices. Only CPU execution is implemented; the enum keeps the
// backend seam open for device backends.
const (
	CPU Device = iota
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	default:
		return "Unknown"
	}
}

// RawTensor is the untyped tensor representation backends operate on: a
// contiguous row-major buffer plus shape and dtype bookkeeping.
type RawTensor struct {
	shape  Shape
	stride []int
	dtype  DataType
	device Device
	f32    []float32
	f64    []float64
}

// NewRaw allocates a zero-filled RawTensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("new raw tensor: %w", err)
	}
	r := &RawTensor{
		shape:  shape.Clone(),
		stride: shape.Strides(),
		dtype:  dtype,
		device: device,
	}
	n := shape.NumElements()
	switch dtype {
	case Float32:
		r.f32 = make([]float32, n)
	case Float64:
		r.f64 = make([]float64, n)
	default:
		return nil, fmt.Errorf("new raw tensor: unsupported dtype %s", dtype)
	}
	return r, nil
}

// MustNewRaw is NewRaw for shapes already known to be valid.
func MustNewRaw(shape Shape, dtype DataType, device Device) *RawTensor {
	r, err := NewRaw(shape, dtype, device)
	if err != nil {
		panic(err)
	}
	return r
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape { return r.shape }

// Strides returns the row-major strides.
func (r *RawTensor) Strides() []int { return r.stride }

// DType returns the element type tag.
func (r *RawTensor) DType() DataType { return r.dtype }

// Device returns the tensor's device.
func (r *RawTensor) Device() Device { return r.device }

// NumElements returns the total element count.
func (r *RawTensor) NumElements() int { return r.shape.NumElements() }

// AsFloat32 returns the backing float32 slice. Panics for other dtypes.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("AsFloat32 on %s tensor", r.dtype))
	}
	return r.f32
}

// AsFloat64 returns the backing float64 slice. Panics for other dtypes.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("AsFloat64 on %s tensor", r.dtype))
	}
	return r.f64
}

// Float64At reads element i as float64 regardless of dtype.
func (r *RawTensor) Float64At(i int) float64 {
	if r.dtype == Float32 {
		return float64(r.f32[i])
	}
	return r.f64[i]
}

// SetFloat64At writes element i from a float64 regardless of dtype.
func (r *RawTensor) SetFloat64At(i int, v float64) {
	if r.dtype == Float32 {
		r.f32[i] = float32(v)
		return
	}
	r.f64[i] = v
}

// WithShape returns a view of the same buffer under a different shape.
// The element counts must match.
func (r *RawTensor) WithShape(shape Shape) *RawTensor {
	if shape.NumElements() != r.NumElements() {
		panic(fmt.Sprintf("cannot view %v tensor as %v", r.shape, shape))
	}
	return &RawTensor{
		shape:  shape.Clone(),
		stride: shape.Strides(),
		dtype:  r.dtype,
		device: r.device,
		f32:    r.f32,
		f64:    r.f64,
	}
}

// Clone returns a deep copy.
func (r *RawTensor) Clone() *RawTensor {
	c := MustNewRaw(r.shape, r.dtype, r.device)
	copy(c.f32, r.f32)
	copy(c.f64, r.f64)
	return c
}

// String describes the tensor without printing its contents.
func (r *RawTensor) String() string {
	return fmt.Sprintf("RawTensor[%s]%v on %s", r.dtype, r.shape, r.device)
}
