// Package tensor provides the shape, buffer, and typed-tensor substrate that
// the pose-embedding model builders are composed over.
package tensor

// DType is the constraint for supported tensor element types.
type DType interface {
	~float32 | ~float64
}

// DataType is the runtime type tag carried by a RawTensor.
type DataType int

// Supported element types.
const (
	Float32 DataType = iota
	Float64
)

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// dataTypeOf maps a generic element type to its runtime tag.
func dataTypeOf[T DType]() DataType {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Float32
	default:
		return Float64
	}
}
