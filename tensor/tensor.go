// Package tensor provides the minimal n-dimensional array substrate consumed
// by the batchify functors: typed flat buffers with a shape, a dtype and a
// device (process-private vs cross-process shared memory).
//
// It is deliberately small. There is no broadcasting, no views and no math;
// batch collation only needs construction, stacking, axis insertion and
// strided prefix copies.
package tensor

import (
	"errors"
	"fmt"
	"unsafe"
)

// Sentinel errors for structural mismatches. Callers can test with errors.Is;
// the wrapped message carries the offending shapes.
var (
	ErrShapeMismatch = errors.New("tensor: shape mismatch")
	ErrDTypeMismatch = errors.New("tensor: dtype mismatch")
)

// NDArray is a dense row-major array. A rank-0 array holds a single scalar.
type NDArray struct {
	shape  []int
	dtype  DataType
	device Device
	data   []byte
}

// New returns a zero-filled array of the given shape.
func New(shape []int, dtype DataType, device Device) (*NDArray, error) {
	n := numElements(shape)
	if n < 0 {
		return nil, fmt.Errorf("%w: negative dimension in %v", ErrShapeMismatch, shape)
	}
	buf, err := alloc(n*dtype.Size(), device)
	if err != nil {
		return nil, err
	}
	return &NDArray{shape: cloneShape(shape), dtype: dtype, device: device, data: buf}, nil
}

// Full returns an array of the given shape with every element set to fill.
func Full(shape []int, dtype DataType, device Device, fill float64) (*NDArray, error) {
	a, err := New(shape, dtype, device)
	if err != nil {
		return nil, err
	}
	if fill != 0 {
		for i := 0; i < a.NumElements(); i++ {
			a.set(i, fill)
		}
	}
	return a, nil
}

// Shape returns a copy of the array's dimensions.
func (a *NDArray) Shape() []int { return cloneShape(a.shape) }

// DType returns the element type.
func (a *NDArray) DType() DataType { return a.dtype }

// Device returns where the data lives.
func (a *NDArray) Device() Device { return a.device }

// Rank returns the number of dimensions.
func (a *NDArray) Rank() int { return len(a.shape) }

// Len returns the size of the given axis.
func (a *NDArray) Len(axis int) int {
	if axis < 0 || axis >= len(a.shape) {
		return 0
	}
	return a.shape[axis]
}

// NumElements returns the total element count. A rank-0 array has one.
func (a *NDArray) NumElements() int { return numElements(a.shape) }

// Float32s returns the data as a float32 slice. The slice aliases the array's
// buffer; it is only valid for a Float32 array.
func (a *NDArray) Float32s() []float32 {
	if a.dtype != Float32 || len(a.data) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&a.data[0])), a.NumElements())
}

// Float64s returns the data as a float64 slice aliasing the array's buffer.
func (a *NDArray) Float64s() []float64 {
	if a.dtype != Float64 || len(a.data) == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&a.data[0])), a.NumElements())
}

// Int32s returns the data as an int32 slice aliasing the array's buffer.
func (a *NDArray) Int32s() []int32 {
	if a.dtype != Int32 || len(a.data) == 0 {
		return nil
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&a.data[0])), a.NumElements())
}

// Int64s returns the data as an int64 slice aliasing the array's buffer.
func (a *NDArray) Int64s() []int64 {
	if a.dtype != Int64 || len(a.data) == 0 {
		return nil
	}
	return unsafe.Slice((*int64)(unsafe.Pointer(&a.data[0])), a.NumElements())
}

// At returns the element at the given indices as float64. Handy for tests and
// inspection; hot paths should use the typed slice accessors. Supplying the
// wrong number of indices panics rather than reading a misplaced element.
func (a *NDArray) At(idx ...int) float64 {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("tensor: At got %d indices for rank %d", len(idx), len(a.shape)))
	}
	off := 0
	stride := 1
	for i := len(a.shape) - 1; i >= 0; i-- {
		off += idx[i] * stride
		stride *= a.shape[i]
	}
	return a.at(off)
}

// Equal reports whether b has the same shape, dtype and elements.
func (a *NDArray) Equal(b *NDArray) bool {
	if a.dtype != b.dtype || !sameShape(a.shape, b.shape) {
		return false
	}
	for i := 0; i < a.NumElements(); i++ {
		if a.at(i) != b.at(i) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy on the same device.
func (a *NDArray) Clone() (*NDArray, error) {
	return a.ToDevice(a.device)
}

// ToDevice copies the array to the given device.
func (a *NDArray) ToDevice(device Device) (*NDArray, error) {
	out, err := New(a.shape, a.dtype, device)
	if err != nil {
		return nil, err
	}
	copy(out.data, a.data)
	return out, nil
}

// AsType converts the array to the given dtype, copying element-wise. The
// result lives on the same device. Converting to the current dtype still
// returns a fresh copy.
func (a *NDArray) AsType(dtype DataType) (*NDArray, error) {
	if dtype == a.dtype {
		return a.Clone()
	}
	out, err := New(a.shape, dtype, a.device)
	if err != nil {
		return nil, err
	}
	for i := 0; i < a.NumElements(); i++ {
		out.set(i, a.at(i))
	}
	return out, nil
}

// ExpandDims returns a copy with a size-1 axis inserted at the given
// position. Negative axes count from the end, with -1 appending a trailing
// axis.
func (a *NDArray) ExpandDims(axis int) (*NDArray, error) {
	rank := len(a.shape)
	if axis < 0 {
		axis += rank + 1
	}
	if axis < 0 || axis > rank {
		return nil, fmt.Errorf("%w: expand axis %d out of range for rank %d", ErrShapeMismatch, axis, rank)
	}
	shape := make([]int, 0, rank+1)
	shape = append(shape, a.shape[:axis]...)
	shape = append(shape, 1)
	shape = append(shape, a.shape[axis:]...)
	out := &NDArray{shape: shape, dtype: a.dtype, device: a.device}
	buf, err := alloc(len(a.data), a.device)
	if err != nil {
		return nil, err
	}
	copy(buf, a.data)
	out.data = buf
	return out, nil
}

// Free releases the underlying buffer. It only matters for CPUShared arrays,
// whose mappings are not garbage collected; the array must not be used after.
func (a *NDArray) Free() error {
	buf := a.data
	a.data = nil
	return release(buf, a.device)
}

// String renders shape, dtype and device, not the data.
func (a *NDArray) String() string {
	return fmt.Sprintf("NDArray%v %s @%s", a.shape, a.dtype, a.device)
}

// at reads the flat element i as float64.
func (a *NDArray) at(i int) float64 {
	switch a.dtype {
	case Float32:
		return float64(a.Float32s()[i])
	case Float64:
		return a.Float64s()[i]
	case Int32:
		return float64(a.Int32s()[i])
	case Int64:
		return float64(a.Int64s()[i])
	default:
		return 0
	}
}

// set writes the flat element i from float64, truncating for integer dtypes.
func (a *NDArray) set(i int, v float64) {
	switch a.dtype {
	case Float32:
		a.Float32s()[i] = float32(v)
	case Float64:
		a.Float64s()[i] = v
	case Int32:
		a.Int32s()[i] = int32(v)
	case Int64:
		a.Int64s()[i] = int64(v)
	}
}

func numElements(shape []int) int {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return -1
		}
		n *= d
	}
	return n
}

func cloneShape(shape []int) []int {
	out := make([]int, len(shape))
	copy(out, shape)
	return out
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
