package tensor

import "fmt"

// FromSlice builds an array from a flat numeric slice. With no shape the
// result is 1-D; otherwise the shape's element count must match the slice
// length. The dtype follows the slice's element type (int maps to Int64).
func FromSlice(flat any, shape ...int) (*NDArray, error) {
	var (
		dtype DataType
		n     int
	)
	switch v := flat.(type) {
	case []float32:
		dtype, n = Float32, len(v)
	case []float64:
		dtype, n = Float64, len(v)
	case []int32:
		dtype, n = Int32, len(v)
	case []int64:
		dtype, n = Int64, len(v)
	case []int:
		dtype, n = Int64, len(v)
	default:
		return nil, fmt.Errorf("tensor: FromSlice does not support %T", flat)
	}
	if len(shape) == 0 {
		shape = []int{n}
	} else if numElements(shape) != n {
		return nil, fmt.Errorf("%w: %d elements do not fit shape %v", ErrShapeMismatch, n, shape)
	}
	a, err := New(shape, dtype, CPU)
	if err != nil {
		return nil, err
	}
	switch v := flat.(type) {
	case []float32:
		copy(a.Float32s(), v)
	case []float64:
		copy(a.Float64s(), v)
	case []int32:
		copy(a.Int32s(), v)
	case []int64:
		copy(a.Int64s(), v)
	case []int:
		dst := a.Int64s()
		for i, x := range v {
			dst[i] = int64(x)
		}
	}
	return a, nil
}

// FromAny converts one sample value to an NDArray. It resolves the runtime
// type once, at the boundary:
//
//   - *NDArray passes through untouched
//   - a plain number becomes a rank-0 array
//   - a flat numeric slice becomes a 1-D array
//   - a rectangular nested slice becomes a 2-D array
//   - a []any of numbers becomes a 1-D array
//
// Ragged nested input and unsupported element types are errors.
func FromAny(v any) (*NDArray, error) {
	switch s := v.(type) {
	case *NDArray:
		return s, nil
	case []float32, []float64, []int32, []int64, []int:
		return FromSlice(s)
	case [][]float32:
		rows := make([]*NDArray, 0, len(s))
		for _, r := range s {
			a, _ := FromSlice(r)
			rows = append(rows, a)
		}
		return nested(rows)
	case [][]float64:
		rows := make([]*NDArray, 0, len(s))
		for _, r := range s {
			a, _ := FromSlice(r)
			rows = append(rows, a)
		}
		return nested(rows)
	case [][]int32:
		rows := make([]*NDArray, 0, len(s))
		for _, r := range s {
			a, _ := FromSlice(r)
			rows = append(rows, a)
		}
		return nested(rows)
	case [][]int64:
		rows := make([]*NDArray, 0, len(s))
		for _, r := range s {
			a, _ := FromSlice(r)
			rows = append(rows, a)
		}
		return nested(rows)
	case [][]int:
		rows := make([]*NDArray, 0, len(s))
		for _, r := range s {
			a, _ := FromSlice(r)
			rows = append(rows, a)
		}
		return nested(rows)
	case []any:
		return fromAnySlice(s)
	default:
		if f, dtype, ok := asScalar(v); ok {
			a, err := New(nil, dtype, CPU)
			if err != nil {
				return nil, err
			}
			a.set(0, f)
			return a, nil
		}
		return nil, fmt.Errorf("tensor: cannot convert %T to NDArray", v)
	}
}

// Stack concatenates same-shaped arrays along a new leading axis. All inputs
// must agree on shape and dtype; the output lives on the given device.
func Stack(arrs []*NDArray, device Device) (*NDArray, error) {
	if len(arrs) == 0 {
		return nil, fmt.Errorf("tensor: Stack requires at least one array")
	}
	first := arrs[0]
	for i, a := range arrs[1:] {
		if a.dtype != first.dtype {
			return nil, fmt.Errorf("%w: element %d is %s, expected %s", ErrDTypeMismatch, i+1, a.dtype, first.dtype)
		}
		if !sameShape(a.shape, first.shape) {
			return nil, fmt.Errorf("%w: element %d has shape %v, expected %v", ErrShapeMismatch, i+1, a.shape, first.shape)
		}
	}
	shape := append([]int{len(arrs)}, first.shape...)
	out, err := New(shape, first.dtype, device)
	if err != nil {
		return nil, err
	}
	block := first.NumElements() * first.dtype.Size()
	for i, a := range arrs {
		copy(out.data[i*block:(i+1)*block], a.data)
	}
	return out, nil
}

// CopyRowFrom copies src into the prefix of batch row i along padAxis,
// leaving the rest of the row untouched. The receiver's shape is
// (N, d0, ..., dk) and src's is (d0, ..., dk) except at padAxis, where src
// may be shorter. A zero-length src is a no-op. Mismatched dtypes convert
// element-wise.
func (a *NDArray) CopyRowFrom(i int, src *NDArray, padAxis int) error {
	if a.Rank() != src.Rank()+1 {
		return fmt.Errorf("%w: row has rank %d, batch has rank %d", ErrShapeMismatch, src.Rank(), a.Rank())
	}
	if padAxis < 0 || padAxis >= src.Rank() {
		return fmt.Errorf("%w: pad axis %d out of range for rank %d", ErrShapeMismatch, padAxis, src.Rank())
	}
	if i < 0 || i >= a.shape[0] {
		return fmt.Errorf("%w: row %d out of range for batch of %d", ErrShapeMismatch, i, a.shape[0])
	}
	for d := 0; d < src.Rank(); d++ {
		if d == padAxis {
			if src.shape[d] > a.shape[d+1] {
				return fmt.Errorf("%w: length %d along pad axis exceeds batch length %d", ErrShapeMismatch, src.shape[d], a.shape[d+1])
			}
			continue
		}
		if src.shape[d] != a.shape[d+1] {
			return fmt.Errorf("%w: row shape %v does not match batch row shape %v off the pad axis", ErrShapeMismatch, src.shape, a.shape[1:])
		}
	}

	inner := 1
	for _, d := range src.shape[padAxis+1:] {
		inner *= d
	}
	outer := 1
	for _, d := range src.shape[:padAxis] {
		outer *= d
	}
	srcBlock := src.shape[padAxis] * inner
	dstBlock := a.shape[padAxis+1] * inner
	rowBase := i
	for _, d := range a.shape[1:] {
		rowBase *= d
	}

	if a.dtype == src.dtype {
		es := a.dtype.Size()
		for o := 0; o < outer; o++ {
			dstOff := (rowBase + o*dstBlock) * es
			srcOff := o * srcBlock * es
			copy(a.data[dstOff:dstOff+srcBlock*es], src.data[srcOff:srcOff+srcBlock*es])
		}
		return nil
	}
	for o := 0; o < outer; o++ {
		for j := 0; j < srcBlock; j++ {
			a.set(rowBase+o*dstBlock+j, src.at(o*srcBlock+j))
		}
	}
	return nil
}

// nested stacks equal-length 1-D rows into a 2-D array, rejecting ragged
// input.
func nested(rows []*NDArray) (*NDArray, error) {
	if len(rows) == 0 {
		return New([]int{0, 0}, Float64, CPU)
	}
	out, err := Stack(rows, CPU)
	if err != nil {
		return nil, fmt.Errorf("tensor: ragged nested input: %w", err)
	}
	return out, nil
}

// fromAnySlice converts a []any of plain numbers to a 1-D array. The dtype
// follows the first element: integer kinds give Int64, floating kinds give
// Float64.
func fromAnySlice(s []any) (*NDArray, error) {
	if len(s) == 0 {
		return New([]int{0}, Float64, CPU)
	}
	_, dtype, ok := asScalar(s[0])
	if !ok {
		return nil, fmt.Errorf("tensor: cannot convert []any with %T elements to NDArray", s[0])
	}
	a, err := New([]int{len(s)}, dtype, CPU)
	if err != nil {
		return nil, err
	}
	for i, v := range s {
		f, _, ok := asScalar(v)
		if !ok {
			return nil, fmt.Errorf("tensor: mixed []any element %T at index %d", v, i)
		}
		a.set(i, f)
	}
	return a, nil
}

// asScalar extracts a plain number and its natural dtype.
func asScalar(v any) (float64, DataType, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), Float32, true
	case float64:
		return x, Float64, true
	case int:
		return float64(x), Int64, true
	case int32:
		return float64(x), Int32, true
	case int64:
		return float64(x), Int64, true
	default:
		return 0, Float64, false
	}
}
