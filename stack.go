package batchify

import (
	"fmt"

	"github.com/openfluke/batchify/tensor"
)

// Stack concatenates same-shaped samples into a batch with a new leading
// dimension of size N. Tuple-shaped samples are handled structurally: each
// position is stacked independently and the result is a []any.
type Stack struct {
	sharedMem bool
}

// StackOption configures a Stack at construction.
type StackOption func(*Stack)

// StackSharedMem allocates the batch in shared memory so a worker process
// can hand it across the process boundary without copying.
func StackSharedMem() StackOption {
	return func(s *Stack) { s.sharedMem = true }
}

// NewStack returns a Stack functor.
func NewStack(opts ...StackOption) *Stack {
	s := &Stack{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Batchify stacks the samples. All samples must share one shape; a mismatch
// surfaces as the underlying tensor.Stack error. Plain numbers and numeric
// slices are converted first, with the dtype taken from the first sample.
func (s *Stack) Batchify(samples []any) (any, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyBatch
	}
	kind := classify(samples[0])
	if kind == kindTuple {
		return s.stackTuples(samples)
	}

	arrs := make([]*tensor.NDArray, len(samples))
	for i, v := range samples {
		a, err := tensor.FromAny(v)
		if err != nil {
			return nil, err
		}
		if kind == kindValue && i > 0 && a.DType() != arrs[0].DType() {
			a, err = a.AsType(arrs[0].DType())
			if err != nil {
				return nil, err
			}
		}
		arrs[i] = a
	}
	return tensor.Stack(arrs, device(s.sharedMem))
}

// stackTuples recurses through tuple-shaped samples, stacking each attribute
// position on its own.
func (s *Stack) stackTuples(samples []any) (any, error) {
	width := len(samples[0].([]any))
	out := make([]any, width)
	for pos := 0; pos < width; pos++ {
		col := make([]any, len(samples))
		for i, v := range samples {
			tup, ok := v.([]any)
			if !ok || len(tup) != width {
				return nil, fmt.Errorf("batchify: Stack sample %d does not match the first sample's %d positions", i, width)
			}
			col[i] = tup[pos]
		}
		batched, err := s.Batchify(col)
		if err != nil {
			return nil, err
		}
		out[pos] = batched
	}
	return out, nil
}
