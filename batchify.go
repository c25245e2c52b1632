package batchify

import (
	"github.com/openfluke/batchify/tensor"
)

// Fn collates a list of samples into a batch. Implementations decide the
// batch's concrete type: a single *tensor.NDArray for Stack and Pad, a []any
// for Append, Group and AsList.
type Fn interface {
	Batchify(samples []any) (any, error)
}

// sampleKind tags the runtime shape of a sample, resolved once per call at
// the functor boundary.
type sampleKind int

const (
	kindArray sampleKind = iota // *tensor.NDArray
	kindTuple                   // []any of per-field attributes
	kindValue                   // plain number or numeric slice
)

func classify(v any) sampleKind {
	switch v.(type) {
	case *tensor.NDArray:
		return kindArray
	case []any:
		return kindTuple
	default:
		return kindValue
	}
}

func device(shared bool) tensor.Device {
	if shared {
		return tensor.CPUShared
	}
	return tensor.CPU
}
