package batchify

import (
	"github.com/openfluke/batchify/tensor"
)

// Append loosely collects samples into a list of arrays. There is no shape
// constraint between samples, so the output supports only per-element batch
// operations downstream.
type Append struct {
	expand    bool
	batchAxis int
	sharedMem bool
}

// AppendOption configures an Append at construction.
type AppendOption func(*Append)

// AppendExpand controls whether each element gets its own size-1 batch axis.
// Default true.
func AppendExpand(expand bool) AppendOption {
	return func(a *Append) { a.expand = expand }
}

// AppendBatchAxis sets where the per-element batch axis is inserted when
// expansion is on. Default 0.
func AppendBatchAxis(axis int) AppendOption {
	return func(a *Append) { a.batchAxis = axis }
}

// AppendSharedMem relocates each element to shared memory.
func AppendSharedMem() AppendOption {
	return func(a *Append) { a.sharedMem = true }
}

// NewAppend returns an Append functor.
func NewAppend(opts ...AppendOption) *Append {
	a := &Append{expand: true}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Batchify converts each sample to an array independently. The result is a
// []any of N arrays, each keeping its own shape.
func (ap *Append) Batchify(samples []any) (any, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyBatch
	}
	out := make([]any, len(samples))
	for i, v := range samples {
		a, err := tensor.FromAny(v)
		if err != nil {
			return nil, err
		}
		// expand before relocating: the other order would allocate a shared
		// mapping that ExpandDims immediately replaces, and orphaned shared
		// mappings are never unmapped by the GC
		if ap.expand {
			if a, err = a.ExpandDims(ap.batchAxis); err != nil {
				return nil, err
			}
		}
		if ap.sharedMem && a.Device() != tensor.CPUShared {
			if a, err = a.ToDevice(tensor.CPUShared); err != nil {
				return nil, err
			}
		}
		out[i] = a
	}
	return out, nil
}
