package batchify

import (
	"fmt"
)

// Group wraps one functor per attribute of tuple-shaped samples. Functor i
// batches the values of attribute i across the whole sample list, enabling
// heterogeneous per-field collation (pad one field, stack another, forward a
// third unchanged).
type Group struct {
	fns []Fn
}

// NewGroup builds a Group from either a single []Fn or variadic Fn values:
// NewGroup(a, b, c) and NewGroup([]Fn{a, b, c}) are equivalent. Supplying a
// slice together with extra functors is a construction error, as is a nil
// sub-functor.
func NewGroup(fn any, extra ...Fn) (*Group, error) {
	var fns []Fn
	switch f := fn.(type) {
	case []Fn:
		if len(extra) > 0 {
			return nil, fmt.Errorf("%w: got a %d-element slice plus %d extra functors", ErrMixedConstruction, len(f), len(extra))
		}
		fns = f
	case Fn:
		fns = append([]Fn{f}, extra...)
	default:
		return nil, fmt.Errorf("batchify: Group functor must be an Fn or []Fn, got %T", fn)
	}
	for i, f := range fns {
		if f == nil {
			return nil, fmt.Errorf("batchify: Group sub-functor %d is nil", i)
		}
	}
	return &Group{fns: fns}, nil
}

// Batchify applies each sub-functor to its attribute column. Every sample
// must be a []any with exactly as many attributes as there are sub-functors;
// the result is a []any of the per-attribute batches, in order.
func (g *Group) Batchify(samples []any) (any, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyBatch
	}
	k := len(g.fns)
	cols := make([][]any, k)
	for i := range cols {
		cols[i] = make([]any, len(samples))
	}
	for i, v := range samples {
		tup, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("batchify: Group sample %d is %T, expected a %d-attribute tuple", i, v, k)
		}
		if len(tup) != k {
			return nil, fmt.Errorf("batchify: Group sample %d has %d attributes, expected %d", i, len(tup), k)
		}
		for pos, attr := range tup {
			cols[pos][i] = attr
		}
	}
	out := make([]any, k)
	for pos, fn := range g.fns {
		batched, err := fn.Batchify(cols[pos])
		if err != nil {
			return nil, fmt.Errorf("batchify: Group attribute %d: %w", pos, err)
		}
		out[pos] = batched
	}
	return out, nil
}
