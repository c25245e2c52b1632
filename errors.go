package batchify

import "errors"

// Malformed batches are caller bugs; every failure here is immediate and
// local, with no retry or partial result.
var (
	// ErrEmptyBatch is returned when a functor needing at least one sample
	// receives none.
	ErrEmptyBatch = errors.New("batchify: empty sample list")

	// ErrMultipleItems is returned when Pad receives tuple-shaped samples.
	ErrMultipleItems = errors.New("batchify: Pad does not support samples with multiple attributes, use Group(Pad(), Pad(), ...) instead")

	// ErrMixedConstruction is returned when Group is built from both a
	// functor slice and extra variadic functors.
	ErrMixedConstruction = errors.New("batchify: Group takes either a []Fn or variadic Fn values, not both")
)
