// Package batchify collates lists of per-sample values into batches for a
// data-loading pipeline.
//
// Each functor is constructed once with its configuration and then applied to
// every mini-batch the sampler produces:
//
//   - Stack concatenates same-shaped samples along a new leading batch axis
//   - Pad aligns variable-length samples to the batch maximum, then stacks
//   - Append keeps samples separate, with no shape constraint between them
//   - Group applies one functor per attribute of tuple-shaped samples
//   - AsList passes the sample list through untouched (raw strings etc.)
//
// Functors compose through Group. A typical text pipeline pads the token
// field, stacks the label field and forwards the raw text:
//
//	fn, err := batchify.NewGroup(
//	    batchify.NewPad(batchify.PadValue(0)),
//	    batchify.NewStack(),
//	    batchify.NewAsList(),
//	)
//	batch, err := fn.Batchify(samples)
//
// All functors are synchronous, carry no state across calls (except Pad's
// one-shot advisory flag) and may be invoked from a caller-owned worker pool
// on disjoint batches. Dataset iteration, prefetching and device placement
// belong to the surrounding pipeline, not here.
package batchify
