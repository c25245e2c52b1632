package batchify

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/openfluke/batchify/tensor"
)

// Pad aligns variable-length samples along one axis to the batch maximum,
// fills the remainder with a pad value and stacks the result. Samples must
// agree on rank and on every dimension except the pad axis.
type Pad struct {
	axis      int
	padVal    float64
	hasPadVal bool
	retLength bool
	dtype     tensor.DataType
	hasDType  bool
	sharedMem bool
	roundTo   int
	log       zerolog.Logger

	// one-shot advisory, set on the first call with NDArray samples and
	// never reset. One Pad instance serves one field, so no locking.
	warnedNDArray bool
}

// PadOption configures a Pad at construction.
type PadOption func(*Pad)

// PadAxis sets the axis along which samples are padded. Default 0.
func PadAxis(axis int) PadOption {
	return func(p *Pad) { p.axis = axis }
}

// PadValue sets the fill value for the padded region. Without it padding
// defaults to 0 and construction logs a one-time advisory, since 0 may
// collide with meaningful data such as a vocabulary index.
func PadValue(v float64) PadOption {
	return func(p *Pad) { p.padVal = v; p.hasPadVal = true }
}

// PadRetLength makes Batchify also return the samples' original lengths
// along the pad axis as an int32 vector.
func PadRetLength() PadOption {
	return func(p *Pad) { p.retLength = true }
}

// PadDType overrides the output dtype. Default is the first sample's dtype.
func PadDType(dt tensor.DataType) PadOption {
	return func(p *Pad) { p.dtype = dt; p.hasDType = true }
}

// PadSharedMem allocates the batch in shared memory for zero-copy transfer
// across the process boundary.
func PadSharedMem() PadOption {
	return func(p *Pad) { p.sharedMem = true }
}

// PadRoundTo rounds the padded length up to the nearest multiple of n, so
// downstream kernels compiled per shape see fewer distinct widths.
func PadRoundTo(n int) PadOption {
	return func(p *Pad) { p.roundTo = n }
}

// PadLogger replaces the logger used for advisories.
func PadLogger(log zerolog.Logger) PadOption {
	return func(p *Pad) { p.log = log }
}

// NewPad returns a Pad functor.
func NewPad(opts ...PadOption) *Pad {
	p := &Pad{log: zerolog.New(os.Stderr).With().Timestamp().Logger()}
	for _, opt := range opts {
		opt(p)
	}
	if !p.hasPadVal {
		p.log.Warn().Msg("batchify: pad value not given, defaulting to 0; " +
			"check whether this is intended (e.g. the padding index of a vocabulary)")
	}
	return p
}

// Batchify pads and stacks the samples, returning a single batch array, or a
// []any{batch, lengths} pair when length reporting is enabled. Tuple-shaped
// samples are unsupported; wrap per-field Pads in Group instead.
func (p *Pad) Batchify(samples []any) (any, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyBatch
	}
	switch classify(samples[0]) {
	case kindTuple:
		return nil, ErrMultipleItems
	case kindArray:
		if !p.warnedNDArray {
			p.warnedNDArray = true
			p.log.Warn().Msg("batchify: padding NDArray samples is slow; " +
				"pad your data while it is still a plain list, or keep it as one until batching")
		}
	}

	arrs := make([]*tensor.NDArray, len(samples))
	for i, v := range samples {
		a, err := tensor.FromAny(v)
		if err != nil {
			return nil, err
		}
		arrs[i] = a
	}

	first := arrs[0]
	if p.axis < 0 || p.axis >= first.Rank() {
		return nil, fmt.Errorf("%w: pad axis %d out of range for rank %d", tensor.ErrShapeMismatch, p.axis, first.Rank())
	}

	lengths := make([]int32, len(arrs))
	maxLen := 0
	for i, a := range arrs {
		n := a.Len(p.axis)
		lengths[i] = int32(n)
		if n > maxLen {
			maxLen = n
		}
	}
	if p.roundTo > 0 && maxLen%p.roundTo != 0 {
		maxLen += p.roundTo - maxLen%p.roundTo
	}

	dtype := first.DType()
	if p.hasDType {
		dtype = p.dtype
	}

	outShape := append([]int{len(arrs)}, first.Shape()...)
	outShape[1+p.axis] = maxLen
	out, err := tensor.Full(outShape, dtype, device(p.sharedMem), p.padVal)
	if err != nil {
		return nil, err
	}
	for i, a := range arrs {
		// a zero-length sample leaves its row entirely at the pad value
		if err := out.CopyRowFrom(i, a, p.axis); err != nil {
			return nil, fmt.Errorf("batchify: Pad sample %d: %w", i, err)
		}
	}

	if !p.retLength {
		return out, nil
	}
	lenArr, err := tensor.New([]int{len(lengths)}, tensor.Int32, device(p.sharedMem))
	if err != nil {
		return nil, err
	}
	copy(lenArr.Int32s(), lengths)
	return []any{out, lenArr}, nil
}
