package batchify

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfluke/batchify/tensor"
)

func TestPadLists(t *testing.T) {
	fn := NewPad(PadValue(0))
	out, err := fn.Batchify([]any{
		[]int{1, 2, 3, 4},
		[]int{4, 5, 6},
		[]int{8, 2},
	})
	require.NoError(t, err)

	batch := out.(*tensor.NDArray)
	assert.Equal(t, []int{3, 4}, batch.Shape())
	assert.Equal(t, []int64{
		1, 2, 3, 4,
		4, 5, 6, 0,
		8, 2, 0, 0,
	}, batch.Int64s())
}

func TestPadRetLength(t *testing.T) {
	fn := NewPad(PadValue(0), PadRetLength())
	out, err := fn.Batchify([]any{
		[]int{1, 2, 3, 4},
		[]int{4, 5, 6},
		[]int{8, 2},
	})
	require.NoError(t, err)

	pair := out.([]any)
	require.Len(t, pair, 2)

	lengths := pair[1].(*tensor.NDArray)
	assert.Equal(t, tensor.Int32, lengths.DType())
	assert.Equal(t, []int32{4, 3, 2}, lengths.Int32s())
}

func TestPadValue(t *testing.T) {
	fn := NewPad(PadValue(-1))
	out, err := fn.Batchify([]any{
		[]float64{1, 2, 3},
		[]float64{4},
	})
	require.NoError(t, err)

	batch := out.(*tensor.NDArray)
	assert.Equal(t, []float64{1, 2, 3, 4, -1, -1}, batch.Float64s())
}

func TestPadInnerAxis(t *testing.T) {
	a, _ := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6, 7, 8}, 2, 4)
	b, _ := tensor.FromSlice([]float64{5, 8, 1, 2}, 2, 2)

	fn := NewPad(PadAxis(1), PadValue(-1), PadLogger(zerolog.Nop()))
	out, err := fn.Batchify([]any{a, b})
	require.NoError(t, err)

	batch := out.(*tensor.NDArray)
	assert.Equal(t, []int{2, 2, 4}, batch.Shape())
	assert.Equal(t, []float64{
		1, 2, 3, 4,
		5, 6, 7, 8,
		5, 8, -1, -1,
		1, 2, -1, -1,
	}, batch.Float64s())
}

func TestPadZeroLengthSample(t *testing.T) {
	fn := NewPad(PadValue(7))
	out, err := fn.Batchify([]any{
		[]int{1, 2, 3},
		[]int{},
	})
	require.NoError(t, err)

	batch := out.(*tensor.NDArray)
	assert.Equal(t, []int64{1, 2, 3, 7, 7, 7}, batch.Int64s())
}

func TestPadGroupedSamplesRejected(t *testing.T) {
	fn := NewPad(PadValue(0))
	_, err := fn.Batchify([]any{
		[]any{[]int{1, 2}, 0},
		[]any{[]int{3}, 1},
	})
	require.ErrorIs(t, err, ErrMultipleItems)
}

func TestPadDTypeOverride(t *testing.T) {
	fn := NewPad(PadValue(0), PadDType(tensor.Float32))
	out, err := fn.Batchify([]any{
		[]int{1, 2},
		[]int{3},
	})
	require.NoError(t, err)

	batch := out.(*tensor.NDArray)
	assert.Equal(t, tensor.Float32, batch.DType())
	assert.Equal(t, []float32{1, 2, 3, 0}, batch.Float32s())
}

func TestPadRoundTo(t *testing.T) {
	fn := NewPad(PadValue(0), PadRoundTo(8))
	out, err := fn.Batchify([]any{
		[]int{1, 2, 3, 4},
		[]int{4, 5, 6},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 8}, out.(*tensor.NDArray).Shape())
}

func TestPadOffAxisMismatch(t *testing.T) {
	a, _ := tensor.FromSlice([]float64{1, 2, 3, 4}, 2, 2)
	b, _ := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, 2, 3)

	// padding axis 0, so the trailing dimensions must agree
	fn := NewPad(PadValue(0), PadLogger(zerolog.Nop()))
	_, err := fn.Batchify([]any{a, b})
	require.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestPadAxisOutOfRange(t *testing.T) {
	fn := NewPad(PadAxis(2), PadValue(0))
	_, err := fn.Batchify([]any{[]int{1, 2}})
	require.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestPadNDArrayWarnsOnce(t *testing.T) {
	fn := NewPad(PadValue(0), PadLogger(zerolog.Nop()))
	a, _ := tensor.FromSlice([]float64{1, 2})
	b, _ := tensor.FromSlice([]float64{3})

	require.False(t, fn.warnedNDArray)
	_, err := fn.Batchify([]any{a, b})
	require.NoError(t, err)
	assert.True(t, fn.warnedNDArray)

	// the flag never resets
	_, err = fn.Batchify([]any{a, b})
	require.NoError(t, err)
	assert.True(t, fn.warnedNDArray)
}

func TestPadSharedMem(t *testing.T) {
	fn := NewPad(PadValue(0), PadSharedMem(), PadRetLength())
	out, err := fn.Batchify([]any{
		[]int{1, 2},
		[]int{3},
	})
	require.NoError(t, err)

	pair := out.([]any)
	batch := pair[0].(*tensor.NDArray)
	lengths := pair[1].(*tensor.NDArray)
	assert.Equal(t, tensor.CPUShared, batch.Device())
	assert.Equal(t, tensor.CPUShared, lengths.Device())
	require.NoError(t, batch.Free())
	require.NoError(t, lengths.Free())
}

func TestPadEmpty(t *testing.T) {
	_, err := NewPad(PadValue(0)).Batchify(nil)
	require.ErrorIs(t, err, ErrEmptyBatch)
}
