package batchify

import (
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfluke/batchify/tensor"
)

func TestAppendHeterogeneousShapes(t *testing.T) {
	out, err := NewAppend().Batchify([]any{
		[]int{1, 2, 3, 4},
		[]int{4, 5, 6},
		[]int{8, 2},
	})
	require.NoError(t, err)

	elems := out.([]any)
	require.Len(t, elems, 3)
	assert.Equal(t, []int{1, 4}, elems[0].(*tensor.NDArray).Shape())
	assert.Equal(t, []int{1, 3}, elems[1].(*tensor.NDArray).Shape())
	assert.Equal(t, []int{1, 2}, elems[2].(*tensor.NDArray).Shape())
	assert.Equal(t, []int64{8, 2}, elems[2].(*tensor.NDArray).Int64s())
}

func TestAppendNoExpand(t *testing.T) {
	out, err := NewAppend(AppendExpand(false)).Batchify([]any{
		[]float32{1, 2, 3},
		[]float32{4},
	})
	require.NoError(t, err)

	elems := out.([]any)
	assert.Equal(t, []int{3}, elems[0].(*tensor.NDArray).Shape())
	assert.Equal(t, []int{1}, elems[1].(*tensor.NDArray).Shape())
}

func TestAppendBatchAxis(t *testing.T) {
	out, err := NewAppend(AppendBatchAxis(1)).Batchify([]any{
		[]float32{1, 2, 3},
	})
	require.NoError(t, err)

	elems := out.([]any)
	assert.Equal(t, []int{3, 1}, elems[0].(*tensor.NDArray).Shape())
}

func TestAppendSharedMem(t *testing.T) {
	out, err := NewAppend(AppendSharedMem()).Batchify([]any{
		[]int{1, 2},
		[]int{3},
	})
	require.NoError(t, err)

	for _, e := range out.([]any) {
		a := e.(*tensor.NDArray)
		assert.Equal(t, tensor.CPUShared, a.Device())
		require.NoError(t, a.Free())
	}
}

func TestAppendSharedMemNoMappingLeak(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("needs /proc/self/maps")
	}

	before := sharedMappingCount(t)

	out, err := NewAppend(AppendSharedMem()).Batchify([]any{
		[]int{1, 2, 3},
		[]int{4},
	})
	require.NoError(t, err)
	for _, e := range out.([]any) {
		require.NoError(t, e.(*tensor.NDArray).Free())
	}

	// freeing every returned array must release every mapping the call made
	assert.Equal(t, before, sharedMappingCount(t))
}

// sharedMappingCount counts the process's shared writable mappings.
func sharedMappingCount(t *testing.T) int {
	t.Helper()
	data, err := os.ReadFile("/proc/self/maps")
	require.NoError(t, err)
	n := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.Contains(line, "rw-s") {
			n++
		}
	}
	return n
}

func TestAppendEmpty(t *testing.T) {
	_, err := NewAppend().Batchify(nil)
	require.ErrorIs(t, err, ErrEmptyBatch)
}
