//go:build !unix

package tensor

// Platforms without anonymous shared mappings fall back to the heap. The
// CPUShared device still works as a marker, it just loses the zero-copy
// property across processes.
func alloc(n int, device Device) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	return make([]byte, n), nil
}

func release(buf []byte, device Device) error {
	return nil
}
