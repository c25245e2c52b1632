//go:build unix

package tensor

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// alloc returns a zeroed buffer of n bytes on the given device. CPUShared
// buffers come from an anonymous MAP_SHARED mapping so they survive a fork
// boundary without copying.
func alloc(n int, device Device) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if device == CPUShared {
		buf, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_ANON)
		if err != nil {
			return nil, fmt.Errorf("tensor: shared mmap of %d bytes: %w", n, err)
		}
		return buf, nil
	}
	return make([]byte, n), nil
}

// release returns a buffer obtained from alloc. Only shared mappings need
// explicit cleanup; heap buffers are left to the GC.
func release(buf []byte, device Device) error {
	if device == CPUShared && buf != nil {
		if err := unix.Munmap(buf); err != nil {
			return fmt.Errorf("tensor: munmap: %w", err)
		}
	}
	return nil
}
