package tensor

// Device identifies where NDArray data lives.
//
// CPU is ordinary process-private heap memory. CPUShared is an anonymous
// shared mapping, so a batch built in a forked worker process can be read by
// the parent without a copy. Ownership of a shared buffer passes to whoever
// receives the array; call Free when done with it.
type Device int

const (
	CPU Device = iota
	CPUShared
)

// String returns a human-readable name for the device.
func (d Device) String() string {
	switch d {
	case CPU:
		return "cpu"
	case CPUShared:
		return "cpu_shared"
	default:
		return "unknown"
	}
}
