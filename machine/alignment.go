package machine

import (
	"unsafe"
)

const (
	CacheLineSize = 64

	// PayloadAlignment is the alignment of buffers allocated by this
	// package. It covers every primitive type and most SIMD loads.
	PayloadAlignment = CacheLineSize
)

// AlignedBuffer is a byte slice whose first byte sits on a chosen
// power-of-two boundary.
type AlignedBuffer struct {
	data    []byte
	aligned []byte
}

// NewAlignedBuffer allocates size bytes aligned to alignment, which must be
// a power of two.
func NewAlignedBuffer(size int, alignment int) *AlignedBuffer {
	if alignment <= 0 || alignment&(alignment-1) != 0 {
		panic("machine: alignment must be a power of two")
	}
	if size == 0 {
		return &AlignedBuffer{aligned: []byte{}}
	}

	// Allocate extra space for alignment
	data := make([]byte, size+alignment-1)
	addr := uintptr(unsafe.Pointer(&data[0]))
	offset := int((addr+uintptr(alignment-1))&^uintptr(alignment-1) - addr)

	return &AlignedBuffer{
		data:    data,
		aligned: data[offset : offset+size : offset+size],
	}
}

// Bytes returns the aligned byte slice. Its capacity equals its length.
func (ab *AlignedBuffer) Bytes() []byte {
	return ab.aligned
}

func (ab *AlignedBuffer) Len() int {
	return len(ab.aligned)
}

// IsAligned checks if a pointer is aligned to the specified boundary
func IsAligned(ptr unsafe.Pointer, alignment int) bool {
	return uintptr(ptr)&uintptr(alignment-1) == 0
}
