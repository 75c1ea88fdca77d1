// Package machine reads the DXM machine format: typed values taken in place
// from a byte buffer, typically a memory-mapped file.
//
// Every read goes through a Deserializer, which checks that enough bytes
// remain and that the address is aligned for the requested type before
// handing out a pointer into the buffer. Values are read in the buffer's
// native in-memory layout; the endianness is whatever the producer wrote.
package machine

import (
	"errors"
	"math"
	"reflect"
	"sync"
	"unsafe"

	"github.com/dxformat/dx"
)

var ErrNegative = errors.New("machine: negative length or position")

// Deserializer is a cursor over an immutable buffer. It never copies and
// never writes to the buffer. A failed operation leaves the position
// untouched.
type Deserializer struct {
	buf []byte
	pos int
}

func NewDeserializer(buf []byte) *Deserializer {
	return &Deserializer{buf: buf}
}

func (d *Deserializer) Position() int {
	return d.pos
}

func (d *Deserializer) Remaining() int {
	return len(d.buf) - d.pos
}

func (d *Deserializer) Len() int {
	return len(d.buf)
}

// Skip advances the cursor by n bytes.
func (d *Deserializer) Skip(n int) error {
	if n < 0 {
		return ErrNegative
	}
	if rem := d.Remaining(); n > rem {
		return &dx.BufferTooSmallError{Needed: n, Available: rem}
	}
	d.pos += n
	return nil
}

// Seek moves the cursor to the absolute position pos, which may equal the
// buffer length.
func (d *Deserializer) Seek(pos int) error {
	if pos < 0 {
		return ErrNegative
	}
	if pos > len(d.buf) {
		return &dx.BufferTooSmallError{Needed: pos, Available: len(d.buf)}
	}
	d.pos = pos
	return nil
}

// ReadBytes returns the next n bytes without copying. The result's
// capacity is clipped to n.
func (d *Deserializer) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegative
	}
	if rem := d.Remaining(); n > rem {
		return nil, &dx.BufferTooSmallError{Needed: n, Available: rem}
	}
	start := d.pos
	d.pos += n
	return d.buf[start:d.pos:d.pos], nil
}

// check verifies size first and alignment second, so a short buffer always
// reports BufferTooSmall.
func (d *Deserializer) check(size, align int) error {
	if rem := d.Remaining(); size > rem {
		return &dx.BufferTooSmallError{Needed: size, Available: rem}
	}
	if size > 0 && !IsAligned(unsafe.Pointer(&d.buf[d.pos]), align) {
		return &dx.MisalignedError{Alignment: align, Offset: d.pos}
	}
	return nil
}

// Read returns a pointer to the T stored at the cursor and advances past
// it. T must not contain pointers, strings, slices, maps, channels, funcs
// or interfaces.
//
// The pointer aliases the buffer: it stays valid as long as the buffer
// does, and must not be written through.
func Read[T any](d *Deserializer) (*T, error) {
	if err := checkType[T](); err != nil {
		return nil, err
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	if err := d.check(size, int(unsafe.Alignof(zero))); err != nil {
		return nil, err
	}
	if size == 0 {
		return new(T), nil
	}
	p := (*T)(unsafe.Pointer(&d.buf[d.pos]))
	d.pos += size
	return p, nil
}

// ReadSlice returns count consecutive values of T at the cursor. It needs
// exactly count*Sizeof(T) bytes.
func ReadSlice[T any](d *Deserializer, count int) ([]T, error) {
	if err := checkType[T](); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, ErrNegative
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return make([]T, count), nil
	}

	needed := math.MaxInt
	if count <= math.MaxInt/size {
		needed = count * size
	}
	if err := d.check(needed, int(unsafe.Alignof(zero))); err != nil {
		return nil, err
	}
	if count == 0 {
		return []T{}, nil
	}
	s := unsafe.Slice((*T)(unsafe.Pointer(&d.buf[d.pos])), count)
	d.pos += needed
	return s[:count:count], nil
}

var pointerFree sync.Map // reflect.Type -> bool

func checkType[T any]() error {
	var zero T
	switch any(zero).(type) {
	case bool, int8, uint8, int16, uint16, int32, uint32, int64, uint64,
		int, uint, uintptr, float32, float64, complex64, complex128:
		return nil
	}

	typ := reflect.TypeOf((*T)(nil)).Elem()
	ok, cached := pointerFree.Load(typ)
	if !cached {
		ok = isPointerFree(typ)
		pointerFree.Store(typ, ok)
	}
	if !ok.(bool) {
		return &dx.UnsupportedTypeError{Type: typ}
	}
	return nil
}

func isPointerFree(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return t.Len() == 0 || isPointerFree(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !isPointerFree(t.Field(i).Type) {
				return false
			}
		}
		return true
	}
	return false
}
