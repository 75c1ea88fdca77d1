package dx

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrInvalidNumber   = errors.New("dx: invalid number")
	ErrInvalidUTF8     = errors.New("dx: invalid UTF-8")
	ErrBufferTooSmall  = errors.New("dx: buffer too small")
	ErrMisaligned      = errors.New("dx: misaligned read")
	ErrInputTooLarge   = errors.New("dx: input too large")
	ErrUnsupportedType = errors.New("dx: unsupported type")
)

// NumberError reports a numeric literal that does not parse as int64 or
// float64.
type NumberError struct {
	Text   string
	Offset int
}

func (e *NumberError) Error() string {
	return fmt.Sprintf("dx: invalid number %q at byte offset %d", e.Text, e.Offset)
}

func (e *NumberError) Is(target error) bool { return target == ErrInvalidNumber }

// UTF8Reason classifies why a byte sequence is not valid UTF-8.
type UTF8Reason uint8

const (
	// ReasonUnknown is reported by the fast validator, which only knows
	// where decoding stopped.
	ReasonUnknown UTF8Reason = iota
	ReasonStrayContinuation
	ReasonInvalidLeadByte
	ReasonTruncated
	ReasonInvalidContinuation
	ReasonOverlong
	ReasonSurrogate
	ReasonOutOfRange
)

var utf8ReasonNames = [...]string{
	ReasonUnknown:             "invalid sequence",
	ReasonStrayContinuation:   "unexpected continuation byte",
	ReasonInvalidLeadByte:     "invalid leading byte",
	ReasonTruncated:           "truncated sequence",
	ReasonInvalidContinuation: "invalid continuation byte",
	ReasonOverlong:            "overlong encoding",
	ReasonSurrogate:           "encoded surrogate",
	ReasonOutOfRange:          "code point beyond U+10FFFF",
}

func (r UTF8Reason) String() string {
	if int(r) < len(utf8ReasonNames) {
		return utf8ReasonNames[r]
	}
	return fmt.Sprintf("UTF8Reason(%d)", uint8(r))
}

// UTF8Error reports invalid UTF-8. Offset is the absolute position of the
// sequence that failed, which equals the length of the longest valid
// prefix. Byte is the byte that caused the rejection when HasByte is set.
type UTF8Error struct {
	Offset  int
	Byte    byte
	HasByte bool
	Reason  UTF8Reason
}

func (e *UTF8Error) Error() string {
	if e.HasByte {
		return fmt.Sprintf("dx: invalid UTF-8 at byte offset %d: %s (0x%02X)", e.Offset, e.Reason, e.Byte)
	}
	return fmt.Sprintf("dx: invalid UTF-8 at byte offset %d: %s", e.Offset, e.Reason)
}

func (e *UTF8Error) Is(target error) bool { return target == ErrInvalidUTF8 }

// BufferTooSmallError reports a read that needs more bytes than remain.
type BufferTooSmallError struct {
	Needed    int
	Available int
}

func (e *BufferTooSmallError) Error() string {
	return fmt.Sprintf("dx: buffer too small: need %d bytes, have %d", e.Needed, e.Available)
}

func (e *BufferTooSmallError) Is(target error) bool { return target == ErrBufferTooSmall }

// MisalignedError reports a read whose address does not satisfy the
// alignment of the requested type. Offset is the cursor position.
type MisalignedError struct {
	Alignment int
	Offset    int
}

func (e *MisalignedError) Error() string {
	return fmt.Sprintf("dx: misaligned read: type needs %d-byte alignment, offset %d is not aligned", e.Alignment, e.Offset)
}

func (e *MisalignedError) Is(target error) bool { return target == ErrMisaligned }

type InputTooLargeError struct {
	Size int
	Max  int
}

func (e *InputTooLargeError) Error() string {
	return fmt.Sprintf("dx: input too large: %d bytes exceeds maximum of %d bytes", e.Size, e.Max)
}

func (e *InputTooLargeError) Is(target error) bool { return target == ErrInputTooLarge }

// UnsupportedTypeError reports a type that cannot be read in place because
// it contains pointers.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("dx: type %v contains pointers and cannot be read from raw bytes", e.Type)
}

func (e *UnsupportedTypeError) Is(target error) bool { return target == ErrUnsupportedType }

// ErrorOffset returns the input offset carried by err, if any.
func ErrorOffset(err error) (int, bool) {
	var ne *NumberError
	if errors.As(err, &ne) {
		return ne.Offset, true
	}
	var ue *UTF8Error
	if errors.As(err, &ue) {
		return ue.Offset, true
	}
	return 0, false
}
