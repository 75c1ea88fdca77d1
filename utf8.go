package dx

import (
	"unicode/utf8"
	"unsafe"

	"github.com/dxformat/dx/internal/scanner"
)

// ValidateUTF8 checks b with the strict standard decoder and returns it as
// a string without copying. On failure the error offset is the length of
// the longest valid prefix and the reason is ReasonUnknown.
//
// The returned string aliases b; b must not be modified afterwards.
func ValidateUTF8(b []byte) (string, error) {
	for i := 0; i < len(b); {
		if b[i] < utf8.RuneSelf {
			i += scanner.ASCIIPrefix(b[i:])
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return "", &UTF8Error{Offset: i, Byte: b[i], HasByte: true}
		}
		i += size
	}
	return bytesToString(b), nil
}

// ValidateUTF8Detailed walks b byte by byte and classifies the first
// invalid sequence. It rejects overlong encodings, UTF-16 surrogates and
// code points above U+10FFFF. On success b is returned as a string without
// a second pass or a copy.
func ValidateUTF8Detailed(b []byte) (string, error) {
	n := len(b)
	for i := 0; i < n; {
		c := b[i]
		if c < utf8.RuneSelf {
			i += scanner.ASCIIPrefix(b[i:])
			continue
		}

		var size int
		var cp rune
		switch {
		case c&0xC0 == 0x80:
			return "", utf8Error(i, c, ReasonStrayContinuation)
		case c&0xE0 == 0xC0:
			size, cp = 2, rune(c&0x1F)
		case c&0xF0 == 0xE0:
			size, cp = 3, rune(c&0x0F)
		case c&0xF8 == 0xF0:
			size, cp = 4, rune(c&0x07)
		default:
			return "", utf8Error(i, c, ReasonInvalidLeadByte)
		}

		if i+size > n {
			return "", utf8Error(i, c, ReasonTruncated)
		}
		for j := 1; j < size; j++ {
			cc := b[i+j]
			if cc&0xC0 != 0x80 {
				return "", utf8Error(i, cc, ReasonInvalidContinuation)
			}
			cp = cp<<6 | rune(cc&0x3F)
		}

		switch {
		case cp < minForSize[size]:
			return "", utf8Error(i, c, ReasonOverlong)
		case cp >= 0xD800 && cp <= 0xDFFF:
			return "", utf8Error(i, c, ReasonSurrogate)
		case cp > utf8.MaxRune:
			return "", utf8Error(i, c, ReasonOutOfRange)
		}
		i += size
	}
	return bytesToString(b), nil
}

// ValidateStringInput validates a field cut from a larger buffer. baseOffset
// is the field's position in that buffer and is added to error offsets.
func ValidateStringInput(b []byte, baseOffset int) (string, error) {
	s, err := ValidateUTF8Detailed(b)
	if err != nil {
		ue := *err.(*UTF8Error)
		ue.Offset += baseOffset
		return "", &ue
	}
	return s, nil
}

// smallest code point that needs a sequence of the indexed length
var minForSize = [5]rune{0, 0, 0x80, 0x800, 0x10000}

func utf8Error(offset int, b byte, reason UTF8Reason) *UTF8Error {
	return &UTF8Error{Offset: offset, Byte: b, HasByte: true, Reason: reason}
}

func bytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}
