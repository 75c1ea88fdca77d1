// Package scanner holds the byte-search loops behind the DX tokenizer and
// UTF-8 validator. Searches run eight bytes per step (SWAR) when the CPU
// reports vector support and fall back to a byte loop otherwise.
package scanner

import (
	"bytes"
	"encoding/binary"
	"math/bits"
	"unicode/utf8"
)

const (
	wordSize = 8

	lsb uint64 = 0x0101010101010101
	msb uint64 = 0x8080808080808080

	// maxWordDelims bounds the delimiter count handled by the word loop.
	// Larger sets go through a ByteSet.
	maxWordDelims = 8
)

var wide = hasSIMD()

// HasSIMD returns true if the word-at-a-time search paths are enabled.
func HasSIMD() bool {
	return wide
}

// Features names the CPU feature set selected at startup.
func Features() string {
	return features()
}

// ByteSet is a membership table for IndexSet.
type ByteSet [256]bool

// NewByteSet builds a set from the bytes of chars.
func NewByteSet(chars string) ByteSet {
	var s ByteSet
	for i := 0; i < len(chars); i++ {
		s[chars[i]] = true
	}
	return s
}

// Contains reports whether c is in the set.
func (s *ByteSet) Contains(c byte) bool {
	return s[c]
}

// IndexByte returns the index of the first delim in data, or -1.
func IndexByte(data []byte, delim byte) int {
	// The runtime implementation is already vectorised on every
	// architecture Go supports.
	return bytes.IndexByte(data, delim)
}

// IndexAny returns the index of the first byte of data that appears in
// delims, or -1.
func IndexAny(data []byte, delims []byte) int {
	switch len(delims) {
	case 0:
		return -1
	case 1:
		return IndexByte(data, delims[0])
	}
	if !wide || len(delims) > maxWordDelims || len(data) < 2*wordSize {
		return indexAnyScalar(data, delims)
	}
	return indexAnyWord(data, delims)
}

// IndexSet returns the index of the first byte of data contained in set,
// or -1.
func IndexSet(data []byte, set *ByteSet) int {
	i := 0
	for ; i+4 <= len(data); i += 4 {
		if set[data[i]] {
			return i
		}
		if set[data[i+1]] {
			return i + 1
		}
		if set[data[i+2]] {
			return i + 2
		}
		if set[data[i+3]] {
			return i + 3
		}
	}
	for ; i < len(data); i++ {
		if set[data[i]] {
			return i
		}
	}
	return -1
}

// ASCIIPrefix returns the length of the leading run of ASCII bytes.
func ASCIIPrefix(data []byte) int {
	i := 0
	if wide {
		for ; i+wordSize <= len(data); i += wordSize {
			if w := binary.LittleEndian.Uint64(data[i:]) & msb; w != 0 {
				return i + bits.TrailingZeros64(w)>>3
			}
		}
	}
	for ; i < len(data) && data[i] < utf8.RuneSelf; i++ {
	}
	return i
}

// zeroBytes sets the high bit of every zero byte in v. Bits above the
// first zero byte may be false positives, the lowest set bit never is.
func zeroBytes(v uint64) uint64 {
	return (v - lsb) &^ v & msb
}

func indexAnyWord(data []byte, delims []byte) int {
	var pats [maxWordDelims]uint64
	for j, d := range delims {
		pats[j] = lsb * uint64(d)
	}
	n := len(delims)

	i := 0
	for ; i+wordSize <= len(data); i += wordSize {
		w := binary.LittleEndian.Uint64(data[i:])
		var m uint64
		for j := 0; j < n; j++ {
			m |= zeroBytes(w ^ pats[j])
		}
		if m != 0 {
			return i + bits.TrailingZeros64(m)>>3
		}
	}
	if j := indexAnyScalar(data[i:], delims); j >= 0 {
		return i + j
	}
	return -1
}

func indexAnyScalar(data []byte, delims []byte) int {
	for i, c := range data {
		for _, d := range delims {
			if c == d {
				return i
			}
		}
	}
	return -1
}
