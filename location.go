package dx

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	// MaxInputSize caps the inputs accepted by Tokenize and the machine
	// package (100 MiB).
	MaxInputSize = 100 << 20

	// MaxSnippetLength is the number of input bytes shown around an error.
	MaxSnippetLength = 50
)

// CheckInputSize rejects inputs larger than MaxInputSize.
func CheckInputSize(n int) error {
	if n > MaxInputSize {
		return &InputTooLargeError{Size: n, Max: MaxInputSize}
	}
	return nil
}

// Location is a 1-based line and column plus the byte offset it came from.
type Location struct {
	Line   int
	Column int
	Offset int
}

func (l Location) String() string {
	return fmt.Sprintf("line %d, column %d", l.Line, l.Column)
}

// LocationOf converts a byte offset in input into a line and column.
// Columns count bytes.
func LocationOf(input []byte, offset int) Location {
	loc := Location{Line: 1, Column: 1, Offset: offset}
	if offset > len(input) {
		offset = len(input)
	}
	for _, c := range input[:max(offset, 0)] {
		if c == '\n' {
			loc.Line++
			loc.Column = 1
		} else {
			loc.Column++
		}
	}
	return loc
}

// Snippet returns up to MaxSnippetLength bytes of input centred on offset,
// with invalid UTF-8 replaced and control characters other than tab
// removed.
func Snippet(input []byte, offset int) string {
	if len(input) == 0 {
		return ""
	}
	offset = min(max(offset, 0), len(input)-1)

	half := MaxSnippetLength / 2
	start := max(offset-half, 0)
	end := min(offset+half, len(input))
	slice := input[start:end]

	snippet := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\t' {
			return -1
		}
		return r
	}, strings.ToValidUTF8(string(slice), "\uFFFD"))

	if strings.TrimSpace(snippet) == "" && len(slice) > 0 {
		return fmt.Sprintf("<%d bytes>", len(slice))
	}
	return snippet
}

// Describe renders err with the location and snippet of the input it
// points into. Errors without an offset are returned as is.
func Describe(input []byte, err error) string {
	if err == nil {
		return ""
	}
	offset, ok := ErrorOffset(err)
	if !ok {
		return err.Error()
	}
	return fmt.Sprintf("%v at %s\n  --> %s", err, LocationOf(input, offset), Snippet(input, offset))
}
