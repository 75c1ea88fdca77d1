package scanner

import (
	"bytes"
	"strings"
	"testing"
)

func TestScanner_IndexAny(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		delims   string
		expected int
	}{
		{"empty input", "", "|\n", -1},
		{"no delims", "abc", "", -1},
		{"single delim", "hello|world", "|", 5},
		{"first of many", "abc#def|ghi", "|#", 3},
		{"not found", "plain words only", "|\n#", -1},
		{"at start", "|abc", "|\n", 0},
		{"at end", "abcdefghijklmnopq\n", "|\n", 17},
		{"second word", "abcdefgh" + "ijk|lmnop", "|\n#", 11},
		{"tail after words", strings.Repeat("x", 19) + "#", "|\n#", 19},
		{"high bytes", "caf\xc3\xa9 ok|", "|", 8},
		{"eight delims", "zzzzzzzzzzzzzzzz7", "01234567", 16},
		{"many delims", "zzzzzzzzzzzzzzzz9", "0123456789", 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IndexAny([]byte(tt.input), []byte(tt.delims))
			if got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

// The word loop and the byte loop must agree on every offset and every
// delimiter position, including matches straddling word boundaries.
func TestScanner_WordMatchesScalar(t *testing.T) {
	delimSets := []string{"|\n", "|\n#+-", "+-", "\x00\x80", "|\n#+-0123"[:8]}
	for _, delims := range delimSets {
		for size := 0; size < 40; size++ {
			for at := -1; at < size; at++ {
				data := bytes.Repeat([]byte{'a'}, size)
				if at >= 0 {
					data[at] = delims[len(delims)-1]
				}
				word := indexAnyWord(data, []byte(delims))
				scalar := indexAnyScalar(data, []byte(delims))
				if word != scalar {
					t.Fatalf("delims %q size %d at %d: word=%d scalar=%d", delims, size, at, word, scalar)
				}
			}
		}
	}
}

// A byte one below the delimiter borrows in the SWAR subtraction; the
// reported index must still be the real match.
func TestScanner_WordBorrow(t *testing.T) {
	data := []byte{'|' + 1, 0x00, '|', '|' - 1, 'a', 'a', 'a', 'a'}
	if got := indexAnyWord(data, []byte{'|', '#'}); got != 2 {
		t.Errorf("Expected 2, got %d", got)
	}
	data = []byte{0x01, 0x00, 0x01, 0x00, 0x01, 0x01, 0x01, 0x01}
	if got := indexAnyWord(data, []byte{0x00, '#'}); got != 1 {
		t.Errorf("Expected 1, got %d", got)
	}
}

func TestScanner_IndexSet(t *testing.T) {
	digits := NewByteSet("0123456789-|\n")
	tests := []struct {
		input    string
		expected int
	}{
		{"", -1},
		{"Alice", -1},
		{"Alice 30", 6},
		{"a|b", 1},
		{"Bob-Smith", 3},
		{"abcdefghijk\n", 11},
	}

	for _, tt := range tests {
		if got := IndexSet([]byte(tt.input), &digits); got != tt.expected {
			t.Errorf("IndexSet(%q): expected %d, got %d", tt.input, tt.expected, got)
		}
	}
	if !digits.Contains('7') || digits.Contains('a') {
		t.Error("Contains disagrees with the set contents")
	}
}

func TestScanner_ASCIIPrefix(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"empty", "", 0},
		{"ascii", "hello world", 11},
		{"long ascii", strings.Repeat("a", 100), 100},
		{"leading high", "\xe4\xb8\x96", 0},
		{"mid word", "Hello, \xe4\xb8\x96\xe7\x95\x8c", 7},
		{"second word", "abcdefghij\x80", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ASCIIPrefix([]byte(tt.input)); got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestScanner_Classes(t *testing.T) {
	for _, c := range []byte("azAZ09_.-") {
		if !IsIdent(c) {
			t.Errorf("%q should be an ident byte", c)
		}
	}
	for _, c := range []byte(" \t:|#\n\x80") {
		if IsIdent(c) {
			t.Errorf("%q should not be an ident byte", c)
		}
	}
	if !IsBlank(' ') || !IsBlank('\t') || IsBlank('\n') {
		t.Error("blank class must be space and tab only")
	}
	if !IsSpace('\n') || !IsSpace('\r') || !IsSpace('\f') || IsSpace('\v') {
		t.Error("space class mismatch")
	}
	for i := 0; i < len(Structural); i++ {
		if CharClass[Structural[i]]&ClassStructural == 0 {
			t.Errorf("%q missing structural class", Structural[i])
		}
	}
	if !IsDigit('5') || IsDigit('a') {
		t.Error("digit class mismatch")
	}
}

func TestScanner_Features(t *testing.T) {
	if Features() == "" {
		t.Error("Features must name a path")
	}
	if HasSIMD() && Features() == "scalar" {
		t.Error("SIMD enabled but features report scalar")
	}
}
