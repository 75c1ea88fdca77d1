package scanner

// Byte classes used by the DX tokenizer.
const (
	ClassDigit      uint8 = 1 << 0 // 0-9
	ClassAlpha      uint8 = 1 << 1 // a-z, A-Z
	ClassIdent      uint8 = 1 << 2 // alphanumerics, _ . -
	ClassBlank      uint8 = 1 << 3 // space, tab
	ClassSpace      uint8 = 1 << 4 // ASCII whitespace: space \t \n \f \r
	ClassNewline    uint8 = 1 << 5 // \n \r
	ClassStructural uint8 = 1 << 6 // single-byte DX tokens
	ClassHigh       uint8 = 1 << 7 // 0x80-0xFF
)

// Structural holds every byte that maps to a single-byte DX token.
const Structural = ":=^|>_~+-!?$@%."

// CharClass is a 256-entry lookup table (one cache-friendly load per byte).
var CharClass = buildClasses()

func buildClasses() [256]uint8 {
	var t [256]uint8
	for c := '0'; c <= '9'; c++ {
		t[c] |= ClassDigit | ClassIdent
	}
	for c := 'a'; c <= 'z'; c++ {
		t[c] |= ClassAlpha | ClassIdent
		t[c-'a'+'A'] |= ClassAlpha | ClassIdent
	}
	t['_'] |= ClassIdent
	t['.'] |= ClassIdent
	t['-'] |= ClassIdent

	t[' '] |= ClassBlank | ClassSpace
	t['\t'] |= ClassBlank | ClassSpace
	t['\n'] |= ClassSpace | ClassNewline
	t['\r'] |= ClassSpace | ClassNewline
	t['\f'] |= ClassSpace

	for i := 0; i < len(Structural); i++ {
		t[Structural[i]] |= ClassStructural
	}
	for c := 0x80; c <= 0xFF; c++ {
		t[c] |= ClassHigh
	}
	return t
}

func IsDigit(c byte) bool { return CharClass[c]&ClassDigit != 0 }

func IsIdent(c byte) bool { return CharClass[c]&ClassIdent != 0 }

func IsBlank(c byte) bool { return CharClass[c]&ClassBlank != 0 }

// IsSpace reports ASCII whitespace as the DX format defines it. Vertical
// tab is not whitespace.
func IsSpace(c byte) bool { return CharClass[c]&ClassSpace != 0 }
