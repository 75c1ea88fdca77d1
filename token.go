package dx

import (
	"fmt"
	"strconv"
)

type TokenType uint8

const (
	TokenNone TokenType = iota
	TokenEOF
	TokenNewline
	TokenColon   // :
	TokenEquals  // = schema definition
	TokenCaret   // ^ prefix inheritance
	TokenPipe    // | array delimiter
	TokenStream  // >
	TokenDitto   // _ repeat previous value
	TokenNull    // ~
	TokenTrue    // +
	TokenFalse   // - when not followed by a digit
	TokenBang    // ! implicit true
	TokenVoid    // ? implicit null
	TokenDollar  // $ alias definition
	TokenAt      // @ anchor reference
	TokenPercent // % type hint
	TokenDot     // . path separator
	TokenIdent
	TokenInt
	TokenFloat
)

var tokenNames = [...]string{
	TokenNone:    "None",
	TokenEOF:     "EOF",
	TokenNewline: "Newline",
	TokenColon:   "Colon",
	TokenEquals:  "Equals",
	TokenCaret:   "Caret",
	TokenPipe:    "Pipe",
	TokenStream:  "Stream",
	TokenDitto:   "Ditto",
	TokenNull:    "Null",
	TokenTrue:    "True",
	TokenFalse:   "False",
	TokenBang:    "Bang",
	TokenVoid:    "Void",
	TokenDollar:  "Dollar",
	TokenAt:      "At",
	TokenPercent: "Percent",
	TokenDot:     "Dot",
	TokenIdent:   "Ident",
	TokenInt:     "Int",
	TokenFloat:   "Float",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", uint8(t))
}

// structural maps each single-byte token character to its type. '-' is
// absent because it depends on the byte that follows.
var structural = [256]TokenType{
	':': TokenColon,
	'=': TokenEquals,
	'^': TokenCaret,
	'|': TokenPipe,
	'>': TokenStream,
	'_': TokenDitto,
	'~': TokenNull,
	'+': TokenTrue,
	'!': TokenBang,
	'?': TokenVoid,
	'$': TokenDollar,
	'@': TokenAt,
	'%': TokenPercent,
	'.': TokenDot,
}

// Token is one lexical unit of DX text. Start and End delimit it in the
// input. For TokenIdent, Text is a sub-slice of the input, so the input
// must outlive the token and stay unmodified while the token is used.
type Token struct {
	Type  TokenType
	Start int
	End   int
	Text  []byte
	Int   int64
	Float float64
}

func (t Token) String() string {
	switch t.Type {
	case TokenIdent:
		return "Ident(" + strconv.Quote(string(t.Text)) + ")"
	case TokenInt:
		return "Int(" + strconv.FormatInt(t.Int, 10) + ")"
	case TokenFloat:
		return "Float(" + strconv.FormatFloat(t.Float, 'g', -1, 64) + ")"
	}
	return t.Type.String()
}
