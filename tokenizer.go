package dx

import (
	"errors"
	"strconv"

	"github.com/dxformat/dx/internal/scanner"
)

var (
	// bytes that end a vacuum string when the next field is numeric
	vacuumNumberStops = scanner.NewByteSet("0123456789-|\n")
	// candidates that may end a vacuum string otherwise; '+' and '-' only
	// count after whitespace
	vacuumTextStops = []byte("|\n#+-")
)

// Tokenizer lexes DX text. It borrows the input for its whole lifetime,
// never modifies it and never allocates. A Tokenizer is a plain value;
// copying it checkpoints the cursor.
type Tokenizer struct {
	input []byte
	pos   int
}

func NewTokenizer(input []byte) *Tokenizer {
	return &Tokenizer{input: input}
}

func (t *Tokenizer) Pos() int {
	return t.pos
}

// ResetTo moves the cursor to pos, clamped to the input.
func (t *Tokenizer) ResetTo(pos int) {
	t.pos = min(max(pos, 0), len(t.input))
}

func (t *Tokenizer) IsEOF() bool {
	return t.pos >= len(t.input)
}

// Peek returns the byte at the cursor.
func (t *Tokenizer) Peek() (byte, bool) {
	return t.PeekN(0)
}

// PeekN returns the byte n positions past the cursor, or false past the
// end of input.
func (t *Tokenizer) PeekN(n int) (byte, bool) {
	i := t.pos + n
	if n < 0 || i >= len(t.input) {
		return 0, false
	}
	return t.input[i], true
}

// Advance moves the cursor forward by n bytes, stopping at the end of
// input.
func (t *Tokenizer) Advance(n int) {
	if n <= 0 {
		return
	}
	t.pos += min(n, len(t.input)-t.pos)
}

// SkipWhitespace consumes spaces and tabs. Newlines are tokens and are
// left alone.
func (t *Tokenizer) SkipWhitespace() {
	for t.pos < len(t.input) && scanner.IsBlank(t.input[t.pos]) {
		t.pos++
	}
}

// SkipLine consumes everything up to and including the next '\n'.
func (t *Tokenizer) SkipLine() {
	if i := scanner.IndexByte(t.input[t.pos:], '\n'); i >= 0 {
		t.pos += i + 1
		return
	}
	t.pos = len(t.input)
}

// ReadUntil returns the bytes before the next delim and leaves the cursor
// on it. Without a delim it consumes the rest of the input.
func (t *Tokenizer) ReadUntil(delim byte) []byte {
	return t.readTo(scanner.IndexByte(t.input[t.pos:], delim))
}

// ReadUntilAny is ReadUntil for a set of delimiters.
func (t *Tokenizer) ReadUntilAny(delims []byte) []byte {
	return t.readTo(scanner.IndexAny(t.input[t.pos:], delims))
}

func (t *Tokenizer) readTo(i int) []byte {
	start := t.pos
	if i < 0 {
		t.pos = len(t.input)
	} else {
		t.pos += i
	}
	return t.span(start, t.pos)
}

// ReadIdent consumes the longest run of ASCII alphanumerics, '_', '.' and
// '-'.
func (t *Tokenizer) ReadIdent() []byte {
	start := t.pos
	for t.pos < len(t.input) && scanner.IsIdent(t.input[t.pos]) {
		t.pos++
	}
	return t.span(start, t.pos)
}

// ReadIdentValidated is ReadIdent with the result checked as UTF-8.
func (t *Tokenizer) ReadIdentValidated() (string, error) {
	start := t.pos
	s, err := ValidateStringInput(t.ReadIdent(), start)
	if err != nil {
		t.pos = start
		return "", err
	}
	return s, nil
}

// ReadNumber consumes an optional '-', digits, at most one '.', and an
// optional exponent. Spans without '.' or exponent become TokenInt,
// others TokenFloat. On error the cursor does not move.
func (t *Tokenizer) ReadNumber() (Token, error) {
	in := t.input
	start := t.pos
	i := start

	if i < len(in) && in[i] == '-' {
		i++
	}
	i = skipDigits(in, i)

	isFloat := false
	if i < len(in) && in[i] == '.' {
		isFloat = true
		i = skipDigits(in, i+1)
	}
	if i < len(in) && (in[i] == 'e' || in[i] == 'E') {
		isFloat = true
		i++
		if i < len(in) && (in[i] == '+' || in[i] == '-') {
			i++
		}
		i = skipDigits(in, i)
	}

	text := in[start:i]
	s, err := ValidateUTF8(text)
	if err != nil {
		return Token{}, &NumberError{Text: string(text), Offset: start}
	}

	tok := Token{Start: start, End: i}
	if isFloat {
		f, err := strconv.ParseFloat(s, 64)
		// Out of range literals saturate to ±Inf or 0.
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return Token{}, &NumberError{Text: string(text), Offset: start}
		}
		tok.Type, tok.Float = TokenFloat, f
	} else {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Token{}, &NumberError{Text: string(text), Offset: start}
		}
		tok.Type, tok.Int = TokenInt, n
	}
	t.pos = i
	return tok, nil
}

func skipDigits(in []byte, i int) int {
	for i < len(in) && scanner.IsDigit(in[i]) {
		i++
	}
	return i
}

// ReadStringVacuum reads an unquoted string field whose end is implied by
// the schema rather than by quotes.
//
// When nextIsNumber is set the field ends at the first digit, '-', '|' or
// newline. Otherwise it ends at '|', newline or '#', or at a '+' or '-'
// that follows whitespace inside the field, so "Alice +" ends before the
// boolean. Trailing ASCII whitespace is trimmed from the result; the cursor
// stops on the terminating byte.
func (t *Tokenizer) ReadStringVacuum(nextIsNumber bool) []byte {
	start := t.pos
	rest := t.input[start:]

	var end int
	if nextIsNumber {
		end = scanner.IndexSet(rest, &vacuumNumberStops)
	} else {
		end = vacuumTextEnd(rest)
	}
	if end < 0 {
		end = len(rest)
	}
	t.pos = start + end

	for end > 0 && scanner.IsSpace(rest[end-1]) {
		end--
	}
	return t.span(start, start+end)
}

func vacuumTextEnd(rest []byte) int {
	off := 0
	for {
		i := scanner.IndexAny(rest[off:], vacuumTextStops)
		if i < 0 {
			return -1
		}
		k := off + i
		switch rest[k] {
		case '+', '-':
			if k > 0 && scanner.IsSpace(rest[k-1]) {
				return k
			}
			off = k + 1
			continue
		}
		return k
	}
}

// ReadStringValidated is ReadStringVacuum with the field checked as UTF-8.
// Error offsets are absolute in the input. On error the cursor does not
// move.
func (t *Tokenizer) ReadStringValidated(nextIsNumber bool) (string, error) {
	start := t.pos
	s, err := ValidateStringInput(t.ReadStringVacuum(nextIsNumber), start)
	if err != nil {
		t.pos = start
		return "", err
	}
	return s, nil
}

// NextToken returns the next token. Comments run from '#' to the end of
// the line and are dropped together with their newline.
func (t *Tokenizer) NextToken() (Token, error) {
	for {
		t.SkipWhitespace()
		start := t.pos
		if start >= len(t.input) {
			return Token{Type: TokenEOF, Start: start, End: start}, nil
		}

		c := t.input[start]
		switch c {
		case '\n':
			t.pos++
			return Token{Type: TokenNewline, Start: start, End: t.pos}, nil
		case '\r':
			t.pos++
			if t.pos < len(t.input) && t.input[t.pos] == '\n' {
				t.pos++
			}
			return Token{Type: TokenNewline, Start: start, End: t.pos}, nil
		case '#':
			t.SkipLine()
			continue
		case '-':
			if next, ok := t.PeekN(1); ok && scanner.IsDigit(next) {
				return t.ReadNumber()
			}
			t.pos++
			return Token{Type: TokenFalse, Start: start, End: t.pos}, nil
		}

		if typ := structural[c]; typ != TokenNone {
			t.pos++
			return Token{Type: typ, Start: start, End: t.pos}, nil
		}
		if scanner.IsDigit(c) {
			return t.ReadNumber()
		}
		return t.identToken(), nil
	}
}

// identToken wraps ReadIdent. Bytes that cannot start an identifier are
// still consumed, a run of non-ASCII bytes or else a single byte, so the
// caller always makes progress.
func (t *Tokenizer) identToken() Token {
	start := t.pos
	text := t.ReadIdent()
	if len(text) == 0 {
		for t.pos < len(t.input) && t.input[t.pos] >= 0x80 {
			t.pos++
		}
		if t.pos == start {
			t.pos++
		}
		text = t.span(start, t.pos)
	}
	return Token{Type: TokenIdent, Start: start, End: t.pos, Text: text}
}

// PeekToken returns the next token without consuming it.
func (t *Tokenizer) PeekToken() (Token, error) {
	probe := *t
	return probe.NextToken()
}

// Location reports the line and column of the cursor.
func (t *Tokenizer) Location() Location {
	return LocationOf(t.input, t.pos)
}

// span returns input[start:end] with its capacity clipped so appending to
// it cannot overwrite the input.
func (t *Tokenizer) span(start, end int) []byte {
	return t.input[start:end:end]
}

// Tokenize lexes input up to EOF. The returned slice comes from a pool and
// may be handed back with PutTokens once the caller is done with it.
func Tokenize(input []byte) ([]Token, error) {
	if err := CheckInputSize(len(input)); err != nil {
		return nil, err
	}
	tokens := getTokenSlice()
	t := Tokenizer{input: input}
	for {
		tok, err := t.NextToken()
		if err != nil {
			PutTokens(tokens)
			return nil, err
		}
		if tok.Type == TokenEOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}
