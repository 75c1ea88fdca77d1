package dx

import "sync"

var tokenPool = sync.Pool{
	New: func() interface{} {
		s := make([]Token, 0, 64)
		return &s
	},
}

func getTokenSlice() []Token {
	return (*tokenPool.Get().(*[]Token))[:0]
}

// PutTokens returns a slice obtained from Tokenize to the pool. The
// tokens must not be used afterwards.
func PutTokens(tokens []Token) {
	if cap(tokens) > 4096 { // Don't pool very large slices
		return
	}
	for i := range tokens {
		tokens[i].Text = nil // drop references into the input
	}
	tokens = tokens[:0]
	tokenPool.Put(&tokens)
}
