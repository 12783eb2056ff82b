// Package tokenizer provides the token codec used for chunking.
//
// Tokens are opaque countable units with an exact reversible decode:
// Decode(Encode(s)) == s for any input with at least one
// non-whitespace character; whitespace-only text encodes to no tokens.
// Each token is one maximal run
// of non-whitespace characters together with the whitespace run that
// precedes it, so slicing a token sequence anywhere and decoding the
// slices reconstructs the original text without loss.
package tokenizer

import "unicode"

// Token is one countable text unit.
type Token string

// Encode splits text into tokens. Text that is empty or whitespace-only
// produces no tokens. Leading whitespace attaches to the first token,
// trailing whitespace to the last.
func Encode(text string) []Token {
	var tokens []Token
	start := 0
	inWord := false

	for i, r := range text {
		if unicode.IsSpace(r) {
			if inWord {
				tokens = append(tokens, Token(text[start:i]))
				start = i
				inWord = false
			}
		} else {
			inWord = true
		}
	}

	switch {
	case inWord:
		tokens = append(tokens, Token(text[start:]))
	case len(tokens) > 0 && start < len(text):
		tokens[len(tokens)-1] += Token(text[start:])
	}

	return tokens
}

// Decode concatenates tokens back into text.
func Decode(tokens []Token) string {
	n := 0
	for _, t := range tokens {
		n += len(t)
	}
	buf := make([]byte, 0, n)
	for _, t := range tokens {
		buf = append(buf, t...)
	}
	return string(buf)
}

// Count returns the number of tokens in text.
func Count(text string) int {
	return len(Encode(text))
}
