package fragment

import (
	"log/slog"
	"strings"
)

// TokenKind distinguishes literal text from a placeholder reference.
type TokenKind uint8

const (
	Literal   TokenKind = iota // literal
	Reference                  // reference
)

func (k TokenKind) String() string {
	if k == Reference {
		return "reference"
	}

	return "literal"
}

// Placeholder delimiters.
const (
	openPlaceholder  = "#{"
	closePlaceholder = '}'
)

// Token is one piece of a query's source text.
// For a [Reference], Text holds the referenced name without delimiters.
type Token struct {
	Kind TokenKind
	Text string
}

// String returns the token's source spelling.
func (t Token) String() string {
	if t.Kind == Reference {
		return openPlaceholder + t.Text + string(closePlaceholder)
	}

	return t.Text
}

// Join concatenates the source spelling of every token.
func Join(tokens []Token) string {
	var sb strings.Builder

	for _, t := range tokens {
		sb.WriteString(t.String())
	}

	return sb.String()
}

// Parse splits input into an ordered sequence of literal and reference
// tokens.
//
// A reference is "#{" followed by one or more bytes other than '{', '}',
// space and tab, followed by "}". Everything else, including an unterminated
// "#{", is literal text merged into the longest possible [Literal] token.
// Joining the result always reproduces input; empty input yields no tokens.
func Parse(input string) ([]Token, error) {
	var (
		tokens []Token
		start  int // first byte of the pending literal
	)

	for pos := 0; pos < len(input); {
		name, width := scanReference(input[pos:])
		if width == 0 {
			pos++

			continue
		}

		if pos > start {
			tokens = append(tokens, Token{Kind: Literal, Text: input[start:pos]})
		}

		tokens = append(tokens, Token{Kind: Reference, Text: name})
		pos += width
		start = pos
	}

	if start < len(input) {
		tokens = append(tokens, Token{Kind: Literal, Text: input[start:]})
	}

	if Join(tokens) != input {
		return nil, ErrMalformedQuery.With(slog.String("source", input))
	}

	return tokens, nil
}

// scanReference matches a reference at the start of s and returns its name
// and byte width, or a zero width when s does not start with one.
func scanReference(s string) (string, int) {
	if !strings.HasPrefix(s, openPlaceholder) {
		return "", 0
	}

	for i := len(openPlaceholder); i < len(s); i++ {
		switch s[i] {
		case closePlaceholder:
			if i == len(openPlaceholder) {
				return "", 0
			}

			return s[len(openPlaceholder):i], i + 1

		case '{', ' ', '\t':
			return "", 0
		}
	}

	return "", 0
}
