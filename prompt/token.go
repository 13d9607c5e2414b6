package prompt

import "strings"

// TokenKind distinguishes literal text from placeholder references.
type TokenKind int

const (
	TokenLiteral TokenKind = iota
	TokenPlaceholder
)

func (k TokenKind) String() string {
	switch k {
	case TokenLiteral:
		return "literal"
	case TokenPlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// Token is one segment of a template. For placeholders, Text holds the
// variable name.
type Token struct {
	Kind TokenKind
	Text string
}

// Literal returns a literal text token.
func Literal(text string) Token {
	return Token{Kind: TokenLiteral, Text: text}
}

// Placeholder returns a placeholder token referencing name.
func Placeholder(name string) Token {
	return Token{Kind: TokenPlaceholder, Text: name}
}

// IsPlaceholder reports whether t references a variable.
func (t Token) IsPlaceholder() bool {
	return t.Kind == TokenPlaceholder
}

// String returns the token in template syntax.
func (t Token) String() string {
	if t.Kind == TokenPlaceholder {
		return "{" + t.Text + "}"
	}
	return t.Text
}

// Tokenize splits source into literal and placeholder tokens.
//
// A '{' opens a placeholder that runs to the next '}'. The name is the text
// strictly between the braces and must not be empty. A '{' without a later
// '}' is an error. A '}' outside a placeholder is ordinary text.
func Tokenize(source string) ([]Token, error) {
	tokens := make([]Token, 0, 4)
	pos := 0
	for pos < len(source) {
		open := strings.IndexByte(source[pos:], '{')
		if open < 0 {
			tokens = append(tokens, Literal(source[pos:]))
			break
		}
		open += pos
		if open > pos {
			tokens = append(tokens, Literal(source[pos:open]))
		}

		end := strings.IndexByte(source[open+1:], '}')
		if end < 0 {
			return nil, &ParseError{Kind: ErrUnterminatedPlaceholder, Offset: open}
		}
		name := source[open+1 : open+1+end]
		if name == "" {
			return nil, &ParseError{Kind: ErrEmptyPlaceholderName, Offset: open}
		}
		tokens = append(tokens, Placeholder(name))
		pos = open + 1 + end + 1
	}
	return tokens, nil
}

// Join reassembles tokens into template syntax. Join(Tokenize(s)) == s for
// every s that tokenizes without error.
func Join(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.String())
	}
	return b.String()
}
