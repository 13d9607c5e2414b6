package prompt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []Token
	}{
		{
			name:   "empty",
			source: "",
			want:   []Token{},
		},
		{
			name:   "literal only",
			source: "You are a helpful assistant.",
			want:   []Token{Literal("You are a helpful assistant.")},
		},
		{
			name:   "placeholder between literals",
			source: "a{name}b",
			want:   []Token{Literal("a"), Placeholder("name"), Literal("b")},
		},
		{
			name:   "placeholder only",
			source: "{text}",
			want:   []Token{Placeholder("text")},
		},
		{
			name:   "adjacent placeholders",
			source: "{x}{x}",
			want:   []Token{Placeholder("x"), Placeholder("x")},
		},
		{
			name:   "sentence",
			source: "translate {a} to {b}.",
			want: []Token{
				Literal("translate "), Placeholder("a"), Literal(" to "), Placeholder("b"), Literal("."),
			},
		},
		{
			name:   "stray closing brace is literal",
			source: "a } b {c}",
			want:   []Token{Literal("a } b "), Placeholder("c")},
		},
		{
			name:   "open brace inside name",
			source: "{a{b}",
			want:   []Token{Placeholder("a{b")},
		},
		{
			name:   "names keep spaces and case",
			source: "{ Name }{name}",
			want:   []Token{Placeholder(" Name "), Placeholder("name")},
		},
		{
			name:   "multibyte text",
			source: "héllo {wörld} ✓",
			want:   []Token{Literal("héllo "), Placeholder("wörld"), Literal(" ✓")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.source)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.source, Join(got))
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		kind   error
		offset int
	}{
		{"unterminated at end", "hello {", ErrUnterminatedPlaceholder, 6},
		{"unterminated with suffix", "{a} and {b", ErrUnterminatedPlaceholder, 8},
		{"lone brace", "{", ErrUnterminatedPlaceholder, 0},
		{"empty name", "say {}", ErrEmptyPlaceholderName, 4},
		{"empty name after valid", "{a}{}", ErrEmptyPlaceholderName, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.source)
			require.Error(t, err)
			require.Nil(t, tokens)
			require.True(t, errors.Is(err, tt.kind), "expected %v, got %v", tt.kind, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			require.Equal(t, tt.offset, perr.Offset)
		})
	}
}

func TestTokenizeLiteralOnlyProperty(t *testing.T) {
	inputs := []string{"a", "plain text", "line one\nline two", "tabs\tand } braces", "日本語"}
	for _, s := range inputs {
		tokens, err := Tokenize(s)
		require.NoError(t, err)
		require.Equal(t, []Token{Literal(s)}, tokens)
	}
}

func TestTokenString(t *testing.T) {
	if got := Placeholder("x").String(); got != "{x}" {
		t.Errorf("Placeholder.String() = %q, want %q", got, "{x}")
	}
	if got := Literal("x").String(); got != "x" {
		t.Errorf("Literal.String() = %q, want %q", got, "x")
	}
	if TokenPlaceholder.String() != "placeholder" || TokenLiteral.String() != "literal" {
		t.Errorf("unexpected kind names: %s %s", TokenPlaceholder, TokenLiteral)
	}
}
