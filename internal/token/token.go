package token

import (
	"strings"

	"pyfix/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// Prefix joins the leading trivia into the exact bytes preceding the token.
func (t Token) Prefix() string {
	switch len(t.Leading) {
	case 0:
		return ""
	case 1:
		return t.Leading[0].Text
	}
	var sb strings.Builder
	for _, tv := range t.Leading {
		sb.WriteString(tv.Text)
	}
	return sb.String()
}

// IsKeyword reports whether the token is a NAME spelled as a keyword.
func (t Token) IsKeyword() bool { return t.Kind == Name && IsKeyword(t.Text) }

// IsName reports whether the token is a NAME with the given text.
func (t Token) IsName(text string) bool { return t.Kind == Name && t.Text == text }

// IsOp reports whether the token is the operator or delimiter text.
func (t Token) IsOp(text string) bool { return t.Kind.IsOperator() && t.Text == text }
