package token_test

import (
	"testing"

	"pyfix/internal/source"
	"pyfix/internal/token"
)

func TestKindNamesRoundTrip(t *testing.T) {
	for k := token.Invalid; k < token.NumKinds; k++ {
		name := k.String()
		if name == "UNKNOWN" {
			t.Fatalf("kind %d has no name", k)
		}
		back, ok := token.KindByName(name)
		if !ok || back != k {
			t.Fatalf("KindByName(%q) = %v,%v; want %v", name, back, ok, k)
		}
	}
}

func TestLookupOperator(t *testing.T) {
	tests := []struct {
		text string
		want token.Kind
	}{
		{"/", token.Slash},
		{"//", token.DoubleSlash},
		{"<>", token.NotEqual},
		{"!=", token.NotEqual},
		{"**=", token.DoubleStarEqual},
		{"->", token.RArrow},
	}
	for _, tt := range tests {
		got, ok := token.LookupOperator(tt.text)
		if !ok || got != tt.want {
			t.Errorf("LookupOperator(%q) = %v,%v; want %v", tt.text, got, ok, tt.want)
		}
		if !got.IsOperator() {
			t.Errorf("%v must be an operator", got)
		}
	}
	if _, ok := token.LookupOperator("!"); ok {
		t.Errorf("lone '!' is not an operator")
	}
}

func TestTokenPrefix(t *testing.T) {
	tok := token.Token{
		Kind: token.Name,
		Span: source.Span{Start: 12, End: 17},
		Text: "print",
		Leading: []token.Trivia{
			{Kind: token.TriviaComment, Text: "# note"},
			{Kind: token.TriviaNewline, Text: "\n"},
			{Kind: token.TriviaSpace, Text: "    "},
		},
	}
	if got := tok.Prefix(); got != "# note\n    " {
		t.Errorf("Prefix() = %q", got)
	}
	if !tok.IsKeyword() || !tok.IsName("print") {
		t.Errorf("print should be a keyword NAME")
	}
	if tok.IsOp("print") {
		t.Errorf("NAME is not an operator")
	}
}
