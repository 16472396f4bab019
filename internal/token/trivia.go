package token

import "pyfix/internal/source"

type TriviaKind uint8

const (
	TriviaSpace        TriviaKind = iota // spaces, tabs, form feeds
	TriviaNewline                        // '\n' that does not end a logical line
	TriviaComment                        // '#' up to end of line
	TriviaContinuation                   // backslash-newline
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaNewline:
		return "Newline"
	case TriviaComment:
		return "Comment"
	case TriviaContinuation:
		return "Continuation"
	}
	return "Unknown"
}

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
