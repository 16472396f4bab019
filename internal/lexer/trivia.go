package lexer

import (
	"pyfix/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
//   - ' ', '\t', '\f' коалесцируются в один TriviaSpace
//   - '#' до конца строки -> TriviaComment
//   - '\' + перевод строки -> TriviaContinuation
//   - перевод строки внутри скобок или на пустой строке -> TriviaNewline
//
// A line break that ends a logical line is left for Next to emit as NEWLINE.
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		switch {
		case b == ' ' || b == '\t' || b == '\f':
			for {
				b2 := lx.cursor.Peek()
				if b2 != ' ' && b2 != '\t' && b2 != '\f' {
					break
				}
				lx.cursor.Bump()
			}
			lx.push(token.TriviaSpace, start)
			continue

		case b == '#':
			for !lx.cursor.EOF() {
				if _, nl := lx.cursor.AtNewline(); nl {
					break
				}
				lx.cursor.Bump()
			}
			lx.push(token.TriviaComment, start)
			continue

		case b == '\\':
			lx.cursor.Bump()
			if n, ok := lx.cursor.AtNewline(); ok {
				lx.cursor.Off += n
				lx.push(token.TriviaContinuation, start)
				continue
			}
			lx.cursor.Reset(start)
			return
		}

		if n, ok := lx.cursor.AtNewline(); ok {
			if lx.depth == 0 && !lx.bol {
				return
			}
			lx.cursor.Off += n
			lx.push(token.TriviaNewline, start)
			continue
		}
		return
	}
}

func (lx *Lexer) push(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
}
