package lexer

import (
	"strings"

	"pyfix/internal/diag"
	"pyfix/internal/token"
)

// isStringPrefix reports whether the cursor sits on a string prefix such as
// r, b, u, f, rb, br, ur, fr followed by a quote.
func (lx *Lexer) isStringPrefix() bool {
	for n := uint32(0); n < 3; n++ {
		switch b := lx.cursor.PeekAt(n); b {
		case '\'', '"':
			return n > 0
		case 'r', 'R', 'b', 'B', 'u', 'U', 'f', 'F':
			if n == 2 {
				return false
			}
		default:
			return false
		}
	}
	return false
}

// scanString сканирует строковый литерал целиком, включая префикс и кавычки.
// Escapes are skipped, not decoded; the token text is the exact source slice.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	for {
		b := lx.cursor.Peek()
		if b == '\'' || b == '"' {
			break
		}
		lx.cursor.Bump()
	}
	q := lx.cursor.Bump()
	triple := lx.cursor.Peek() == q && lx.cursor.PeekAt(1) == q
	if triple {
		lx.cursor.Bump()
		lx.cursor.Bump()
	}

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '\\':
			lx.cursor.Bump()
			if n, ok := lx.cursor.AtNewline(); ok {
				lx.cursor.Off += n
			} else {
				lx.cursor.Bump()
			}
			continue
		case b == q && !triple:
			lx.cursor.Bump()
			return lx.emit(token.String, start)
		case b == q && lx.cursor.PeekAt(1) == q && lx.cursor.PeekAt(2) == q:
			lx.cursor.Off += 3
			return lx.emit(token.String, start)
		case !triple:
			if _, nl := lx.cursor.AtNewline(); nl {
				tok := lx.emit(token.ErrorToken, start)
				lx.errLex(diag.LexUnterminatedString, tok.Span, "EOL while scanning string literal")
				return tok
			}
		}
		lx.cursor.Bump()
	}

	tok := lx.emit(token.ErrorToken, start)
	msg := "EOF while scanning string literal"
	if triple {
		msg = "EOF while scanning triple-quoted string literal"
	}
	lx.errLex(diag.LexUnterminatedString, tok.Span, msg)
	return tok
}

// StringPrefix returns the lowercase prefix letters of a string literal.
func StringPrefix(text string) string {
	i := strings.IndexAny(text, "'\"")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(text[:i])
}
