package lexer

import (
	"pyfix/internal/diag"
	"pyfix/internal/token"
)

// scanOperatorOrPunct берёт самое длинное совпадение: 3, затем 2, затем 1 байт.
// Bracket depth is tracked here so newlines inside brackets become trivia.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	rest := lx.file.Content[lx.cursor.Off:lx.cursor.Limit]

	for n := min(3, len(rest)); n > 0; n-- {
		k, ok := token.LookupOperator(string(rest[:n]))
		if !ok {
			continue
		}
		lx.cursor.Off += uint32(n) //nolint:gosec // n <= 3
		switch k {
		case token.LPar, token.LSqb, token.LBrace:
			lx.depth++
		case token.RPar, token.RSqb, token.RBrace:
			if lx.depth > 0 {
				lx.depth--
			}
		}
		return lx.emit(k, start)
	}

	lx.bumpRune()
	tok := lx.emit(token.ErrorToken, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character "+tok.Text)
	return tok
}
