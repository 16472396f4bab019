package lexer

import (
	"pyfix/internal/diag"
	"pyfix/internal/token"
)

// scanIdent сканирует NAME. Keywords are NAME tokens too; the parser looks
// at the text, as the classic tokenizer does.
func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if r < utf8RuneSelf {
		lx.cursor.Bump()
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	} else if sz > 0 && isIdentStartRune(r) {
		lx.bumpRune()
	} else {
		lx.bumpRune()
		tok := lx.emit(token.ErrorToken, start)
		lx.errLex(diag.LexUnknownChar, tok.Span, "invalid character in identifier")
		return tok
	}

	// Unicode хвост (в том числе после ASCII начала)
	for {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			break
		}
		lx.bumpRune()
	}
	return lx.emit(token.Name, start)
}
