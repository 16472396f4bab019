package lexer

import (
	"pyfix/internal/diag"
	"pyfix/internal/token"
)

// scanNumber accepts both dialects: 0x1F, 0o17, 0b101, old-style 0777,
// 10L, 1.5, .5, 1e-3, 3j, with '_' between digits.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if lx.cursor.Peek() == '0' {
		switch lx.cursor.PeekAt(1) {
		case 'x', 'X':
			return lx.scanRadix(start, isHex)
		case 'o', 'O':
			return lx.scanRadix(start, isOct)
		case 'b', 'B':
			return lx.scanRadix(start, func(b byte) bool { return b == '0' || b == '1' })
		}
	}

	lx.bumpWhile(isDec)

	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		lx.bumpWhile(isDec)
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if lx.bumpWhile(isDec) == 0 {
			// "1e" без цифр: 'e' начинает NAME
			lx.cursor.Reset(mark)
		}
	}

	switch lx.cursor.Peek() {
	case 'j', 'J', 'l', 'L':
		lx.cursor.Bump()
	}
	return lx.checkNumberEnd(start)
}

func (lx *Lexer) scanRadix(start Mark, digit func(byte) bool) token.Token {
	lx.cursor.Bump() // '0'
	lx.cursor.Bump() // x/o/b
	if lx.bumpWhile(digit) == 0 {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "missing digits after base prefix")
	}
	if b := lx.cursor.Peek(); b == 'l' || b == 'L' {
		lx.cursor.Bump()
	}
	return lx.checkNumberEnd(start)
}

// checkNumberEnd reports "123abc"-style literals but still emits the digits
// as a NUMBER so the remaining text is lexed as a NAME.
func (lx *Lexer) checkNumberEnd(start Mark) token.Token {
	tok := lx.emit(token.Number, start)
	if isIdentContinueByte(lx.cursor.Peek()) {
		lx.errLex(diag.LexBadNumber, tok.Span, "invalid number literal "+tok.Text)
	}
	return tok
}
