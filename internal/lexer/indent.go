package lexer

import (
	"pyfix/internal/diag"
	"pyfix/internal/token"
)

// indentation compares the column of the first token on a logical line
// with the indent stack and returns the INDENT/DEDENT tokens it implies.
// They are zero width; the whitespace stays in the next token's prefix.
func (lx *Lexer) indentation() []token.Token {
	col := lx.column()
	top := lx.indents[len(lx.indents)-1]
	sp := lx.emptySpan()
	switch {
	case col > top:
		lx.indents = append(lx.indents, col)
		return []token.Token{{Kind: token.Indent, Span: sp}}
	case col < top:
		var out []token.Token
		for len(lx.indents) > 1 && col < lx.indents[len(lx.indents)-1] {
			lx.indents = lx.indents[:len(lx.indents)-1]
			out = append(out, token.Token{Kind: token.Dedent, Span: sp})
		}
		if col != lx.indents[len(lx.indents)-1] {
			lx.errLex(diag.LexBadIndent, sp, "unindent does not match any outer indentation level")
		}
		return out
	}
	return nil
}

// column measures the current physical line up to the cursor.
func (lx *Lexer) column() int {
	col := 0
	for off := lx.cursor.LineStart(); off < lx.cursor.Off; off++ {
		switch lx.file.Content[off] {
		case '\t':
			col = (col/lx.opts.TabSize + 1) * lx.opts.TabSize
		case '\f':
			col = 0
		default:
			col++
		}
	}
	return col
}
