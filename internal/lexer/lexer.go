package lexer

import (
	"pyfix/internal/source"
	"pyfix/internal/token"
)

// Lexer splits Python source into tokens. Every byte of the input ends up
// either in a token's Text or in the Leading trivia of the following token,
// so concatenating Prefix()+Text over the stream reproduces the file.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // 1 элементный буфер для токена
	hold   []token.Trivia // накопленные leading trivia

	pending []token.Token // INDENT/DEDENT и токен за ними
	indents []int
	depth   int  // вложенность скобок
	bol     bool // начало логической строки
	done    bool // ENDMARKER уже выдан
}

func New(file *source.File, opts Options) *Lexer {
	if opts.TabSize <= 0 {
		opts.TabSize = 8
	}
	return &Lexer{
		file:    file,
		cursor:  NewCursor(file),
		opts:    opts,
		indents: []int{0},
		bol:     true,
	}
}

// Next возвращает следующий значимый токен с уже собранным Leading.
// После ENDMARKER всегда возвращает ENDMARKER.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	if len(lx.pending) > 0 {
		tok := lx.pending[0]
		lx.pending = lx.pending[1:]
		return tok
	}
	if lx.done {
		return token.Token{Kind: token.EndMarker, Span: lx.emptySpan()}
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		return lx.finish()
	}

	if n, ok := lx.cursor.AtNewline(); ok {
		start := lx.cursor.Mark()
		lx.cursor.Off += n
		lx.bol = true
		return lx.withLeading(lx.emit(token.Newline, start))
	}

	var dents []token.Token
	if lx.bol && lx.depth == 0 {
		dents = lx.indentation()
	}
	lx.bol = false

	tok := lx.withLeading(lx.scan())
	if len(dents) == 0 {
		return tok
	}
	lx.pending = append(dents[1:], tok)
	return dents[0]
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Tokenize runs the lexer to completion, ENDMARKER included.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	out := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EndMarker {
			return out
		}
	}
}

func (lx *Lexer) scan() token.Token {
	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch) && lx.isStringPrefix():
		return lx.scanString()
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		return lx.scanIdent()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '.' && isDec(lx.cursor.PeekAt(1)):
		return lx.scanNumber()
	case ch == '"' || ch == '\'':
		return lx.scanString()
	default:
		return lx.scanOperatorOrPunct()
	}
}

// finish closes the stream: a NEWLINE for an unterminated last line, the
// remaining DEDENTs and ENDMARKER carrying whatever trivia is left.
func (lx *Lexer) finish() token.Token {
	lx.done = true
	var out []token.Token
	if !lx.bol {
		lx.bol = true
		out = append(out, lx.withLeading(token.Token{Kind: token.Newline, Span: lx.emptySpan()}))
	}
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		out = append(out, token.Token{Kind: token.Dedent, Span: lx.emptySpan()})
	}
	out = append(out, lx.withLeading(token.Token{Kind: token.EndMarker, Span: lx.emptySpan()}))
	lx.pending = out[1:]
	return out[0]
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// withLeading переносит hold в токен и обнуляет hold.
func (lx *Lexer) withLeading(tok token.Token) token.Token {
	if len(lx.hold) > 0 {
		tok.Leading = lx.hold
		lx.hold = nil
	}
	return tok
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}
