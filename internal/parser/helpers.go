package parser

import (
	"pyfix/internal/diag"
	"pyfix/internal/token"
	"pyfix/internal/tree"
)

// next съедает текущий токен и возвращает его листом.
func (p *Parser) next() *tree.Leaf {
	l := tree.LeafFromToken(p.tok)
	p.tok = p.lx.Next()
	return l
}

// peek смотрит на токен после текущего.
func (p *Parser) peek() token.Token {
	return p.lx.Peek()
}

func (p *Parser) at(k token.Kind) bool {
	return p.tok.Kind == k
}

func (p *Parser) atKw(kw string) bool {
	return p.tok.Kind == token.Name && p.tok.Text == kw
}

func (p *Parser) atStmtEnd() bool {
	return p.at(token.Newline) || p.at(token.Semi) || p.at(token.EndMarker)
}

func (p *Parser) expect(k token.Kind, code diag.Code, what string) *tree.Leaf {
	if !p.at(k) {
		p.fail(code, "expected "+what+", found "+p.describe())
	}
	return p.next()
}

func (p *Parser) expectKw(kw string) *tree.Leaf {
	if !p.atKw(kw) {
		p.fail(diag.SynUnexpectedToken, "expected '"+kw+"', found "+p.describe())
	}
	return p.next()
}

func (p *Parser) expectName() *tree.Leaf {
	if p.tok.Kind != token.Name || !nameAllowed(p.tok.Text) {
		p.fail(diag.SynUnexpectedToken, "expected a name, found "+p.describe())
	}
	return p.next()
}

// node builds an internal node, collapsing a single child into itself the
// way the classic CST does, so "x" is a NAME leaf and not a chain of
// test/or_test/.../atom wrappers.
func node(t tree.Type, kids []tree.Node) tree.Node {
	if len(kids) == 1 {
		return kids[0]
	}
	return tree.NewNode(t, kids...)
}

// nameAllowed reports whether a NAME may be used as an identifier.
// print and exec are names in expression position.
func nameAllowed(text string) bool {
	switch text {
	case "print", "exec", "async", "await", "nonlocal":
		return true
	}
	return !token.IsKeyword(text)
}

// startsExpr reports whether tok can begin an expression.
func startsExpr(tok token.Token) bool {
	switch tok.Kind {
	case token.Name:
		return nameAllowed(tok.Text) || tok.Text == "not" || tok.Text == "lambda"
	case token.Number, token.String, token.LPar, token.LSqb, token.LBrace,
		token.Backquote, token.Minus, token.Plus, token.Tilde, token.Star, token.Dot:
		return true
	}
	return false
}

func (p *Parser) startsExpr() bool { return startsExpr(p.tok) }

func isAugAssign(k token.Kind) bool {
	switch k {
	case token.PlusEqual, token.MinEqual, token.StarEqual, token.SlashEqual,
		token.PercentEqual, token.AmperEqual, token.VBarEqual, token.CircumflexEqual,
		token.LeftShiftEqual, token.RightShiftEqual, token.DoubleStarEqual,
		token.DoubleSlashEqual, token.AtEqual:
		return true
	}
	return false
}

// commaList parses elem (',' elem)* [','] and stops after a trailing comma
// when the next token cannot start another element.
func (p *Parser) commaList(t tree.Type, elem func() tree.Node, more func() bool) tree.Node {
	kids := []tree.Node{elem()}
	for p.at(token.Comma) {
		kids = append(kids, p.next())
		if !more() {
			break
		}
		kids = append(kids, elem())
	}
	return node(t, kids)
}
