package parser

import (
	"pyfix/internal/diag"
	"pyfix/internal/token"
	"pyfix/internal/tree"
)

// atom: '(' [yield_expr|testlist_gexp] ')' | '[' [listmaker] ']' |
//
//	'{' [dictsetmaker] '}' | '`' testlist1 '`' | NAME | NUMBER | STRING+ | '...'
func (p *Parser) atom() tree.Node {
	switch p.tok.Kind {
	case token.LPar:
		kids := []tree.Node{p.next()}
		switch {
		case p.atKw("yield"):
			kids = append(kids, p.yieldExpr())
		case !p.at(token.RPar):
			kids = append(kids, p.sequence(tree.TestlistGexp))
		}
		kids = append(kids, p.expect(token.RPar, diag.SynUnclosedDelimiter, "')'"))
		return tree.NewNode(tree.Atom, kids...)
	case token.LSqb:
		kids := []tree.Node{p.next()}
		if !p.at(token.RSqb) {
			kids = append(kids, p.sequence(tree.Listmaker))
		}
		kids = append(kids, p.expect(token.RSqb, diag.SynUnclosedDelimiter, "']'"))
		return tree.NewNode(tree.Atom, kids...)
	case token.LBrace:
		kids := []tree.Node{p.next()}
		if !p.at(token.RBrace) {
			kids = append(kids, p.dictsetmaker())
		}
		kids = append(kids, p.expect(token.RBrace, diag.SynUnclosedDelimiter, "'}'"))
		return tree.NewNode(tree.Atom, kids...)
	case token.Backquote:
		return tree.NewNode(tree.Atom, p.next(), p.testlist(),
			p.expect(token.Backquote, diag.SynUnclosedDelimiter, "'`'"))
	case token.Number:
		return p.next()
	case token.String:
		kids := []tree.Node{p.next()}
		for p.at(token.String) {
			kids = append(kids, p.next())
		}
		return node(tree.Atom, kids)
	case token.Dot:
		if p.peek().Kind == token.Dot {
			return tree.NewNode(tree.Atom, p.next(), p.next(), p.expect(token.Dot, diag.SynUnexpectedToken, "'...'"))
		}
	case token.Name:
		if nameAllowed(p.tok.Text) {
			return p.next()
		}
	}
	p.fail(diag.SynExpectExpression, "invalid syntax: expected expression, found "+p.describe())
	return nil
}

// sequence parses listmaker and testlist_gexp, which only differ by type:
// (namedexpr_test|star_expr) ( comp_for | (',' (namedexpr_test|star_expr))* [','] )
func (p *Parser) sequence(t tree.Type) tree.Node {
	first := p.namedexprTestOrStar()
	if p.atCompFor() {
		return tree.NewNode(t, first, p.compFor())
	}
	kids := []tree.Node{first}
	for p.at(token.Comma) {
		kids = append(kids, p.next())
		if !p.startsExpr() {
			break
		}
		kids = append(kids, p.namedexprTestOrStar())
	}
	return node(t, kids)
}

func (p *Parser) atCompFor() bool {
	return p.atKw("for") || (p.atKw("async") && p.peek().IsName("for"))
}

// comp_for: ['async'] 'for' exprlist 'in' or_test [comp_iter]
func (p *Parser) compFor() tree.Node {
	var kids []tree.Node
	if p.atKw("async") {
		kids = append(kids, p.next())
	}
	kids = append(kids, p.expectKw("for"), p.exprlist(), p.expectKw("in"), p.orTest())
	if it := p.compIter(); it != nil {
		kids = append(kids, it)
	}
	return tree.NewNode(tree.CompFor, kids...)
}

// comp_if: 'if' old_test [comp_iter]
func (p *Parser) compIter() tree.Node {
	switch {
	case p.atCompFor():
		return p.compFor()
	case p.atKw("if"):
		kids := []tree.Node{p.next(), p.oldTest()}
		if it := p.compIter(); it != nil {
			kids = append(kids, it)
		}
		return tree.NewNode(tree.CompIf, kids...)
	}
	return nil
}

// subscriptlist: subscript (',' subscript)* [',']
func (p *Parser) subscriptlist() tree.Node {
	return p.commaList(tree.Subscriptlist, p.subscript, func() bool {
		return !p.at(token.RSqb)
	})
}

// subscript: test | [test] ':' [test] [sliceop]; sliceop: ':' [test]
func (p *Parser) subscript() tree.Node {
	var kids []tree.Node
	if !p.at(token.Colon) {
		t := p.namedexprTestOrStar()
		if !p.at(token.Colon) {
			return t
		}
		kids = append(kids, t)
	}
	kids = append(kids, p.next())
	if p.startsExpr() {
		kids = append(kids, p.test())
	}
	if p.at(token.Colon) {
		so := []tree.Node{p.next()}
		if p.startsExpr() {
			so = append(so, p.test())
		}
		kids = append(kids, node(tree.Sliceop, so))
	}
	return node(tree.Subscript, kids)
}

// dictsetmaker: ( ((test ':' test | '**' expr) (comp_for | (',' (test ':' test | '**' expr))* [','])) |
//
//	((test | star_expr) (comp_for | (',' (test | star_expr))* [','])) )
func (p *Parser) dictsetmaker() tree.Node {
	var kids []tree.Node
	isDict := false
	switch {
	case p.at(token.DoubleStar):
		isDict = true
		kids = append(kids, p.next(), p.expr())
	case p.at(token.Star):
		kids = append(kids, p.starExpr())
	default:
		k := p.test()
		kids = append(kids, k)
		if p.at(token.Colon) {
			isDict = true
			kids = append(kids, p.next(), p.test())
		}
	}
	if p.atCompFor() {
		kids = append(kids, p.compFor())
		return tree.NewNode(tree.Dictsetmaker, kids...)
	}
	for p.at(token.Comma) {
		kids = append(kids, p.next())
		if !p.startsExpr() && !p.at(token.DoubleStar) {
			break
		}
		switch {
		case isDict && p.at(token.DoubleStar):
			kids = append(kids, p.next(), p.expr())
		case isDict:
			kids = append(kids, p.test(), p.colon(), p.test())
		default:
			kids = append(kids, p.testOrStar())
		}
	}
	return node(tree.Dictsetmaker, kids)
}

// arglist: argument (',' argument)* [',']
func (p *Parser) arglist() tree.Node {
	return p.commaList(tree.Arglist, p.argument, func() bool {
		return !p.at(token.RPar)
	})
}

// argument: test [comp_for] | test ':=' test | test '=' test | '**' test | '*' test
func (p *Parser) argument() tree.Node {
	switch p.tok.Kind {
	case token.Star, token.DoubleStar:
		return tree.NewNode(tree.Argument, p.next(), p.test())
	}
	t := p.test()
	switch {
	case p.at(token.Equal), p.at(token.ColonEqual):
		return tree.NewNode(tree.Argument, t, p.next(), p.test())
	case p.atCompFor():
		return tree.NewNode(tree.Argument, t, p.compFor())
	}
	return t
}
