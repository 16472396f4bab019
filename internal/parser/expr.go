package parser

import (
	"pyfix/internal/diag"
	"pyfix/internal/token"
	"pyfix/internal/tree"
)

// testlist_star_expr: (test|star_expr) (',' (test|star_expr))* [',']
func (p *Parser) testlistStarExpr() tree.Node {
	return p.commaList(tree.TestlistStarExpr, p.testOrStar, p.startsExpr)
}

// testlist: test (',' test)* [',']
func (p *Parser) testlist() tree.Node {
	return p.commaList(tree.Testlist, p.test, p.startsExpr)
}

// exprlist: (expr|star_expr) (',' (expr|star_expr))* [',']
func (p *Parser) exprlist() tree.Node {
	elem := func() tree.Node {
		if p.at(token.Star) {
			return p.starExpr()
		}
		return p.expr()
	}
	return p.commaList(tree.Exprlist, elem, p.startsExpr)
}

func (p *Parser) testOrStar() tree.Node {
	if p.at(token.Star) {
		return p.starExpr()
	}
	return p.test()
}

func (p *Parser) namedexprTestOrStar() tree.Node {
	if p.at(token.Star) {
		return p.starExpr()
	}
	return p.namedexprTest()
}

// star_expr: '*' expr
func (p *Parser) starExpr() tree.Node {
	return tree.NewNode(tree.StarExpr, p.next(), p.expr())
}

// namedexpr_test: test [':=' test]
func (p *Parser) namedexprTest() tree.Node {
	t := p.test()
	if p.at(token.ColonEqual) {
		return tree.NewNode(tree.NamedExpr, t, p.next(), p.test())
	}
	return t
}

// test: or_test ['if' or_test 'else' test] | lambdef
func (p *Parser) test() tree.Node {
	if p.atKw("lambda") {
		return p.lambdef()
	}
	cond := p.orTest()
	if !p.atKw("if") {
		return cond
	}
	return tree.NewNode(tree.Test, cond, p.next(), p.orTest(), p.expectKw("else"), p.test())
}

// old_test: or_test | old_lambdef
func (p *Parser) oldTest() tree.Node {
	if p.atKw("lambda") {
		kids := []tree.Node{p.next()}
		if !p.at(token.Colon) {
			kids = append(kids, p.argsList(tree.Varargslist, false, token.Colon))
		}
		kids = append(kids, p.colon(), p.oldTest())
		return tree.NewNode(tree.OldLambdef, kids...)
	}
	return p.orTest()
}

// lambdef: 'lambda' [varargslist] ':' test
func (p *Parser) lambdef() tree.Node {
	kids := []tree.Node{p.next()}
	if !p.at(token.Colon) {
		kids = append(kids, p.argsList(tree.Varargslist, false, token.Colon))
	}
	kids = append(kids, p.colon(), p.test())
	return tree.NewNode(tree.Lambdef, kids...)
}

func (p *Parser) orTest() tree.Node {
	kids := []tree.Node{p.andTest()}
	for p.atKw("or") {
		kids = append(kids, p.next(), p.andTest())
	}
	return node(tree.OrTest, kids)
}

func (p *Parser) andTest() tree.Node {
	kids := []tree.Node{p.notTest()}
	for p.atKw("and") {
		kids = append(kids, p.next(), p.notTest())
	}
	return node(tree.AndTest, kids)
}

func (p *Parser) notTest() tree.Node {
	if p.atKw("not") {
		return tree.NewNode(tree.NotTest, p.next(), p.notTest())
	}
	return p.comparison()
}

// comparison: expr (comp_op expr)*
func (p *Parser) comparison() tree.Node {
	kids := []tree.Node{p.expr()}
	for {
		op := p.compOp()
		if op == nil {
			break
		}
		kids = append(kids, op, p.expr())
	}
	return node(tree.Comparison, kids)
}

// comp_op: '<'|'>'|'=='|'>='|'<='|'<>'|'!='|'in'|'not' 'in'|'is'|'is' 'not'
func (p *Parser) compOp() tree.Node {
	switch p.tok.Kind {
	case token.Less, token.Greater, token.EqEqual, token.GreaterEqual, token.LessEqual, token.NotEqual:
		return p.next()
	case token.Name:
		switch p.tok.Text {
		case "in":
			return p.next()
		case "not":
			if p.peek().IsName("in") {
				return tree.NewNode(tree.CompOp, p.next(), p.next())
			}
		case "is":
			is := p.next()
			if p.atKw("not") {
				return tree.NewNode(tree.CompOp, is, p.next())
			}
			return is
		}
	}
	return nil
}

// binary parses a left-flat chain: sub (op sub)*.
func (p *Parser) binary(t tree.Type, sub func() tree.Node, ops ...token.Kind) tree.Node {
	kids := []tree.Node{sub()}
	for p.atAny(ops) {
		kids = append(kids, p.next(), sub())
	}
	return node(t, kids)
}

func (p *Parser) atAny(kinds []token.Kind) bool {
	for _, k := range kinds {
		if p.tok.Kind == k {
			return true
		}
	}
	return false
}

func (p *Parser) expr() tree.Node {
	return p.binary(tree.Expr, p.xorExpr, token.VBar)
}

func (p *Parser) xorExpr() tree.Node {
	return p.binary(tree.XorExpr, p.andExpr, token.Circumflex)
}

func (p *Parser) andExpr() tree.Node {
	return p.binary(tree.AndExpr, p.shiftExpr, token.Amper)
}

func (p *Parser) shiftExpr() tree.Node {
	return p.binary(tree.ShiftExpr, p.arithExpr, token.LeftShift, token.RightShift)
}

func (p *Parser) arithExpr() tree.Node {
	return p.binary(tree.ArithExpr, p.term, token.Plus, token.Minus)
}

func (p *Parser) term() tree.Node {
	return p.binary(tree.Term, p.factor, token.Star, token.Slash, token.Percent, token.DoubleSlash, token.At)
}

// factor: ('+'|'-'|'~') factor | power
func (p *Parser) factor() tree.Node {
	switch p.tok.Kind {
	case token.Plus, token.Minus, token.Tilde:
		return tree.NewNode(tree.Factor, p.next(), p.factor())
	}
	return p.power()
}

// power: ['await'] atom trailer* ['**' factor]
func (p *Parser) power() tree.Node {
	var kids []tree.Node
	if p.atKw("await") && startsExpr(p.peek()) {
		kids = append(kids, p.next())
	}
	kids = append(kids, p.atom())
	for {
		tr := p.trailer()
		if tr == nil {
			break
		}
		kids = append(kids, tr)
	}
	if p.at(token.DoubleStar) {
		kids = append(kids, p.next(), p.factor())
	}
	return node(tree.Power, kids)
}

// trailer: '(' [arglist] ')' | '[' subscriptlist ']' | '.' NAME
func (p *Parser) trailer() tree.Node {
	switch p.tok.Kind {
	case token.LPar:
		kids := []tree.Node{p.next()}
		if !p.at(token.RPar) {
			kids = append(kids, p.arglist())
		}
		kids = append(kids, p.expect(token.RPar, diag.SynUnclosedDelimiter, "')'"))
		return tree.NewNode(tree.Trailer, kids...)
	case token.LSqb:
		return tree.NewNode(tree.Trailer, p.next(), p.subscriptlist(),
			p.expect(token.RSqb, diag.SynUnclosedDelimiter, "']'"))
	case token.Dot:
		return tree.NewNode(tree.Trailer, p.next(), p.expectName())
	}
	return nil
}

// yield_expr: 'yield' [yield_arg]; yield_arg: 'from' test | testlist_star_expr
func (p *Parser) yieldExpr() tree.Node {
	kids := []tree.Node{p.next()}
	switch {
	case p.atKw("from"):
		kids = append(kids, tree.NewNode(tree.YieldArg, p.next(), p.test()))
	case p.startsExpr():
		kids = append(kids, p.testlistStarExpr())
	}
	return node(tree.YieldExpr, kids)
}
