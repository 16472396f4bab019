package parser

import (
	"pyfix/internal/diag"
	"pyfix/internal/token"
	"pyfix/internal/tree"
)

func (p *Parser) colon() *tree.Leaf {
	return p.expect(token.Colon, diag.SynExpectColon, "':'")
}

// suite: simple_stmt | NEWLINE INDENT stmt+ DEDENT
func (p *Parser) suite() tree.Node {
	if !p.at(token.Newline) {
		return p.simpleStmt()
	}
	kids := []tree.Node{p.next()}
	kids = append(kids, p.expect(token.Indent, diag.SynExpectIndent, "an indented block"))
	for !p.at(token.Dedent) && !p.at(token.EndMarker) {
		kids = append(kids, p.stmt())
	}
	kids = append(kids, p.expect(token.Dedent, diag.SynUnexpectedToken, "dedent"))
	return tree.NewNode(tree.Suite, kids...)
}

// elseClause appends 'else' ':' suite when present.
func (p *Parser) elseClause(kids []tree.Node) []tree.Node {
	if p.atKw("else") {
		kids = append(kids, p.next(), p.colon(), p.suite())
	}
	return kids
}

// if_stmt: 'if' namedexpr_test ':' suite ('elif' namedexpr_test ':' suite)* ['else' ':' suite]
func (p *Parser) ifStmt() tree.Node {
	kids := []tree.Node{p.next(), p.namedexprTest(), p.colon(), p.suite()}
	for p.atKw("elif") {
		kids = append(kids, p.next(), p.namedexprTest(), p.colon(), p.suite())
	}
	return tree.NewNode(tree.IfStmt, p.elseClause(kids)...)
}

func (p *Parser) whileStmt() tree.Node {
	kids := []tree.Node{p.next(), p.namedexprTest(), p.colon(), p.suite()}
	return tree.NewNode(tree.WhileStmt, p.elseClause(kids)...)
}

// for_stmt: 'for' exprlist 'in' testlist ':' suite ['else' ':' suite]
func (p *Parser) forStmt() tree.Node {
	kids := []tree.Node{p.next(), p.exprlist(), p.expectKw("in"), p.testlist(), p.colon(), p.suite()}
	return tree.NewNode(tree.ForStmt, p.elseClause(kids)...)
}

// try_stmt: 'try' ':' suite ((except_clause ':' suite)+ ['else' ':' suite]
//
//	['finally' ':' suite] | 'finally' ':' suite)
func (p *Parser) tryStmt() tree.Node {
	kids := []tree.Node{p.next(), p.colon(), p.suite()}
	handlers := 0
	for p.atKw("except") {
		kids = append(kids, p.exceptClause(), p.colon(), p.suite())
		handlers++
	}
	if handlers > 0 {
		kids = p.elseClause(kids)
	}
	if p.atKw("finally") {
		kids = append(kids, p.next(), p.colon(), p.suite())
	} else if handlers == 0 {
		p.fail(diag.SynUnexpectedToken, "expected 'except' or 'finally' block")
	}
	return tree.NewNode(tree.TryStmt, kids...)
}

// except_clause: 'except' [test [(',' | 'as') test]]
func (p *Parser) exceptClause() tree.Node {
	kids := []tree.Node{p.next()}
	if p.at(token.Colon) {
		return kids[0]
	}
	kids = append(kids, p.test())
	if p.at(token.Comma) || p.atKw("as") {
		kids = append(kids, p.next(), p.test())
	}
	return node(tree.ExceptClause, kids)
}

// with_stmt: 'with' test ['as' expr] (',' test ['as' expr])* ':' suite
func (p *Parser) withStmt() tree.Node {
	kids := []tree.Node{p.next()}
	for {
		kids = append(kids, p.test())
		if p.atKw("as") {
			kids = append(kids, p.next(), p.expr())
		}
		if !p.at(token.Comma) {
			break
		}
		kids = append(kids, p.next())
	}
	kids = append(kids, p.colon(), p.suite())
	return tree.NewNode(tree.WithStmt, kids...)
}

// funcdef: 'def' NAME parameters ['->' test] ':' suite
func (p *Parser) funcdef() tree.Node {
	kids := []tree.Node{p.next(), p.expectName(), p.parameters()}
	if p.at(token.RArrow) {
		kids = append(kids, p.next(), p.test())
	}
	kids = append(kids, p.colon(), p.suite())
	return tree.NewNode(tree.Funcdef, kids...)
}

// parameters: '(' [typedargslist] ')'
func (p *Parser) parameters() tree.Node {
	kids := []tree.Node{p.expect(token.LPar, diag.SynUnexpectedToken, "'('")}
	if !p.at(token.RPar) {
		kids = append(kids, p.argsList(tree.Typedargslist, true, token.RPar))
	}
	kids = append(kids, p.expect(token.RPar, diag.SynUnclosedDelimiter, "')'"))
	return tree.NewNode(tree.Parameters, kids...)
}

// argsList covers typedargslist and varargslist: parameters with optional
// defaults, '*' / '**' markers and the positional-only '/'.
func (p *Parser) argsList(t tree.Type, typed bool, end token.Kind) tree.Node {
	var kids []tree.Node
	for {
		switch {
		case p.at(token.Star):
			kids = append(kids, p.next())
			if p.tok.Kind == token.Name {
				kids = append(kids, p.param(typed))
			}
		case p.at(token.DoubleStar):
			kids = append(kids, p.next(), p.param(typed))
		case p.at(token.Slash):
			kids = append(kids, p.next())
		default:
			kids = append(kids, p.param(typed))
			if p.at(token.Equal) {
				kids = append(kids, p.next(), p.test())
			}
		}
		if !p.at(token.Comma) {
			break
		}
		kids = append(kids, p.next())
		if p.at(end) {
			break
		}
	}
	return node(t, kids)
}

// tname: NAME [':' test]
func (p *Parser) param(typed bool) tree.Node {
	name := p.expectName()
	if typed && p.at(token.Colon) {
		return tree.NewNode(tree.Tname, name, p.next(), p.test())
	}
	return name
}

// classdef: 'class' NAME ['(' [arglist] ')'] ':' suite
func (p *Parser) classdef() tree.Node {
	kids := []tree.Node{p.next(), p.expectName()}
	if p.at(token.LPar) {
		kids = append(kids, p.next())
		if !p.at(token.RPar) {
			kids = append(kids, p.arglist())
		}
		kids = append(kids, p.expect(token.RPar, diag.SynUnclosedDelimiter, "')'"))
	}
	kids = append(kids, p.colon(), p.suite())
	return tree.NewNode(tree.Classdef, kids...)
}

// decorated: decorators (classdef | funcdef | async_funcdef)
func (p *Parser) decorated() tree.Node {
	var decos []tree.Node
	for p.at(token.At) {
		decos = append(decos, tree.NewNode(tree.Decorator,
			p.next(), p.namedexprTest(),
			p.expect(token.Newline, diag.SynExpectNewline, "end of line after decorator")))
	}
	var def tree.Node
	switch {
	case p.atKw("def"):
		def = p.funcdef()
	case p.atKw("class"):
		def = p.classdef()
	case p.atKw("async") && p.peek().IsName("def"):
		def = p.asyncStmt()
	default:
		p.fail(diag.SynUnexpectedToken, "expected 'def' or 'class' after decorator, found "+p.describe())
	}
	return tree.NewNode(tree.Decorated, node(tree.Decorators, decos), def)
}

// async_stmt: 'async' (funcdef | with_stmt | for_stmt)
func (p *Parser) asyncStmt() tree.Node {
	kw := p.next()
	var body tree.Node
	switch {
	case p.atKw("def"):
		body = p.funcdef()
	case p.atKw("with"):
		body = p.withStmt()
	default:
		body = p.forStmt()
	}
	return tree.NewNode(tree.AsyncStmt, kw, body)
}
