package parser

import (
	"pyfix/internal/diag"
	"pyfix/internal/token"
	"pyfix/internal/tree"
)

// file_input: (NEWLINE | stmt)* ENDMARKER
func (p *Parser) fileInput() tree.Node {
	var kids []tree.Node
	for !p.at(token.EndMarker) {
		if p.at(token.Newline) {
			kids = append(kids, p.next())
			continue
		}
		kids = append(kids, p.stmt())
	}
	kids = append(kids, p.next())
	return tree.NewNode(tree.FileInput, kids...)
}

func (p *Parser) stmt() tree.Node {
	switch {
	case p.at(token.Indent):
		p.fail(diag.SynUnexpectedToken, "unexpected indent")
	case p.at(token.At):
		return p.decorated()
	case p.tok.Kind == token.Name:
		switch p.tok.Text {
		case "if":
			return p.ifStmt()
		case "while":
			return p.whileStmt()
		case "for":
			return p.forStmt()
		case "try":
			return p.tryStmt()
		case "with":
			return p.withStmt()
		case "def":
			return p.funcdef()
		case "class":
			return p.classdef()
		case "async":
			if nt := p.peek(); nt.IsName("def") || nt.IsName("with") || nt.IsName("for") {
				return p.asyncStmt()
			}
		}
	}
	return p.simpleStmt()
}

// simple_stmt: small_stmt (';' small_stmt)* [';'] NEWLINE
func (p *Parser) simpleStmt() tree.Node {
	kids := []tree.Node{p.smallStmt()}
	for p.at(token.Semi) {
		kids = append(kids, p.next())
		if p.at(token.Newline) {
			break
		}
		kids = append(kids, p.smallStmt())
	}
	kids = append(kids, p.expect(token.Newline, diag.SynExpectNewline, "end of statement"))
	return tree.NewNode(tree.SimpleStmt, kids...)
}

func (p *Parser) smallStmt() tree.Node {
	if p.tok.Kind == token.Name {
		switch p.tok.Text {
		case "pass", "break", "continue":
			return p.next()
		case "yield":
			return p.yieldExpr()
		case "return":
			return p.returnStmt()
		case "raise":
			return p.raiseStmt()
		case "global", "nonlocal":
			return p.globalStmt()
		case "del":
			return node(tree.DelStmt, []tree.Node{p.next(), p.exprlist()})
		case "import":
			return node(tree.ImportName, []tree.Node{p.next(), p.dottedAsNames()})
		case "from":
			return p.importFrom()
		case "assert":
			return p.assertStmt()
		case "print":
			if p.isStatementForm() {
				return p.printStmt()
			}
		case "exec":
			if p.isStatementForm() {
				return p.execStmt()
			}
		}
	}
	return p.exprStmt()
}

// isStatementForm tells "print x" from "print(x)" and "print = f".
func (p *Parser) isStatementForm() bool {
	nt := p.peek()
	switch nt.Kind {
	case token.Newline, token.Semi, token.EndMarker, token.RightShift:
		return true
	case token.LPar, token.Dot, token.Star:
		return false
	}
	return startsExpr(nt)
}

// expr_stmt: testlist_star_expr (annassign | augassign (yield_expr|testlist) |
//
//	('=' (yield_expr|testlist_star_expr))*)
func (p *Parser) exprStmt() tree.Node {
	kids := []tree.Node{p.testlistStarExpr()}
	switch {
	case p.at(token.Colon):
		ann := []tree.Node{p.next(), p.test()}
		if p.at(token.Equal) {
			ann = append(ann, p.next(), p.test())
		}
		kids = append(kids, tree.NewNode(tree.AnnAssign, ann...))
	case isAugAssign(p.tok.Kind):
		kids = append(kids, p.next())
		if p.atKw("yield") {
			kids = append(kids, p.yieldExpr())
		} else {
			kids = append(kids, p.testlist())
		}
	default:
		for p.at(token.Equal) {
			kids = append(kids, p.next())
			if p.atKw("yield") {
				kids = append(kids, p.yieldExpr())
			} else {
				kids = append(kids, p.testlistStarExpr())
			}
		}
	}
	return node(tree.ExprStmt, kids)
}

// print_stmt: 'print' ( [ test (',' test)* [','] ] |
//
//	'>>' test [ (',' test)+ [','] ] )
func (p *Parser) printStmt() tree.Node {
	kids := []tree.Node{p.next()}
	if p.atStmtEnd() {
		return kids[0]
	}
	if p.at(token.RightShift) {
		kids = append(kids, p.next())
	}
	kids = append(kids, p.test())
	for p.at(token.Comma) {
		kids = append(kids, p.next())
		if p.atStmtEnd() {
			break
		}
		kids = append(kids, p.test())
	}
	return node(tree.PrintStmt, kids)
}

// exec_stmt: 'exec' expr ['in' test [',' test]]
func (p *Parser) execStmt() tree.Node {
	kids := []tree.Node{p.next(), p.expr()}
	if p.atKw("in") {
		kids = append(kids, p.next(), p.test())
		if p.at(token.Comma) {
			kids = append(kids, p.next(), p.test())
		}
	}
	return node(tree.ExecStmt, kids)
}

func (p *Parser) returnStmt() tree.Node {
	kids := []tree.Node{p.next()}
	if !p.atStmtEnd() {
		kids = append(kids, p.testlistStarExpr())
	}
	return node(tree.ReturnStmt, kids)
}

// raise_stmt: 'raise' [test ['from' test | ',' test [',' test]]]
func (p *Parser) raiseStmt() tree.Node {
	kids := []tree.Node{p.next()}
	if p.atStmtEnd() {
		return kids[0]
	}
	kids = append(kids, p.test())
	switch {
	case p.atKw("from"):
		kids = append(kids, p.next(), p.test())
	case p.at(token.Comma):
		kids = append(kids, p.next(), p.test())
		if p.at(token.Comma) {
			kids = append(kids, p.next(), p.test())
		}
	}
	return node(tree.RaiseStmt, kids)
}

func (p *Parser) globalStmt() tree.Node {
	kids := []tree.Node{p.next(), p.expectName()}
	for p.at(token.Comma) {
		kids = append(kids, p.next(), p.expectName())
	}
	return node(tree.GlobalStmt, kids)
}

func (p *Parser) assertStmt() tree.Node {
	kids := []tree.Node{p.next(), p.test()}
	if p.at(token.Comma) {
		kids = append(kids, p.next(), p.test())
	}
	return node(tree.AssertStmt, kids)
}

// dotted_name: NAME ('.' NAME)*
func (p *Parser) dottedName() tree.Node {
	kids := []tree.Node{p.expectName()}
	for p.at(token.Dot) {
		kids = append(kids, p.next(), p.expectName())
	}
	return node(tree.DottedName, kids)
}

// dotted_as_names: dotted_as_name (',' dotted_as_name)*
func (p *Parser) dottedAsNames() tree.Node {
	elem := func() tree.Node {
		kids := []tree.Node{p.dottedName()}
		if p.atKw("as") {
			kids = append(kids, p.next(), p.expectName())
		}
		return node(tree.DottedAsName, kids)
	}
	kids := []tree.Node{elem()}
	for p.at(token.Comma) {
		kids = append(kids, p.next(), elem())
	}
	return node(tree.DottedAsNames, kids)
}

// import_from: 'from' ('.'* dotted_name | '.'+) 'import'
//
//	('*' | '(' import_as_names ')' | import_as_names)
func (p *Parser) importFrom() tree.Node {
	kids := []tree.Node{p.next()}
	dots := 0
	for p.at(token.Dot) {
		kids = append(kids, p.next())
		dots++
	}
	if dots == 0 || !p.atKw("import") {
		kids = append(kids, p.dottedName())
	}
	kids = append(kids, p.expectKw("import"))
	switch {
	case p.at(token.Star):
		kids = append(kids, p.next())
	case p.at(token.LPar):
		kids = append(kids, p.next(), p.importAsNames())
		kids = append(kids, p.expect(token.RPar, diag.SynUnclosedDelimiter, "')'"))
	default:
		kids = append(kids, p.importAsNames())
	}
	return tree.NewNode(tree.ImportFrom, kids...)
}

// import_as_names: import_as_name (',' import_as_name)* [',']
func (p *Parser) importAsNames() tree.Node {
	elem := func() tree.Node {
		kids := []tree.Node{p.expectName()}
		if p.atKw("as") {
			kids = append(kids, p.next(), p.expectName())
		}
		return node(tree.ImportAsName, kids)
	}
	return p.commaList(tree.ImportAsNames, elem, func() bool { return p.tok.Kind == token.Name })
}
