package parser

import (
	"fmt"

	"pyfix/internal/diag"
	"pyfix/internal/lexer"
	"pyfix/internal/source"
	"pyfix/internal/token"
	"pyfix/internal/tree"
)

type Options struct {
	Reporter diag.Reporter // может быть nil
	TabSize  int
}

// SyntaxError is returned for input the parser cannot turn into a tree.
// Line and Column are 1-based.
type SyntaxError struct {
	Path   string
	Line   int
	Column int
	Msg    string
	Span   source.Span
}

func (e *SyntaxError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Msg)
}

// Parser: состояние парсера на один файл
type Parser struct {
	file   *source.File
	lx     *lexer.Lexer
	tok    token.Token // текущий токен, ещё не съеденный
	opts   Options
	lexErr *SyntaxError
}

// bailout unwinds the recursive descent on the first error.
type bailout struct{ err *SyntaxError }

// ParseFile parses a whole module. The result is a file_input node whose
// String() equals the file content.
func ParseFile(file *source.File, opts Options) (root tree.Node, err error) {
	p := newParser(file, opts)
	defer p.recover(&err)
	root = p.fileInput()
	if p.lexErr != nil {
		return nil, p.lexErr
	}
	return root, nil
}

// ParseString parses src as a module registered under name.
func ParseString(name, src string) (tree.Node, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(src))
	return ParseFile(fs.Get(id), Options{})
}

// ParseExpr parses a single expression (a testlist, so "a, b" is accepted)
// and returns it detached from any statement.
func ParseExpr(src string) (expr tree.Node, err error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<expr>", []byte(src))
	p := newParser(fs.Get(id), Options{})
	defer p.recover(&err)
	expr = p.testlistStarExpr()
	if p.at(token.Newline) {
		p.next()
	}
	if !p.at(token.EndMarker) {
		p.fail(diag.SynUnexpectedToken, "unexpected "+p.describe()+" after expression")
	}
	if p.lexErr != nil {
		return nil, p.lexErr
	}
	return expr, nil
}

func newParser(file *source.File, opts Options) *Parser {
	p := &Parser{file: file, opts: opts}
	p.lx = lexer.New(file, lexer.Options{Reporter: lexReporter{p}, TabSize: opts.TabSize})
	p.tok = p.lx.Next()
	return p
}

func (p *Parser) recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	b, ok := r.(bailout)
	if !ok {
		panic(r)
	}
	*err = b.err
}

// lexReporter forwards lexer diagnostics and remembers the first error,
// which takes precedence over whatever the parser trips on afterwards.
type lexReporter struct{ p *Parser }

func (r lexReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	if r.p.opts.Reporter != nil {
		r.p.opts.Reporter.Report(code, sev, primary, msg, notes)
	}
	if sev == diag.SevError && r.p.lexErr == nil {
		r.p.lexErr = r.p.syntaxError(primary, msg)
	}
}

func (p *Parser) syntaxError(sp source.Span, msg string) *SyntaxError {
	pos := p.file.Position(sp.Start)
	return &SyntaxError{
		Path:   p.file.Path,
		Line:   int(pos.Line),
		Column: int(pos.Col),
		Msg:    msg,
		Span:   sp,
	}
}

// fail reports at the current token and aborts the parse.
func (p *Parser) fail(code diag.Code, msg string) {
	if p.lexErr != nil {
		panic(bailout{p.lexErr})
	}
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(code, diag.SevError, p.tok.Span, msg, nil)
	}
	panic(bailout{p.syntaxError(p.tok.Span, msg)})
}

func (p *Parser) describe() string {
	switch p.tok.Kind {
	case token.Newline:
		if p.tok.Text == "" {
			return "end of file"
		}
		return "end of line"
	case token.EndMarker:
		return "end of file"
	case token.Indent:
		return "indent"
	case token.Dedent:
		return "dedent"
	}
	return fmt.Sprintf("%q", p.tok.Text)
}
