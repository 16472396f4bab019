package tree

import (
	"fmt"

	"pyfix/internal/token"
)

// Type identifies a node. Values below FirstSymbol are token kinds.
type Type uint16

// FirstSymbol is the first grammar symbol type.
const FirstSymbol Type = 256

// Grammar symbols, named after the classic Python grammar.
const (
	FileInput Type = FirstSymbol + iota
	SimpleStmt
	ExprStmt
	AnnAssign
	PrintStmt
	DelStmt
	PassStmt
	BreakStmt
	ContinueStmt
	ReturnStmt
	RaiseStmt
	YieldExpr
	YieldArg
	ImportName
	ImportFrom
	ImportAsName
	ImportAsNames
	DottedAsName
	DottedAsNames
	DottedName
	GlobalStmt
	ExecStmt
	AssertStmt
	IfStmt
	WhileStmt
	ForStmt
	TryStmt
	WithStmt
	AsyncStmt
	ExceptClause
	Suite
	Funcdef
	Parameters
	Typedargslist
	Tname
	Classdef
	Decorator
	Decorators
	Decorated
	Test
	Lambdef
	Varargslist
	OrTest
	AndTest
	NotTest
	Comparison
	CompOp
	Expr
	XorExpr
	AndExpr
	ShiftExpr
	ArithExpr
	Term
	Factor
	Power
	Trailer
	Atom
	Listmaker
	TestlistGexp
	Testlist
	TestlistStarExpr
	Exprlist
	Subscriptlist
	Subscript
	Sliceop
	Dictsetmaker
	Arglist
	Argument
	CompFor
	CompIf
	OldTest
	OldLambdef
	StarExpr
	NamedExpr
	AugAssign

	lastSymbol
)

var symbolNames = [...]string{
	FileInput - FirstSymbol:        "file_input",
	SimpleStmt - FirstSymbol:       "simple_stmt",
	ExprStmt - FirstSymbol:         "expr_stmt",
	AnnAssign - FirstSymbol:        "annassign",
	PrintStmt - FirstSymbol:        "print_stmt",
	DelStmt - FirstSymbol:          "del_stmt",
	PassStmt - FirstSymbol:         "pass_stmt",
	BreakStmt - FirstSymbol:        "break_stmt",
	ContinueStmt - FirstSymbol:     "continue_stmt",
	ReturnStmt - FirstSymbol:       "return_stmt",
	RaiseStmt - FirstSymbol:        "raise_stmt",
	YieldExpr - FirstSymbol:        "yield_expr",
	YieldArg - FirstSymbol:         "yield_arg",
	ImportName - FirstSymbol:       "import_name",
	ImportFrom - FirstSymbol:       "import_from",
	ImportAsName - FirstSymbol:     "import_as_name",
	ImportAsNames - FirstSymbol:    "import_as_names",
	DottedAsName - FirstSymbol:     "dotted_as_name",
	DottedAsNames - FirstSymbol:    "dotted_as_names",
	DottedName - FirstSymbol:       "dotted_name",
	GlobalStmt - FirstSymbol:       "global_stmt",
	ExecStmt - FirstSymbol:         "exec_stmt",
	AssertStmt - FirstSymbol:       "assert_stmt",
	IfStmt - FirstSymbol:           "if_stmt",
	WhileStmt - FirstSymbol:        "while_stmt",
	ForStmt - FirstSymbol:          "for_stmt",
	TryStmt - FirstSymbol:          "try_stmt",
	WithStmt - FirstSymbol:         "with_stmt",
	AsyncStmt - FirstSymbol:        "async_stmt",
	ExceptClause - FirstSymbol:     "except_clause",
	Suite - FirstSymbol:            "suite",
	Funcdef - FirstSymbol:          "funcdef",
	Parameters - FirstSymbol:       "parameters",
	Typedargslist - FirstSymbol:    "typedargslist",
	Tname - FirstSymbol:            "tname",
	Classdef - FirstSymbol:         "classdef",
	Decorator - FirstSymbol:        "decorator",
	Decorators - FirstSymbol:       "decorators",
	Decorated - FirstSymbol:        "decorated",
	Test - FirstSymbol:             "test",
	Lambdef - FirstSymbol:          "lambdef",
	Varargslist - FirstSymbol:      "varargslist",
	OrTest - FirstSymbol:           "or_test",
	AndTest - FirstSymbol:          "and_test",
	NotTest - FirstSymbol:          "not_test",
	Comparison - FirstSymbol:       "comparison",
	CompOp - FirstSymbol:           "comp_op",
	Expr - FirstSymbol:             "expr",
	XorExpr - FirstSymbol:          "xor_expr",
	AndExpr - FirstSymbol:          "and_expr",
	ShiftExpr - FirstSymbol:        "shift_expr",
	ArithExpr - FirstSymbol:        "arith_expr",
	Term - FirstSymbol:             "term",
	Factor - FirstSymbol:           "factor",
	Power - FirstSymbol:            "power",
	Trailer - FirstSymbol:          "trailer",
	Atom - FirstSymbol:             "atom",
	Listmaker - FirstSymbol:        "listmaker",
	TestlistGexp - FirstSymbol:     "testlist_gexp",
	Testlist - FirstSymbol:         "testlist",
	TestlistStarExpr - FirstSymbol: "testlist_star_expr",
	Exprlist - FirstSymbol:         "exprlist",
	Subscriptlist - FirstSymbol:    "subscriptlist",
	Subscript - FirstSymbol:        "subscript",
	Sliceop - FirstSymbol:          "sliceop",
	Dictsetmaker - FirstSymbol:     "dictsetmaker",
	Arglist - FirstSymbol:          "arglist",
	Argument - FirstSymbol:         "argument",
	CompFor - FirstSymbol:          "comp_for",
	CompIf - FirstSymbol:           "comp_if",
	OldTest - FirstSymbol:          "old_test",
	OldLambdef - FirstSymbol:       "old_lambdef",
	StarExpr - FirstSymbol:         "star_expr",
	NamedExpr - FirstSymbol:        "namedexpr_test",
	AugAssign - FirstSymbol:        "augassign",
}

// NumTypes is an upper bound on Type values, used to size bitsets.
const NumTypes = int(lastSymbol)

// IsToken reports whether t is a token kind.
func (t Type) IsToken() bool { return t < FirstSymbol }

// Token returns the token kind of a leaf type.
func (t Type) Token() token.Kind {
	if !t.IsToken() {
		return token.Invalid
	}
	return token.Kind(t) //nolint:gosec // checked above
}

// TokenType converts a token kind to a tree type.
func TokenType(k token.Kind) Type { return Type(k) }

func (t Type) String() string {
	if t.IsToken() {
		return t.Token().String()
	}
	if i := int(t - FirstSymbol); i < len(symbolNames) && symbolNames[i] != "" {
		return symbolNames[i]
	}
	return fmt.Sprintf("type(%d)", uint16(t))
}

var symbolByName = func() map[string]Type {
	m := make(map[string]Type, len(symbolNames))
	for i, n := range symbolNames {
		m[n] = FirstSymbol + Type(i) //nolint:gosec // small table
	}
	return m
}()

// TypeByName resolves "NAME", "SLASH" or "power".
func TypeByName(name string) (Type, bool) {
	if k, ok := token.KindByName(name); ok {
		return TokenType(k), true
	}
	t, ok := symbolByName[name]
	return t, ok
}
