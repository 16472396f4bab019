package token

// Kind represents the category of a source token.
// Names follow the classic Python tokenizer so patterns can say NAME, SLASH...
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EndMarker marks the end of input; its prefix carries trailing trivia.
	EndMarker
	Name
	Number
	String
	Newline
	Indent
	Dedent
	LPar
	RPar
	LSqb
	RSqb
	Colon
	Comma
	Semi
	Plus
	Minus
	Star
	Slash
	VBar
	Amper
	Less
	Greater
	Equal
	Dot
	Percent
	Backquote
	LBrace
	RBrace
	EqEqual
	NotEqual // != and <>
	LessEqual
	GreaterEqual
	Tilde
	Circumflex
	LeftShift
	RightShift
	DoubleStar
	PlusEqual
	MinEqual
	StarEqual
	SlashEqual
	PercentEqual
	AmperEqual
	VBarEqual
	CircumflexEqual
	LeftShiftEqual
	RightShiftEqual
	DoubleStarEqual
	DoubleSlash
	DoubleSlashEqual
	At
	AtEqual
	RArrow
	ColonEqual
	ErrorToken

	// NumKinds is the number of token kinds; tree types below it are tokens.
	NumKinds
)

var kindNames = [...]string{
	Invalid:          "INVALID",
	EndMarker:        "ENDMARKER",
	Name:             "NAME",
	Number:           "NUMBER",
	String:           "STRING",
	Newline:          "NEWLINE",
	Indent:           "INDENT",
	Dedent:           "DEDENT",
	LPar:             "LPAR",
	RPar:             "RPAR",
	LSqb:             "LSQB",
	RSqb:             "RSQB",
	Colon:            "COLON",
	Comma:            "COMMA",
	Semi:             "SEMI",
	Plus:             "PLUS",
	Minus:            "MINUS",
	Star:             "STAR",
	Slash:            "SLASH",
	VBar:             "VBAR",
	Amper:            "AMPER",
	Less:             "LESS",
	Greater:          "GREATER",
	Equal:            "EQUAL",
	Dot:              "DOT",
	Percent:          "PERCENT",
	Backquote:        "BACKQUOTE",
	LBrace:           "LBRACE",
	RBrace:           "RBRACE",
	EqEqual:          "EQEQUAL",
	NotEqual:         "NOTEQUAL",
	LessEqual:        "LESSEQUAL",
	GreaterEqual:     "GREATEREQUAL",
	Tilde:            "TILDE",
	Circumflex:       "CIRCUMFLEX",
	LeftShift:        "LEFTSHIFT",
	RightShift:       "RIGHTSHIFT",
	DoubleStar:       "DOUBLESTAR",
	PlusEqual:        "PLUSEQUAL",
	MinEqual:         "MINEQUAL",
	StarEqual:        "STAREQUAL",
	SlashEqual:       "SLASHEQUAL",
	PercentEqual:     "PERCENTEQUAL",
	AmperEqual:       "AMPEREQUAL",
	VBarEqual:        "VBAREQUAL",
	CircumflexEqual:  "CIRCUMFLEXEQUAL",
	LeftShiftEqual:   "LEFTSHIFTEQUAL",
	RightShiftEqual:  "RIGHTSHIFTEQUAL",
	DoubleStarEqual:  "DOUBLESTAREQUAL",
	DoubleSlash:      "DOUBLESLASH",
	DoubleSlashEqual: "DOUBLESLASHEQUAL",
	At:               "AT",
	AtEqual:          "ATEQUAL",
	RArrow:           "RARROW",
	ColonEqual:       "COLONEQUAL",
	ErrorToken:       "ERRORTOKEN",
}

// String returns the tokenizer name of the kind, e.g. "SLASH".
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// KindByName resolves a tokenizer name such as "NAME" or "DOUBLESLASH".
func KindByName(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for i, n := range kindNames {
		if n != "" {
			m[n] = Kind(i) //nolint:gosec // len(kindNames) < 256
		}
	}
	return m
}()

// operators maps operator text to its kind. Longest match wins in the lexer.
var operators = map[string]Kind{
	"(": LPar, ")": RPar, "[": LSqb, "]": RSqb, "{": LBrace, "}": RBrace,
	":": Colon, ",": Comma, ";": Semi, "+": Plus, "-": Minus, "*": Star,
	"/": Slash, "|": VBar, "&": Amper, "<": Less, ">": Greater, "=": Equal,
	".": Dot, "%": Percent, "`": Backquote, "~": Tilde, "^": Circumflex, "@": At,
	"==": EqEqual, "!=": NotEqual, "<>": NotEqual, "<=": LessEqual, ">=": GreaterEqual,
	"<<": LeftShift, ">>": RightShift, "**": DoubleStar, "+=": PlusEqual,
	"-=": MinEqual, "*=": StarEqual, "/=": SlashEqual, "%=": PercentEqual,
	"&=": AmperEqual, "|=": VBarEqual, "^=": CircumflexEqual, "//": DoubleSlash,
	"@=": AtEqual, "->": RArrow, ":=": ColonEqual,
	"<<=": LeftShiftEqual, ">>=": RightShiftEqual, "**=": DoubleStarEqual,
	"//=": DoubleSlashEqual,
}

// LookupOperator returns the kind of an operator or delimiter text.
func LookupOperator(text string) (Kind, bool) {
	k, ok := operators[text]
	return k, ok
}

// IsOperator reports whether k is an operator or delimiter.
func (k Kind) IsOperator() bool {
	return k >= LPar && k <= ColonEqual
}
