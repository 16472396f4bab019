package token

// keywords covers Python 2 and Python 3 so both dialects tokenize alike.
var keywords = map[string]struct{}{
	"and": {}, "as": {}, "assert": {}, "async": {}, "await": {}, "break": {},
	"class": {}, "continue": {}, "def": {}, "del": {}, "elif": {}, "else": {},
	"except": {}, "exec": {}, "finally": {}, "for": {}, "from": {}, "global": {},
	"if": {}, "import": {}, "in": {}, "is": {}, "lambda": {}, "nonlocal": {},
	"not": {}, "or": {}, "pass": {}, "print": {}, "raise": {}, "return": {},
	"try": {}, "while": {}, "with": {}, "yield": {},
}

// IsKeyword reports whether text is a reserved word in either dialect.
// "print" and "exec" are included; the parser still accepts them as names
// in call position, matching the print_function grammar.
func IsKeyword(text string) bool {
	_, ok := keywords[text]
	return ok
}
