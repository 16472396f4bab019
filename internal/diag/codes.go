package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadIndent          Code = 1003
	LexBadNumber          Code = 1004
	LexUnexpectedEOF      Code = 1005

	// Парсерные
	SynError             Code = 2000
	SynUnexpectedToken   Code = 2001
	SynUnclosedDelimiter Code = 2002
	SynExpectNewline     Code = 2003
	SynExpectIndent      Code = 2004
	SynExpectExpression  Code = 2005
	SynExpectColon       Code = 2006

	// Шаблоны и регистрация фиксеров
	PatSyntax           Code = 3001
	FixDuplicateName    Code = 3101
	FixUnknownName      Code = 3102
	FixRuleInvalid      Code = 3103
	FixExplicitSelected Code = 3104

	// Переписывание
	RwTransformFailed Code = 4001
	RwPrefixLost      Code = 4002

	// Драйвер
	DrvIterationLimit Code = 5001
	DrvParseFailed    Code = 5002
	DrvCacheError     Code = 5003

	// Ввод-вывод
	IOLoadFileError  Code = 6001
	IOWriteFileError Code = 6002
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	LexInfo:               "Lexical information",
	LexUnknownChar:        "Unknown character",
	LexUnterminatedString: "Unterminated string literal",
	LexBadIndent:          "Inconsistent indentation",
	LexBadNumber:          "Malformed number literal",
	LexUnexpectedEOF:      "Unexpected end of file",
	SynError:              "Syntax error",
	SynUnexpectedToken:    "Unexpected token",
	SynUnclosedDelimiter:  "Unclosed delimiter",
	SynExpectNewline:      "Expected end of statement",
	SynExpectIndent:       "Expected an indented block",
	SynExpectExpression:   "Expected expression",
	SynExpectColon:        "Expected ':'",
	PatSyntax:             "Pattern syntax error",
	FixDuplicateName:      "Duplicate fixer name",
	FixUnknownName:        "Unknown fixer",
	FixRuleInvalid:        "Invalid rule definition",
	FixExplicitSelected:   "Explicit fixer selected",
	RwTransformFailed:     "Transform failed",
	RwPrefixLost:          "Replacement dropped formatting",
	DrvIterationLimit:     "Fixed point not reached",
	DrvParseFailed:        "File could not be parsed",
	DrvCacheError:         "Result cache unavailable",
	IOLoadFileError:       "I/O load file error",
	IOWriteFileError:      "I/O write file error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 3100:
		return fmt.Sprintf("PAT%04d", ic)
	case ic >= 3100 && ic < 4000:
		return fmt.Sprintf("FIX%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("RW%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("DRV%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
