// Package pattern compiles tree patterns and matches them against nodes.
//
// Grammar:
//
//	pattern  = alt
//	alt      = seq { "|" seq }
//	seq      = unit { unit }
//	unit     = "not" atom | [ NAME "=" ] atom [ repeat ]
//	atom     = STRING | NAME [ "<" alt ">" ] | "(" alt ")" | "[" alt "]"
//	repeat   = "*" | "+" | "{" INT [ "," [ INT ] ] "}"
//
// A STRING matches a leaf by value ('/' or 'print'). An upper-case NAME
// matches a token of that kind, a lower-case NAME a grammar symbol, and
// "any" any single node. kind< ... > additionally requires the children to
// match the inner sequence exactly. Square brackets mean optional.
//
// A compiled *Pattern is immutable and may be shared between goroutines.
package pattern
